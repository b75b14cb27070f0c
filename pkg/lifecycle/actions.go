package lifecycle

import "legal-document-manager/pkg/domain"

// ActionSet son las acciones visibles para un documento.
type ActionSet struct {
	Edit              bool
	Publish           bool
	Unpublish         bool
	Start             bool
	Complete          bool
	RequestSignatures bool
	Sign              bool
	Reject            bool
	Preview           bool
	Download          bool
	Delete            bool
}

// Actions depende solo del estado y del rol de quien consulta.
func Actions(state domain.DocumentState, role domain.Role) ActionSet {
	lawyer := role == domain.RoleLawyer
	client := role.IsClientRole()

	switch state {
	case domain.StateDraft:
		return ActionSet{Edit: lawyer, Publish: lawyer, Preview: lawyer, Delete: lawyer}
	case domain.StatePublished:
		return ActionSet{Edit: lawyer, Unpublish: lawyer, Delete: lawyer, Start: client, Preview: lawyer || client}
	case domain.StateProgress:
		return ActionSet{Edit: client, Complete: client, Preview: lawyer || client, Delete: lawyer}
	case domain.StateCompleted:
		return ActionSet{
			Edit:              client,
			RequestSignatures: lawyer || client,
			Preview:           lawyer || client,
			Download:          lawyer || client,
			Delete:            lawyer,
		}
	case domain.StatePendingSignatures:
		return ActionSet{Sign: lawyer || client, Reject: lawyer || client, Preview: lawyer || client, Download: lawyer || client}
	case domain.StateFullySigned:
		return ActionSet{Preview: lawyer || client, Download: lawyer || client}
	case domain.StateRejected:
		return ActionSet{Edit: lawyer, Preview: lawyer || client, Delete: lawyer}
	default:
		return ActionSet{}
	}
}

// Names lista las acciones habilitadas en el orden en que se muestran.
func (a ActionSet) Names() []string {
	all := []struct {
		on   bool
		name string
	}{
		{a.Edit, "editar"},
		{a.Publish, "publicar"},
		{a.Unpublish, "despublicar"},
		{a.Start, "iniciar"},
		{a.Complete, "completar"},
		{a.RequestSignatures, "solicitar firmas"},
		{a.Sign, "firmar"},
		{a.Reject, "rechazar"},
		{a.Preview, "vista previa"},
		{a.Download, "descargar"},
		{a.Delete, "eliminar"},
	}
	var names []string
	for _, x := range all {
		if x.on {
			names = append(names, x.name)
		}
	}
	return names
}

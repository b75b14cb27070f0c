package lifecycle

import (
	"fmt"

	"legal-document-manager/pkg/domain"
)

type presentation struct {
	label string
	badge string
}

var presentations = map[domain.DocumentState]presentation{
	domain.StateDraft:             {label: "Borrador", badge: "bg-gray-100 text-gray-800"},
	domain.StatePublished:         {label: "Publicado", badge: "bg-blue-100 text-blue-800"},
	domain.StateProgress:          {label: "En progreso", badge: "bg-indigo-100 text-indigo-800"},
	domain.StateCompleted:         {label: "Completado", badge: "bg-teal-100 text-teal-800"},
	domain.StatePendingSignatures: {label: "Pendiente de firmas", badge: "bg-yellow-100 text-yellow-800"},
	domain.StateFullySigned:       {label: "Completamente firmado", badge: "bg-green-100 text-green-800"},
	domain.StateRejected:          {label: "Rechazado", badge: "bg-red-100 text-red-800"},
}

// Label devuelve la etiqueta en español del estado; un estado desconocido se muestra tal cual.
func Label(state domain.DocumentState) string {
	if p, ok := presentations[state]; ok {
		return p.label
	}
	return string(state)
}

// Badge devuelve las clases CSS de la insignia del estado.
func Badge(state domain.DocumentState) string {
	if p, ok := presentations[state]; ok {
		return p.badge
	}
	return "bg-gray-100 text-gray-800"
}

// CompletedSignatures cuenta las firmas ya hechas.
func CompletedSignatures(doc domain.Document) int {
	n := 0
	for _, s := range doc.Signatures {
		if s.Signed {
			n++
		}
	}
	return n
}

// TotalSignatures cuenta las solicitudes de firma.
func TotalSignatures(doc domain.Document) int {
	return len(doc.Signatures)
}

// SignatureRatio devuelve "firmadas/total"; sin solicitudes es "0/0".
func SignatureRatio(doc domain.Document) string {
	return fmt.Sprintf("%d/%d", CompletedSignatures(doc), TotalSignatures(doc))
}

// SignatureState deriva el estado de firma. Sin solicitudes no hay estado derivado (ok=false).
func SignatureState(signatures []domain.Signature) (domain.DocumentState, bool) {
	if len(signatures) == 0 {
		return "", false
	}
	for _, s := range signatures {
		if !s.Signed {
			return domain.StatePendingSignatures, true
		}
	}
	return domain.StateFullySigned, true
}

// DisplayState es el estado a mostrar: en el flujo de firmas se deriva de las firmas.
func DisplayState(doc domain.Document) domain.DocumentState {
	if doc.State != domain.StatePendingSignatures && doc.State != domain.StateFullySigned {
		return doc.State
	}
	if derived, ok := SignatureState(doc.Signatures); ok {
		return derived
	}
	return doc.State
}

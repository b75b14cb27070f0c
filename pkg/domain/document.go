package domain

import "time"

// DocumentState es la etiqueta del ciclo de vida de un documento dinámico.
type DocumentState string

const (
	StateDraft             DocumentState = "Draft"
	StatePublished         DocumentState = "Published"
	StateProgress          DocumentState = "Progress"
	StateCompleted         DocumentState = "Completed"
	StatePendingSignatures DocumentState = "PendingSignatures"
	StateFullySigned       DocumentState = "FullySigned"
	StateRejected          DocumentState = "Rejected"
)

// AllStates lista los estados en el orden del flujo.
var AllStates = []DocumentState{
	StateDraft,
	StatePublished,
	StateProgress,
	StateCompleted,
	StatePendingSignatures,
	StateFullySigned,
	StateRejected,
}

// Valid indica si el estado es uno de los conocidos.
func (s DocumentState) Valid() bool {
	for _, known := range AllStates {
		if s == known {
			return true
		}
	}
	return false
}

// Variable es un par nombre/valor que alimenta los placeholders de la plantilla.
// Value nil significa "sin valor", distinto de la cadena vacía.
type Variable struct {
	NameEn    string  `json:"name_en"`
	NameEs    string  `json:"name_es,omitempty"`
	FieldType string  `json:"field_type,omitempty"`
	Value     *string `json:"value"`
}

// ValueOrEmpty devuelve el valor o "" si no existe.
func (v Variable) ValueOrEmpty() string {
	if v.Value == nil {
		return ""
	}
	return *v.Value
}

// Signature representa una solicitud de firma sobre el documento.
type Signature struct {
	SignerEmail      string     `json:"signer_email"`
	SignerID         *int64     `json:"signer_id,omitempty"`
	Signed           bool       `json:"signed"`
	SignedAt         *time.Time `json:"signed_at,omitempty"`
	Rejected         bool       `json:"rejected,omitempty"`
	RejectionComment string     `json:"rejection_comment,omitempty"`
}

// Summary agrupa los metadatos summary_* del documento. Todos son opcionales.
type Summary struct {
	SummaryValue            *string `json:"summary_value,omitempty"`
	SummaryValueCurrency    *string `json:"summary_value_currency,omitempty"`
	SummaryCounterparty     *string `json:"summary_counterparty,omitempty"`
	SummaryObject           *string `json:"summary_object,omitempty"`
	SummaryTerm             *string `json:"summary_term,omitempty"`
	SummarySubscriptionDate *string `json:"summary_subscription_date,omitempty"`
	SummaryStartDate        *string `json:"summary_start_date,omitempty"`
	SummaryEndDate          *string `json:"summary_end_date,omitempty"`
}

type Document struct {
	ID                int64         `json:"id"`
	Title             string        `json:"title"`
	Content           string        `json:"content"`
	Variables         []Variable    `json:"variables"`
	State             DocumentState `json:"state"`
	AssignedTo        *int64        `json:"assigned_to"`
	CreatedBy         *int64        `json:"created_by,omitempty"`
	RequiresSignature bool          `json:"requires_signature"`
	Tags              []Tag         `json:"tags"`
	Signatures        []Signature   `json:"signatures"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
	Summary
}

// IsAssigned indica si el documento fue entregado a un cliente para diligenciarlo.
func (d Document) IsAssigned() bool {
	return d.AssignedTo != nil
}

// IsAssignedTo compara el asignado con el id de usuario dado.
func (d Document) IsAssignedTo(userID int64) bool {
	return d.AssignedTo != nil && *d.AssignedTo == userID
}

// HasSigner indica si el correo aparece entre las solicitudes de firma.
func (d Document) HasSigner(email string) bool {
	for _, s := range d.Signatures {
		if s.SignerEmail == email {
			return true
		}
	}
	return false
}

// DocumentPatch son los campos de una actualización parcial. Solo se envían los no nil.
type DocumentPatch struct {
	Title             *string        `json:"title,omitempty"`
	Content           *string        `json:"content,omitempty"`
	Variables         []Variable     `json:"variables,omitempty"`
	State             *DocumentState `json:"state,omitempty"`
	AssignedTo        *int64         `json:"assigned_to,omitempty"`
	RequiresSignature *bool          `json:"requires_signature,omitempty"`
	TagIDs            []int64        `json:"tag_ids,omitempty"`
	Signatures        []Signature    `json:"signatures,omitempty"`
}

// DocumentFilter acota el listado que se pide al backend.
type DocumentFilter struct {
	States   []DocumentState
	LawyerID *int64
	Search   string
	Page     int
	PageSize int
}

// DocumentPage es una página del listado de documentos.
type DocumentPage struct {
	Count    int        `json:"count"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
	Results  []Document `json:"results"`
}

// StringPtr devuelve un puntero a s.
func StringPtr(s string) *string { return &s }

// Int64Ptr devuelve un puntero a n.
func Int64Ptr(n int64) *int64 { return &n }

// StatePtr devuelve un puntero a s.
func StatePtr(s DocumentState) *DocumentState { return &s }

// Package lifecycle define el ciclo de vida de los documentos dinámicos:
// estados, transiciones permitidas por rol, etiquetas de presentación y avance de firmas.
package lifecycle

import (
	"strings"
	"sync"

	"legal-document-manager/pkg/domain"
)

// Event es la acción de usuario que dispara una transición.
type Event string

const (
	EventPublish           Event = "publish"
	EventUnpublish         Event = "unpublish"
	EventStart             Event = "start"
	EventComplete          Event = "complete"
	EventRequestSignatures Event = "request_signatures"
	EventSignAll           Event = "sign_all"
	EventReject            Event = "reject"
)

// Request es la solicitud de aplicar Event sobre Document en nombre de Actor.
type Request struct {
	Document domain.Document
	Event    Event
	Actor    domain.User
	// Comment es obligatorio para EventReject.
	Comment string
}

// GuardFunc devuelve una razón no vacía cuando la transición debe rechazarse.
type GuardFunc func(req Request) string

// Transition es una arista del diagrama de estados.
type Transition struct {
	From  domain.DocumentState
	To    domain.DocumentState
	Event Event
	// Roles que pueden disparar el evento; vacío significa cualquiera.
	Roles []domain.Role
	Guard GuardFunc
}

func (t Transition) allows(role domain.Role) bool {
	if len(t.Roles) == 0 {
		return true
	}
	for _, r := range t.Roles {
		if r == role {
			return true
		}
	}
	return false
}

var clientRoles = []domain.Role{domain.RoleClient, domain.RoleBasic, domain.RoleCorporateClient}

// DefaultTransitions es el flujo Draft → Published → Progress → Completed →
// PendingSignatures → FullySigned, con Published → Draft y PendingSignatures → Rejected.
func DefaultTransitions() []Transition {
	return []Transition{
		{From: domain.StateDraft, To: domain.StatePublished, Event: EventPublish, Roles: []domain.Role{domain.RoleLawyer}},
		{From: domain.StatePublished, To: domain.StateDraft, Event: EventUnpublish, Roles: []domain.Role{domain.RoleLawyer}},
		{From: domain.StatePublished, To: domain.StateProgress, Event: EventStart, Roles: clientRoles, Guard: guardUnassigned},
		{From: domain.StateProgress, To: domain.StateCompleted, Event: EventComplete, Roles: clientRoles, Guard: guardAssignee},
		{From: domain.StateCompleted, To: domain.StatePendingSignatures, Event: EventRequestSignatures, Guard: guardSignatureRequest},
		{From: domain.StatePendingSignatures, To: domain.StateFullySigned, Event: EventSignAll, Guard: guardAllSigned},
		{From: domain.StatePendingSignatures, To: domain.StateRejected, Event: EventReject, Guard: guardRejection},
	}
}

func guardUnassigned(req Request) string {
	if req.Document.IsAssigned() && !req.Document.IsAssignedTo(req.Actor.ID) {
		return "document is already assigned to another client"
	}
	return ""
}

func guardAssignee(req Request) string {
	if !req.Document.IsAssignedTo(req.Actor.ID) {
		return "only the assigned client can complete the document"
	}
	return ""
}

func guardSignatureRequest(req Request) string {
	if req.Actor.Role != domain.RoleLawyer && !req.Document.IsAssignedTo(req.Actor.ID) {
		return "only the lawyer or the assigned client can request signatures"
	}
	if len(req.Document.Signatures) == 0 {
		return "at least one signer is required"
	}
	return ""
}

func guardAllSigned(req Request) string {
	if state, ok := SignatureState(req.Document.Signatures); !ok || state != domain.StateFullySigned {
		return "signatures are still pending"
	}
	return ""
}

func guardRejection(req Request) string {
	if !req.Document.HasSigner(req.Actor.Email) {
		return "only a requested signer can reject the document"
	}
	if strings.TrimSpace(req.Comment) == "" {
		return "a rejection comment is required"
	}
	return ""
}

// Machine valida transiciones y avisa a los observadores de las que se confirman.
// Es seguro para uso concurrente.
type Machine struct {
	mu          sync.RWMutex
	transitions map[domain.DocumentState][]Transition
	known       map[Event]bool
	observers   []Observer
}

// NewMachine crea una máquina con las transiciones dadas o, si no hay, con DefaultTransitions.
func NewMachine(transitions ...Transition) *Machine {
	if len(transitions) == 0 {
		transitions = DefaultTransitions()
	}
	m := &Machine{
		transitions: make(map[domain.DocumentState][]Transition),
		known:       make(map[Event]bool),
	}
	for _, t := range transitions {
		m.transitions[t.From] = append(m.transitions[t.From], t)
		m.known[t.Event] = true
	}
	return m
}

// Next valida la solicitud y devuelve la transición que aplica.
func (m *Machine) Next(req Request) (Transition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	from := req.Document.State
	if !m.known[req.Event] {
		return Transition{}, newUnknownEventError(from, req.Event)
	}

	for _, t := range m.transitions[from] {
		if t.Event != req.Event {
			continue
		}
		if !t.allows(req.Actor.Role) {
			return Transition{}, newGuardError(t, "role '"+string(req.Actor.Role)+"' cannot trigger this event")
		}
		if t.Guard != nil {
			if reason := t.Guard(req); reason != "" {
				return Transition{}, newGuardError(t, reason)
			}
		}
		return t, nil
	}
	return Transition{}, newNotAllowedError(from, req.Event)
}

// Can indica si Next aceptaría la solicitud.
func (m *Machine) Can(req Request) bool {
	_, err := m.Next(req)
	return err == nil
}

// AvailableEvents lista los eventos que el rol puede disparar desde el estado,
// sin evaluar las guardas propias de cada documento.
func (m *Machine) AvailableEvents(state domain.DocumentState, role domain.Role) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var events []Event
	for _, t := range m.transitions[state] {
		if t.allows(role) {
			events = append(events, t.Event)
		}
	}
	return events
}

// AddObserver registra un observador de transiciones confirmadas.
func (m *Machine) AddObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// Committed avisa a los observadores que la transición ya fue aceptada por el backend.
func (m *Machine) Committed(docID int64, t Transition, actor domain.User) {
	m.mu.RLock()
	observers := append([]Observer(nil), m.observers...)
	m.mu.RUnlock()

	for _, o := range observers {
		o.OnTransition(docID, t.From, t.To, t.Event, actor)
	}
}

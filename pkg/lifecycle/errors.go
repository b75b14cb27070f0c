package lifecycle

import (
	"errors"
	"fmt"

	"legal-document-manager/pkg/domain"
)

// ErrorCode identifica la causa de un rechazo de transición.
type ErrorCode int

const (
	ErrCodeNone ErrorCode = iota
	// El evento no existe
	ErrCodeUnknownEvent
	// No hay transición para el evento desde el estado actual
	ErrCodeTransitionNotAllowed
	// La guarda rechazó la transición (rol, firmas, comentario)
	ErrCodeGuardRejected
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeNone:
		return "none"
	case ErrCodeUnknownEvent:
		return "unknown_event"
	case ErrCodeTransitionNotAllowed:
		return "transition_not_allowed"
	case ErrCodeGuardRejected:
		return "guard_rejected"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// TransitionError describe por qué un evento no puede aplicarse a un documento.
type TransitionError struct {
	Code   ErrorCode
	From   domain.DocumentState
	To     domain.DocumentState
	Event  Event
	Reason string
}

func (e *TransitionError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("transition error [%s on %s]: %s", e.From, e.Event, e.Reason)
	}
	return fmt.Sprintf("transition error [%s->%s on %s]: %s", e.From, e.To, e.Event, e.Reason)
}

func newUnknownEventError(from domain.DocumentState, event Event) *TransitionError {
	return &TransitionError{
		Code:   ErrCodeUnknownEvent,
		From:   from,
		Event:  event,
		Reason: fmt.Sprintf("unknown event '%s'", event),
	}
}

func newNotAllowedError(from domain.DocumentState, event Event) *TransitionError {
	return &TransitionError{
		Code:   ErrCodeTransitionNotAllowed,
		From:   from,
		Event:  event,
		Reason: fmt.Sprintf("no transition from state '%s' for event '%s'", from, event),
	}
}

func newGuardError(t Transition, reason string) *TransitionError {
	return &TransitionError{
		Code:   ErrCodeGuardRejected,
		From:   t.From,
		To:     t.To,
		Event:  t.Event,
		Reason: reason,
	}
}

// IsTransitionError indica si err (o uno de sus envoltorios) es un rechazo con el código dado.
func IsTransitionError(err error, code ErrorCode) bool {
	var te *TransitionError
	if !errors.As(err, &te) {
		return false
	}
	return te.Code == code
}

package lifecycle

import (
	"github.com/rs/zerolog"

	"legal-document-manager/pkg/domain"
)

// Observer recibe las transiciones confirmadas.
type Observer interface {
	OnTransition(docID int64, from, to domain.DocumentState, event Event, actor domain.User)
}

// ObserverFunc adapta una función a Observer.
type ObserverFunc func(docID int64, from, to domain.DocumentState, event Event, actor domain.User)

func (f ObserverFunc) OnTransition(docID int64, from, to domain.DocumentState, event Event, actor domain.User) {
	f(docID, from, to, event, actor)
}

// LogObserver registra cada transición en el logger.
type LogObserver struct {
	Logger zerolog.Logger
}

func (o LogObserver) OnTransition(docID int64, from, to domain.DocumentState, event Event, actor domain.User) {
	o.Logger.Info().
		Int64("document_id", docID).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("event", string(event)).
		Int64("actor_id", actor.ID).
		Msg("document transition")
}

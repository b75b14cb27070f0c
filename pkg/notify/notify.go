// Package notify implementa ports.Notifier, el aviso (mensaje, gravedad) que ve el usuario.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"legal-document-manager/pkg/ports"
)

// LogNotifier envía las notificaciones al logger con el nivel según la gravedad.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) Notify(message string, severity ports.Severity) {
	var ev *zerolog.Event
	switch severity {
	case ports.SeverityError:
		ev = n.Logger.Error()
	case ports.SeverityWarning:
		ev = n.Logger.Warn()
	default:
		ev = n.Logger.Info()
	}
	ev.Str("severity", string(severity)).Msg(message)
}

// WriterNotifier escribe "[gravedad] mensaje" en w; la CLI lo usa con stderr.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(message string, severity ports.Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.w, "[%s] %s\n", severity, message)
}

// Notification es una notificación registrada por Recorder.
type Notification struct {
	Message  string
	Severity ports.Severity
}

// Recorder guarda las notificaciones en memoria.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(message string, severity ports.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Message: message, Severity: severity})
}

// Notifications devuelve una copia de lo registrado.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Multi reparte cada notificación entre varios destinos.
type Multi []ports.Notifier

func (m Multi) Notify(message string, severity ports.Severity) {
	for _, n := range m {
		n.Notify(message, severity)
	}
}

var (
	_ ports.Notifier = LogNotifier{}
	_ ports.Notifier = (*WriterNotifier)(nil)
	_ ports.Notifier = (*Recorder)(nil)
	_ ports.Notifier = Multi(nil)
)

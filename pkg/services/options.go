package services

import (
	"errors"

	"github.com/rs/zerolog"

	"legal-document-manager/pkg/lifecycle"
	"legal-document-manager/pkg/ports"
)

var (
	// ErrDocumentNotFound indica que el documento no está en la caché.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrStateChangeRequiresTransition indica que el estado solo cambia con Transition.
	ErrStateChangeRequiresTransition = errors.New("state changes must go through Transition")
	// ErrUnsupportedFormat indica que no hay exportador para el formato pedido.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

type options struct {
	logger   zerolog.Logger
	notifier ports.Notifier
	machine  *lifecycle.Machine
}

// Option configura los servicios.
type Option func(*options)

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithNotifier(n ports.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

func WithMachine(m *lifecycle.Machine) Option {
	return func(o *options) { o.machine = m }
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, ports.Severity) {}

func newOptions(opts []Option) options {
	o := options{
		logger:   zerolog.Nop(),
		notifier: nopNotifier{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.machine == nil {
		o.machine = lifecycle.NewMachine()
	}
	return o
}

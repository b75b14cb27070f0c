// Package session cierra la sesión del usuario tras un periodo sin actividad.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultIdleTimeout es el tiempo sin actividad antes de cerrar la sesión.
	DefaultIdleTimeout = 15 * time.Minute
	// SignInRoute es la ruta a la que se navega después del cierre.
	SignInRoute = "/sign_in"
)

// ErrAlreadySubscribed se devuelve al llamar Subscribe dos veces sin Unsubscribe.
var ErrAlreadySubscribed = errors.New("idle logout already subscribed")

// ActivityKinds son los eventos de usuario que reinician la cuenta regresiva.
var ActivityKinds = []string{"mousemove", "mousedown", "keydown", "scroll", "touchstart"}

// Timer es el temporizador devuelto por Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

// Clock entrega temporizadores. En pruebas se reemplaza por un reloj virtual.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// IdleLogout ejecuta Logout y luego Navigate(SignInRoute) cuando pasa Timeout sin actividad.
type IdleLogout struct {
	logout   func(ctx context.Context) error
	navigate func(route string)
	timeout  time.Duration
	clock    Clock
	logger   zerolog.Logger

	mu         sync.Mutex
	ctx        context.Context
	timer      Timer
	subscribed bool
	// generation invalida los temporizadores que ya dispararon pero fueron reemplazados.
	generation uint64
}

// Option configura IdleLogout.
type Option func(*IdleLogout)

func WithTimeout(d time.Duration) Option {
	return func(l *IdleLogout) {
		if d > 0 {
			l.timeout = d
		}
	}
}

func WithClock(c Clock) Option {
	return func(l *IdleLogout) { l.clock = c }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(l *IdleLogout) { l.logger = logger }
}

// NewIdleLogout crea una nueva instancia de IdleLogout.
func NewIdleLogout(logout func(ctx context.Context) error, navigate func(route string), opts ...Option) *IdleLogout {
	l := &IdleLogout{
		logout:   logout,
		navigate: navigate,
		timeout:  DefaultIdleTimeout,
		clock:    wallClock{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Timeout devuelve el tiempo de inactividad configurado.
func (l *IdleLogout) Timeout() time.Duration { return l.timeout }

// Subscribe arma el temporizador. ctx se usa para la llamada a Logout.
func (l *IdleLogout) Subscribe(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.subscribed {
		return ErrAlreadySubscribed
	}
	l.ctx = ctx
	l.subscribed = true
	l.resetLocked()
	return nil
}

// Activity reinicia la cuenta regresiva si kind es uno de ActivityKinds.
// Devuelve false si el evento se ignoró.
func (l *IdleLogout) Activity(kind string) bool {
	if !isActivity(kind) {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.subscribed {
		return false
	}
	l.resetLocked()
	return true
}

// Unsubscribe detiene el temporizador sin cerrar la sesión.
func (l *IdleLogout) Unsubscribe() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopLocked()
}

// BeforeUnload cierra la sesión sin navegar, como al cerrar la ventana.
// No hace nada si no hay suscripción activa, por ejemplo si la sesión ya expiró.
// Los errores se registran y se ignoran.
func (l *IdleLogout) BeforeUnload(ctx context.Context) {
	l.mu.Lock()
	if !l.subscribed {
		l.mu.Unlock()
		return
	}
	l.stopLocked()
	l.mu.Unlock()

	if err := l.logout(ctx); err != nil {
		l.logger.Warn().Err(err).Msg("failed to logout before unload")
	}
}

func (l *IdleLogout) resetLocked() {
	if l.timer != nil {
		l.timer.Stop()
	}
	l.generation++
	gen := l.generation
	l.timer = l.clock.AfterFunc(l.timeout, func() { l.expire(gen) })
}

func (l *IdleLogout) stopLocked() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.subscribed = false
	l.generation++
}

func (l *IdleLogout) expire(gen uint64) {
	l.mu.Lock()
	if !l.subscribed || gen != l.generation {
		l.mu.Unlock()
		return
	}
	ctx := l.ctx
	l.timer = nil
	l.subscribed = false
	l.mu.Unlock()

	l.logger.Info().Dur("timeout", l.timeout).Msg("session expired due to inactivity")
	if err := l.logout(ctx); err != nil {
		l.logger.Error().Err(err).Msg("failed to logout after inactivity")
	}
	l.navigate(SignInRoute)
}

func isActivity(kind string) bool {
	for _, k := range ActivityKinds {
		if k == kind {
			return true
		}
	}
	return false
}

package session_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-document-manager/pkg/session"
)

type fakeTimer struct {
	clock    *fakeClock
	deadline time.Duration
	f        func()
	stopped  bool
	fired    bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeClock dispara los temporizadores de forma síncrona dentro de Advance.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) session.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, deadline: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.deadline <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].deadline < due[j].deadline })
	for _, t := range due {
		t.f()
	}
}

type recorder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (r *recorder) logout(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "logout")
	return r.err
}

func (r *recorder) navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "navigate "+route)
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func newIdle(rec *recorder, clock *fakeClock, timeout time.Duration) *session.IdleLogout {
	return session.NewIdleLogout(rec.logout, rec.navigate, session.WithClock(clock), session.WithTimeout(timeout))
}

func TestIdleLogoutExpires(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	idle := newIdle(rec, clock, 100*time.Millisecond)
	require.NoError(t, idle.Subscribe(context.Background()))

	clock.Advance(60 * time.Millisecond)
	assert.True(t, idle.Activity("keydown"))
	clock.Advance(60 * time.Millisecond)
	assert.Empty(t, rec.Calls())

	clock.Advance(41 * time.Millisecond)
	assert.Equal(t, []string{"logout", "navigate /sign_in"}, rec.Calls())

	clock.Advance(time.Second)
	assert.Len(t, rec.Calls(), 2)
}

func TestIdleLogoutIgnoresUnknownActivity(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	idle := newIdle(rec, clock, 100*time.Millisecond)
	require.NoError(t, idle.Subscribe(context.Background()))

	clock.Advance(90 * time.Millisecond)
	assert.False(t, idle.Activity("resize"))
	clock.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"logout", "navigate /sign_in"}, rec.Calls())
}

func TestIdleLogoutEveryActivityKindResets(t *testing.T) {
	for _, kind := range session.ActivityKinds {
		t.Run(kind, func(t *testing.T) {
			clock := &fakeClock{}
			rec := &recorder{}
			idle := newIdle(rec, clock, time.Minute)
			require.NoError(t, idle.Subscribe(context.Background()))

			clock.Advance(59 * time.Second)
			require.True(t, idle.Activity(kind))
			clock.Advance(59 * time.Second)
			assert.Empty(t, rec.Calls())
		})
	}
}

func TestIdleLogoutUnsubscribe(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	idle := newIdle(rec, clock, time.Minute)

	require.NoError(t, idle.Subscribe(context.Background()))
	require.ErrorIs(t, idle.Subscribe(context.Background()), session.ErrAlreadySubscribed)

	idle.Unsubscribe()
	assert.False(t, idle.Activity("mousemove"))
	clock.Advance(time.Hour)
	assert.Empty(t, rec.Calls())

	require.NoError(t, idle.Subscribe(context.Background()))
	clock.Advance(time.Minute)
	assert.Equal(t, []string{"logout", "navigate /sign_in"}, rec.Calls())
}

func TestIdleLogoutNavigatesEvenIfLogoutFails(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{err: errors.New("network down")}
	idle := newIdle(rec, clock, time.Second)
	require.NoError(t, idle.Subscribe(context.Background()))

	clock.Advance(time.Second)
	assert.Equal(t, []string{"logout", "navigate /sign_in"}, rec.Calls())
}

func TestBeforeUnload(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	idle := newIdle(rec, clock, time.Second)
	require.NoError(t, idle.Subscribe(context.Background()))

	idle.BeforeUnload(context.Background())
	clock.Advance(time.Hour)
	assert.Equal(t, []string{"logout"}, rec.Calls())
}

func TestBeforeUnloadAfterExpiry(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	idle := newIdle(rec, clock, time.Second)

	idle.BeforeUnload(context.Background())
	assert.Empty(t, rec.Calls())

	require.NoError(t, idle.Subscribe(context.Background()))
	clock.Advance(time.Second)
	idle.BeforeUnload(context.Background())
	assert.Equal(t, []string{"logout", "navigate /sign_in"}, rec.Calls())
}

func TestDefaultTimeout(t *testing.T) {
	idle := session.NewIdleLogout(func(context.Context) error { return nil }, func(string) {})
	assert.Equal(t, 15*time.Minute, idle.Timeout())
}

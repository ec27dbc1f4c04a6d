// Package shutdown provides a two-phase shutdown latch shared by every
// background loop of the control plane: the metadata pollers and the
// subscription workers both begin and complete their shutdown through the
// same primitive so a caller can coordinate draining across goroutines
// without its own ad-hoc signalling. The HTTP server is stopped through
// context cancellation instead.
package shutdown

import (
	"sync"
)

// State describes where a Latch is in its shutdown lifecycle.
type State int

const (
	NotStarted State = iota
	Started
	Complete
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Started:
		return "Started"
	case Complete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// Latch tracks a begin/complete shutdown sequence and lets any number of
// goroutines wait on either transition, regardless of whether they started
// waiting before or after the transition occurred.
//
// Unlike a one-shot condition variable or broadcast-without-memory signal,
// the begin and complete channels are each closed exactly once: a goroutine
// that calls WaitBegin after Begin has already run observes the closed
// channel immediately instead of blocking forever.
type Latch struct {
	mu    sync.Mutex
	state State

	begin     chan struct{}
	beginOnce sync.Once

	complete     chan struct{}
	completeOnce sync.Once
}

// New returns a Latch in the NotStarted state.
func New() *Latch {
	return &Latch{
		begin:    make(chan struct{}),
		complete: make(chan struct{}),
	}
}

// IsShutdown reports whether Begin has been called, whether or not Complete
// has run yet.
func (l *Latch) IsShutdown() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == Started || l.state == Complete
}

// State returns the latch's current state.
func (l *Latch) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// WaitBegin returns a channel that is closed once Begin has been called.
// If it already has, the returned channel is already closed.
func (l *Latch) WaitBegin() <-chan struct{} {
	return l.begin
}

// Begin signals every current and future WaitBegin caller that shutdown has
// started. It is idempotent: calling it more than once has no further
// effect.
func (l *Latch) Begin() {
	l.mu.Lock()
	if l.state == NotStarted {
		l.state = Started
	}
	l.mu.Unlock()

	l.beginOnce.Do(func() {
		close(l.begin)
	})
}

// WaitComplete returns a channel that is closed once Complete has been
// called. If it already has, the returned channel is already closed.
func (l *Latch) WaitComplete() <-chan struct{} {
	return l.complete
}

// Complete signals every current and future WaitComplete caller that
// shutdown has finished. It is idempotent, and implicitly begins the latch
// if Begin was never called.
func (l *Latch) Complete() {
	l.mu.Lock()
	l.state = Complete
	l.mu.Unlock()

	l.beginOnce.Do(func() {
		close(l.begin)
	})
	l.completeOnce.Do(func() {
		close(l.complete)
	})
}

package circuit

import (
	"errors"
	"sync"
	"time"

	"github.com/TemirB/patterns/internal/config"
)

var ErrOpen = errors.New("circuit open")

type State int

const (
	Closed   State = iota // normal operation
	Open                  // rejecting until the open timeout passes
	HalfOpen              // letting a few trial calls through
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// Breaker opens after threshold consecutive failures, rejects calls for
// openTimeout, then lets up to maxHalfOpen trial calls through. Callers
// report outcomes with Success and Failure.
type Breaker struct {
	mu          sync.Mutex
	state       State
	errs        int
	threshold   int
	openTimeout time.Duration
	trial       int
	maxHalfOpen int
	lastChange  time.Time
	now         func() time.Time
}

func New(threshold int, openTimeout time.Duration, maxHalfOpen int) *Breaker {
	if threshold < 1 {
		threshold = 1
	}
	if maxHalfOpen < 1 {
		maxHalfOpen = 1
	}
	return &Breaker{
		threshold:   threshold,
		openTimeout: openTimeout,
		maxHalfOpen: maxHalfOpen,
		lastChange:  time.Now(),
		now:         time.Now,
	}
}

func FromConfig(cfg config.Breaker) *Breaker {
	return New(cfg.Threshold, cfg.OpenTimeout, cfg.MaxHalfOpen)
}

// Allow returns ErrOpen when the call must not be made.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		if b.now().Sub(b.lastChange) < b.openTimeout {
			return ErrOpen
		}
		b.transitionTo(HalfOpen)
		b.trial++
		return nil
	case HalfOpen:
		if b.trial >= b.maxHalfOpen {
			return ErrOpen
		}
		b.trial++
		return nil
	default:
		return nil
	}
}

func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case HalfOpen:
		b.transitionTo(Closed)
	case Closed:
		b.errs = 0
	}
}

func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case HalfOpen:
		b.transitionTo(Open)
	case Closed:
		b.errs++
		if b.errs >= b.threshold {
			b.transitionTo(Open)
		}
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) transitionTo(next State) {
	b.state = next
	b.lastChange = b.now()
	b.trial = 0
	if next == Closed {
		b.errs = 0
	}
}

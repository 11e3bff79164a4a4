package resilience

import (
	"sync"
	"time"
)

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Breaker trips open after a run of consecutive failures and closes again
// once a cooldown has elapsed. It is safe for concurrent use.
type Breaker struct {
	name        string
	maxFailures int
	cooldown    time.Duration

	mu       sync.Mutex
	failures int
	openedAt time.Time
}

// New creates a breaker that opens after maxFailures consecutive failures
// and stays open for the given cooldown.
func New(name string, maxFailures int, cooldown time.Duration) *Breaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if cooldown <= 0 {
		cooldown = 10 * time.Second
	}
	return &Breaker{
		name:        name,
		maxFailures: maxFailures,
		cooldown:    cooldown,
	}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string { return b.name }

// Allow reports whether a query may be issued. An open breaker allows one
// probe query through once the cooldown has elapsed.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures < b.maxFailures {
		return true
	}
	if time.Since(b.openedAt) >= b.cooldown {
		// Probe: one query gets through; its outcome decides the state.
		b.failures = b.maxFailures - 1
		return true
	}
	return false
}

// Success records a successful query and closes the breaker.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
}

// Failure records a failed query, opening the breaker when the
// consecutive-failure threshold is reached.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	if b.failures >= b.maxFailures {
		b.openedAt = time.Now()
	}
}

// State returns the current state of the circuit breaker
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures >= b.maxFailures && time.Since(b.openedAt) < b.cooldown {
		return StateOpen
	}
	return StateClosed
}

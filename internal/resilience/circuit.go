// Package resilience provides a circuit breaker.
package resilience

import (
	"sync"
	"time"
)

// CircuitState represents breaker state.
type CircuitState int32

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

// String returns the string representation of the state.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitOptions configures breaker thresholds.
type CircuitOptions struct {
	FailureThreshold int64
	CoolDown         time.Duration
	Clock            func() time.Time
}

// CircuitBreaker stops hammering a supplier that is already failing.
// Half-open is implicit: once the cooldown window has elapsed Allow
// returns true as a trial, and only a subsequent OnSuccess closes the
// breaker. Safe for concurrent use.
type CircuitBreaker struct {
	mu          sync.Mutex
	failures    int64
	lastFailure time.Time
	opts        CircuitOptions
}

// NewCircuitBreaker constructs a breaker with defaults.
func NewCircuitBreaker(opts CircuitOptions) *CircuitBreaker {
	if opts.FailureThreshold <= 0 {
		opts.FailureThreshold = 5
	}
	if opts.CoolDown <= 0 {
		opts.CoolDown = 30 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &CircuitBreaker{opts: opts}
}

// Allow reports whether the call should proceed.
func (cb *CircuitBreaker) Allow() bool {
	if cb == nil {
		return true
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked() != CircuitOpen
}

// OnSuccess records a successful call and closes the breaker.
func (cb *CircuitBreaker) OnSuccess() {
	if cb == nil {
		return
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
}

// OnFailure records a failure. Reaching the threshold opens the breaker;
// a failure during the half-open trial refreshes the cooldown window.
func (cb *CircuitBreaker) OnFailure() {
	if cb == nil {
		return
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures++
	if cb.failures >= cb.opts.FailureThreshold {
		cb.lastFailure = cb.opts.Clock()
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() CircuitState {
	if cb == nil {
		return CircuitClosed
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

// Failures returns the current consecutive failure count.
func (cb *CircuitBreaker) Failures() int64 {
	if cb == nil {
		return 0
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

func (cb *CircuitBreaker) stateLocked() CircuitState {
	if cb.failures < cb.opts.FailureThreshold {
		return CircuitClosed
	}
	if cb.opts.Clock().Sub(cb.lastFailure) < cb.opts.CoolDown {
		return CircuitOpen
	}
	return CircuitHalfOpen
}

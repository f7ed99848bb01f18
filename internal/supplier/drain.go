// Package supplier provides in-flight tracking for graceful drains.
package supplier

import (
	"context"
	"sync/atomic"
)

// InFlight tracks in-flight requests so shutdown can wait for them.
type InFlight struct {
	active  atomic.Int64
	closed  atomic.Bool
	drained atomic.Bool
	done    chan struct{}
}

// NewInFlight constructs a new InFlight tracker.
func NewInFlight() *InFlight {
	return &InFlight{done: make(chan struct{})}
}

// Begin registers a new in-flight request. It returns false once the
// tracker is closed; callers should reject the request.
func (f *InFlight) Begin() bool {
	if f == nil {
		return false
	}
	if f.closed.Load() {
		return false
	}
	f.active.Add(1)
	if f.closed.Load() {
		// Close may have seen our increment and left the drain to us.
		if f.active.Add(-1) == 0 {
			f.markDrained()
		}
		return false
	}
	return true
}

// End marks a request as complete.
func (f *InFlight) End() {
	if f == nil {
		return
	}
	if f.active.Add(-1) == 0 && f.closed.Load() {
		f.markDrained()
	}
}

// Close prevents new requests from beginning.
func (f *InFlight) Close() {
	if f == nil {
		return
	}
	if !f.closed.CompareAndSwap(false, true) {
		return
	}
	if f.active.Load() == 0 {
		f.markDrained()
	}
}

func (f *InFlight) markDrained() {
	if f.drained.CompareAndSwap(false, true) {
		close(f.done)
	}
}

// Wait blocks until all in-flight requests finished or ctx is done.
func (f *InFlight) Wait(ctx context.Context) error {
	if f == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package supplier

import (
	"context"
	"testing"
	"time"
)

func TestInFlight_DrainWaitsForActiveRequests(t *testing.T) {
	t.Parallel()

	tracker := NewInFlight()
	if !tracker.Begin() {
		t.Fatalf("expected Begin to succeed before close")
	}

	tracker.Close()
	if tracker.Begin() {
		t.Fatalf("expected Begin to fail after close")
	}

	waitCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := tracker.Wait(waitCtx); err == nil {
		t.Fatalf("expected wait to time out while a request is active")
	}

	tracker.End()
	if err := tracker.Wait(context.Background()); err != nil {
		t.Fatalf("expected wait to return after drain: %v", err)
	}
}

func TestInFlight_BeginRacingCloseStillDrains(t *testing.T) {
	t.Parallel()

	// A Begin overlapping Close must not leave the drain signal unsent
	// when Begin rolls its registration back.
	for i := 0; i < 200; i++ {
		tracker := NewInFlight()
		begun := make(chan bool, 1)
		go func() {
			ok := tracker.Begin()
			begun <- ok
		}()
		tracker.Close()
		if <-begun {
			tracker.End()
		}

		waitCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		err := tracker.Wait(waitCtx)
		cancel()
		if err != nil {
			t.Fatalf("drain never completed on iteration %d: %v", i, err)
		}
	}
}

func TestInFlight_CloseWithNoActiveRequests(t *testing.T) {
	t.Parallel()

	tracker := NewInFlight()
	tracker.Close()
	if err := tracker.Wait(context.Background()); err != nil {
		t.Fatalf("expected immediate drain: %v", err)
	}
}

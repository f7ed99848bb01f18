package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIdempotencyStore_ReplayReturnsStoredOutcome(t *testing.T) {
	t.Parallel()

	store := NewIdempotencyStore()
	calls := 0
	fn := func(ctx context.Context) (Record, error) {
		calls++
		return Record{Outcome: "hold-123", Source: "supplier"}, nil
	}

	first, reused, err := store.Do(context.Background(), "hold:abc", time.Hour, fn)
	require.NoError(t, err)
	require.False(t, reused)
	require.Equal(t, "hold-123", first.Outcome)

	second, reused, err := store.Do(context.Background(), "hold:abc", time.Hour, fn)
	require.NoError(t, err)
	require.True(t, reused)
	require.Equal(t, first.Outcome, second.Outcome)
	require.Equal(t, 1, calls)
}

func TestIdempotencyStore_ConcurrentCallersShareOneSideEffect(t *testing.T) {
	t.Parallel()

	store := NewIdempotencyStore()
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0

	var wg sync.WaitGroup
	results := make([]bool, 2)
	run := func(i int) {
		defer wg.Done()
		_, reused, err := store.Do(context.Background(), "hold:xyz", time.Hour, func(ctx context.Context) (Record, error) {
			calls++
			close(started)
			<-release
			return Record{Outcome: "hold-9"}, nil
		})
		require.NoError(t, err)
		results[i] = reused
	}

	wg.Add(2)
	go run(0)
	<-started
	go run(1)
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, 1, calls)
	require.NotEqual(t, results[0], results[1])
}

func TestIdempotencyStore_FailureStoresNothing(t *testing.T) {
	t.Parallel()

	store := NewIdempotencyStore()
	boom := errors.New("supplier down")
	calls := 0
	fn := func(ctx context.Context) (Record, error) {
		calls++
		if calls == 1 {
			return Record{}, boom
		}
		return Record{Outcome: "hold-2"}, nil
	}

	_, reused, err := store.Do(context.Background(), "hold:k", time.Hour, fn)
	require.Equal(t, boom, err)
	require.False(t, reused)

	record, reused, err := store.Do(context.Background(), "hold:k", time.Hour, fn)
	require.NoError(t, err)
	require.False(t, reused)
	require.Equal(t, "hold-2", record.Outcome)
	require.Equal(t, 2, calls)
}

func TestIdempotencyStore_RecordExpires(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := NewIdempotencyStore()
	store.now = clock.Now

	store.Set("email:1", Record{Outcome: "sent"}, 50*time.Millisecond)
	_, ok := store.Get("email:1")
	require.True(t, ok)

	clock.Advance(60 * time.Millisecond)
	_, ok = store.Get("email:1")
	require.False(t, ok)
	require.Equal(t, 0, store.PurgeExpired())
}

// Package resilience provides write-path deduplication.
package resilience

import (
	"context"
	"sync"
	"time"
)

// Record is the stored outcome of a side-effecting call. For a fixed
// key the record is immutable until it expires, so every replay within
// the TTL observes the first outcome.
type Record struct {
	Outcome  any
	Source   string
	StoredAt time.Time
}

type idemEntry struct {
	record    Record
	expiresAt time.Time
}

type inflightWrite struct {
	done   chan struct{}
	record Record
	err    error
}

// IdempotencyStore deduplicates side-effecting calls by caller-supplied
// key. Do makes the check-then-act sequence atomic per key: a second
// concurrent request for an in-flight key waits for the first outcome
// instead of issuing a second call. Safe for concurrent use.
type IdempotencyStore struct {
	mu       sync.Mutex
	entries  map[string]idemEntry
	inflight map[string]*inflightWrite
	now      func() time.Time
}

// NewIdempotencyStore constructs an empty store.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		entries:  make(map[string]idemEntry),
		inflight: make(map[string]*inflightWrite),
		now:      time.Now,
	}
}

// Get returns the stored record for key, treating expired records as absent.
func (s *IdempotencyStore) Get(key string) (Record, bool) {
	if s == nil {
		return Record{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(key)
}

// Set stores a record under key. The TTL should outlive the supplier's
// own reservation lifetime so legitimate retries always hit it.
func (s *IdempotencyStore) Set(key string, record Record, ttl time.Duration) {
	if s == nil || ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.StoredAt.IsZero() {
		record.StoredAt = s.now()
	}
	s.entries[key] = idemEntry{record: record, expiresAt: s.now().Add(ttl)}
}

// PurgeExpired removes all expired records.
func (s *IdempotencyStore) PurgeExpired() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	purged := 0
	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
			purged++
		}
	}
	return purged
}

// Do returns the stored record for key, or executes fn and stores its
// record. The reused flag is true when the caller got a prior outcome
// rather than triggering the side effect itself. At most one fn runs
// per live key; a failed fn stores nothing, and callers that were
// waiting on it receive the same error.
func (s *IdempotencyStore) Do(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) (Record, error)) (Record, bool, error) {
	if s == nil {
		record, err := fn(ctx)
		return record, false, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	if record, ok := s.getLocked(key); ok {
		s.mu.Unlock()
		return record, true, nil
	}
	if existing, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		select {
		case <-existing.done:
			return existing.record, existing.err == nil, existing.err
		case <-ctx.Done():
			return Record{}, false, Wrap(CodeSupplierTimeout, "idempotent wait interrupted", ctx.Err())
		}
	}
	entry := &inflightWrite{done: make(chan struct{})}
	s.inflight[key] = entry
	s.mu.Unlock()

	record, err := fn(ctx)
	if err == nil {
		if record.StoredAt.IsZero() {
			record.StoredAt = s.now()
		}
		s.Set(key, record, ttl)
	}
	entry.record = record
	entry.err = err
	close(entry.done)

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
	return record, false, err
}

func (s *IdempotencyStore) getLocked(key string) (Record, bool) {
	entry, ok := s.entries[key]
	if !ok {
		return Record{}, false
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return Record{}, false
	}
	return entry.record, true
}

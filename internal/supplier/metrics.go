// Package supplier provides in-memory metrics.
package supplier

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// InMemoryMetrics stores counters and latency summaries keyed by
// supplier and operation.
type InMemoryMetrics struct {
	counters  sync.Map
	latencies sync.Map
}

type latencySummary struct {
	count      atomic.Int64
	totalNanos atomic.Int64
	maxNanos   atomic.Int64
}

// NewInMemoryMetrics constructs an in-memory metrics recorder.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{}
}

// IncCall increments a supplier call counter by result.
func (m *InMemoryMetrics) IncCall(supplier, op, result string) {
	if m == nil {
		return
	}
	m.incCounter(fmt.Sprintf("call|%s|%s|%s", supplier, op, result))
}

// IncRetry increments a retry counter.
func (m *InMemoryMetrics) IncRetry(supplier, op string) {
	if m == nil {
		return
	}
	m.incCounter(fmt.Sprintf("retry|%s|%s", supplier, op))
}

// IncBreakerRejected counts calls rejected by an open breaker.
func (m *InMemoryMetrics) IncBreakerRejected(supplier string) {
	if m == nil {
		return
	}
	m.incCounter(fmt.Sprintf("breaker_rejected|%s", supplier))
}

// IncCache counts cache lookups by outcome ("hit" or "miss").
func (m *InMemoryMetrics) IncCache(supplier, op, outcome string) {
	if m == nil {
		return
	}
	m.incCounter(fmt.Sprintf("cache|%s|%s|%s", supplier, op, outcome))
}

// IncReplay counts idempotent replays of write operations.
func (m *InMemoryMetrics) IncReplay(supplier, op string) {
	if m == nil {
		return
	}
	m.incCounter(fmt.Sprintf("replay|%s|%s", supplier, op))
}

// ObserveLatency tracks latency measurements per operation.
func (m *InMemoryMetrics) ObserveLatency(supplier, op string, d time.Duration) {
	if m == nil {
		return
	}
	entry := m.getLatency(fmt.Sprintf("latency|%s|%s", supplier, op))
	if entry == nil {
		return
	}
	nanos := d.Nanoseconds()
	entry.count.Add(1)
	entry.totalNanos.Add(nanos)
	for {
		current := entry.maxNanos.Load()
		if nanos <= current {
			break
		}
		if entry.maxNanos.CompareAndSwap(current, nanos) {
			break
		}
	}
}

// Snapshot exports metrics values.
func (m *InMemoryMetrics) Snapshot() map[string]any {
	result := map[string]any{}
	if m == nil {
		return result
	}

	counters := map[string]int64{}
	m.counters.Range(func(key, value any) bool {
		k, ok := key.(string)
		if !ok {
			return true
		}
		counter, ok := value.(*atomic.Int64)
		if !ok || counter == nil {
			return true
		}
		counters[k] = counter.Load()
		return true
	})

	latencies := map[string]map[string]int64{}
	m.latencies.Range(func(key, value any) bool {
		k, ok := key.(string)
		if !ok {
			return true
		}
		entry, ok := value.(*latencySummary)
		if !ok || entry == nil {
			return true
		}
		latencies[k] = map[string]int64{
			"count":      entry.count.Load(),
			"totalNanos": entry.totalNanos.Load(),
			"maxNanos":   entry.maxNanos.Load(),
		}
		return true
	})

	result["counters"] = counters
	result["latencies"] = latencies
	return result
}

// Counter returns the current value of a counter key, for tests and
// the metrics endpoint.
func (m *InMemoryMetrics) Counter(key string) int64 {
	if m == nil {
		return 0
	}
	if existing, ok := m.counters.Load(key); ok {
		if counter, ok := existing.(*atomic.Int64); ok {
			return counter.Load()
		}
	}
	return 0
}

func (m *InMemoryMetrics) incCounter(key string) {
	if key == "" {
		return
	}
	if existing, ok := m.counters.Load(key); ok {
		if counter, ok := existing.(*atomic.Int64); ok {
			counter.Add(1)
			return
		}
	}
	counter := &atomic.Int64{}
	counter.Add(1)
	if actual, loaded := m.counters.LoadOrStore(key, counter); loaded {
		if stored, ok := actual.(*atomic.Int64); ok {
			stored.Add(1)
		}
	}
}

func (m *InMemoryMetrics) getLatency(key string) *latencySummary {
	if key == "" {
		return nil
	}
	if existing, ok := m.latencies.Load(key); ok {
		if entry, ok := existing.(*latencySummary); ok {
			return entry
		}
	}
	entry := &latencySummary{}
	actual, _ := m.latencies.LoadOrStore(key, entry)
	if stored, ok := actual.(*latencySummary); ok {
		return stored
	}
	return entry
}

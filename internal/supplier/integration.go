// Package supplier provides the per-supplier resilience integration.
package supplier

import (
	"context"
	"time"

	"suppliergw/internal/resilience"
)

// SourceCache marks outcomes served from the read cache.
const SourceCache = "cache"

// SourceFixtures marks outcomes produced by the offline fixture path.
const SourceFixtures = "fixtures"

// IntegrationOptions configures one supplier integration.
type IntegrationOptions struct {
	BucketCapacity       int64
	BucketRefillInterval time.Duration
	Breaker              resilience.CircuitOptions
	Retry                resilience.RetryPolicy
	CacheMaxEntries      int
	Offline              bool
}

// Integration bundles the resilience primitives for one supplier
// surface. One instance per supplier, constructed at process start;
// handlers reach the primitives only through Read and Write.
type Integration struct {
	name    string
	client  Client
	bucket  *resilience.TokenBucket
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryPolicy
	cache   *resilience.TTLCache
	idem    *resilience.IdempotencyStore
	offline bool
	logger  Logger
	metrics *InMemoryMetrics
}

// NewIntegration constructs an integration with defaults.
func NewIntegration(name string, client Client, opts IntegrationOptions, logger Logger, metrics *InMemoryMetrics) *Integration {
	if opts.BucketCapacity <= 0 {
		opts.BucketCapacity = 10
	}
	if opts.BucketRefillInterval <= 0 {
		opts.BucketRefillInterval = time.Second
	}
	if logger == nil {
		logger = NopLogger{}
	}
	if metrics == nil {
		metrics = NewInMemoryMetrics()
	}
	return &Integration{
		name:    name,
		client:  client,
		bucket:  resilience.NewTokenBucket(opts.BucketCapacity, opts.BucketRefillInterval),
		breaker: resilience.NewCircuitBreaker(opts.Breaker),
		retry:   opts.Retry,
		cache:   resilience.NewTTLCache(opts.CacheMaxEntries),
		idem:    resilience.NewIdempotencyStore(),
		offline: opts.Offline,
		logger:  logger,
		metrics: metrics,
	}
}

// Name returns the supplier name.
func (in *Integration) Name() string {
	if in == nil {
		return ""
	}
	return in.name
}

// Offline reports whether the integration serves fixture data.
func (in *Integration) Offline() bool {
	if in == nil {
		return false
	}
	return in.offline
}

// Read executes a memoized read call: cache lookup by stable parameter
// hash, then the admission-controlled supplier call, then cache fill.
func (in *Integration) Read(ctx context.Context, op string, params any, ttl time.Duration) (*Outcome, error) {
	digest, err := resilience.StableHash(params)
	if err != nil {
		return nil, err
	}
	key := op + ":" + digest

	if value, ok := in.cache.Get(key); ok {
		in.metrics.IncCache(in.name, op, "hit")
		return &Outcome{Value: value, Source: SourceCache, CacheHit: true}, nil
	}
	in.metrics.IncCache(in.name, op, "miss")
	in.cache.PurgeExpired()

	outcome, err := in.execute(ctx, op, params)
	if err != nil {
		return nil, err
	}
	in.cache.Set(key, outcome.Value, ttl)
	return outcome, nil
}

// Write executes a side-effecting call deduplicated by idempotency key.
// A replay within the key's TTL returns the first outcome marked reused
// without touching the supplier.
func (in *Integration) Write(ctx context.Context, op, idempotencyKey string, params any, ttl time.Duration) (*Outcome, error) {
	if idempotencyKey == "" {
		return nil, resilience.Wrap(resilience.CodeInputInvalid, "idempotency key is required", nil)
	}
	key := op + ":" + idempotencyKey

	var attempts int
	record, reused, err := in.idem.Do(ctx, key, ttl, func(ctx context.Context) (resilience.Record, error) {
		outcome, err := in.execute(ctx, op, params)
		if err != nil {
			return resilience.Record{}, err
		}
		attempts = outcome.Attempts
		return resilience.Record{Outcome: outcome.Value, Source: outcome.Source}, nil
	})
	if err != nil {
		return nil, err
	}
	if reused {
		in.metrics.IncReplay(in.name, op)
		in.logger.Info("idempotent replay", map[string]any{
			"supplier": in.name,
			"op":       op,
			"key":      idempotencyKey,
		})
	}
	return &Outcome{Value: record.Outcome, Source: record.Source, Reused: reused, Attempts: attempts}, nil
}

// execute runs the supplier call behind breaker, bucket, and retry.
// Fixture mode bypasses admission control entirely.
func (in *Integration) execute(ctx context.Context, op string, params any) (*Outcome, error) {
	start := time.Now()
	defer func() {
		in.metrics.ObserveLatency(in.name, op, time.Since(start))
	}()

	if in.offline {
		value, err := in.client.Call(ctx, op, params)
		if err != nil {
			in.metrics.IncCall(in.name, op, "fixture_error")
			return nil, err
		}
		in.metrics.IncCall(in.name, op, "fixture")
		return &Outcome{Value: value, Source: SourceFixtures, Attempts: 1}, nil
	}

	if !in.breaker.Allow() {
		in.metrics.IncBreakerRejected(in.name)
		in.logger.Error("circuit open, rejecting call", map[string]any{
			"supplier": in.name,
			"op":       op,
		})
		return nil, resilience.ErrBreakerOpen
	}
	if err := in.bucket.Consume(); err != nil {
		in.metrics.IncCall(in.name, op, "rate_limited")
		return nil, err
	}

	policy := in.retry
	userHook := policy.OnRetry
	policy.OnRetry = func(e resilience.RetryEvent) {
		in.metrics.IncRetry(in.name, op)
		in.logger.Info("retrying supplier call", map[string]any{
			"supplier": in.name,
			"op":       op,
			"attempt":  e.Attempt,
			"waitMs":   e.Wait.Milliseconds(),
			"error":    e.Err.Error(),
		})
		if userHook != nil {
			userHook(e)
		}
	}

	attempts := 0
	value, err := resilience.Retry(ctx, policy, func(ctx context.Context, attempt int) (any, error) {
		attempts = attempt
		return in.client.Call(ctx, op, params)
	})
	if err != nil {
		in.breaker.OnFailure()
		in.metrics.IncCall(in.name, op, "error")
		in.logger.Error("supplier call failed", map[string]any{
			"supplier": in.name,
			"op":       op,
			"attempts": attempts,
			"code":     string(resilience.CodeOf(err)),
		})
		return nil, err
	}
	in.breaker.OnSuccess()
	in.metrics.IncCall(in.name, op, "ok")
	return &Outcome{Value: value, Source: in.name, Attempts: attempts}, nil
}

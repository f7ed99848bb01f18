package supplier

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"suppliergw/internal/resilience"
)

// stubClient counts calls and replays a scripted error sequence before
// succeeding.
type stubClient struct {
	calls    atomic.Int64
	failures int64
	failWith error
	value    any
}

func (c *stubClient) Name() string { return "stub" }

func (c *stubClient) Call(ctx context.Context, op string, params any) (any, error) {
	n := c.calls.Add(1)
	if n <= c.failures {
		return nil, c.failWith
	}
	return c.value, nil
}

func testOptions() IntegrationOptions {
	return IntegrationOptions{
		BucketCapacity:       100,
		BucketRefillInterval: time.Second,
		Breaker: resilience.CircuitOptions{
			FailureThreshold: 3,
			CoolDown:         time.Minute,
		},
		Retry: resilience.RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond},
	}
}

func TestIntegration_WriteDeduplicatesByKey(t *testing.T) {
	t.Parallel()

	client := &stubClient{value: Hold{HoldRef: "HOLD-1", Status: "held"}}
	in := NewIntegration("inventory", client, testOptions(), nil, nil)

	first, err := in.Write(context.Background(), OpHotelHold, "key-1", nil, time.Hour)
	if err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if first.Reused {
		t.Fatalf("first write should not be reused")
	}

	second, err := in.Write(context.Background(), OpHotelHold, "key-1", nil, time.Hour)
	if err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if !second.Reused {
		t.Fatalf("second write should be reused")
	}
	if first.Value.(Hold).HoldRef != second.Value.(Hold).HoldRef {
		t.Fatalf("replay returned a different outcome")
	}
	if got := client.calls.Load(); got != 1 {
		t.Fatalf("expected exactly one supplier call, got %d", got)
	}
}

func TestIntegration_WriteRequiresKey(t *testing.T) {
	t.Parallel()

	in := NewIntegration("inventory", &stubClient{}, testOptions(), nil, nil)
	_, err := in.Write(context.Background(), OpHotelHold, "", nil, time.Hour)
	if resilience.CodeOf(err) != resilience.CodeInputInvalid {
		t.Fatalf("expected INPUT_INVALID, got %v", err)
	}
}

func TestIntegration_ReadMemoizesByParamsHash(t *testing.T) {
	t.Parallel()

	client := &stubClient{value: Rate{Base: "EUR", Quote: "USD", Value: 1.09}}
	in := NewIntegration("fx", client, testOptions(), nil, nil)
	params := &RateRequest{Base: "EUR", Quote: "USD"}

	first, err := in.Read(context.Background(), OpFXRate, params, time.Minute)
	if err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	if first.CacheHit {
		t.Fatalf("first read should miss the cache")
	}

	second, err := in.Read(context.Background(), OpFXRate, params, time.Minute)
	if err != nil {
		t.Fatalf("second read failed: %v", err)
	}
	if !second.CacheHit || second.Source != SourceCache {
		t.Fatalf("second read should hit the cache, got %+v", second)
	}
	if got := client.calls.Load(); got != 1 {
		t.Fatalf("expected exactly one supplier call, got %d", got)
	}
}

func TestIntegration_ReadIgnoresRequestIDInCacheIdentity(t *testing.T) {
	t.Parallel()

	client := &stubClient{value: []HotelOffer{{OfferID: "OF-1"}}}
	in := NewIntegration("inventory", client, testOptions(), nil, nil)

	first := &HotelSearchRequest{RequestID: "req-aaa", City: "Lisbon", CheckIn: "2026-09-01", CheckOut: "2026-09-04", Guests: 2}
	second := &HotelSearchRequest{RequestID: "req-bbb", City: "Lisbon", CheckIn: "2026-09-01", CheckOut: "2026-09-04", Guests: 2}

	if _, err := in.Read(context.Background(), OpHotelSearch, first, time.Minute); err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	out, err := in.Read(context.Background(), OpHotelSearch, second, time.Minute)
	if err != nil {
		t.Fatalf("second read failed: %v", err)
	}
	if !out.CacheHit || out.Source != SourceCache {
		t.Fatalf("identical search params with a new request id should hit the cache, got %+v", out)
	}
	if got := client.calls.Load(); got != 1 {
		t.Fatalf("expected exactly one supplier call, got %d", got)
	}
}

func TestIntegration_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	client := &stubClient{
		failures: 2,
		failWith: resilience.Wrap(resilience.CodeTransientRetry, "supplier 503", nil),
		value:    Rate{Value: 1.09},
	}
	in := NewIntegration("fx", client, testOptions(), nil, nil)

	outcome, err := in.Read(context.Background(), OpFXRate, &RateRequest{Base: "EUR", Quote: "USD"}, time.Minute)
	if err != nil {
		t.Fatalf("read should recover after transient failures: %v", err)
	}
	if outcome.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", outcome.Attempts)
	}
}

func TestIntegration_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	client := &stubClient{
		failures: 100,
		failWith: resilience.Wrap(resilience.CodeDataConflict, "duplicate", nil),
	}
	in := NewIntegration("inventory", client, testOptions(), nil, nil)

	// Non-retryable failures consume one breaker failure each.
	for i := 0; i < 3; i++ {
		params := &HoldQuoteRequest{OfferID: string(rune('a' + i))}
		if _, err := in.Read(context.Background(), OpHotelQuote, params, time.Minute); err == nil {
			t.Fatalf("expected failure")
		}
	}

	before := client.calls.Load()
	_, err := in.Read(context.Background(), OpHotelQuote, &HoldQuoteRequest{OfferID: "z"}, time.Minute)
	if resilience.CodeOf(err) != resilience.CodeSupplierTimeout {
		t.Fatalf("expected SUPPLIER_TIMEOUT from open breaker, got %v", err)
	}
	if client.calls.Load() != before {
		t.Fatalf("open breaker must not reach the supplier")
	}
}

func TestIntegration_BucketExhaustionIsRateLimited(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	opts.BucketCapacity = 1
	opts.BucketRefillInterval = time.Hour
	client := &stubClient{value: Rate{Value: 1.09}}
	in := NewIntegration("fx", client, opts, nil, nil)

	if _, err := in.Read(context.Background(), OpFXRate, &RateRequest{Base: "EUR", Quote: "USD"}, time.Minute); err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	_, err := in.Read(context.Background(), OpFXRate, &RateRequest{Base: "EUR", Quote: "GBP"}, time.Minute)
	if resilience.CodeOf(err) != resilience.CodeRateLimited {
		t.Fatalf("expected RATE_LIMITED, got %v", err)
	}
}

func TestIntegration_OfflineBypassesAdmission(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	opts.Offline = true
	opts.BucketCapacity = 1
	opts.BucketRefillInterval = time.Hour
	in := NewIntegration("inventory", NewFixtureClient("inventory"), opts, nil, nil)

	for i := 0; i < 5; i++ {
		req := &HotelSearchRequest{City: "LIS", CheckIn: "2026-09-01", CheckOut: "2026-09-03", Guests: i + 1}
		outcome, err := in.Read(context.Background(), OpHotelSearch, req, time.Minute)
		if err != nil {
			t.Fatalf("offline read failed: %v", err)
		}
		if outcome.Source != SourceFixtures {
			t.Fatalf("expected fixture source, got %q", outcome.Source)
		}
	}
}

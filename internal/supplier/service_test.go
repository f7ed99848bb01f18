package supplier

import (
	"context"
	"testing"
	"time"

	"suppliergw/internal/resilience"
)

func newTestBooking() *Booking {
	opts := testOptions()
	opts.Offline = true
	inventory := NewIntegration("inventory", NewFixtureClient("inventory"), opts, nil, nil)
	fx := NewIntegration("fx", NewFixtureClient("fx"), opts, nil, nil)
	email := NewIntegration("email", NewFixtureClient("email"), opts, nil, nil)
	return NewBooking(inventory, fx, email, BookingTTLs{})
}

func TestBooking_SearchValidatesInput(t *testing.T) {
	t.Parallel()

	booking := newTestBooking()
	_, err := booking.SearchHotels(context.Background(), &HotelSearchRequest{City: "LIS"})
	if resilience.CodeOf(err) != resilience.CodeInputInvalid {
		t.Fatalf("expected INPUT_INVALID, got %v", err)
	}
}

func TestBooking_SearchReportsCacheProvenance(t *testing.T) {
	t.Parallel()

	booking := newTestBooking()
	req := &HotelSearchRequest{City: "LIS", CheckIn: "2026-09-01", CheckOut: "2026-09-03", Guests: 2}

	first, err := booking.SearchHotels(context.Background(), req)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if first.CacheHit {
		t.Fatalf("first search should not be a cache hit")
	}
	if len(first.Offers) == 0 {
		t.Fatalf("expected offers")
	}

	second, err := booking.SearchHotels(context.Background(), req)
	if err != nil {
		t.Fatalf("second search failed: %v", err)
	}
	if !second.CacheHit || second.Source != SourceCache {
		t.Fatalf("second search should hit the cache, got source %q", second.Source)
	}
}

func TestBooking_CreateHoldRequiresIdempotencyKey(t *testing.T) {
	t.Parallel()

	booking := newTestBooking()
	_, err := booking.CreateHold(context.Background(), &CreateHoldRequest{
		OfferID:   "fx-LIS-1",
		GuestName: "Alex",
	})
	if resilience.CodeOf(err) != resilience.CodeInputInvalid {
		t.Fatalf("expected INPUT_INVALID, got %v", err)
	}
}

func TestBooking_CreateHoldReplaySameOutcome(t *testing.T) {
	t.Parallel()

	booking := newTestBooking()
	req := &CreateHoldRequest{
		IdempotencyKey: "client-key-7",
		OfferID:        "fx-LIS-1",
		GuestName:      "Alex",
		GuestEmail:     "alex@example.com",
	}

	first, err := booking.CreateHold(context.Background(), req)
	if err != nil {
		t.Fatalf("hold failed: %v", err)
	}
	if first.Reused {
		t.Fatalf("first hold should not be reused")
	}

	second, err := booking.CreateHold(context.Background(), req)
	if err != nil {
		t.Fatalf("replayed hold failed: %v", err)
	}
	if !second.Reused {
		t.Fatalf("replayed hold should be reused")
	}
	if first.Hold.HoldRef != second.Hold.HoldRef {
		t.Fatalf("replay returned a different hold ref: %q vs %q", first.Hold.HoldRef, second.Hold.HoldRef)
	}
}

func TestBooking_ConvertRateUnknownPair(t *testing.T) {
	t.Parallel()

	booking := newTestBooking()
	_, err := booking.ConvertRate(context.Background(), &RateRequest{Base: "EUR", Quote: "XXX"})
	if resilience.CodeOf(err) != resilience.CodeInputInvalid {
		t.Fatalf("expected INPUT_INVALID, got %v", err)
	}
}

func TestBooking_SendEmailWithoutKeyIsNotDeduplicated(t *testing.T) {
	t.Parallel()

	booking := newTestBooking()
	req := &EmailRequest{To: "alex@example.com", Subject: "Your hold", Body: "..."}

	first, err := booking.SendEmail(context.Background(), req)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	second, err := booking.SendEmail(context.Background(), req)
	if err != nil {
		t.Fatalf("second send failed: %v", err)
	}
	if second.Reused {
		t.Fatalf("sends without a key must not be deduplicated")
	}
	if first.Receipt.MessageID == second.Receipt.MessageID {
		t.Fatalf("expected distinct message ids")
	}
}

func TestBooking_SendEmailWithKeyIsDeduplicated(t *testing.T) {
	t.Parallel()

	booking := newTestBooking()
	req := &EmailRequest{
		IdempotencyKey: "confirm-1",
		To:             "alex@example.com",
		Subject:        "Your hold",
	}

	first, err := booking.SendEmail(context.Background(), req)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	second, err := booking.SendEmail(context.Background(), req)
	if err != nil {
		t.Fatalf("second send failed: %v", err)
	}
	if !second.Reused {
		t.Fatalf("keyed resend should be reused")
	}
	if first.Receipt.MessageID != second.Receipt.MessageID {
		t.Fatalf("replay returned a different message id")
	}
}

func TestBookingTTLs_HoldDedupOutlivesHoldExpiry(t *testing.T) {
	t.Parallel()

	ttls := BookingTTLs{}.normalized()
	if ttls.HoldDedup < 6*time.Hour {
		t.Fatalf("hold dedup TTL %v must outlive the 6h fixture hold expiry", ttls.HoldDedup)
	}
}

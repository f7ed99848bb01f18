// Package supplier provides the booking service.
package supplier

import (
	"context"
	"time"

	"github.com/google/uuid"

	"suppliergw/internal/resilience"
)

// BookingTTLs configures per-operation cache and dedup lifetimes. The
// hold dedup TTL must outlive the supplier's own hold expiry so a
// legitimate client retry inside that window is always deduplicated.
type BookingTTLs struct {
	SearchCache time.Duration
	QuoteCache  time.Duration
	RateCache   time.Duration
	HoldDedup   time.Duration
	EmailDedup  time.Duration
}

func (t BookingTTLs) normalized() BookingTTLs {
	if t.SearchCache <= 0 {
		t.SearchCache = 2 * time.Minute
	}
	if t.QuoteCache <= 0 {
		t.QuoteCache = 30 * time.Second
	}
	if t.RateCache <= 0 {
		t.RateCache = 5 * time.Minute
	}
	if t.HoldDedup <= 0 {
		t.HoldDedup = 24 * time.Hour
	}
	if t.EmailDedup <= 0 {
		t.EmailDedup = time.Hour
	}
	return t
}

// Booking implements BookingService over three supplier integrations.
type Booking struct {
	inventory *Integration
	fx        *Integration
	email     *Integration
	ttls      BookingTTLs
}

// NewBooking constructs the booking service.
func NewBooking(inventory, fx, email *Integration, ttls BookingTTLs) *Booking {
	return &Booking{
		inventory: inventory,
		fx:        fx,
		email:     email,
		ttls:      ttls.normalized(),
	}
}

// SearchHotels searches hotel inventory, memoized by parameter hash.
func (b *Booking) SearchHotels(ctx context.Context, req *HotelSearchRequest) (*SearchHotelsResponse, error) {
	if req == nil || req.City == "" || req.CheckIn == "" || req.CheckOut == "" {
		return nil, resilience.ErrInvalidInput
	}
	outcome, err := b.inventory.Read(ctx, OpHotelSearch, req, b.ttls.SearchCache)
	if err != nil {
		return nil, err
	}
	offers, ok := outcome.Value.([]HotelOffer)
	if !ok {
		return nil, resilience.Wrap(resilience.CodeUnknown, "unexpected search payload", nil)
	}
	return &SearchHotelsResponse{Offers: offers, CacheHit: outcome.CacheHit, Source: outcome.Source}, nil
}

// QuoteHold prices an offer before it is held.
func (b *Booking) QuoteHold(ctx context.Context, req *HoldQuoteRequest) (*QuoteResponse, error) {
	if req == nil || req.OfferID == "" {
		return nil, resilience.ErrInvalidInput
	}
	outcome, err := b.inventory.Read(ctx, OpHotelQuote, req, b.ttls.QuoteCache)
	if err != nil {
		return nil, err
	}
	quote, ok := outcome.Value.(HoldQuote)
	if !ok {
		return nil, resilience.Wrap(resilience.CodeUnknown, "unexpected quote payload", nil)
	}
	return &QuoteResponse{Quote: quote, CacheHit: outcome.CacheHit, Source: outcome.Source}, nil
}

// CreateHold creates a supplier hold, deduplicated by the client's
// idempotency key. The key is mandatory: without one a retried request
// could create a duplicate reservation.
func (b *Booking) CreateHold(ctx context.Context, req *CreateHoldRequest) (*HoldResponse, error) {
	if req == nil || req.OfferID == "" || req.GuestName == "" {
		return nil, resilience.ErrInvalidInput
	}
	if req.IdempotencyKey == "" {
		return nil, resilience.Wrap(resilience.CodeInputInvalid, "idempotency key is required", nil)
	}
	outcome, err := b.inventory.Write(ctx, OpHotelHold, req.IdempotencyKey, req, b.ttls.HoldDedup)
	if err != nil {
		return nil, err
	}
	hold, ok := outcome.Value.(Hold)
	if !ok {
		return nil, resilience.Wrap(resilience.CodeUnknown, "unexpected hold payload", nil)
	}
	return &HoldResponse{Hold: hold, Reused: outcome.Reused, Source: outcome.Source}, nil
}

// ConvertRate returns an FX rate, memoized per currency pair.
func (b *Booking) ConvertRate(ctx context.Context, req *RateRequest) (*RateResponse, error) {
	if req == nil || req.Base == "" || req.Quote == "" {
		return nil, resilience.ErrInvalidInput
	}
	outcome, err := b.fx.Read(ctx, OpFXRate, req, b.ttls.RateCache)
	if err != nil {
		return nil, err
	}
	rate, ok := outcome.Value.(Rate)
	if !ok {
		return nil, resilience.Wrap(resilience.CodeUnknown, "unexpected rate payload", nil)
	}
	return &RateResponse{Rate: rate, CacheHit: outcome.CacheHit, Source: outcome.Source}, nil
}

// SendEmail sends a transactional email. A client-supplied idempotency
// key deduplicates resends; without one each call is a fresh send.
func (b *Booking) SendEmail(ctx context.Context, req *EmailRequest) (*EmailResponse, error) {
	if req == nil || req.To == "" || req.Subject == "" {
		return nil, resilience.ErrInvalidInput
	}
	key := req.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}
	outcome, err := b.email.Write(ctx, OpEmailSend, key, req, b.ttls.EmailDedup)
	if err != nil {
		return nil, err
	}
	receipt, ok := outcome.Value.(EmailReceipt)
	if !ok {
		return nil, resilience.Wrap(resilience.CodeUnknown, "unexpected email payload", nil)
	}
	return &EmailResponse{Receipt: receipt, Reused: outcome.Reused, Source: outcome.Source}, nil
}

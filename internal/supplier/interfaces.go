// Package supplier defines service interfaces.
package supplier

import "context"

// Supplier operation names shared between integrations and clients.
const (
	OpHotelSearch = "hotels.search"
	OpHotelQuote  = "hotels.quote"
	OpHotelHold   = "hotels.hold"
	OpFXRate      = "fx.rate"
	OpEmailSend   = "email.send"
)

// Client issues a single call to a third-party supplier. Implementations
// decide what the operation means; the resilience layer does not.
type Client interface {
	Name() string
	Call(ctx context.Context, op string, params any) (any, error)
}

// BookingService fronts the travel-booking operations.
type BookingService interface {
	SearchHotels(ctx context.Context, req *HotelSearchRequest) (*SearchHotelsResponse, error)
	QuoteHold(ctx context.Context, req *HoldQuoteRequest) (*QuoteResponse, error)
	CreateHold(ctx context.Context, req *CreateHoldRequest) (*HoldResponse, error)
	ConvertRate(ctx context.Context, req *RateRequest) (*RateResponse, error)
	SendEmail(ctx context.Context, req *EmailRequest) (*EmailResponse, error)
}

// Transport exposes the booking service over a transport layer.
type Transport interface {
	ServeBooking(service BookingService) error
	Start() error
	Shutdown(ctx context.Context) error
}

// SearchHotelsResponse reports search results with cache provenance.
type SearchHotelsResponse struct {
	Offers   []HotelOffer
	CacheHit bool
	Source   string
}

// QuoteResponse reports a priced quote with cache provenance.
type QuoteResponse struct {
	Quote    HoldQuote
	CacheHit bool
	Source   string
}

// HoldResponse reports a created or replayed hold.
type HoldResponse struct {
	Hold   Hold
	Reused bool
	Source string
}

// RateResponse reports an FX rate with cache provenance.
type RateResponse struct {
	Rate     Rate
	CacheHit bool
	Source   string
}

// EmailResponse reports an accepted or replayed email send.
type EmailResponse struct {
	Receipt EmailReceipt
	Reused  bool
	Source  string
}

// Package supplier defines core request and response models.
package supplier

import "time"

// HotelSearchRequest captures a hotel inventory search. RequestID is
// correlation metadata and is excluded from the request's cache identity.
type HotelSearchRequest struct {
	RequestID string `json:"-"`
	City      string
	CheckIn   string
	CheckOut  string
	Guests    int
}

// HotelOffer is a single bookable result from inventory search.
type HotelOffer struct {
	OfferID      string
	HotelName    string
	City         string
	NightlyCents int64
	Currency     string
}

// HoldQuoteRequest asks for the current price of an offer before holding it.
type HoldQuoteRequest struct {
	RequestID string `json:"-"`
	OfferID   string
	Guests    int
}

// HoldQuote is the priced confirmation for an offer.
type HoldQuote struct {
	OfferID    string
	TotalCents int64
	Currency   string
	ValidUntil time.Time
}

// CreateHoldRequest captures a side-effecting hold creation.
type CreateHoldRequest struct {
	RequestID      string `json:"-"`
	IdempotencyKey string
	OfferID        string
	GuestName      string
	GuestEmail     string
}

// Hold is a supplier-side reservation held for later confirmation.
type Hold struct {
	HoldRef   string
	OfferID   string
	Status    string
	ExpiresAt time.Time
}

// RateRequest asks for an FX conversion rate.
type RateRequest struct {
	RequestID string `json:"-"`
	Base      string
	Quote     string
}

// Rate is an FX conversion rate at a point in time.
type Rate struct {
	Base  string
	Quote string
	Value float64
	AsOf  time.Time
}

// EmailRequest captures a side-effecting email send.
type EmailRequest struct {
	RequestID      string `json:"-"`
	IdempotencyKey string
	To             string
	Subject        string
	Body           string
}

// EmailReceipt is the provider's acknowledgement of an accepted message.
type EmailReceipt struct {
	MessageID  string
	Provider   string
	AcceptedAt time.Time
}

// Outcome is the envelope every integration call returns. Source names
// which path produced the value (a supplier, "cache", or "fixtures").
type Outcome struct {
	Value    any
	Source   string
	CacheHit bool
	Reused   bool
	Attempts int
}

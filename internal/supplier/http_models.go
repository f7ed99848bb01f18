// Package supplier provides HTTP transport models.
package supplier

import "time"

type httpErrorResponse struct {
	Error     string `json:"error"`
	ErrorCode string `json:"errorCode"`
	RequestID string `json:"requestID,omitempty"`
}

type httpSearchRequest struct {
	City     string `json:"city"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Guests   int    `json:"guests"`
}

type httpOffer struct {
	OfferID      string `json:"offerID"`
	HotelName    string `json:"hotelName"`
	City         string `json:"city"`
	NightlyCents int64  `json:"nightlyCents"`
	Currency     string `json:"currency"`
}

type httpSearchResponse struct {
	Offers   []httpOffer `json:"offers"`
	CacheHit bool        `json:"cacheHit"`
	Source   string      `json:"source"`
}

type httpQuoteRequest struct {
	OfferID string `json:"offerID"`
	Guests  int    `json:"guests"`
}

type httpQuoteResponse struct {
	OfferID    string    `json:"offerID"`
	TotalCents int64     `json:"totalCents"`
	Currency   string    `json:"currency"`
	ValidUntil time.Time `json:"validUntil"`
	CacheHit   bool      `json:"cacheHit"`
	Source     string    `json:"source"`
}

type httpHoldRequest struct {
	IdempotencyKey string `json:"idempotencyKey"`
	OfferID        string `json:"offerID"`
	GuestName      string `json:"guestName"`
	GuestEmail     string `json:"guestEmail"`
}

type httpHoldResponse struct {
	HoldRef   string    `json:"holdRef"`
	OfferID   string    `json:"offerID"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expiresAt"`
	Reused    bool      `json:"reused"`
	Source    string    `json:"source"`
}

type httpRateResponse struct {
	Base     string    `json:"base"`
	Quote    string    `json:"quote"`
	Rate     float64   `json:"rate"`
	AsOf     time.Time `json:"asOf"`
	CacheHit bool      `json:"cacheHit"`
	Source   string    `json:"source"`
}

type httpEmailRequest struct {
	IdempotencyKey string `json:"idempotencyKey"`
	To             string `json:"to"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}

type httpEmailResponse struct {
	MessageID  string    `json:"messageID"`
	Provider   string    `json:"provider"`
	AcceptedAt time.Time `json:"acceptedAt"`
	Reused     bool      `json:"reused"`
	Source     string    `json:"source"`
}

func toSearchRequest(req httpSearchRequest, requestID string) *HotelSearchRequest {
	return &HotelSearchRequest{
		RequestID: requestID,
		City:      req.City,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Guests:    req.Guests,
	}
}

func fromSearchResponse(resp *SearchHotelsResponse) httpSearchResponse {
	if resp == nil {
		return httpSearchResponse{Offers: []httpOffer{}}
	}
	offers := make([]httpOffer, len(resp.Offers))
	for i, offer := range resp.Offers {
		offers[i] = httpOffer{
			OfferID:      offer.OfferID,
			HotelName:    offer.HotelName,
			City:         offer.City,
			NightlyCents: offer.NightlyCents,
			Currency:     offer.Currency,
		}
	}
	return httpSearchResponse{Offers: offers, CacheHit: resp.CacheHit, Source: resp.Source}
}

func toQuoteRequest(req httpQuoteRequest, requestID string) *HoldQuoteRequest {
	return &HoldQuoteRequest{
		RequestID: requestID,
		OfferID:   req.OfferID,
		Guests:    req.Guests,
	}
}

func fromQuoteResponse(resp *QuoteResponse) httpQuoteResponse {
	if resp == nil {
		return httpQuoteResponse{}
	}
	return httpQuoteResponse{
		OfferID:    resp.Quote.OfferID,
		TotalCents: resp.Quote.TotalCents,
		Currency:   resp.Quote.Currency,
		ValidUntil: resp.Quote.ValidUntil,
		CacheHit:   resp.CacheHit,
		Source:     resp.Source,
	}
}

func toHoldRequest(req httpHoldRequest, requestID, headerKey string) *CreateHoldRequest {
	key := req.IdempotencyKey
	if headerKey != "" {
		key = headerKey
	}
	return &CreateHoldRequest{
		RequestID:      requestID,
		IdempotencyKey: key,
		OfferID:        req.OfferID,
		GuestName:      req.GuestName,
		GuestEmail:     req.GuestEmail,
	}
}

func fromHoldResponse(resp *HoldResponse) httpHoldResponse {
	if resp == nil {
		return httpHoldResponse{}
	}
	return httpHoldResponse{
		HoldRef:   resp.Hold.HoldRef,
		OfferID:   resp.Hold.OfferID,
		Status:    resp.Hold.Status,
		ExpiresAt: resp.Hold.ExpiresAt,
		Reused:    resp.Reused,
		Source:    resp.Source,
	}
}

func fromRateResponse(resp *RateResponse) httpRateResponse {
	if resp == nil {
		return httpRateResponse{}
	}
	return httpRateResponse{
		Base:     resp.Rate.Base,
		Quote:    resp.Rate.Quote,
		Rate:     resp.Rate.Value,
		AsOf:     resp.Rate.AsOf,
		CacheHit: resp.CacheHit,
		Source:   resp.Source,
	}
}

func toEmailRequest(req httpEmailRequest, requestID, headerKey string) *EmailRequest {
	key := req.IdempotencyKey
	if headerKey != "" {
		key = headerKey
	}
	return &EmailRequest{
		RequestID:      requestID,
		IdempotencyKey: key,
		To:             req.To,
		Subject:        req.Subject,
		Body:           req.Body,
	}
}

func fromEmailResponse(resp *EmailResponse) httpEmailResponse {
	if resp == nil {
		return httpEmailResponse{}
	}
	return httpEmailResponse{
		MessageID:  resp.Receipt.MessageID,
		Provider:   resp.Receipt.Provider,
		AcceptedAt: resp.Receipt.AcceptedAt,
		Reused:     resp.Reused,
		Source:     resp.Source,
	}
}

// Package supplier provides offline fixture data sources.
package supplier

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"suppliergw/internal/resilience"
)

// FixtureClient serves canned supplier data for offline development and
// degraded operation. It implements Client for every known operation.
type FixtureClient struct {
	name string
	now  func() time.Time
}

// NewFixtureClient constructs a fixture client labelled with a supplier name.
func NewFixtureClient(name string) *FixtureClient {
	return &FixtureClient{name: name, now: time.Now}
}

// Name returns the supplier name.
func (c *FixtureClient) Name() string {
	return c.name
}

// Call returns fixture data for the operation.
func (c *FixtureClient) Call(ctx context.Context, op string, params any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, resilience.Wrap(resilience.CodeSupplierTimeout, "call cancelled", err)
	}
	switch op {
	case OpHotelSearch:
		req, ok := params.(*HotelSearchRequest)
		if !ok {
			return nil, resilience.Wrap(resilience.CodeInputInvalid, "unexpected search params", nil)
		}
		return c.searchFixtures(req), nil
	case OpHotelQuote:
		req, ok := params.(*HoldQuoteRequest)
		if !ok {
			return nil, resilience.Wrap(resilience.CodeInputInvalid, "unexpected quote params", nil)
		}
		return c.quoteFixture(req), nil
	case OpHotelHold:
		req, ok := params.(*CreateHoldRequest)
		if !ok {
			return nil, resilience.Wrap(resilience.CodeInputInvalid, "unexpected hold params", nil)
		}
		return c.holdFixture(req), nil
	case OpFXRate:
		req, ok := params.(*RateRequest)
		if !ok {
			return nil, resilience.Wrap(resilience.CodeInputInvalid, "unexpected rate params", nil)
		}
		return c.rateFixture(req)
	case OpEmailSend:
		if _, ok := params.(*EmailRequest); !ok {
			return nil, resilience.Wrap(resilience.CodeInputInvalid, "unexpected email params", nil)
		}
		return EmailReceipt{
			MessageID:  uuid.NewString(),
			Provider:   c.name,
			AcceptedAt: c.now(),
		}, nil
	default:
		return nil, resilience.Wrap(resilience.CodeConfiguration, "unknown operation "+op, nil)
	}
}

func (c *FixtureClient) searchFixtures(req *HotelSearchRequest) []HotelOffer {
	city := strings.ToUpper(req.City)
	return []HotelOffer{
		{OfferID: "fx-" + city + "-1", HotelName: "Harbour View", City: city, NightlyCents: 14200, Currency: "EUR"},
		{OfferID: "fx-" + city + "-2", HotelName: "Old Town Court", City: city, NightlyCents: 9900, Currency: "EUR"},
		{OfferID: "fx-" + city + "-3", HotelName: "Terrace Garden", City: city, NightlyCents: 18750, Currency: "EUR"},
	}
}

func (c *FixtureClient) quoteFixture(req *HoldQuoteRequest) HoldQuote {
	guests := req.Guests
	if guests <= 0 {
		guests = 1
	}
	return HoldQuote{
		OfferID:    req.OfferID,
		TotalCents: 14200 * int64(guests),
		Currency:   "EUR",
		ValidUntil: c.now().Add(30 * time.Minute),
	}
}

func (c *FixtureClient) holdFixture(req *CreateHoldRequest) Hold {
	return Hold{
		HoldRef:   "HOLD-" + uuid.NewString(),
		OfferID:   req.OfferID,
		Status:    "held",
		ExpiresAt: c.now().Add(6 * time.Hour),
	}
}

var fixtureRates = map[string]float64{
	"EUR/USD": 1.09,
	"USD/EUR": 0.92,
	"EUR/GBP": 0.85,
	"GBP/EUR": 1.18,
	"USD/JPY": 147.2,
}

func (c *FixtureClient) rateFixture(req *RateRequest) (Rate, error) {
	pair := strings.ToUpper(req.Base) + "/" + strings.ToUpper(req.Quote)
	value, ok := fixtureRates[pair]
	if !ok {
		return Rate{}, resilience.Wrap(resilience.CodeInputInvalid, "unsupported currency pair "+pair, nil)
	}
	return Rate{
		Base:  strings.ToUpper(req.Base),
		Quote: strings.ToUpper(req.Quote),
		Value: value,
		AsOf:  c.now(),
	}, nil
}

package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/joyner-app/backend-pricing/internal/common"
	"github.com/joyner-app/backend-pricing/internal/lineitem"
	"github.com/joyner-app/backend-pricing/internal/money"
	"github.com/joyner-app/backend-pricing/internal/pricing"
	"github.com/joyner-app/backend-pricing/internal/resilience"
)

// HTTPClient implements Client against the hosted marketplace REST API.
// Outbound calls go through the resilience wrapper so a flapping backend
// does not take pricing down with it.
type HTTPClient struct {
	BaseURL string
	Token   string
	HTTP    resilience.HTTPClient
	Logger  zerolog.Logger
}

type listingResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Title string `json:"title"`
			Price struct {
				Amount   int64  `json:"amount"`
				Currency string `json:"currency"`
			} `json:"price"`
			PublicData struct {
				UnitType                               string `json:"unitType"`
				ShippingPriceInSubunitsOneItem         *int64 `json:"shippingPriceInSubunitsOneItem"`
				ShippingPriceInSubunitsAdditionalItems *int64 `json:"shippingPriceInSubunitsAdditionalItems"`
			} `json:"publicData"`
		} `json:"attributes"`
	} `json:"data"`
}

// GetListing fetches a listing by id.
func (c *HTTPClient) GetListing(ctx context.Context, id uuid.UUID) (Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/listings/"+id.String()), nil)
	if err != nil {
		return Listing{}, err
	}
	c.authorize(req)

	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return Listing{}, fmt.Errorf("marketplace: get listing: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return Listing{}, ErrListingNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Listing{}, common.NewAppError("UPSTREAM", "marketplace rejected the listing request", http.StatusBadGateway,
			fmt.Errorf("marketplace: get listing: unexpected status %s", resp.Status))
	}

	var payload listingResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return Listing{}, fmt.Errorf("marketplace: decode listing: %w", err)
	}
	return decodeListing(payload)
}

func decodeListing(payload listingResponse) (Listing, error) {
	id, err := uuid.Parse(payload.Data.ID)
	if err != nil {
		return Listing{}, fmt.Errorf("marketplace: listing id: %w", err)
	}
	attrs := payload.Data.Attributes
	listing := Listing{
		ID:        id,
		Title:     attrs.Title,
		UnitPrice: money.New(attrs.Price.Amount, attrs.Price.Currency),
		UnitType:  pricing.UnitType(attrs.PublicData.UnitType),
	}
	if v := attrs.PublicData.ShippingPriceInSubunitsOneItem; v != nil {
		m := money.New(*v, attrs.Price.Currency)
		listing.ShippingPriceOneItem = &m
	}
	if v := attrs.PublicData.ShippingPriceInSubunitsAdditionalItems; v != nil {
		m := money.New(*v, attrs.Price.Currency)
		listing.ShippingPriceAdditionalItems = &m
	}
	return listing, nil
}

type initiateRequest struct {
	ProcessAlias string         `json:"processAlias"`
	Transition   string         `json:"transition"`
	Params       initiateParams `json:"params"`
}

type initiateParams struct {
	ListingID    string              `json:"listingId"`
	LineItems    []lineitem.LineItem `json:"lineItems"`
	BookingStart *time.Time          `json:"bookingStart,omitempty"`
	BookingEnd   *time.Time          `json:"bookingEnd,omitempty"`
	Quantity     int64               `json:"stockReservationQuantity,omitempty"`
	Seats        int64               `json:"seats,omitempty"`
	Delivery     string              `json:"deliveryMethod,omitempty"`
}

type transactionResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			ProcessAlias   string      `json:"processAlias"`
			LastTransition string      `json:"lastTransition"`
			PayinTotal     money.Money `json:"payinTotal"`
			PayoutTotal    money.Money `json:"payoutTotal"`
		} `json:"attributes"`
	} `json:"data"`
}

// InitiateTransaction starts a transaction with the computed line items.
func (c *HTTPClient) InitiateTransaction(ctx context.Context, params InitiateParams) (Transaction, error) {
	body := initiateRequest{
		ProcessAlias: params.ProcessAlias,
		Transition:   params.Transition,
		Params: initiateParams{
			ListingID:    params.ListingID.String(),
			LineItems:    params.LineItems,
			BookingStart: params.OrderData.BookingStart,
			BookingEnd:   params.OrderData.BookingEnd,
			Quantity:     params.OrderData.StockReservationQuantity,
			Seats:        params.OrderData.Seats,
			Delivery:     string(params.OrderData.DeliveryMethod),
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return Transaction{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/transactions/initiate"), bytes.NewReader(data))
	if err != nil {
		return Transaction{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return Transaction{}, fmt.Errorf("marketplace: initiate transaction: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return Transaction{}, ErrListingNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.Logger.Warn().Int("status", resp.StatusCode).Msg("initiate transaction rejected")
		return Transaction{}, common.NewAppError("UPSTREAM", "marketplace rejected the transaction", http.StatusBadGateway,
			fmt.Errorf("marketplace: initiate transaction: unexpected status %s", resp.Status))
	}

	var payload transactionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return Transaction{}, fmt.Errorf("marketplace: decode transaction: %w", err)
	}
	id, err := uuid.Parse(payload.Data.ID)
	if err != nil {
		return Transaction{}, fmt.Errorf("marketplace: transaction id: %w", err)
	}
	return Transaction{
		ID:             id,
		ProcessAlias:   payload.Data.Attributes.ProcessAlias,
		LastTransition: payload.Data.Attributes.LastTransition,
		PayinTotal:     payload.Data.Attributes.PayinTotal,
		PayoutTotal:    payload.Data.Attributes.PayoutTotal,
	}, nil
}

func (c *HTTPClient) endpoint(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

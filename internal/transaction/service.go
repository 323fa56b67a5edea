package transaction

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/joyner-app/backend-pricing/internal/lineitem"
	"github.com/joyner-app/backend-pricing/internal/marketplace"
	"github.com/joyner-app/backend-pricing/internal/money"
	"github.com/joyner-app/backend-pricing/internal/obs"
	"github.com/joyner-app/backend-pricing/internal/override"
	"github.com/joyner-app/backend-pricing/internal/pricing"
)

// Service computes pricing breakdowns and drives transaction initiation
// against the hosted marketplace backend.
type Service struct {
	Client    marketplace.Client
	Overrides *override.Service

	ProviderCommissionPct float64
	CustomerCommissionPct float64
	ProcessAlias          string
	Transition            string

	Logger zerolog.Logger
}

// Breakdown is the priced view of an order returned to the checkout UI.
type Breakdown struct {
	LineItems   []lineitem.LineItem `json:"lineItems"`
	PayinTotal  money.Money         `json:"payinTotal"`
	PayoutTotal money.Money         `json:"payoutTotal"`
	Subtotal    money.Money         `json:"subtotal"`
}

// InitiateResult pairs the hosted backend's transaction with the breakdown
// that was submitted with it.
type InitiateResult struct {
	Transaction marketplace.Transaction `json:"transaction"`
	Breakdown   Breakdown               `json:"breakdown"`
}

// Speculate prices an order without creating a transaction.
func (s *Service) Speculate(ctx context.Context, listingID uuid.UUID, order pricing.OrderData) (Breakdown, error) {
	listing, err := s.Client.GetListing(ctx, listingID)
	if err != nil {
		s.observeSpeculate("", err)
		return Breakdown{}, err
	}
	breakdown, _, err := s.price(ctx, listing, order)
	s.observeSpeculate(string(listing.UnitType), err)
	return breakdown, err
}

// Initiate prices the order and starts a transaction with the line items
// attached. The hosted backend re-validates totals, so the breakdown the
// customer saw and the transaction charge cannot drift apart.
func (s *Service) Initiate(ctx context.Context, listingID uuid.UUID, order pricing.OrderData) (InitiateResult, error) {
	listing, err := s.Client.GetListing(ctx, listingID)
	if err != nil {
		s.observeInitiate(err)
		return InitiateResult{}, err
	}
	breakdown, items, err := s.price(ctx, listing, order)
	if err != nil {
		s.observeInitiate(err)
		return InitiateResult{}, err
	}
	tx, err := s.Client.InitiateTransaction(ctx, marketplace.InitiateParams{
		ListingID:    listingID,
		ProcessAlias: s.ProcessAlias,
		Transition:   s.Transition,
		OrderData:    order,
		LineItems:    items,
	})
	s.observeInitiate(err)
	if err != nil {
		s.Logger.Error().Err(err).Str("listing_id", listingID.String()).Msg("initiate transaction failed")
		return InitiateResult{}, err
	}
	if tx.PayinTotal.IsZero() {
		tx.PayinTotal = breakdown.PayinTotal
	}
	if tx.PayoutTotal.IsZero() {
		tx.PayoutTotal = breakdown.PayoutTotal
	}
	return InitiateResult{Transaction: tx, Breakdown: breakdown}, nil
}

func (s *Service) price(ctx context.Context, listing marketplace.Listing, order pricing.OrderData) (Breakdown, []lineitem.LineItem, error) {
	var table override.Table
	if s.Overrides != nil {
		table = s.Overrides.Resolve(ctx)
	}
	engine := pricing.Engine{Overrides: table}
	items, err := engine.TransactionLineItems(
		listing.Pricing(),
		order,
		pricing.Commission{Percentage: s.ProviderCommissionPct},
		pricing.Commission{Percentage: s.CustomerCommissionPct},
	)
	if err != nil {
		return Breakdown{}, nil, err
	}
	currency := listing.UnitPrice.Currency
	payin, err := lineitem.PayinTotal(items, currency)
	if err != nil {
		return Breakdown{}, nil, err
	}
	payout, err := lineitem.PayoutTotal(items, currency)
	if err != nil {
		return Breakdown{}, nil, err
	}
	subtotal, err := lineitem.Subtotal(items, currency)
	if err != nil {
		return Breakdown{}, nil, err
	}
	if obs.LineItemsPerComputation != nil {
		obs.LineItemsPerComputation.Observe(float64(len(items)))
	}
	return Breakdown{
		LineItems:   items,
		PayinTotal:  payin,
		PayoutTotal: payout,
		Subtotal:    subtotal,
	}, items, nil
}

func (s *Service) observeSpeculate(unitType string, err error) {
	if obs.SpeculateTotal == nil {
		return
	}
	obs.SpeculateTotal.WithLabelValues(unitType, outcome(err)).Inc()
}

func (s *Service) observeInitiate(err error) {
	if obs.InitiateTotal == nil {
		return
	}
	obs.InitiateTotal.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case pricing.IsMissingQuantity(err):
		return "missing_quantity"
	case errors.Is(err, marketplace.ErrListingNotFound):
		return "listing_not_found"
	case errors.Is(err, money.ErrCurrencyMismatch):
		return "currency_mismatch"
	default:
		return "error"
	}
}

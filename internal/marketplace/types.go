package marketplace

import (
	"errors"

	"github.com/google/uuid"

	"github.com/joyner-app/backend-pricing/internal/lineitem"
	"github.com/joyner-app/backend-pricing/internal/money"
	"github.com/joyner-app/backend-pricing/internal/pricing"
)

// ErrListingNotFound is returned when the hosted backend has no listing for
// the requested id.
var ErrListingNotFound = errors.New("marketplace: listing not found")

// Listing is the subset of a hosted-backend listing the pricing service
// needs: the price, the billing granularity and the shipping tariff the
// provider configured.
type Listing struct {
	ID                           uuid.UUID        `json:"id"`
	Title                        string           `json:"title"`
	UnitPrice                    money.Money      `json:"unitPrice"`
	UnitType                     pricing.UnitType `json:"unitType"`
	ShippingPriceOneItem         *money.Money     `json:"shippingPriceOneItem,omitempty"`
	ShippingPriceAdditionalItems *money.Money     `json:"shippingPriceAdditionalItems,omitempty"`
}

// Pricing converts the listing into the engine's read-only view.
func (l Listing) Pricing() pricing.Listing {
	return pricing.Listing{
		ID:                           l.ID.String(),
		UnitPrice:                    l.UnitPrice,
		UnitType:                     l.UnitType,
		ShippingPriceOneItem:         l.ShippingPriceOneItem,
		ShippingPriceAdditionalItems: l.ShippingPriceAdditionalItems,
	}
}

// InitiateParams is the payload for starting a transaction on the hosted
// backend with server-computed line items attached.
type InitiateParams struct {
	ListingID    uuid.UUID
	ProcessAlias string
	Transition   string
	OrderData    pricing.OrderData
	LineItems    []lineitem.LineItem
}

// Transaction is the hosted backend's view of an initiated transaction.
type Transaction struct {
	ID             uuid.UUID   `json:"id"`
	ProcessAlias   string      `json:"processAlias"`
	LastTransition string      `json:"lastTransition"`
	PayinTotal     money.Money `json:"payinTotal"`
	PayoutTotal    money.Money `json:"payoutTotal"`
}

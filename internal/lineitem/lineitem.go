package lineitem

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joyner-app/backend-pricing/internal/money"
)

// Line item codes shared with the marketplace backend and the order
// breakdown UI. Unrecognised codes fall back to a generic renderer, so the
// exact strings are a wire contract.
const (
	CodePrefix = "line-item/"

	CodeItem  = "line-item/item"
	CodeHour  = "line-item/hour"
	CodeDay   = "line-item/day"
	CodeNight = "line-item/night"

	CodeShippingFee = "line-item/shipping-fee"
	CodePickupFee   = "line-item/pickup-fee"
	CodeVoucher     = "line-item/voucher"
	CodeSizeFee     = "line-item/tappeto-Size-fees"

	CodeProviderCommission = "line-item/provider-commission"
	CodeCustomerCommission = "line-item/customer-commission"
)

const (
	// MaxCodeLength is the backend limit for line item codes.
	MaxCodeLength = 64
	// MaxLineItems is the backend limit for one transaction.
	MaxLineItems = 50
)

// Party identifies who a line item is included for.
type Party string

const (
	PartyCustomer Party = "customer"
	PartyProvider Party = "provider"
)

var (
	// ErrInvalidMode is returned when a line item does not carry exactly one
	// of quantity, percentage, or units+seats.
	ErrInvalidMode = errors.New("lineitem: exactly one of quantity, percentage, or units and seats required")
	// ErrInvalidCode is returned for codes outside the line-item namespace.
	ErrInvalidCode = errors.New("lineitem: invalid code")
	// ErrTooManyLineItems is returned when a transaction would exceed the
	// backend maximum of 50 line items.
	ErrTooManyLineItems = errors.New("lineitem: too many line items")
)

// LineItem is one priced component of a transaction breakdown.
//
// The sum of items included for the customer is the payin total; the sum of
// items included for the provider is the payout total. Commission items carry
// their sign in the percentage, so plain summation reconciles both totals.
type LineItem struct {
	Code       string      `json:"code"`
	UnitPrice  money.Money `json:"unitPrice"`
	LineTotal  money.Money `json:"lineTotal"`
	Quantity   *int64      `json:"quantity,omitempty"`
	Percentage *float64    `json:"percentage,omitempty"`
	Units      *int64      `json:"units,omitempty"`
	Seats      *int64      `json:"seats,omitempty"`
	IncludeFor []Party     `json:"includeFor"`
	Reversal   bool        `json:"reversal,omitempty"`
}

// IncludesParty reports whether the item counts towards the given party's total.
func (li LineItem) IncludesParty(p Party) bool {
	for _, party := range li.IncludeFor {
		if party == p {
			return true
		}
	}
	return false
}

// IsCommission reports whether the item is a platform commission.
func (li LineItem) IsCommission() bool {
	return li.Code == CodeProviderCommission || li.Code == CodeCustomerCommission
}

// Validate checks the code namespace and the one-mode invariant.
func (li LineItem) Validate() error {
	if !strings.HasPrefix(li.Code, CodePrefix) || len(li.Code) > MaxCodeLength {
		return fmt.Errorf("%w: %q", ErrInvalidCode, li.Code)
	}
	modes := 0
	if li.Quantity != nil {
		modes++
	}
	if li.Percentage != nil {
		modes++
	}
	if li.Units != nil || li.Seats != nil {
		if li.Units == nil || li.Seats == nil {
			return fmt.Errorf("%w: units and seats must be set together (code %s)", ErrInvalidMode, li.Code)
		}
		modes++
	}
	if modes != 1 {
		return fmt.Errorf("%w: code %s", ErrInvalidMode, li.Code)
	}
	return nil
}

// Priced returns a copy of the item with LineTotal derived from its mode:
// unitPrice*quantity, unitPrice*percentage/100 (rounded half away from zero),
// or unitPrice*units*seats.
func (li LineItem) Priced() (LineItem, error) {
	if err := li.Validate(); err != nil {
		return LineItem{}, err
	}
	switch {
	case li.Quantity != nil:
		li.LineTotal = li.UnitPrice.MulScalar(*li.Quantity)
	case li.Percentage != nil:
		li.LineTotal = li.UnitPrice.MulPercent(*li.Percentage)
	default:
		li.LineTotal = li.UnitPrice.MulScalar(*li.Units * *li.Seats)
	}
	return li, nil
}

// ValidateAll validates each item and the backend size limit.
func ValidateAll(items []LineItem) error {
	if len(items) > MaxLineItems {
		return fmt.Errorf("%w: %d > %d", ErrTooManyLineItems, len(items), MaxLineItems)
	}
	for _, li := range items {
		if err := li.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IntRef returns a pointer to v. Convenience for literal line items.
func IntRef(v int64) *int64 { return &v }

// FloatRef returns a pointer to v.
func FloatRef(v float64) *float64 { return &v }

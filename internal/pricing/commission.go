package pricing

import (
	"github.com/joyner-app/backend-pricing/internal/lineitem"
)

// OverrideResolver adjusts the provider commission percentage for specific
// listings or vouchers. Implementations must be pure: they return the
// effective percentage and never mutate caller state.
type OverrideResolver interface {
	ProviderPercentage(current float64, listingID, voucherID string) float64
}

// providerCommissionItem builds the provider commission line item. The
// commission reduces the payout, so the percentage is negated. The base
// includes the order, voucher, and size fee items.
func providerCommissionItem(percentage float64, base []lineitem.LineItem, currency string) (*lineitem.LineItem, error) {
	if percentage == 0 {
		return nil, nil
	}
	unitPrice, err := lineitem.Total(base, currency)
	if err != nil {
		return nil, err
	}
	item, err := lineitem.LineItem{
		Code:       lineitem.CodeProviderCommission,
		UnitPrice:  unitPrice,
		Percentage: lineitem.FloatRef(-percentage),
		IncludeFor: []lineitem.Party{lineitem.PartyProvider},
	}.Priced()
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// customerCommissionItem builds the customer commission line item, added on
// top of the order price. The base excludes size fees.
func customerCommissionItem(spec Commission, base []lineitem.LineItem, currency string) (*lineitem.LineItem, error) {
	if !spec.HasPercentage() {
		return nil, nil
	}
	unitPrice, err := lineitem.Total(base, currency)
	if err != nil {
		return nil, err
	}
	item, err := lineitem.LineItem{
		Code:       lineitem.CodeCustomerCommission,
		UnitPrice:  unitPrice,
		Percentage: lineitem.FloatRef(spec.Percentage),
		IncludeFor: []lineitem.Party{lineitem.PartyCustomer},
	}.Priced()
	if err != nil {
		return nil, err
	}
	return &item, nil
}

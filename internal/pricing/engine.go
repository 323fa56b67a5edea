package pricing

import (
	"errors"
	"fmt"

	"github.com/joyner-app/backend-pricing/internal/lineitem"
)

// Engine computes the ordered list of line items for a transaction. It is a
// pure calculator: no I/O, no retained state, safe for concurrent use.
type Engine struct {
	// Overrides adjusts the provider commission for specific listings and
	// vouchers. Nil means no overrides apply.
	Overrides OverrideResolver
}

// TransactionLineItems derives the priced line items for an order against a
// listing. The returned list is ordered: base order item, delivery extras,
// provider commission, customer commission, voucher fee, size fee. The order
// is a rendering contract for the breakdown UI.
//
// All line items dedicated to the customer define the payin total; the items
// included for the provider define the payout total. The platform commission
// is the difference between the two.
func (e Engine) TransactionLineItems(listing Listing, order OrderData, providerCommission, customerCommission Commission) ([]lineitem.LineItem, error) {
	if listing.UnitPrice.Currency == "" {
		return nil, errors.New("pricing: listing has no unit price currency")
	}
	if !listing.UnitType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnitType, listing.UnitType)
	}

	var resolved resolvedQuantity
	switch listing.UnitType {
	case UnitItem:
		var err error
		resolved, err = itemQuantityAndLineItems(order, listing)
		if err != nil {
			return nil, err
		}
	case UnitHour:
		resolved = hourUnitsSeats(order)
	case UnitDay, UnitNight:
		if order.Seats > 0 {
			resolved = dateRangeUnitsSeats(order)
		} else {
			resolved = dateRangeQuantity(order)
		}
	}
	if !resolved.ok() {
		return nil, &MissingQuantityError{UnitType: listing.UnitType}
	}

	orderItem := lineitem.LineItem{
		Code:       lineitem.CodePrefix + string(listing.UnitType),
		UnitPrice:  listing.UnitPrice,
		IncludeFor: []lineitem.Party{lineitem.PartyCustomer, lineitem.PartyProvider},
	}
	var seats int64
	if resolved.units != nil && resolved.seats != nil {
		orderItem.Units = resolved.units
		orderItem.Seats = resolved.seats
		seats = *resolved.seats
	} else {
		orderItem.Quantity = resolved.quantity
	}
	orderItem, err := orderItem.Priced()
	if err != nil {
		return nil, err
	}

	extras := make([]lineitem.LineItem, 0, len(resolved.extraLineItems))
	for _, extra := range resolved.extraLineItems {
		priced, err := extra.Priced()
		if err != nil {
			return nil, err
		}
		extras = append(extras, priced)
	}

	var voucherItems []lineitem.LineItem
	var voucherID string
	if order.VoucherFee != nil {
		voucherID = order.VoucherFee.ID
		if price := resolveVoucherFeePrice(*order.VoucherFee, listing.UnitPrice, seats); price != nil {
			item, err := lineitem.LineItem{
				Code:       lineitem.CodeVoucher,
				UnitPrice:  *price,
				Quantity:   lineitem.IntRef(1),
				IncludeFor: []lineitem.Party{lineitem.PartyCustomer, lineitem.PartyProvider},
			}.Priced()
			if err != nil {
				return nil, err
			}
			voucherItems = append(voucherItems, item)
		}
	}

	var sizeFeeItems []lineitem.LineItem
	if price := resolveSizeFeePrice(order.SizeFees, listing.UnitPrice.Currency); price != nil {
		item, err := lineitem.LineItem{
			Code:       lineitem.CodeSizeFee,
			UnitPrice:  *price,
			Quantity:   lineitem.IntRef(1),
			IncludeFor: []lineitem.Party{lineitem.PartyCustomer, lineitem.PartyProvider},
		}.Priced()
		if err != nil {
			return nil, err
		}
		sizeFeeItems = append(sizeFeeItems, item)
	}

	effectiveProvider := providerCommission.Percentage
	if e.Overrides != nil {
		effectiveProvider = e.Overrides.ProviderPercentage(effectiveProvider, listing.ID, voucherID)
	}

	currency := listing.UnitPrice.Currency
	providerBase := append([]lineitem.LineItem{orderItem}, voucherItems...)
	providerBase = append(providerBase, sizeFeeItems...)
	providerItem, err := providerCommissionItem(effectiveProvider, providerBase, currency)
	if err != nil {
		return nil, err
	}

	customerBase := append([]lineitem.LineItem{orderItem}, voucherItems...)
	customerItem, err := customerCommissionItem(customerCommission, customerBase, currency)
	if err != nil {
		return nil, err
	}

	items := make([]lineitem.LineItem, 0, 2+len(extras)+len(voucherItems)+len(sizeFeeItems)+2)
	items = append(items, orderItem)
	items = append(items, extras...)
	if providerItem != nil {
		items = append(items, *providerItem)
	}
	if customerItem != nil {
		items = append(items, *customerItem)
	}
	items = append(items, voucherItems...)
	items = append(items, sizeFeeItems...)

	if err := lineitem.ValidateAll(items); err != nil {
		return nil, err
	}
	return items, nil
}

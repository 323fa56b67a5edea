package lineitem

import (
	"github.com/joyner-app/backend-pricing/internal/money"
)

// Total sums the line totals of all items using exact decimal arithmetic.
// fallbackCurrency is used for the zero value when the list is empty.
func Total(items []LineItem, fallbackCurrency string) (money.Money, error) {
	currency := fallbackCurrency
	if len(items) > 0 {
		currency = items[0].LineTotal.Currency
	}
	parts := make([]money.Money, 0, len(items))
	for _, li := range items {
		parts = append(parts, li.LineTotal)
	}
	return money.Sum(currency, parts...)
}

// PayinTotal sums items included for the customer: what the customer pays.
func PayinTotal(items []LineItem, fallbackCurrency string) (money.Money, error) {
	return Total(filter(items, func(li LineItem) bool {
		return li.IncludesParty(PartyCustomer)
	}), fallbackCurrency)
}

// PayoutTotal sums items included for the provider: what the provider
// receives. Provider commission items carry a negative percentage, so their
// totals already reduce the payout.
func PayoutTotal(items []LineItem, fallbackCurrency string) (money.Money, error) {
	return Total(filter(items, func(li LineItem) bool {
		return li.IncludesParty(PartyProvider)
	}), fallbackCurrency)
}

// Subtotal sums non-commission, non-reversal items. This mirrors the order
// breakdown shown to both parties before commissions.
func Subtotal(items []LineItem, fallbackCurrency string) (money.Money, error) {
	return Total(filter(items, func(li LineItem) bool {
		return !li.IsCommission() && !li.Reversal
	}), fallbackCurrency)
}

// RefundTotal sums non-commission reversal items.
func RefundTotal(items []LineItem, fallbackCurrency string) (money.Money, error) {
	return Total(filter(items, func(li LineItem) bool {
		return !li.IsCommission() && li.Reversal
	}), fallbackCurrency)
}

// Reverse builds refund line items for every non-reversal item in the list.
// The quantity, units, or percentage is negated so the reversal's line total
// cancels the original charge, and the one-mode invariant is preserved.
func Reverse(items []LineItem) []LineItem {
	reversals := make([]LineItem, 0, len(items))
	for _, li := range items {
		if li.Reversal {
			continue
		}
		rev := li
		rev.Reversal = true
		switch {
		case li.Quantity != nil:
			rev.Quantity = IntRef(-*li.Quantity)
		case li.Percentage != nil:
			rev.Percentage = FloatRef(-*li.Percentage)
		case li.Units != nil && li.Seats != nil:
			rev.Units = IntRef(-*li.Units)
			rev.Seats = IntRef(*li.Seats)
		}
		rev.LineTotal = li.LineTotal.Negate()
		reversals = append(reversals, rev)
	}
	return reversals
}

func filter(items []LineItem, keep func(LineItem) bool) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, li := range items {
		if keep(li) {
			out = append(out, li)
		}
	}
	return out
}

package pricing

import (
	"github.com/joyner-app/backend-pricing/internal/money"
)

// resolveVoucherFeePrice turns a voucher spec into a signed price.
//
// Fixed vouchers pass their amount through as-is (negative for a discount,
// positive for a surcharge). Percentage vouchers discount the estimated seat
// total, which is unitPrice * seats: for orders priced by plain quantity the
// estimate is zero and a percentage voucher resolves to nothing.
func resolveVoucherFeePrice(spec VoucherSpec, unitPrice money.Money, seats int64) *money.Money {
	switch spec.Kind {
	case VoucherPercentage:
		if spec.Percentage == 0 || seats <= 0 {
			return nil
		}
		estimated := unitPrice.MulScalar(seats)
		price := estimated.MulPercent(spec.Percentage).Negate()
		if price.IsZero() {
			return nil
		}
		return &price
	default:
		if spec.Amount == 0 {
			return nil
		}
		price := money.New(spec.Amount, unitPrice.Currency)
		return &price
	}
}

// resolveSizeFeePrice aggregates the size fee specs into a single price.
// Returns nil when the specs sum to nothing.
func resolveSizeFeePrice(specs []SizeFeeSpec, currency string) *money.Money {
	var total int64
	for _, spec := range specs {
		total += spec.Amount
	}
	if total == 0 {
		return nil
	}
	price := money.New(total, currency)
	return &price
}

package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrCurrencyMismatch is returned when two amounts with different currency
// codes are combined. Mixing currencies indicates upstream misconfiguration
// and aborts the whole pricing computation.
var ErrCurrencyMismatch = errors.New("money: currency mismatch")

// Money is a monetary value in minor units (cents) tagged with an ISO 4217
// currency code.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// New constructs a Money value.
func New(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return Money{Currency: currency}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// Add returns m + other. It fails with ErrCurrencyMismatch when the currency
// codes differ.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// MulScalar returns m multiplied by an integer factor.
func (m Money) MulScalar(n int64) Money {
	return Money{Amount: m.Amount * n, Currency: m.Currency}
}

// MulPercent applies a percentage (e.g. 12.5 for 12.5%) to the amount.
// The result is rounded to the nearest minor unit, halves away from zero.
func (m Money) MulPercent(pct float64) Money {
	amount := decimal.NewFromInt(m.Amount).
		Mul(decimal.NewFromFloat(pct)).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return Money{Amount: amount.IntPart(), Currency: m.Currency}
}

// Negate returns the amount with its sign flipped.
func (m Money) Negate() Money {
	return Money{Amount: -m.Amount, Currency: m.Currency}
}

// Sum adds the provided parts using exact decimal arithmetic and converts
// back to minor units only at the end. Every part must carry the given
// currency.
func Sum(currency string, parts ...Money) (Money, error) {
	total := decimal.Zero
	for _, part := range parts {
		if part.Currency != currency {
			return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, currency, part.Currency)
		}
		total = total.Add(decimal.NewFromInt(part.Amount))
	}
	return Money{Amount: total.IntPart(), Currency: currency}, nil
}

// String renders the value for logs, e.g. "1050 USD".
func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.Amount, m.Currency)
}

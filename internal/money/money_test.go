package money

import (
	"errors"
	"testing"
)

func TestAddCurrencyMismatch(t *testing.T) {
	_, err := New(100, "USD").Add(New(100, "EUR"))
	if !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected currency mismatch, got %v", err)
	}
}

func TestAdd(t *testing.T) {
	sum, err := New(500, "USD").Add(New(-200, "USD"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if sum.Amount != 300 || sum.Currency != "USD" {
		t.Fatalf("unexpected sum %v", sum)
	}
}

func TestMulPercentRoundsHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		amount int64
		pct    float64
		want   int64
	}{
		{1000, 15, 150},
		{1001, 15, 150},   // 150.15 rounds down
		{1003, 15, 150},   // 150.45 rounds down
		{1010, 15, 152},   // 151.5 rounds up (half away from zero)
		{1000, -15, -150},
		{1010, -15, -152}, // -151.5 rounds to -152
		{333, 10, 33},     // 33.3
		{335, 10, 34},     // 33.5
	}
	for _, tc := range cases {
		got := New(tc.amount, "USD").MulPercent(tc.pct)
		if got.Amount != tc.want {
			t.Fatalf("%d * %v%%: expected %d, got %d", tc.amount, tc.pct, tc.want, got.Amount)
		}
	}
}

func TestSum(t *testing.T) {
	total, err := Sum("EUR", New(100, "EUR"), New(250, "EUR"), New(-50, "EUR"))
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total.Amount != 300 {
		t.Fatalf("expected 300, got %d", total.Amount)
	}

	if _, err := Sum("EUR", New(100, "EUR"), New(1, "USD")); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected currency mismatch, got %v", err)
	}
}

func TestSumEmpty(t *testing.T) {
	total, err := Sum("USD")
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if !total.IsZero() || total.Currency != "USD" {
		t.Fatalf("expected zero USD, got %v", total)
	}
}

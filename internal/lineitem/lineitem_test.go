package lineitem

import (
	"errors"
	"testing"

	"github.com/joyner-app/backend-pricing/internal/money"
)

func TestValidateModes(t *testing.T) {
	base := LineItem{Code: CodeDay, UnitPrice: money.New(1000, "USD"), IncludeFor: []Party{PartyCustomer, PartyProvider}}

	quantity := base
	quantity.Quantity = IntRef(2)
	if err := quantity.Validate(); err != nil {
		t.Fatalf("quantity mode should be valid: %v", err)
	}

	unitsSeats := base
	unitsSeats.Units = IntRef(2)
	unitsSeats.Seats = IntRef(4)
	if err := unitsSeats.Validate(); err != nil {
		t.Fatalf("units+seats mode should be valid: %v", err)
	}

	none := base
	if err := none.Validate(); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected invalid mode, got %v", err)
	}

	both := base
	both.Quantity = IntRef(2)
	both.Percentage = FloatRef(10)
	if err := both.Validate(); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected invalid mode, got %v", err)
	}

	unitsOnly := base
	unitsOnly.Units = IntRef(2)
	if err := unitsOnly.Validate(); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected invalid mode for units without seats, got %v", err)
	}
}

func TestValidateCode(t *testing.T) {
	li := LineItem{Code: "cleaning-fee", UnitPrice: money.New(100, "USD"), Quantity: IntRef(1)}
	if err := li.Validate(); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected invalid code, got %v", err)
	}
}

func TestPriced(t *testing.T) {
	quantity, err := LineItem{
		Code:       CodeItem,
		UnitPrice:  money.New(2500, "USD"),
		Quantity:   IntRef(3),
		IncludeFor: []Party{PartyCustomer, PartyProvider},
	}.Priced()
	if err != nil {
		t.Fatalf("price quantity item: %v", err)
	}
	if quantity.LineTotal.Amount != 7500 {
		t.Fatalf("expected 7500, got %d", quantity.LineTotal.Amount)
	}

	unitsSeats, err := LineItem{
		Code:       CodeDay,
		UnitPrice:  money.New(1000, "USD"),
		Units:      IntRef(2),
		Seats:      IntRef(4),
		IncludeFor: []Party{PartyCustomer, PartyProvider},
	}.Priced()
	if err != nil {
		t.Fatalf("price units item: %v", err)
	}
	if unitsSeats.LineTotal.Amount != 8000 {
		t.Fatalf("expected 8000, got %d", unitsSeats.LineTotal.Amount)
	}

	commission, err := LineItem{
		Code:       CodeProviderCommission,
		UnitPrice:  money.New(8000, "USD"),
		Percentage: FloatRef(-10),
		IncludeFor: []Party{PartyProvider},
	}.Priced()
	if err != nil {
		t.Fatalf("price commission item: %v", err)
	}
	if commission.LineTotal.Amount != -800 {
		t.Fatalf("expected -800, got %d", commission.LineTotal.Amount)
	}
}

func TestValidateAllLimit(t *testing.T) {
	items := make([]LineItem, MaxLineItems+1)
	for i := range items {
		items[i] = LineItem{Code: CodeItem, UnitPrice: money.New(1, "USD"), Quantity: IntRef(1)}
	}
	if err := ValidateAll(items); !errors.Is(err, ErrTooManyLineItems) {
		t.Fatalf("expected too many line items, got %v", err)
	}
	if err := ValidateAll(items[:MaxLineItems]); err != nil {
		t.Fatalf("expected %d items to validate: %v", MaxLineItems, err)
	}
}

package pricing

import (
	"errors"
	"fmt"
)

// ErrUnknownUnitType is returned when the listing's unit type is not one of
// item, hour, day, or night.
var ErrUnknownUnitType = errors.New("pricing: unknown unit type")

// MissingQuantityError is returned when no quantity information can be
// resolved from the order data. The message names the fields the checkout UI
// must supply, which is part of the client error contract.
type MissingQuantityError struct {
	UnitType UnitType
}

func (e *MissingQuantityError) Error() string {
	return fmt.Sprintf(
		"pricing: order for unit type %q must contain quantity information: stockReservationQuantity, quantity, units & seats, or bookingStart & bookingEnd (for line-item/day or line-item/night)",
		e.UnitType,
	)
}

// IsMissingQuantity reports whether err is a MissingQuantityError.
func IsMissingQuantity(err error) bool {
	var target *MissingQuantityError
	return errors.As(err, &target)
}

package pricing

import (
	"math"
	"time"

	"github.com/joyner-app/backend-pricing/internal/lineitem"
	"github.com/joyner-app/backend-pricing/internal/money"
)

// resolvedQuantity is the outcome of a quantity resolver: either quantity,
// or units and seats, plus any extra line items tied to the unit type (e.g.
// shipping fee for product orders).
type resolvedQuantity struct {
	quantity       *int64
	units          *int64
	seats          *int64
	extraLineItems []lineitem.LineItem
}

// ok reports whether enough quantity information was resolved to price the
// order. This is the single mandatory precondition before money arithmetic.
func (r resolvedQuantity) ok() bool {
	if r.quantity != nil && *r.quantity != 0 {
		return true
	}
	return r.units != nil && *r.units != 0 && r.seats != nil && *r.seats != 0
}

// itemQuantityAndLineItems resolves quantity for product orders and emits the
// delivery line item. Shipping needs both shipping price fields; pickup is
// free but still produces a visible zero-amount line item.
func itemQuantityAndLineItems(order OrderData, listing Listing) (resolvedQuantity, error) {
	resolved := resolvedQuantity{}
	if order.StockReservationQuantity > 0 {
		resolved.quantity = lineitem.IntRef(order.StockReservationQuantity)
	}

	currency := listing.UnitPrice.Currency
	switch order.DeliveryMethod {
	case DeliveryShipping:
		if resolved.quantity == nil || listing.ShippingPriceOneItem == nil || listing.ShippingPriceAdditionalItems == nil {
			return resolved, nil
		}
		fee, err := shippingFee(*listing.ShippingPriceOneItem, *listing.ShippingPriceAdditionalItems, *resolved.quantity)
		if err != nil {
			return resolvedQuantity{}, err
		}
		resolved.extraLineItems = append(resolved.extraLineItems, lineitem.LineItem{
			Code:       lineitem.CodeShippingFee,
			UnitPrice:  fee,
			Quantity:   lineitem.IntRef(1),
			IncludeFor: []lineitem.Party{lineitem.PartyCustomer, lineitem.PartyProvider},
		})
	case DeliveryPickup:
		resolved.extraLineItems = append(resolved.extraLineItems, lineitem.LineItem{
			Code:       lineitem.CodePickupFee,
			UnitPrice:  money.Zero(currency),
			Quantity:   lineitem.IntRef(1),
			IncludeFor: []lineitem.Party{lineitem.PartyCustomer, lineitem.PartyProvider},
		})
	}
	return resolved, nil
}

// shippingFee is the price of the first item plus the additional-item price
// for every remaining item. The two tariff fields must share a currency.
func shippingFee(oneItem, additionalItems money.Money, quantity int64) (money.Money, error) {
	if quantity > 1 {
		extra := additionalItems.MulScalar(quantity - 1)
		return oneItem.Add(extra)
	}
	return oneItem, nil
}

// hourUnitsSeats resolves hour-based bookings. Hour bookings are priced per
// unit regardless of duration: units is 1 when both booking boundaries are
// present, and seats is passed through.
func hourUnitsSeats(order OrderData) resolvedQuantity {
	resolved := resolvedQuantity{}
	if order.BookingStart != nil && order.BookingEnd != nil {
		resolved.units = lineitem.IntRef(1)
	}
	if order.Seats > 0 {
		resolved.seats = lineitem.IntRef(order.Seats)
	}
	return resolved
}

// dateRangeUnitsSeats resolves day or night bookings with seats: units is the
// calendar day count and seats is passed through unchanged.
func dateRangeUnitsSeats(order OrderData) resolvedQuantity {
	resolved := resolvedQuantity{}
	if days := bookingDays(order); days > 0 {
		resolved.units = lineitem.IntRef(days)
	}
	if order.Seats > 0 {
		resolved.seats = lineitem.IntRef(order.Seats)
	}
	return resolved
}

// dateRangeQuantity resolves day or night bookings without seats: quantity is
// the calendar day count.
func dateRangeQuantity(order OrderData) resolvedQuantity {
	resolved := resolvedQuantity{}
	if days := bookingDays(order); days > 0 {
		resolved.quantity = lineitem.IntRef(days)
	}
	return resolved
}

func bookingDays(order OrderData) int64 {
	if order.BookingStart == nil || order.BookingEnd == nil {
		return 0
	}
	loc := time.UTC
	if order.TimeZone != "" {
		if parsed, err := time.LoadLocation(order.TimeZone); err == nil {
			loc = parsed
		}
	}
	return daysBetween(*order.BookingStart, *order.BookingEnd, loc)
}

// daysBetween counts whole calendar days from start (inclusive) to end
// (exclusive) using day boundaries in loc. For day and night bookings the
// count is the same: a Mon-Wed range is 2 days and 2 nights.
func daysBetween(start, end time.Time, loc *time.Location) int64 {
	startDay := startOfDay(start.In(loc))
	endDay := startOfDay(end.In(loc))
	if !endDay.After(startDay) {
		return 0
	}
	// rounding absorbs DST transitions within the range
	return int64(math.Round(endDay.Sub(startDay).Hours() / 24))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

package pricing

import (
	"time"

	"github.com/joyner-app/backend-pricing/internal/money"
)

// UnitType is the billing granularity of a listing.
type UnitType string

const (
	UnitItem  UnitType = "item"
	UnitHour  UnitType = "hour"
	UnitDay   UnitType = "day"
	UnitNight UnitType = "night"
)

// Valid reports whether the unit type is one of the four known values.
func (u UnitType) Valid() bool {
	switch u {
	case UnitItem, UnitHour, UnitDay, UnitNight:
		return true
	}
	return false
}

// DeliveryMethod selects how a purchased item reaches the customer.
type DeliveryMethod string

const (
	DeliveryShipping DeliveryMethod = "shipping"
	DeliveryPickup   DeliveryMethod = "pickup"
)

// Listing is the read-only pricing context of a listing. It is owned by the
// marketplace backend; the engine only reads it.
type Listing struct {
	ID                           string
	UnitPrice                    money.Money
	UnitType                     UnitType
	ShippingPriceOneItem         *money.Money
	ShippingPriceAdditionalItems *money.Money
}

// VoucherKind distinguishes fixed-amount and percentage-off vouchers.
type VoucherKind string

const (
	VoucherFixed      VoucherKind = "fixed"
	VoucherPercentage VoucherKind = "percentage"
)

// VoucherSpec describes a voucher attached to the order. A fixed voucher
// carries a signed amount in minor units (negative for a discount); a
// percentage voucher is resolved against the estimated seat total.
type VoucherSpec struct {
	ID         string
	Kind       VoucherKind
	Amount     int64
	Percentage float64
}

// SizeFeeSpec is one size-based surcharge entry supplied by the checkout UI.
type SizeFeeSpec struct {
	Label  string
	Amount int64
}

// OrderData is the order request produced by the checkout collaborator.
// Which fields are relevant depends on the listing's unit type.
type OrderData struct {
	DeliveryMethod           DeliveryMethod
	StockReservationQuantity int64
	BookingStart             *time.Time
	BookingEnd               *time.Time
	Seats                    int64
	// TimeZone is the IANA zone used for calendar-day boundaries when
	// counting days or nights. Empty means UTC.
	TimeZone   string
	VoucherFee *VoucherSpec
	SizeFees   []SizeFeeSpec
}

// Commission is a percentage-based commission spec for one role. A zero
// percentage means no commission line item is produced.
type Commission struct {
	Percentage float64
}

// HasPercentage reports whether the spec yields a commission line item.
func (c Commission) HasPercentage() bool {
	return c.Percentage != 0
}

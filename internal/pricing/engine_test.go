package pricing_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joyner-app/backend-pricing/internal/lineitem"
	"github.com/joyner-app/backend-pricing/internal/money"
	"github.com/joyner-app/backend-pricing/internal/pricing"
)

type fakeOverrides struct {
	listingPercent map[string]float64
	zeroVouchers   map[string]bool
}

func (f fakeOverrides) ProviderPercentage(current float64, listingID, voucherID string) float64 {
	if f.zeroVouchers[voucherID] {
		return 0
	}
	if pct, ok := f.listingPercent[listingID]; ok {
		return pct
	}
	return current
}

func timeRef(t time.Time) *time.Time { return &t }

func productListing() pricing.Listing {
	one := money.New(500, "USD")
	additional := money.New(200, "USD")
	return pricing.Listing{
		ID:                           "listing-1",
		UnitPrice:                    money.New(2500, "USD"),
		UnitType:                     pricing.UnitItem,
		ShippingPriceOneItem:         &one,
		ShippingPriceAdditionalItems: &additional,
	}
}

func dayListing() pricing.Listing {
	return pricing.Listing{
		ID:        "listing-2",
		UnitPrice: money.New(10000, "EUR"),
		UnitType:  pricing.UnitDay,
	}
}

func twoDayBooking() pricing.OrderData {
	return pricing.OrderData{
		BookingStart: timeRef(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)),
		BookingEnd:   timeRef(time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)),
	}
}

func TestItemWithShipping(t *testing.T) {
	engine := pricing.Engine{}
	items, err := engine.TransactionLineItems(productListing(), pricing.OrderData{
		StockReservationQuantity: 3,
		DeliveryMethod:           pricing.DeliveryShipping,
	}, pricing.Commission{}, pricing.Commission{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	base := items[0]
	require.Equal(t, lineitem.CodeItem, base.Code)
	require.NotNil(t, base.Quantity)
	require.EqualValues(t, 3, *base.Quantity)
	require.EqualValues(t, 7500, base.LineTotal.Amount)

	shipping := items[1]
	require.Equal(t, lineitem.CodeShippingFee, shipping.Code)
	// 500 for the first item plus 2 * 200 for the rest
	require.EqualValues(t, 900, shipping.UnitPrice.Amount)
	require.EqualValues(t, 900, shipping.LineTotal.Amount)
	require.True(t, shipping.IncludesParty(lineitem.PartyCustomer))
	require.True(t, shipping.IncludesParty(lineitem.PartyProvider))
}

func TestShippingTariffCurrencyMismatchAborts(t *testing.T) {
	listing := productListing()
	additional := money.New(200, "GBP")
	listing.ShippingPriceAdditionalItems = &additional

	engine := pricing.Engine{}
	items, err := engine.TransactionLineItems(listing, pricing.OrderData{
		StockReservationQuantity: 3,
		DeliveryMethod:           pricing.DeliveryShipping,
	}, pricing.Commission{}, pricing.Commission{})
	require.ErrorIs(t, err, money.ErrCurrencyMismatch)
	require.Nil(t, items)
}

func TestItemWithPickupIsFreeButVisible(t *testing.T) {
	engine := pricing.Engine{}
	items, err := engine.TransactionLineItems(productListing(), pricing.OrderData{
		StockReservationQuantity: 1,
		DeliveryMethod:           pricing.DeliveryPickup,
	}, pricing.Commission{}, pricing.Commission{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, lineitem.CodePickupFee, items[1].Code)
	require.True(t, items[1].LineTotal.IsZero())
}

func TestDayBookingWithSeatsNoCommission(t *testing.T) {
	order := twoDayBooking()
	order.Seats = 4

	engine := pricing.Engine{}
	items, err := engine.TransactionLineItems(dayListing(), order, pricing.Commission{}, pricing.Commission{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	base := items[0]
	require.Equal(t, lineitem.CodeDay, base.Code)
	require.Nil(t, base.Quantity)
	require.EqualValues(t, 2, *base.Units)
	require.EqualValues(t, 4, *base.Seats)
	require.EqualValues(t, 80000, base.LineTotal.Amount)
}

func TestDayBookingWithoutSeatsUsesQuantity(t *testing.T) {
	engine := pricing.Engine{}
	items, err := engine.TransactionLineItems(dayListing(), twoDayBooking(), pricing.Commission{}, pricing.Commission{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Quantity)
	require.EqualValues(t, 2, *items[0].Quantity)
	require.Nil(t, items[0].Units)
}

func TestNightBookingCountsNights(t *testing.T) {
	listing := dayListing()
	listing.UnitType = pricing.UnitNight

	engine := pricing.Engine{}
	items, err := engine.TransactionLineItems(listing, twoDayBooking(), pricing.Commission{}, pricing.Commission{})
	require.NoError(t, err)
	require.Equal(t, lineitem.CodeNight, items[0].Code)
	require.EqualValues(t, 2, *items[0].Quantity)
}

func TestHourBookingRequiresBookingBoundaries(t *testing.T) {
	listing := dayListing()
	listing.UnitType = pricing.UnitHour

	engine := pricing.Engine{}
	_, err := engine.TransactionLineItems(listing, pricing.OrderData{Seats: 2}, pricing.Commission{}, pricing.Commission{})
	require.Error(t, err)
	require.True(t, pricing.IsMissingQuantity(err))
	require.Contains(t, err.Error(), "bookingStart & bookingEnd")
}

func TestHourBookingPricedPerUnit(t *testing.T) {
	listing := dayListing()
	listing.UnitType = pricing.UnitHour
	order := twoDayBooking() // duration does not matter for hour pricing
	order.Seats = 3

	engine := pricing.Engine{}
	items, err := engine.TransactionLineItems(listing, order, pricing.Commission{}, pricing.Commission{})
	require.NoError(t, err)
	require.EqualValues(t, 1, *items[0].Units)
	require.EqualValues(t, 3, *items[0].Seats)
	require.EqualValues(t, 30000, items[0].LineTotal.Amount)
}

func TestMissingQuantityForItem(t *testing.T) {
	engine := pricing.Engine{}
	_, err := engine.TransactionLineItems(productListing(), pricing.OrderData{}, pricing.Commission{}, pricing.Commission{})
	require.True(t, pricing.IsMissingQuantity(err))
}

func TestUnknownUnitType(t *testing.T) {
	listing := dayListing()
	listing.UnitType = "subscription"

	engine := pricing.Engine{}
	_, err := engine.TransactionLineItems(listing, twoDayBooking(), pricing.Commission{}, pricing.Commission{})
	require.ErrorIs(t, err, pricing.ErrUnknownUnitType)
}

func TestCommissionItems(t *testing.T) {
	order := twoDayBooking()
	order.Seats = 2

	engine := pricing.Engine{}
	items, err := engine.TransactionLineItems(dayListing(), order,
		pricing.Commission{Percentage: 10}, pricing.Commission{Percentage: 5})
	require.NoError(t, err)
	require.Len(t, items, 3)

	provider := items[1]
	require.Equal(t, lineitem.CodeProviderCommission, provider.Code)
	require.EqualValues(t, -10, *provider.Percentage)
	require.EqualValues(t, 40000, provider.UnitPrice.Amount)
	require.EqualValues(t, -4000, provider.LineTotal.Amount)
	require.Equal(t, []lineitem.Party{lineitem.PartyProvider}, provider.IncludeFor)

	customer := items[2]
	require.Equal(t, lineitem.CodeCustomerCommission, customer.Code)
	require.EqualValues(t, 5, *customer.Percentage)
	require.EqualValues(t, 2000, customer.LineTotal.Amount)

	payin, err := lineitem.PayinTotal(items, "EUR")
	require.NoError(t, err)
	payout, err := lineitem.PayoutTotal(items, "EUR")
	require.NoError(t, err)
	require.EqualValues(t, 42000, payin.Amount)
	require.EqualValues(t, 36000, payout.Amount)
	require.EqualValues(t, 4000+2000, payin.Amount-payout.Amount)
}

func TestListingOverrideWinsOverDefault(t *testing.T) {
	engine := pricing.Engine{Overrides: fakeOverrides{
		listingPercent: map[string]float64{"listing-2": 5},
	}}
	order := twoDayBooking()
	order.Seats = 2

	items, err := engine.TransactionLineItems(dayListing(), order,
		pricing.Commission{Percentage: 15}, pricing.Commission{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.EqualValues(t, -5, *items[1].Percentage)
}

func TestVoucherZeroesProviderCommission(t *testing.T) {
	engine := pricing.Engine{Overrides: fakeOverrides{
		zeroVouchers: map[string]bool{"NEWJOYNER": true},
	}}
	order := twoDayBooking()
	order.Seats = 2
	order.VoucherFee = &pricing.VoucherSpec{ID: "NEWJOYNER", Kind: pricing.VoucherFixed, Amount: -1500}

	items, err := engine.TransactionLineItems(dayListing(), order,
		pricing.Commission{Percentage: 15}, pricing.Commission{})
	require.NoError(t, err)

	for _, li := range items {
		require.NotEqual(t, lineitem.CodeProviderCommission, li.Code)
	}
	// the voucher line item itself is still present
	require.Equal(t, lineitem.CodeVoucher, items[len(items)-1].Code)
	require.EqualValues(t, -1500, items[len(items)-1].LineTotal.Amount)
}

func TestPercentageVoucherUsesSeatEstimate(t *testing.T) {
	engine := pricing.Engine{}
	order := twoDayBooking()
	order.Seats = 2
	order.VoucherFee = &pricing.VoucherSpec{ID: "SPRING10", Kind: pricing.VoucherPercentage, Percentage: 10}

	items, err := engine.TransactionLineItems(dayListing(), order, pricing.Commission{}, pricing.Commission{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	// 10% off the estimated seat total: unitPrice 10000 * 2 seats = 20000
	require.EqualValues(t, -2000, items[1].LineTotal.Amount)
}

func TestPercentageVoucherIgnoredWithoutSeats(t *testing.T) {
	engine := pricing.Engine{}
	order := twoDayBooking()
	order.VoucherFee = &pricing.VoucherSpec{ID: "SPRING10", Kind: pricing.VoucherPercentage, Percentage: 10}

	items, err := engine.TransactionLineItems(dayListing(), order, pricing.Commission{}, pricing.Commission{})
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestSizeFeeExcludedFromCustomerCommissionBase(t *testing.T) {
	order := twoDayBooking()
	order.Seats = 2
	order.VoucherFee = &pricing.VoucherSpec{ID: "WELCOME", Kind: pricing.VoucherFixed, Amount: -1000}
	order.SizeFees = []pricing.SizeFeeSpec{{Label: "200x300", Amount: 2500}, {Label: "pad", Amount: 500}}

	engine := pricing.Engine{}
	items, err := engine.TransactionLineItems(dayListing(), order,
		pricing.Commission{Percentage: 10}, pricing.Commission{Percentage: 10})
	require.NoError(t, err)

	codes := make([]string, 0, len(items))
	for _, li := range items {
		codes = append(codes, li.Code)
	}
	require.Equal(t, []string{
		lineitem.CodeDay,
		lineitem.CodeProviderCommission,
		lineitem.CodeCustomerCommission,
		lineitem.CodeVoucher,
		lineitem.CodeSizeFee,
	}, codes)

	// provider base: 40000 - 1000 + 3000 = 42000; customer base: 40000 - 1000
	require.EqualValues(t, 42000, items[1].UnitPrice.Amount)
	require.EqualValues(t, 39000, items[2].UnitPrice.Amount)
}

func TestDeterministicOutput(t *testing.T) {
	order := twoDayBooking()
	order.Seats = 2
	order.VoucherFee = &pricing.VoucherSpec{ID: "WELCOME", Kind: pricing.VoucherFixed, Amount: -1000}

	engine := pricing.Engine{}
	first, err := engine.TransactionLineItems(dayListing(), order,
		pricing.Commission{Percentage: 12}, pricing.Commission{Percentage: 3})
	require.NoError(t, err)
	second, err := engine.TransactionLineItems(dayListing(), order,
		pricing.Commission{Percentage: 12}, pricing.Commission{Percentage: 3})
	require.NoError(t, err)
	require.True(t, reflect.DeepEqual(first, second))
}

func TestEveryItemHasExactlyOneMode(t *testing.T) {
	order := twoDayBooking()
	order.Seats = 2
	order.VoucherFee = &pricing.VoucherSpec{ID: "WELCOME", Kind: pricing.VoucherFixed, Amount: -1000}
	order.SizeFees = []pricing.SizeFeeSpec{{Label: "XL", Amount: 4000}}

	engine := pricing.Engine{}
	items, err := engine.TransactionLineItems(dayListing(), order,
		pricing.Commission{Percentage: 10}, pricing.Commission{Percentage: 5})
	require.NoError(t, err)
	require.NoError(t, lineitem.ValidateAll(items))
}

func TestDayCountRespectsTimezone(t *testing.T) {
	// 23:00 on the 2nd to 01:00 on the 4th counts two days in UTC but only
	// one once shifted into a western timezone.
	order := pricing.OrderData{
		BookingStart: timeRef(time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)),
		BookingEnd:   timeRef(time.Date(2026, 3, 4, 1, 0, 0, 0, time.UTC)),
	}

	engine := pricing.Engine{}
	items, err := engine.TransactionLineItems(dayListing(), order, pricing.Commission{}, pricing.Commission{})
	require.NoError(t, err)
	require.EqualValues(t, 2, *items[0].Quantity)

	order.TimeZone = "America/New_York"
	items, err = engine.TransactionLineItems(dayListing(), order, pricing.Commission{}, pricing.Commission{})
	require.NoError(t, err)
	require.EqualValues(t, 1, *items[0].Quantity)
}

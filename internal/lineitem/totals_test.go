package lineitem

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joyner-app/backend-pricing/internal/money"
)

func breakdownFixture(t *testing.T) []LineItem {
	t.Helper()
	order, err := LineItem{
		Code:       CodeDay,
		UnitPrice:  money.New(10000, "EUR"),
		Units:      IntRef(2),
		Seats:      IntRef(2),
		IncludeFor: []Party{PartyCustomer, PartyProvider},
	}.Priced()
	require.NoError(t, err)

	provider, err := LineItem{
		Code:       CodeProviderCommission,
		UnitPrice:  order.LineTotal,
		Percentage: FloatRef(-10),
		IncludeFor: []Party{PartyProvider},
	}.Priced()
	require.NoError(t, err)

	customer, err := LineItem{
		Code:       CodeCustomerCommission,
		UnitPrice:  order.LineTotal,
		Percentage: FloatRef(5),
		IncludeFor: []Party{PartyCustomer},
	}.Priced()
	require.NoError(t, err)

	return []LineItem{order, provider, customer}
}

func TestPayinPayoutReconcile(t *testing.T) {
	items := breakdownFixture(t)

	payin, err := PayinTotal(items, "EUR")
	require.NoError(t, err)
	payout, err := PayoutTotal(items, "EUR")
	require.NoError(t, err)

	// order 40000, provider commission -4000, customer commission +2000
	require.Equal(t, int64(42000), payin.Amount)
	require.Equal(t, int64(36000), payout.Amount)

	// payin - payout equals the platform's total commission magnitude
	require.Equal(t, int64(4000+2000), payin.Amount-payout.Amount)
}

func TestSubtotalExcludesCommissions(t *testing.T) {
	items := breakdownFixture(t)
	subtotal, err := Subtotal(items, "EUR")
	require.NoError(t, err)
	require.Equal(t, int64(40000), subtotal.Amount)
}

func TestReverse(t *testing.T) {
	items := breakdownFixture(t)
	reversals := Reverse(items)
	require.Len(t, reversals, len(items))

	for i, rev := range reversals {
		require.True(t, rev.Reversal)
		require.NoError(t, rev.Validate(), "reversal keeps the one-mode invariant")
		require.Equal(t, items[i].LineTotal.Negate(), rev.LineTotal)
	}

	refund, err := RefundTotal(append(items, reversals...), "EUR")
	require.NoError(t, err)
	require.Equal(t, int64(-40000), refund.Amount)

	// reversing reversals is a no-op
	require.Empty(t, Reverse(reversals))
}

func TestTotalEmptyUsesFallbackCurrency(t *testing.T) {
	total, err := Total(nil, "EUR")
	require.NoError(t, err)
	require.Equal(t, money.Zero("EUR"), total)
}

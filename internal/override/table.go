package override

// Table is the commission override configuration: listing identifiers that
// force a specific provider commission percentage, and voucher identifiers
// that waive the provider commission entirely. Lookups are pure; callers own
// their commission specs and are never mutated.
type Table struct {
	ListingProviderPercent map[string]float64 `json:"listingProviderPercent"`
	VoucherZeroProvider    map[string]bool    `json:"voucherZeroProvider"`
}

// ProviderPercentage resolves the effective provider commission percentage.
// A zero-commission voucher wins over a listing override, which wins over
// the caller-supplied percentage.
func (t Table) ProviderPercentage(current float64, listingID, voucherID string) float64 {
	if t.VoucherZeroProvider[voucherID] {
		return 0
	}
	if pct, ok := t.ListingProviderPercent[listingID]; ok {
		return pct
	}
	return current
}

// Empty reports whether the table holds no overrides.
func (t Table) Empty() bool {
	return len(t.ListingProviderPercent) == 0 && len(t.VoucherZeroProvider) == 0
}

// Default returns the overrides negotiated with individual providers. These
// ship as a seed migration as well; the in-code copy is the fallback when
// the store is unreachable.
func Default() Table {
	return Table{
		ListingProviderPercent: map[string]float64{
			"67a1f051-5349-4adc-b2d9-5f3db3070d6b": 5,
			"67994f77-331c-4ed2-87e7-6e539ed8f0db": 5,
			"67a76dee-7ebe-452a-b025-51f2e085219d": 5,
			"67de98c4-cc5f-40ec-a7e6-29b309ad046d": 20,
		},
		VoucherZeroProvider: map[string]bool{
			"NEWJOYNER": true,
			"STAYPIGNA": true,
		},
	}
}

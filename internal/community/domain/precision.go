package community

import "github.com/shopspring/decimal"

// Decimal places kept by storage. Values with more places would be rounded
// on write, so they are rejected instead.
const (
	EnergyScale          int32 = 3
	PriceScale           int32 = 4
	PDEShareScale        int32 = 4
	CapacityScale        int32 = 3
	SharePercentageScale int32 = 4
)

// HasScale reports whether v needs no more than places decimal places.
// Trailing zeros do not count: 1.2300 has scale 2.
func HasScale(v decimal.Decimal, places int32) bool {
	return v.Equal(v.Round(places))
}

func checkScale(places int32, values ...decimal.Decimal) error {
	for _, v := range values {
		if !HasScale(v, places) {
			return ErrTooPrecise
		}
	}
	return nil
}

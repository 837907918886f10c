package community

import (
	"time"

	"github.com/shopspring/decimal"
)

// EnergyRecord is the pre-aggregated generation and consumption of a user in one period.
// Records are produced by metering aggregation and are read-only here.
type EnergyRecord struct {
	ID           int64
	UserID       int64
	CommunityID  int64
	Period       Period
	GeneratedKWh decimal.Decimal
	ConsumedKWh  decimal.Decimal
	ExportedKWh  decimal.Decimal
	ImportedKWh  decimal.Decimal
	Timestamp    time.Time
}

// Validate checks record invariants.
func (r EnergyRecord) Validate() error {
	if err := r.Period.Validate(); err != nil {
		return err
	}
	for _, v := range []decimal.Decimal{r.GeneratedKWh, r.ConsumedKWh, r.ExportedKWh, r.ImportedKWh} {
		if v.IsNegative() {
			return ErrNegativeValue
		}
	}
	return checkScale(EnergyScale, r.GeneratedKWh, r.ConsumedKWh, r.ExportedKWh, r.ImportedKWh)
}

// SelfConsumption is the part of generation consumed directly: min(generated, consumed).
func (r EnergyRecord) SelfConsumption() decimal.Decimal {
	return decimal.Min(r.GeneratedKWh, r.ConsumedKWh)
}

// Surplus is max(0, generated - consumed).
func (r EnergyRecord) Surplus() decimal.Decimal {
	return decimal.Max(decimal.Zero, r.GeneratedKWh.Sub(r.ConsumedKWh))
}

// Deficit is max(0, consumed - generated).
func (r EnergyRecord) Deficit() decimal.Decimal {
	return decimal.Max(decimal.Zero, r.ConsumedKWh.Sub(r.GeneratedKWh))
}

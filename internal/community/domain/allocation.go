package community

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PDEAllocation is a member's share of the community surplus pool for a period.
type PDEAllocation struct {
	ID               int64
	UserID           int64
	CommunityID      int64
	AllocationPeriod Period
	AllocatedKWh     decimal.Decimal
	SharePercentage  decimal.Decimal
	CreatedAt        time.Time
}

// Validate checks allocation invariants.
func (a PDEAllocation) Validate() error {
	if err := a.AllocationPeriod.Validate(); err != nil {
		return err
	}
	if a.AllocatedKWh.IsNegative() {
		return ErrNegativeValue
	}
	if a.SharePercentage.IsNegative() || a.SharePercentage.GreaterThan(hundred) {
		return ErrInvalidSharePercentage
	}
	if err := checkScale(EnergyScale, a.AllocatedKWh); err != nil {
		return err
	}
	return checkScale(SharePercentageScale, a.SharePercentage)
}

// ShareFraction converts the percentage to a 0..1 fraction.
func (a PDEAllocation) ShareFraction() decimal.Decimal {
	return a.SharePercentage.Div(hundred)
}

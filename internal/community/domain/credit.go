package community

import (
	"time"

	"github.com/shopspring/decimal"
)

// EnergyCredit is banked surplus energy granted to a user.
// Credits are never deleted; exhaustion and expiry are derived states.
type EnergyCredit struct {
	ID             int64
	UserID         int64
	CreditKWh      decimal.Decimal
	UsedKWh        decimal.Decimal
	ExpirationDate *time.Time
	CreatedAt      time.Time
}

// Validate checks credit > 0 and 0 <= used <= credit.
func (c EnergyCredit) Validate() error {
	if !c.CreditKWh.IsPositive() {
		return ErrInvalidCredit
	}
	if c.UsedKWh.IsNegative() || c.UsedKWh.GreaterThan(c.CreditKWh) {
		return ErrInvalidCredit
	}
	return checkScale(EnergyScale, c.CreditKWh, c.UsedKWh)
}

// ValidateConsumption checks a draw amount: positive and within storage scale.
func ValidateConsumption(kwh decimal.Decimal) error {
	if !kwh.IsPositive() {
		return ErrInvalidConsumption
	}
	return checkScale(EnergyScale, kwh)
}

// Available returns credit - used.
func (c EnergyCredit) Available() decimal.Decimal {
	return c.CreditKWh.Sub(c.UsedKWh)
}

// IsExpired reports whether the credit expired at or before at.
func (c EnergyCredit) IsExpired(at time.Time) bool {
	if c.ExpirationDate == nil {
		return false
	}
	return !c.ExpirationDate.After(at)
}

// IsFullyUsed reports whether nothing is left to consume.
func (c EnergyCredit) IsFullyUsed() bool {
	return c.UsedKWh.GreaterThanOrEqual(c.CreditKWh)
}

// IsActive reports whether the credit can still be consumed at the given time.
func (c EnergyCredit) IsActive(at time.Time) bool {
	return !c.IsFullyUsed() && !c.IsExpired(at)
}

// Consume increments the used amount. Storage adapters must apply the same
// check atomically; this method is the in-process rendition of that rule.
func (c *EnergyCredit) Consume(kwh decimal.Decimal, at time.Time) error {
	if err := ValidateConsumption(kwh); err != nil {
		return err
	}
	if c.IsExpired(at) {
		return ErrCreditExpired
	}
	next := c.UsedKWh.Add(kwh)
	if next.GreaterThan(c.CreditKWh) {
		return ErrCreditExhausted
	}
	c.UsedKWh = next
	return nil
}

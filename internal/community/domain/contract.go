package community

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractStatus is the lifecycle state of a P2P contract.
type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "active"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
)

// ParseContractStatus validates a status string.
func ParseContractStatus(value string) (ContractStatus, error) {
	switch ContractStatus(value) {
	case ContractStatusActive, ContractStatusCompleted, ContractStatusCancelled:
		return ContractStatus(value), nil
	default:
		return "", ErrInvalidContractStatus
	}
}

// P2PContract is a bilateral energy trade between two members for a period.
type P2PContract struct {
	ID             int64
	SellerID       int64
	BuyerID        int64
	EnergyKWh      decimal.Decimal
	PricePerKWh    decimal.Decimal
	ContractPeriod Period
	Status         ContractStatus
	CreatedAt      time.Time
}

// Validate checks contract invariants.
func (c P2PContract) Validate() error {
	if c.SellerID == c.BuyerID {
		return ErrSelfTrade
	}
	if !c.EnergyKWh.IsPositive() {
		return ErrInvalidContractEnergy
	}
	if c.PricePerKWh.IsNegative() {
		return ErrNegativeValue
	}
	if err := checkScale(EnergyScale, c.EnergyKWh); err != nil {
		return err
	}
	if err := checkScale(PriceScale, c.PricePerKWh); err != nil {
		return err
	}
	if err := c.ContractPeriod.Validate(); err != nil {
		return err
	}
	if _, err := ParseContractStatus(string(c.Status)); err != nil {
		return err
	}
	return nil
}

// TotalValue is energy x price, exact.
func (c P2PContract) TotalValue() decimal.Decimal {
	return c.EnergyKWh.Mul(c.PricePerKWh)
}

// IsActive reports whether the contract is still open.
func (c P2PContract) IsActive() bool {
	return c.Status == ContractStatusActive
}

// CanTransition reports whether from -> to is allowed. Only active contracts move,
// and only to completed or cancelled.
func CanTransition(from, to ContractStatus) bool {
	if from != ContractStatusActive {
		return false
	}
	return to == ContractStatusCompleted || to == ContractStatusCancelled
}

// TransitionTo applies a status change.
func (c *P2PContract) TransitionTo(status ContractStatus) error {
	if _, err := ParseContractStatus(string(status)); err != nil {
		return err
	}
	if !CanTransition(c.Status, status) {
		return ErrInvalidTransition
	}
	c.Status = status
	return nil
}

package community

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractTotalValueIsExact(t *testing.T) {
	c := P2PContract{EnergyKWh: d(t, "10.50"), PricePerKWh: d(t, "0.35")}
	assert.Equal(t, "3.675", c.TotalValue().String())

	// Repeated addition stays exact where float64 would drift.
	sum := d(t, "0")
	tenth := P2PContract{EnergyKWh: d(t, "0.1"), PricePerKWh: d(t, "1")}
	for i := 0; i < 10; i++ {
		sum = sum.Add(tenth.TotalValue())
	}
	assert.True(t, sum.Equal(d(t, "1")))
}

func TestContractValidate(t *testing.T) {
	base := P2PContract{
		SellerID:       1,
		BuyerID:        2,
		EnergyKWh:      d(t, "5"),
		PricePerKWh:    d(t, "0"),
		ContractPeriod: "2025-04",
		Status:         ContractStatusActive,
	}
	require.NoError(t, base.Validate())

	self := base
	self.BuyerID = 1
	assert.ErrorIs(t, self.Validate(), ErrSelfTrade)

	empty := base
	empty.EnergyKWh = d(t, "0")
	assert.ErrorIs(t, empty.Validate(), ErrInvalidContractEnergy)

	negative := base
	negative.PricePerKWh = d(t, "-0.1")
	assert.ErrorIs(t, negative.Validate(), ErrNegativeValue)

	unknown := base
	unknown.Status = "pending"
	assert.ErrorIs(t, unknown.Validate(), ErrInvalidContractStatus)
}

func TestContractTransitions(t *testing.T) {
	c := P2PContract{Status: ContractStatusActive}
	require.NoError(t, c.TransitionTo(ContractStatusCompleted))
	assert.Equal(t, ContractStatusCompleted, c.Status)

	assert.ErrorIs(t, c.TransitionTo(ContractStatusActive), ErrInvalidTransition)
	assert.ErrorIs(t, c.TransitionTo(ContractStatusCancelled), ErrInvalidTransition)

	c2 := P2PContract{Status: ContractStatusActive}
	assert.ErrorIs(t, c2.TransitionTo(ContractStatusActive), ErrInvalidTransition)
	assert.ErrorIs(t, c2.TransitionTo("archived"), ErrInvalidContractStatus)
	require.NoError(t, c2.TransitionTo(ContractStatusCancelled))
}

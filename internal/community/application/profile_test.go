package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	community "energy-community/internal/community/domain"
	"energy-community/internal/community/infrastructure/memory"
)

func TestGetUserWithCommunityData_FullProfile(t *testing.T) {
	store := memory.NewStore()
	addUser(store, 1, true)
	addMember(t, store, 2, 1, community.RoleProsumer, decPtr(t, "0.2"))
	addRecord(t, store, 1, "2024-03", "40", "55")
	addContract(t, store, 1, 5, "3", "0.5", "2024-03", community.ContractStatusActive)
	addContract(t, store, 6, 1, "2", "0.4", "2024-03", community.ContractStatusActive)
	addContract(t, store, 6, 1, "2", "0.4", "2024-03", community.ContractStatusCancelled)
	_, err := store.Credits.Add(community.EnergyCredit{UserID: 1, CreditKWh: dec(t, "6"), UsedKWh: dec(t, "1.5")})
	require.NoError(t, err)
	_, err = store.Allocations.Add(community.PDEAllocation{UserID: 1, CommunityID: 2, AllocationPeriod: "2024-03", AllocatedKWh: dec(t, "9"), SharePercentage: dec(t, "20")})
	require.NoError(t, err)
	svc := newTestService(t, store)

	res := svc.GetUserWithCommunityData(context.Background(), 1)

	require.Equal(t, StatusOK, res.Status, res.Message)
	profile := res.Data
	assert.Equal(t, int64(1), profile.User.ID)
	require.NotNil(t, profile.Membership)
	assert.Equal(t, int64(2), profile.Membership.CommunityID)
	require.NotNil(t, profile.CurrentMonthEnergy)
	assert.True(t, profile.CurrentMonthEnergy.DeficitKWh.Equal(dec(t, "15")))
	assert.True(t, profile.CurrentMonthEnergy.SelfConsumptionKWh.Equal(dec(t, "40")))

	require.Len(t, profile.ActiveContracts, 2)
	assert.Equal(t, "seller", profile.ActiveContracts[0].Role)
	assert.True(t, profile.ActiveContracts[0].TotalValue.Equal(dec(t, "1.5")))
	assert.Equal(t, "buyer", profile.ActiveContracts[1].Role)

	require.Len(t, profile.ActiveCredits, 1)
	assert.True(t, profile.ActiveCredits[0].AvailableKWh.Equal(dec(t, "4.5")))
	require.NotNil(t, profile.PDEAllocation)
	assert.True(t, profile.PDEAllocation.AllocatedKWh.Equal(dec(t, "9")))
}

func TestGetUserWithCommunityData_WithoutMembership(t *testing.T) {
	store := memory.NewStore()
	addUser(store, 1, true)
	addRecord(t, store, 1, "2024-03", "40", "55")
	svc := newTestService(t, store)

	res := svc.GetUserWithCommunityData(context.Background(), 1)

	require.Equal(t, StatusOK, res.Status)
	assert.Nil(t, res.Data.Membership)
	assert.Nil(t, res.Data.CurrentMonthEnergy)
	assert.Nil(t, res.Data.PDEAllocation)
	assert.NotNil(t, res.Data.ActiveContracts)
	assert.Empty(t, res.Data.ActiveCredits)
}

func TestGetUserWithCommunityData_MissingUser(t *testing.T) {
	svc := newTestService(t, memory.NewStore())
	res := svc.GetUserWithCommunityData(context.Background(), 3)
	assert.Equal(t, StatusNotFound, res.Status)
}

package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	community "energy-community/internal/community/domain"
	"energy-community/internal/community/infrastructure/memory"
)

func TestGetUserEnergyBalance_SurplusWithoutContracts(t *testing.T) {
	store := memory.NewStore()
	addUser(store, 1, true)
	addRecord(t, store, 1, "2024-03", "100", "60")
	svc := newTestService(t, store)

	res := svc.GetUserEnergyBalance(context.Background(), 1, "2024-03")

	require.Equal(t, StatusOK, res.Status, res.Message)
	report := res.Data
	assert.True(t, report.Generation.SelfConsumedKWh.Equal(dec(t, "60")))
	assert.True(t, report.Generation.SurplusKWh.Equal(dec(t, "40")))
	assert.True(t, report.Consumption.DeficitKWh.IsZero())
	assert.True(t, report.NetBalanceKWh.Equal(dec(t, "40")))
	assert.Zero(t, report.P2P.SalesCount)
	assert.Zero(t, report.P2P.PurchasesCount)
	assert.True(t, report.Grid.ExportedToGridKWh.Equal(dec(t, "7")))
	assert.True(t, report.Grid.ImportedFromGridKWh.Equal(dec(t, "3")))
}

func TestGetUserEnergyBalance_DeficitWithTrades(t *testing.T) {
	store := memory.NewStore()
	addUser(store, 1, true)
	addRecord(t, store, 1, "2024-03", "50", "80")
	addContract(t, store, 1, 2, "10", "0.2", "2024-03", community.ContractStatusActive)
	addContract(t, store, 3, 1, "5", "0.3", "2024-03", community.ContractStatusCompleted)
	// Other periods never count.
	addContract(t, store, 1, 2, "99", "1", "2024-02", community.ContractStatusActive)
	svc := newTestService(t, store)

	res := svc.GetUserEnergyBalance(context.Background(), 1, "2024-03")

	require.Equal(t, StatusOK, res.Status, res.Message)
	report := res.Data
	assert.True(t, report.Consumption.DeficitKWh.Equal(dec(t, "30")))
	assert.True(t, report.P2P.SoldKWh.Equal(dec(t, "10")))
	assert.True(t, report.P2P.SoldValue.Equal(dec(t, "2")))
	assert.True(t, report.P2P.BoughtKWh.Equal(dec(t, "5")))
	assert.True(t, report.P2P.BoughtValue.Equal(dec(t, "1.5")))
	assert.Equal(t, 1, report.P2P.SalesCount)
	assert.Equal(t, 1, report.P2P.PurchasesCount)
	assert.True(t, report.NetBalanceKWh.Equal(dec(t, "-35")), report.NetBalanceKWh.String())
}

func TestGetUserEnergyBalance_Failures(t *testing.T) {
	store := memory.NewStore()
	addUser(store, 1, true)
	svc := newTestService(t, store)
	ctx := context.Background()

	res := svc.GetUserEnergyBalance(ctx, 1, "2024-3")
	assert.Equal(t, StatusBadRequest, res.Status)
	assert.Nil(t, res.Data)

	res = svc.GetUserEnergyBalance(ctx, 42, "2024-03")
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Contains(t, res.Message, "user 42")

	res = svc.GetUserEnergyBalance(ctx, 1, "2024-03")
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Contains(t, res.Message, "no energy record")
}

func TestGetUserEnergyBalance_StorageFailureIsInternal(t *testing.T) {
	store := memory.NewStore()
	addUser(store, 1, true)
	repos := repositoriesOf(store)
	repos.Records = failingRecords{}
	svc, err := NewSettlementService(repos)
	require.NoError(t, err)

	res := svc.GetUserEnergyBalance(context.Background(), 1, "2024-03")

	assert.Equal(t, StatusInternalError, res.Status)
	assert.Nil(t, res.Data)
	assert.NotContains(t, res.Message, errStorageDown.Error())
}

func TestBuildBalanceReport_ExactDecimalValues(t *testing.T) {
	record := community.EnergyRecord{
		Period:       "2024-03",
		GeneratedKWh: dec(t, "0.1"),
		ConsumedKWh:  dec(t, "0.3"),
	}
	contracts := []community.P2PContract{
		{SellerID: 9, BuyerID: 1, EnergyKWh: dec(t, "10.50"), PricePerKWh: dec(t, "0.35"), ContractPeriod: "2024-03"},
		{SellerID: 9, BuyerID: 1, EnergyKWh: dec(t, "0.2"), PricePerKWh: dec(t, "1"), ContractPeriod: "2024-03"},
	}

	report := BuildBalanceReport(1, record, contracts)

	assert.Equal(t, "3.875", report.P2P.BoughtValue.String())
	assert.True(t, report.NetBalanceKWh.Equal(dec(t, "10.5")), report.NetBalanceKWh.String())
	assert.True(t, report.Consumption.DeficitKWh.Equal(dec(t, "0.2")))
}

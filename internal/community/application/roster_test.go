package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	community "energy-community/internal/community/domain"
	"energy-community/internal/community/infrastructure/memory"
)

func TestGetCommunityUsers_EmptyCommunity(t *testing.T) {
	svc := newTestService(t, memory.NewStore())

	res := svc.GetCommunityUsers(context.Background(), 5)

	require.Equal(t, StatusOK, res.Status)
	require.NotNil(t, res.Data)
	assert.NotNil(t, res.Data.Members)
	assert.Empty(t, res.Data.Members)
	assert.Zero(t, res.Data.MembersCount)
}

func TestGetCommunityUsers_BuildsRowsForCurrentPeriod(t *testing.T) {
	store := memory.NewStore()
	addUser(store, 1, true)
	addUser(store, 2, true)
	addMember(t, store, 1, 1, community.RoleProsumer, decPtr(t, "0.3"))
	addMember(t, store, 1, 2, community.RoleConsumer, nil)
	// Member whose user vanished is skipped.
	addMember(t, store, 1, 3, community.RoleConsumer, nil)

	addRecord(t, store, 1, "2024-03", "120", "90")
	addRecord(t, store, 1, "2024-04", "999", "999")
	addContract(t, store, 1, 2, "5", "0.2", "2024-03", community.ContractStatusActive)
	addContract(t, store, 1, 2, "5", "0.2", "2024-02", community.ContractStatusCancelled)

	expired := testNow.Add(-time.Hour)
	_, err := store.Credits.Add(community.EnergyCredit{UserID: 1, CreditKWh: dec(t, "10"), UsedKWh: dec(t, "4")})
	require.NoError(t, err)
	_, err = store.Credits.Add(community.EnergyCredit{UserID: 1, CreditKWh: dec(t, "2.5")})
	require.NoError(t, err)
	_, err = store.Credits.Add(community.EnergyCredit{UserID: 1, CreditKWh: dec(t, "50"), ExpirationDate: &expired})
	require.NoError(t, err)
	_, err = store.Allocations.Add(community.PDEAllocation{
		UserID:           1,
		CommunityID:      1,
		AllocationPeriod: "2024-03",
		AllocatedKWh:     dec(t, "12.5"),
		SharePercentage:  dec(t, "30"),
	})
	require.NoError(t, err)

	svc := newTestService(t, store)
	res := svc.GetCommunityUsers(context.Background(), 1)

	require.Equal(t, StatusOK, res.Status, res.Message)
	report := res.Data
	assert.Equal(t, community.Period("2024-03"), report.Period)
	require.Equal(t, 2, report.MembersCount)
	require.Len(t, report.Members, 2)

	first := report.Members[0]
	assert.Equal(t, int64(1), first.UserID)
	assert.Equal(t, "Ana Rojas", first.Name)
	assert.Equal(t, "prosumer", first.Role)
	assert.True(t, first.PDEShare.Equal(dec(t, "0.3")))
	assert.True(t, first.InstalledCapacity.IsZero())
	assert.True(t, first.Energy.GeneratedKWh.Equal(dec(t, "120")))
	assert.Equal(t, 1, first.ActiveContractsCount)
	assert.True(t, first.TotalCreditsKWh.Equal(dec(t, "8.5")), first.TotalCreditsKWh.String())
	assert.True(t, first.PDEAllocatedKWh.Equal(dec(t, "12.5")))

	second := report.Members[1]
	assert.Equal(t, int64(2), second.UserID)
	assert.True(t, second.PDEShare.IsZero())
	assert.True(t, second.Energy.GeneratedKWh.IsZero())
	assert.True(t, second.Energy.ImportedKWh.IsZero())
	assert.Equal(t, 1, second.ActiveContractsCount)
	assert.True(t, second.TotalCreditsKWh.IsZero())
	assert.True(t, second.PDEAllocatedKWh.IsZero())
}

func TestGetCommunityUsers_StorageFailureAbortsReport(t *testing.T) {
	store := memory.NewStore()
	addUser(store, 1, true)
	addMember(t, store, 1, 1, community.RoleProducer, nil)

	repos := repositoriesOf(store)
	repos.Records = failingRecords{}
	svc, err := NewSettlementService(repos)
	require.NoError(t, err)
	res := svc.GetCommunityUsers(context.Background(), 1)
	assert.Equal(t, StatusInternalError, res.Status)
	assert.Nil(t, res.Data)

	repos = repositoriesOf(store)
	repos.Members = failingMembers{MemberRepository: store.Members}
	svc, err = NewSettlementService(repos)
	require.NoError(t, err)
	res = svc.GetCommunityUsers(context.Background(), 1)
	assert.Equal(t, StatusInternalError, res.Status)
}

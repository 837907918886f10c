package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	community "energy-community/internal/community/domain"
	"energy-community/internal/community/infrastructure/memory"
)

func TestRegisterUserInCommunity_CreatesMembershipWithDefaults(t *testing.T) {
	store := memory.NewStore()
	addUser(store, 1, true)
	svc := newTestService(t, store)

	res := svc.RegisterUserInCommunity(context.Background(), RegisterMemberCommand{UserID: 1, CommunityID: 4, Role: "producer"})

	require.Equal(t, StatusCreated, res.Status, res.Message)
	assert.True(t, res.Success())
	assert.Equal(t, int64(4), res.Data.CommunityID)
	assert.Equal(t, "producer", res.Data.Role)
	assert.True(t, res.Data.PDEShare.Equal(dec(t, "0.1")))
	assert.True(t, res.Data.InstalledCapacity.IsZero())
	assert.Equal(t, testNow, res.Data.JoinedAt)
	assert.Equal(t, 1, store.Members.Count())
}

func TestRegisterUserInCommunity_ValidationOrder(t *testing.T) {
	store := memory.NewStore()
	addUser(store, 1, true)
	addUser(store, 2, false)
	addUser(store, 3, true)
	addMember(t, store, 9, 3, community.RoleConsumer, nil)
	svc := newTestService(t, store)

	cases := []struct {
		name    string
		cmd     RegisterMemberCommand
		status  Status
		message string
	}{
		{"missing user", RegisterMemberCommand{UserID: 77, CommunityID: 1, Role: "bogus"}, StatusNotFound, "user 77 not found"},
		{"inactive before role", RegisterMemberCommand{UserID: 2, CommunityID: 1, Role: "bogus"}, StatusBadRequest, "inactive user"},
		{"already registered elsewhere", RegisterMemberCommand{UserID: 3, CommunityID: 1, Role: "bogus"}, StatusBadRequest, "already registered in community 9"},
		{"invalid role", RegisterMemberCommand{UserID: 1, CommunityID: 1, Role: "trader", PDEShare: decPtr(t, "5")}, StatusBadRequest, "producer, consumer, prosumer"},
		{"share above one", RegisterMemberCommand{UserID: 1, CommunityID: 1, Role: "consumer", PDEShare: decPtr(t, "1.5")}, StatusBadRequest, "pde_share"},
		{"negative share", RegisterMemberCommand{UserID: 1, CommunityID: 1, Role: "consumer", PDEShare: decPtr(t, "-0.1")}, StatusBadRequest, "pde_share"},
		{"negative capacity", RegisterMemberCommand{UserID: 1, CommunityID: 1, Role: "consumer", InstalledCapacity: decPtr(t, "-1")}, StatusBadRequest, "installed_capacity"},
		{"share finer than storage", RegisterMemberCommand{UserID: 1, CommunityID: 1, Role: "consumer", PDEShare: decPtr(t, "0.12345")}, StatusBadRequest, "pde_share must have at most 4 decimal places"},
		{"capacity finer than storage", RegisterMemberCommand{UserID: 1, CommunityID: 1, Role: "consumer", InstalledCapacity: decPtr(t, "2.0005")}, StatusBadRequest, "installed_capacity must have at most 3 decimal places"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := svc.RegisterUserInCommunity(context.Background(), tc.cmd)
			assert.Equal(t, tc.status, res.Status)
			assert.Contains(t, res.Message, tc.message)
			assert.Nil(t, res.Data)
		})
	}
	assert.Equal(t, 1, store.Members.Count())
}

func TestRegisterUserInCommunity_BoundaryShares(t *testing.T) {
	for _, share := range []string{"0", "1"} {
		store := memory.NewStore()
		addUser(store, 1, true)
		svc := newTestService(t, store)

		res := svc.RegisterUserInCommunity(context.Background(), RegisterMemberCommand{
			UserID:            1,
			CommunityID:       1,
			Role:              "prosumer",
			PDEShare:          decPtr(t, share),
			InstalledCapacity: decPtr(t, "4.2"),
		})

		require.Equal(t, StatusCreated, res.Status, res.Message)
		assert.True(t, res.Data.PDEShare.Equal(dec(t, share)))
		assert.True(t, res.Data.InstalledCapacity.Equal(dec(t, "4.2")))
	}
}

func TestRegisterUserInCommunity_ConcurrentCallsPersistOne(t *testing.T) {
	store := memory.NewStore()
	addUser(store, 1, true)
	svc := newTestService(t, store)

	const callers = 8
	results := make([]Result[*MemberRegistration], callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.RegisterUserInCommunity(context.Background(), RegisterMemberCommand{UserID: 1, CommunityID: int64(i + 1), Role: "consumer"})
		}(i)
	}
	wg.Wait()

	createdCount := 0
	for _, res := range results {
		switch res.Status {
		case StatusCreated:
			createdCount++
		case StatusBadRequest:
			assert.Contains(t, res.Message, "already registered")
		default:
			t.Fatalf("unexpected status %s: %s", res.Status, res.Message)
		}
	}
	assert.Equal(t, 1, createdCount)
	assert.Equal(t, 1, store.Members.Count())
}

func TestRegisterUserInCommunity_StorageConflictIsBadRequest(t *testing.T) {
	store := memory.NewStore()
	addUser(store, 1, true)
	addMember(t, store, 6, 1, community.RoleProducer, nil)

	repos := repositoriesOf(store)
	repos.Members = &racingMembers{MemberRepository: store.Members, hideOnce: true}
	svc, err := NewSettlementService(repos)
	require.NoError(t, err)

	res := svc.RegisterUserInCommunity(context.Background(), RegisterMemberCommand{UserID: 1, CommunityID: 2, Role: "consumer"})

	assert.Equal(t, StatusBadRequest, res.Status)
	assert.Equal(t, "user already registered in community 6", res.Message)
	assert.Equal(t, 1, store.Members.Count())
}

func TestRegisterUserInCommunity_ConfiguredDefaultShare(t *testing.T) {
	store := memory.NewStore()
	addUser(store, 1, true)
	svc := newTestService(t, store, WithDefaultPDEShare(dec(t, "0.25")))

	res := svc.RegisterUserInCommunity(context.Background(), RegisterMemberCommand{UserID: 1, CommunityID: 1, Role: "consumer"})

	require.Equal(t, StatusCreated, res.Status)
	assert.True(t, res.Data.PDEShare.Equal(dec(t, "0.25")))
}

package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	community "energy-community/internal/community/domain"
	"energy-community/internal/community/infrastructure/memory"
)

var errStorageDown = errors.New("storage down")

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// 2024-03-31 23:30 in Bogota is already April in UTC.
var testNow = time.Date(2024, 4, 1, 4, 30, 0, 0, time.UTC)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return v
}

func decPtr(t *testing.T, value string) *decimal.Decimal {
	v := dec(t, value)
	return &v
}

func bogota(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	return loc
}

func repositoriesOf(store *memory.Store) Repositories {
	return Repositories{
		Users:       store.Users,
		Members:     store.Members,
		Records:     store.Records,
		Contracts:   store.Contracts,
		Credits:     store.Credits,
		Allocations: store.Allocations,
	}
}

func newTestService(t *testing.T, store *memory.Store, opts ...Option) *SettlementService {
	t.Helper()
	base := []Option{WithClock(fixedClock{now: testNow}), WithLocation(bogota(t))}
	svc, err := NewSettlementService(repositoriesOf(store), append(base, opts...)...)
	require.NoError(t, err)
	return svc
}

func addUser(store *memory.Store, id int64, active bool) {
	store.Users.Add(community.User{
		ID:       id,
		Document: "CC-" + decimal.NewFromInt(id).String(),
		Name:     "Ana",
		Lastname: "Rojas",
		Email:    "ana@example.com",
		IsActive: active,
		Role:     2,
	})
}

func addRecord(t *testing.T, store *memory.Store, userID int64, period community.Period, generated, consumed string) {
	t.Helper()
	_, err := store.Records.Add(community.EnergyRecord{
		UserID:       userID,
		CommunityID:  1,
		Period:       period,
		GeneratedKWh: dec(t, generated),
		ConsumedKWh:  dec(t, consumed),
		ExportedKWh:  dec(t, "7"),
		ImportedKWh:  dec(t, "3"),
		Timestamp:    testNow,
	})
	require.NoError(t, err)
}

func addContract(t *testing.T, store *memory.Store, seller, buyer int64, energy, price string, period community.Period, status community.ContractStatus) community.P2PContract {
	t.Helper()
	c, err := store.Contracts.Add(community.P2PContract{
		SellerID:       seller,
		BuyerID:        buyer,
		EnergyKWh:      dec(t, energy),
		PricePerKWh:    dec(t, price),
		ContractPeriod: period,
		Status:         status,
		CreatedAt:      testNow,
	})
	require.NoError(t, err)
	return c
}

func addMember(t *testing.T, store *memory.Store, communityID, userID int64, role community.MemberRole, share *decimal.Decimal) {
	t.Helper()
	_, err := store.Members.Save(context.Background(), community.Member{
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
		PDEShare:    share,
		JoinedAt:    testNow,
	})
	require.NoError(t, err)
}

type failingRecords struct{}

func (failingRecords) GetByUserAndPeriod(context.Context, int64, community.Period) (*community.EnergyRecord, error) {
	return nil, errStorageDown
}

type failingMembers struct {
	community.MemberRepository
}

func (failingMembers) GetByCommunityID(context.Context, int64) ([]community.Member, error) {
	return nil, errStorageDown
}

// racingMembers hides an existing membership from the pre-check so Save hits
// the storage uniqueness rule.
type racingMembers struct {
	*memory.MemberRepository
	hideOnce bool
}

func (r *racingMembers) GetByUserID(ctx context.Context, userID int64) (*community.Member, error) {
	if r.hideOnce {
		r.hideOnce = false
		return nil, nil
	}
	return r.MemberRepository.GetByUserID(ctx, userID)
}

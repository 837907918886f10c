package community

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Lookups return nil, nil when the entity does not exist.

// UserRepository reads users from the identity collaborator.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
}

// MemberRepository persists memberships. Save must enforce one membership per
// user and return ErrMembershipExists on violation.
type MemberRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*Member, error)
	GetByCommunityID(ctx context.Context, communityID int64) ([]Member, error)
	Save(ctx context.Context, member Member) (*Member, error)
}

// EnergyRecordRepository reads per-period energy records.
type EnergyRecordRepository interface {
	GetByUserAndPeriod(ctx context.Context, userID int64, period Period) (*EnergyRecord, error)
}

// ContractRepository reads contracts where the user is seller or buyer.
type ContractRepository interface {
	GetByUserID(ctx context.Context, userID int64) ([]P2PContract, error)
	GetActiveByUserID(ctx context.Context, userID int64) ([]P2PContract, error)
	// UpdateStatus moves an active contract to status atomically.
	UpdateStatus(ctx context.Context, id int64, status ContractStatus) (*P2PContract, error)
}

// CreditRepository reads and consumes energy credits.
type CreditRepository interface {
	// GetActiveByUserID returns credits neither exhausted nor expired at the given time.
	GetActiveByUserID(ctx context.Context, userID int64, at time.Time) ([]EnergyCredit, error)
	// Consume adds kwh to used_kwh atomically, never past credit_kwh.
	Consume(ctx context.Context, id int64, kwh decimal.Decimal, at time.Time) (*EnergyCredit, error)
}

// AllocationRepository reads PDE allocations.
type AllocationRepository interface {
	GetByUserAndPeriod(ctx context.Context, userID int64, period Period) (*PDEAllocation, error)
}

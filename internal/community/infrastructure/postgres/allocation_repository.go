package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	community "energy-community/internal/community/domain"
)

// AllocationRepository persists pde_allocations.
type AllocationRepository struct {
	db *sql.DB
}

// NewAllocationRepository constructs a repository.
func NewAllocationRepository(db *sql.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// GetByUserAndPeriod returns the allocation or nil.
func (r *AllocationRepository) GetByUserAndPeriod(ctx context.Context, userID int64, period community.Period) (*community.PDEAllocation, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("allocation repo: nil db")
	}
	var (
		a         community.PDEAllocation
		allocated string
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, community_id, allocation_period, allocated_kwh, share_percentage, created_at
FROM pde_allocations
WHERE user_id = $1 AND allocation_period = $2`, userID, period.String()).Scan(
		&a.ID, &a.UserID, &a.CommunityID, &allocated, &a.AllocatedKWh, &a.SharePercentage, &a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.AllocationPeriod = community.Period(allocated)
	return &a, nil
}

// Upsert writes the allocation of (user, period).
func (r *AllocationRepository) Upsert(ctx context.Context, a community.PDEAllocation) (*community.PDEAllocation, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("allocation repo: nil db")
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRowContext(ctx, `
INSERT INTO pde_allocations (user_id, community_id, allocation_period, allocated_kwh, share_percentage, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (user_id, allocation_period)
DO UPDATE SET
	community_id = EXCLUDED.community_id,
	allocated_kwh = EXCLUDED.allocated_kwh,
	share_percentage = EXCLUDED.share_percentage
RETURNING id`,
		a.UserID, a.CommunityID, a.AllocationPeriod.String(), a.AllocatedKWh, a.SharePercentage, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

package memory

import (
	"context"
	"sync"

	community "energy-community/internal/community/domain"
)

// AllocationRepository stores PDE allocations per user and period.
type AllocationRepository struct {
	mu          sync.RWMutex
	nextID      int64
	allocations map[recordKey]community.PDEAllocation
}

// NewAllocationRepository constructs a repository.
func NewAllocationRepository() *AllocationRepository {
	return &AllocationRepository{allocations: make(map[recordKey]community.PDEAllocation)}
}

// Add inserts or replaces the allocation of (user, period).
func (r *AllocationRepository) Add(allocation community.PDEAllocation) (community.PDEAllocation, error) {
	if err := allocation.Validate(); err != nil {
		return community.PDEAllocation{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := recordKey{userID: allocation.UserID, period: allocation.AllocationPeriod}
	if existing, ok := r.allocations[key]; ok {
		allocation.ID = existing.ID
	} else if allocation.ID == 0 {
		r.nextID++
		allocation.ID = r.nextID
	}
	r.allocations[key] = allocation
	return allocation, nil
}

// GetByUserAndPeriod returns the allocation or nil.
func (r *AllocationRepository) GetByUserAndPeriod(ctx context.Context, userID int64, period community.Period) (*community.PDEAllocation, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	allocation, ok := r.allocations[recordKey{userID: userID, period: period}]
	if !ok {
		return nil, nil
	}
	return &allocation, nil
}

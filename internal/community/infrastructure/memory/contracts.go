package memory

import (
	"context"
	"sort"
	"sync"

	community "energy-community/internal/community/domain"
)

// ContractRepository stores P2P contracts.
type ContractRepository struct {
	mu        sync.RWMutex
	nextID    int64
	contracts map[int64]community.P2PContract
}

// NewContractRepository constructs a repository.
func NewContractRepository() *ContractRepository {
	return &ContractRepository{contracts: make(map[int64]community.P2PContract)}
}

// Add stores a contract, assigning an id when missing.
func (r *ContractRepository) Add(contract community.P2PContract) (community.P2PContract, error) {
	if err := contract.Validate(); err != nil {
		return community.P2PContract{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if contract.ID == 0 {
		r.nextID++
		contract.ID = r.nextID
	} else if contract.ID > r.nextID {
		r.nextID = contract.ID
	}
	r.contracts[contract.ID] = contract
	return contract, nil
}

// GetByUserID lists contracts where the user is seller or buyer.
func (r *ContractRepository) GetByUserID(ctx context.Context, userID int64) ([]community.P2PContract, error) {
	return r.list(ctx, userID, false)
}

// GetActiveByUserID lists active contracts where the user is seller or buyer.
func (r *ContractRepository) GetActiveByUserID(ctx context.Context, userID int64) ([]community.P2PContract, error) {
	return r.list(ctx, userID, true)
}

func (r *ContractRepository) list(ctx context.Context, userID int64, activeOnly bool) ([]community.P2PContract, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]community.P2PContract, 0)
	for _, c := range r.contracts {
		if c.SellerID != userID && c.BuyerID != userID {
			continue
		}
		if activeOnly && !c.IsActive() {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// UpdateStatus transitions an active contract under the write lock.
func (r *ContractRepository) UpdateStatus(ctx context.Context, id int64, status community.ContractStatus) (*community.P2PContract, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	contract, ok := r.contracts[id]
	if !ok {
		return nil, community.ErrContractNotFound
	}
	if err := contract.TransitionTo(status); err != nil {
		return nil, err
	}
	r.contracts[id] = contract
	return &contract, nil
}

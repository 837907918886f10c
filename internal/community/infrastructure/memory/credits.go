package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	community "energy-community/internal/community/domain"
)

// CreditRepository stores energy credits.
type CreditRepository struct {
	mu      sync.RWMutex
	nextID  int64
	credits map[int64]community.EnergyCredit
}

// NewCreditRepository constructs a repository.
func NewCreditRepository() *CreditRepository {
	return &CreditRepository{credits: make(map[int64]community.EnergyCredit)}
}

// Add stores a credit, assigning an id when missing.
func (r *CreditRepository) Add(credit community.EnergyCredit) (community.EnergyCredit, error) {
	if err := credit.Validate(); err != nil {
		return community.EnergyCredit{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if credit.ID == 0 {
		r.nextID++
		credit.ID = r.nextID
	} else if credit.ID > r.nextID {
		r.nextID = credit.ID
	}
	r.credits[credit.ID] = cloneCredit(credit)
	return credit, nil
}

// GetActiveByUserID lists credits neither exhausted nor expired at at.
func (r *CreditRepository) GetActiveByUserID(ctx context.Context, userID int64, at time.Time) ([]community.EnergyCredit, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]community.EnergyCredit, 0)
	for _, c := range r.credits {
		if c.UserID == userID && c.IsActive(at) {
			result = append(result, cloneCredit(c))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Consume applies the increment under the write lock so concurrent calls
// never push used_kwh past credit_kwh.
func (r *CreditRepository) Consume(ctx context.Context, id int64, kwh decimal.Decimal, at time.Time) (*community.EnergyCredit, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	credit, ok := r.credits[id]
	if !ok {
		return nil, community.ErrCreditNotFound
	}
	if err := credit.Consume(kwh, at); err != nil {
		return nil, err
	}
	r.credits[id] = credit
	clone := cloneCredit(credit)
	return &clone, nil
}

func cloneCredit(c community.EnergyCredit) community.EnergyCredit {
	if c.ExpirationDate != nil {
		exp := *c.ExpirationDate
		c.ExpirationDate = &exp
	}
	return c
}

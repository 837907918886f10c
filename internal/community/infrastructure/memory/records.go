package memory

import (
	"context"
	"sync"

	community "energy-community/internal/community/domain"
)

type recordKey struct {
	userID int64
	period community.Period
}

// EnergyRecordRepository stores one record per user and period.
type EnergyRecordRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records map[recordKey]community.EnergyRecord
}

// NewEnergyRecordRepository constructs a repository.
func NewEnergyRecordRepository() *EnergyRecordRepository {
	return &EnergyRecordRepository{records: make(map[recordKey]community.EnergyRecord)}
}

// Add inserts or replaces the record of (user, period).
func (r *EnergyRecordRepository) Add(record community.EnergyRecord) (community.EnergyRecord, error) {
	if err := record.Validate(); err != nil {
		return community.EnergyRecord{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := recordKey{userID: record.UserID, period: record.Period}
	if existing, ok := r.records[key]; ok {
		record.ID = existing.ID
	} else if record.ID == 0 {
		r.nextID++
		record.ID = r.nextID
	}
	r.records[key] = record
	return record, nil
}

// GetByUserAndPeriod returns the record or nil.
func (r *EnergyRecordRepository) GetByUserAndPeriod(ctx context.Context, userID int64, period community.Period) (*community.EnergyRecord, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[recordKey{userID: userID, period: period}]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

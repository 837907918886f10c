package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	community "energy-community/internal/community/domain"
)

// EnergyRecordRepository reads and upserts energy_records.
type EnergyRecordRepository struct {
	db *sql.DB
}

// NewEnergyRecordRepository constructs a repository.
func NewEnergyRecordRepository(db *sql.DB) *EnergyRecordRepository {
	return &EnergyRecordRepository{db: db}
}

// GetByUserAndPeriod returns the record or nil.
func (r *EnergyRecordRepository) GetByUserAndPeriod(ctx context.Context, userID int64, period community.Period) (*community.EnergyRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("energy record repo: nil db")
	}
	var (
		rec       community.EnergyRecord
		recPeriod string
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, community_id, period,
	energy_generated, energy_consumed, energy_exported, energy_imported, recorded_at
FROM energy_records
WHERE user_id = $1 AND period = $2`, userID, period.String()).Scan(
		&rec.ID, &rec.UserID, &rec.CommunityID, &recPeriod,
		&rec.GeneratedKWh, &rec.ConsumedKWh, &rec.ExportedKWh, &rec.ImportedKWh, &rec.Timestamp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.Period = community.Period(recPeriod)
	return &rec, nil
}

// Upsert writes the record of (user, period), replacing the quantities.
func (r *EnergyRecordRepository) Upsert(ctx context.Context, rec community.EnergyRecord) (*community.EnergyRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("energy record repo: nil db")
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	err := r.db.QueryRowContext(ctx, `
INSERT INTO energy_records (
	user_id, community_id, period,
	energy_generated, energy_consumed, energy_exported, energy_imported, recorded_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (user_id, period)
DO UPDATE SET
	community_id = EXCLUDED.community_id,
	energy_generated = EXCLUDED.energy_generated,
	energy_consumed = EXCLUDED.energy_consumed,
	energy_exported = EXCLUDED.energy_exported,
	energy_imported = EXCLUDED.energy_imported,
	recorded_at = EXCLUDED.recorded_at
RETURNING id`,
		rec.UserID, rec.CommunityID, rec.Period.String(),
		rec.GeneratedKWh, rec.ConsumedKWh, rec.ExportedKWh, rec.ImportedKWh, rec.Timestamp,
	).Scan(&rec.ID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

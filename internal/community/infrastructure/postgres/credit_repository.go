package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	community "energy-community/internal/community/domain"
)

const creditColumns = `id, user_id, credit_kwh, used_kwh, expiration_date, created_at`

// CreditRepository persists energy_credits.
type CreditRepository struct {
	db *sql.DB
}

// NewCreditRepository constructs a repository.
func NewCreditRepository(db *sql.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

// GetActiveByUserID lists credits neither exhausted nor expired at at.
func (r *CreditRepository) GetActiveByUserID(ctx context.Context, userID int64, at time.Time) ([]community.EnergyCredit, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("credit repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+creditColumns+`
FROM energy_credits
WHERE user_id = $1
	AND used_kwh < credit_kwh
	AND (expiration_date IS NULL OR expiration_date > $2)
ORDER BY id ASC`, userID, at)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]community.EnergyCredit, 0)
	for rows.Next() {
		c, err := scanCredit(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

// Consume increments used_kwh with one conditional UPDATE so concurrent
// consumers cannot exceed credit_kwh.
func (r *CreditRepository) Consume(ctx context.Context, id int64, kwh decimal.Decimal, at time.Time) (*community.EnergyCredit, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("credit repo: nil db")
	}
	if err := community.ValidateConsumption(kwh); err != nil {
		return nil, err
	}
	credit, err := scanCredit(r.db.QueryRowContext(ctx, `
UPDATE energy_credits
SET used_kwh = used_kwh + $2::numeric
WHERE id = $1
	AND used_kwh + $2::numeric <= credit_kwh
	AND (expiration_date IS NULL OR expiration_date > $3)
RETURNING `+creditColumns, id, kwh, at))
	if err == nil {
		return credit, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, community.ErrCreditNotFound
	}
	if current.IsExpired(at) {
		return nil, community.ErrCreditExpired
	}
	return nil, community.ErrCreditExhausted
}

// GetByID returns the credit or nil.
func (r *CreditRepository) GetByID(ctx context.Context, id int64) (*community.EnergyCredit, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("credit repo: nil db")
	}
	credit, err := scanCredit(r.db.QueryRowContext(ctx, `
SELECT `+creditColumns+`
FROM energy_credits
WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return credit, nil
}

// Insert creates a credit.
func (r *CreditRepository) Insert(ctx context.Context, c community.EnergyCredit) (*community.EnergyCredit, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("credit repo: nil db")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRowContext(ctx, `
INSERT INTO energy_credits (user_id, credit_kwh, used_kwh, expiration_date, created_at)
VALUES ($1,$2,$3,$4,$5)
RETURNING id`,
		c.UserID, c.CreditKWh, c.UsedKWh, nullTime(c.ExpirationDate), c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func scanCredit(row rowScanner) (*community.EnergyCredit, error) {
	var (
		c      community.EnergyCredit
		expiry sql.NullTime
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.CreditKWh, &c.UsedKWh, &expiry, &c.CreatedAt); err != nil {
		return nil, err
	}
	if expiry.Valid {
		exp := expiry.Time
		c.ExpirationDate = &exp
	}
	return &c, nil
}

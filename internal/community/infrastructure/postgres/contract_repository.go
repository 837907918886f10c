package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	community "energy-community/internal/community/domain"
)

const contractColumns = `id, seller_id, buyer_id, energy_kwh, price_per_kwh, contract_period, status, created_at`

// ContractRepository persists p2p_contracts.
type ContractRepository struct {
	db *sql.DB
}

// NewContractRepository constructs a repository.
func NewContractRepository(db *sql.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// GetByUserID lists contracts where the user is seller or buyer.
func (r *ContractRepository) GetByUserID(ctx context.Context, userID int64) ([]community.P2PContract, error) {
	return r.list(ctx, `
SELECT `+contractColumns+`
FROM p2p_contracts
WHERE seller_id = $1 OR buyer_id = $1
ORDER BY id ASC`, userID)
}

// GetActiveByUserID lists active contracts where the user is seller or buyer.
func (r *ContractRepository) GetActiveByUserID(ctx context.Context, userID int64) ([]community.P2PContract, error) {
	return r.list(ctx, `
SELECT `+contractColumns+`
FROM p2p_contracts
WHERE (seller_id = $1 OR buyer_id = $1) AND status = 'active'
ORDER BY id ASC`, userID)
}

// UpdateStatus moves an active contract to status in a single conditional update.
func (r *ContractRepository) UpdateStatus(ctx context.Context, id int64, status community.ContractStatus) (*community.P2PContract, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("contract repo: nil db")
	}
	if !community.CanTransition(community.ContractStatusActive, status) {
		return nil, community.ErrInvalidTransition
	}
	contract, err := scanContract(r.db.QueryRowContext(ctx, `
UPDATE p2p_contracts
SET status = $2
WHERE id = $1 AND status = 'active'
RETURNING `+contractColumns, id, string(status)))
	if err == nil {
		return contract, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM p2p_contracts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, community.ErrContractNotFound
	}
	return nil, community.ErrInvalidTransition
}

// Insert creates a contract.
func (r *ContractRepository) Insert(ctx context.Context, c community.P2PContract) (*community.P2PContract, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("contract repo: nil db")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRowContext(ctx, `
INSERT INTO p2p_contracts (seller_id, buyer_id, energy_kwh, price_per_kwh, contract_period, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id`,
		c.SellerID, c.BuyerID, c.EnergyKWh, c.PricePerKWh, c.ContractPeriod.String(), string(c.Status), c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContractRepository) list(ctx context.Context, query string, userID int64) ([]community.P2PContract, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("contract repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]community.P2PContract, 0)
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func scanContract(row rowScanner) (*community.P2PContract, error) {
	var (
		c      community.P2PContract
		period string
		status string
	)
	if err := row.Scan(&c.ID, &c.SellerID, &c.BuyerID, &c.EnergyKWh, &c.PricePerKWh, &period, &status, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.ContractPeriod = community.Period(period)
	c.Status = community.ContractStatus(status)
	return &c, nil
}

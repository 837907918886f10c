package postgres

import (
	"context"
	"database/sql"
	"errors"

	community "energy-community/internal/community/domain"
)

// UserRepository reads the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository constructs a repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID returns the user or nil.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*community.User, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("user repo: nil db")
	}
	var u community.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, document, name, lastname, email, phone, is_active, role, created_at
FROM users
WHERE id = $1`, id).Scan(&u.ID, &u.Document, &u.Name, &u.Lastname, &u.Email, &u.Phone, &u.IsActive, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Insert creates a user and returns it with its id.
func (r *UserRepository) Insert(ctx context.Context, u community.User) (*community.User, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("user repo: nil db")
	}
	err := r.db.QueryRowContext(ctx, `
INSERT INTO users (document, name, lastname, email, phone, is_active, role)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (document) DO UPDATE SET
	name = EXCLUDED.name,
	lastname = EXCLUDED.lastname,
	email = EXCLUDED.email,
	phone = EXCLUDED.phone,
	is_active = EXCLUDED.is_active,
	role = EXCLUDED.role
RETURNING id, created_at`,
		u.Document, u.Name, u.Lastname, u.Email, u.Phone, u.IsActive, u.Role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	community "energy-community/internal/community/domain"
)

const defaultMemberTable = "community_members"

// MemberRepository persists memberships. The table carries UNIQUE (user_id).
type MemberRepository struct {
	db    *sql.DB
	table string
}

// MemberOption configures the repository.
type MemberOption func(*MemberRepository)

// WithMemberTable overrides the table name.
func WithMemberTable(table string) MemberOption {
	return func(r *MemberRepository) {
		if table != "" {
			r.table = table
		}
	}
}

// NewMemberRepository constructs a repository.
func NewMemberRepository(db *sql.DB, opts ...MemberOption) *MemberRepository {
	repo := &MemberRepository{db: db, table: defaultMemberTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// GetByUserID returns the user's membership or nil.
func (r *MemberRepository) GetByUserID(ctx context.Context, userID int64) (*community.Member, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("member repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT id, community_id, user_id, role, pde_share, installed_capacity, joined_at
FROM %s
WHERE user_id = $1`, r.table)
	member, err := scanMember(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

// GetByCommunityID lists memberships of a community ordered by id.
func (r *MemberRepository) GetByCommunityID(ctx context.Context, communityID int64) ([]community.Member, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("member repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT id, community_id, user_id, role, pde_share, installed_capacity, joined_at
FROM %s
WHERE community_id = $1
ORDER BY id ASC`, r.table)
	rows, err := r.db.QueryContext(ctx, query, communityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]community.Member, 0)
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *member)
	}
	return result, rows.Err()
}

// Save inserts a membership, mapping the unique violation to ErrMembershipExists.
func (r *MemberRepository) Save(ctx context.Context, member community.Member) (*community.Member, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("member repo: nil db")
	}
	if err := member.Validate(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
INSERT INTO %s (community_id, user_id, role, pde_share, installed_capacity, joined_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id`, r.table)
	err := r.db.QueryRowContext(ctx, query,
		member.CommunityID, member.UserID, string(member.Role),
		nullDecimal(member.PDEShare), nullDecimal(member.InstalledCapacity), member.JoinedAt,
	).Scan(&member.ID)
	if isUniqueViolation(err) {
		return nil, community.ErrMembershipExists
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func scanMember(row rowScanner) (*community.Member, error) {
	var (
		m        community.Member
		role     string
		share    decimal.NullDecimal
		capacity decimal.NullDecimal
	)
	if err := row.Scan(&m.ID, &m.CommunityID, &m.UserID, &role, &share, &capacity, &m.JoinedAt); err != nil {
		return nil, err
	}
	m.Role = community.MemberRole(role)
	m.PDEShare = decimalPtr(share)
	m.InstalledCapacity = decimalPtr(capacity)
	return &m, nil
}

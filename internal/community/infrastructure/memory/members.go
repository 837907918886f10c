package memory

import (
	"context"
	"sort"
	"sync"

	community "energy-community/internal/community/domain"
)

// MemberRepository keeps memberships keyed by user, one per user.
type MemberRepository struct {
	mu     sync.RWMutex
	nextID int64
	byUser map[int64]community.Member
}

// NewMemberRepository constructs a repository.
func NewMemberRepository() *MemberRepository {
	return &MemberRepository{byUser: make(map[int64]community.Member)}
}

// GetByUserID returns the user's membership or nil.
func (r *MemberRepository) GetByUserID(ctx context.Context, userID int64) (*community.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	clone := cloneMember(m)
	return &clone, nil
}

// GetByCommunityID lists memberships of a community ordered by id.
func (r *MemberRepository) GetByCommunityID(ctx context.Context, communityID int64) ([]community.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]community.Member, 0)
	for _, m := range r.byUser {
		if m.CommunityID == communityID {
			result = append(result, cloneMember(m))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Save inserts a membership. The uniqueness check and insert happen under one lock.
func (r *MemberRepository) Save(ctx context.Context, member community.Member) (*community.Member, error) {
	_ = ctx
	if err := member.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUser[member.UserID]; exists {
		return nil, community.ErrMembershipExists
	}
	r.nextID++
	member.ID = r.nextID
	stored := cloneMember(member)
	r.byUser[member.UserID] = stored
	clone := cloneMember(stored)
	return &clone, nil
}

// Count returns the number of memberships.
func (r *MemberRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}

func cloneMember(m community.Member) community.Member {
	if m.PDEShare != nil {
		share := *m.PDEShare
		m.PDEShare = &share
	}
	if m.InstalledCapacity != nil {
		capacity := *m.InstalledCapacity
		m.InstalledCapacity = &capacity
	}
	return m
}

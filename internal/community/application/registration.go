package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	community "energy-community/internal/community/domain"
	"energy-community/internal/observability/metrics"
)

// RegisterUserInCommunity creates the single membership a user may hold.
// Checks run in order and the first failure wins.
func (s *SettlementService) RegisterUserInCommunity(ctx context.Context, cmd RegisterMemberCommand) (res Result[*MemberRegistration]) {
	start := time.Now()
	defer func() { metrics.ObserveUseCase(useCaseRegister, string(res.Status), time.Since(start)) }()

	user, err := s.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return internalFailure[*MemberRegistration](s, useCaseRegister, "loading user", err)
	}
	if user == nil {
		return notFound[*MemberRegistration](fmt.Sprintf("user %d not found", cmd.UserID))
	}
	if !user.IsActive {
		return badRequest[*MemberRegistration]("inactive user")
	}

	existing, err := s.members.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return internalFailure[*MemberRegistration](s, useCaseRegister, "loading membership", err)
	}
	if existing != nil {
		return badRequest[*MemberRegistration](alreadyRegistered(existing.CommunityID))
	}

	role, err := community.ParseMemberRole(cmd.Role)
	if err != nil {
		return badRequest[*MemberRegistration](fmt.Sprintf("invalid role %q, must be one of: %s", cmd.Role, community.MemberRoleList()))
	}

	share := s.defaultShare
	if cmd.PDEShare != nil {
		if err := community.ValidatePDEShare(*cmd.PDEShare); err != nil {
			if errors.Is(err, community.ErrTooPrecise) {
				return badRequest[*MemberRegistration](fmt.Sprintf("pde_share must have at most %d decimal places", community.PDEShareScale))
			}
			return badRequest[*MemberRegistration]("pde_share must be between 0 and 1")
		}
		share = *cmd.PDEShare
	}
	capacity := decimal.Zero
	if cmd.InstalledCapacity != nil {
		if err := community.ValidateInstalledCapacity(*cmd.InstalledCapacity); err != nil {
			if errors.Is(err, community.ErrTooPrecise) {
				return badRequest[*MemberRegistration](fmt.Sprintf("installed_capacity must have at most %d decimal places", community.CapacityScale))
			}
			return badRequest[*MemberRegistration]("installed_capacity must not be negative")
		}
		capacity = *cmd.InstalledCapacity
	}

	member := community.Member{
		CommunityID:       cmd.CommunityID,
		UserID:            cmd.UserID,
		Role:              role,
		PDEShare:          &share,
		InstalledCapacity: &capacity,
		JoinedAt:          s.clock.Now(),
	}
	saved, err := s.members.Save(ctx, member)
	if errors.Is(err, community.ErrMembershipExists) {
		// Lost the race against a concurrent registration of the same user.
		winner, lookupErr := s.members.GetByUserID(ctx, cmd.UserID)
		if lookupErr != nil || winner == nil {
			return badRequest[*MemberRegistration]("user already registered in a community")
		}
		return badRequest[*MemberRegistration](alreadyRegistered(winner.CommunityID))
	}
	if err != nil {
		return internalFailure[*MemberRegistration](s, useCaseRegister, "saving membership", err)
	}

	s.logger.Info("member registered",
		zap.Int64("user_id", saved.UserID),
		zap.Int64("community_id", saved.CommunityID),
		zap.String("role", string(saved.Role)),
	)
	return created(registrationOf(*saved), fmt.Sprintf("user %d registered in community %d", saved.UserID, saved.CommunityID))
}

func alreadyRegistered(communityID int64) string {
	return fmt.Sprintf("user already registered in community %d", communityID)
}

func registrationOf(m community.Member) *MemberRegistration {
	return &MemberRegistration{
		MembershipID:      m.ID,
		UserID:            m.UserID,
		CommunityID:       m.CommunityID,
		Role:              string(m.Role),
		PDEShare:          m.PDEShareOrZero(),
		InstalledCapacity: m.InstalledCapacityOrZero(),
		JoinedAt:          m.JoinedAt,
	}
}

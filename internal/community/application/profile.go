package application

import (
	"context"
	"fmt"
	"time"

	"energy-community/internal/observability/metrics"
)

// GetUserWithCommunityData assembles a user's profile: identity, membership,
// current-month energy, active contracts and credits, and PDE allocation.
func (s *SettlementService) GetUserWithCommunityData(ctx context.Context, userID int64) (res Result[*UserProfile]) {
	start := time.Now()
	defer func() { metrics.ObserveUseCase(useCaseProfile, string(res.Status), time.Since(start)) }()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return internalFailure[*UserProfile](s, useCaseProfile, "loading user", err)
	}
	if user == nil {
		return notFound[*UserProfile](fmt.Sprintf("user %d not found", userID))
	}

	now := s.clock.Now()
	period := s.periodAt(now)
	profile := &UserProfile{
		User: UserSummary{
			ID:       user.ID,
			Document: user.Document,
			Name:     user.Name,
			Lastname: user.Lastname,
			Email:    user.Email,
			Phone:    user.Phone,
			IsActive: user.IsActive,
			Role:     user.Role,
		},
		ActiveContracts: []ContractSummary{},
		ActiveCredits:   []CreditSummary{},
	}

	member, err := s.members.GetByUserID(ctx, userID)
	if err != nil {
		return internalFailure[*UserProfile](s, useCaseProfile, "loading membership", err)
	}
	if member != nil {
		profile.Membership = &MembershipSummary{
			CommunityID:       member.CommunityID,
			Role:              string(member.Role),
			PDEShare:          member.PDEShare,
			InstalledCapacity: member.InstalledCapacity,
			JoinedAt:          member.JoinedAt,
		}

		record, err := s.records.GetByUserAndPeriod(ctx, userID, period)
		if err != nil {
			return internalFailure[*UserProfile](s, useCaseProfile, "loading energy record", err)
		}
		if record != nil {
			profile.CurrentMonthEnergy = &EnergySnapshot{
				EnergyQuantities:   quantitiesOf(*record),
				SelfConsumptionKWh: record.SelfConsumption(),
				SurplusKWh:         record.Surplus(),
				DeficitKWh:         record.Deficit(),
			}
		}

		allocation, err := s.allocations.GetByUserAndPeriod(ctx, userID, period)
		if err != nil {
			return internalFailure[*UserProfile](s, useCaseProfile, "loading allocation", err)
		}
		if allocation != nil {
			profile.PDEAllocation = &AllocationSummary{
				AllocatedKWh:    allocation.AllocatedKWh,
				SharePercentage: allocation.SharePercentage,
				Period:          allocation.AllocationPeriod,
			}
		}
	}

	contracts, err := s.contracts.GetActiveByUserID(ctx, userID)
	if err != nil {
		return internalFailure[*UserProfile](s, useCaseProfile, "loading contracts", err)
	}
	for _, c := range contracts {
		role := "buyer"
		if c.SellerID == userID {
			role = "seller"
		}
		profile.ActiveContracts = append(profile.ActiveContracts, *contractSummaryOf(c, role))
	}

	credits, err := s.credits.GetActiveByUserID(ctx, userID, now)
	if err != nil {
		return internalFailure[*UserProfile](s, useCaseProfile, "loading credits", err)
	}
	for _, c := range credits {
		profile.ActiveCredits = append(profile.ActiveCredits, *creditSummaryOf(c))
	}

	return ok(profile, "user data retrieved")
}

package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	community "energy-community/internal/community/domain"
	"energy-community/internal/observability/metrics"
)

// GetCommunityUsers lists the members of a community with their figures for
// the current period. Members whose user no longer exists are skipped.
func (s *SettlementService) GetCommunityUsers(ctx context.Context, communityID int64) (res Result[*RosterReport]) {
	start := time.Now()
	defer func() { metrics.ObserveUseCase(useCaseRoster, string(res.Status), time.Since(start)) }()

	now := s.clock.Now()
	period := s.periodAt(now)
	report := &RosterReport{
		CommunityID: communityID,
		Period:      period,
		Members:     []RosterMember{},
	}

	members, err := s.members.GetByCommunityID(ctx, communityID)
	if err != nil {
		return internalFailure[*RosterReport](s, useCaseRoster, "loading members", err)
	}
	if len(members) == 0 {
		return ok(report, fmt.Sprintf("no members found in community %d", communityID))
	}

	for _, member := range members {
		row, found, err := s.rosterRow(ctx, member, period, now)
		if err != nil {
			return internalFailure[*RosterReport](s, useCaseRoster, "building roster", err)
		}
		if !found {
			continue
		}
		report.Members = append(report.Members, row)
	}
	report.MembersCount = len(report.Members)
	return ok(report, fmt.Sprintf("%d members found in community %d", report.MembersCount, communityID))
}

func (s *SettlementService) rosterRow(ctx context.Context, member community.Member, period community.Period, now time.Time) (RosterMember, bool, error) {
	user, err := s.users.GetByID(ctx, member.UserID)
	if err != nil {
		return RosterMember{}, false, fmt.Errorf("user %d: %w", member.UserID, err)
	}
	if user == nil {
		return RosterMember{}, false, nil
	}

	row := RosterMember{
		UserID:            user.ID,
		Name:              user.FullName(),
		Email:             user.Email,
		Role:              string(member.Role),
		PDEShare:          member.PDEShareOrZero(),
		InstalledCapacity: member.InstalledCapacityOrZero(),
		Energy: EnergyQuantities{
			GeneratedKWh: decimal.Zero,
			ConsumedKWh:  decimal.Zero,
			ExportedKWh:  decimal.Zero,
			ImportedKWh:  decimal.Zero,
		},
		TotalCreditsKWh: decimal.Zero,
		PDEAllocatedKWh: decimal.Zero,
	}

	record, err := s.records.GetByUserAndPeriod(ctx, member.UserID, period)
	if err != nil {
		return RosterMember{}, false, fmt.Errorf("energy record of user %d: %w", member.UserID, err)
	}
	if record != nil {
		row.Energy = quantitiesOf(*record)
	}

	active, err := s.contracts.GetActiveByUserID(ctx, member.UserID)
	if err != nil {
		return RosterMember{}, false, fmt.Errorf("contracts of user %d: %w", member.UserID, err)
	}
	row.ActiveContractsCount = len(active)

	credits, err := s.credits.GetActiveByUserID(ctx, member.UserID, now)
	if err != nil {
		return RosterMember{}, false, fmt.Errorf("credits of user %d: %w", member.UserID, err)
	}
	for _, credit := range credits {
		row.TotalCreditsKWh = row.TotalCreditsKWh.Add(credit.Available())
	}

	allocation, err := s.allocations.GetByUserAndPeriod(ctx, member.UserID, period)
	if err != nil {
		return RosterMember{}, false, fmt.Errorf("allocation of user %d: %w", member.UserID, err)
	}
	if allocation != nil {
		row.PDEAllocatedKWh = allocation.AllocatedKWh
	}
	return row, true, nil
}

func quantitiesOf(record community.EnergyRecord) EnergyQuantities {
	return EnergyQuantities{
		GeneratedKWh: record.GeneratedKWh,
		ConsumedKWh:  record.ConsumedKWh,
		ExportedKWh:  record.ExportedKWh,
		ImportedKWh:  record.ImportedKWh,
	}
}

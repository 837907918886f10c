package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	community "energy-community/internal/community/domain"
	"energy-community/internal/observability/metrics"
)

// GetUserEnergyBalance computes the energy balance of a user for a period.
func (s *SettlementService) GetUserEnergyBalance(ctx context.Context, userID int64, period string) (res Result[*BalanceReport]) {
	start := time.Now()
	defer func() { metrics.ObserveUseCase(useCaseBalance, string(res.Status), time.Since(start)) }()

	p, err := community.ParsePeriod(period)
	if err != nil {
		return badRequest[*BalanceReport](fmt.Sprintf("invalid period %q, expected YYYY-MM", period))
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return internalFailure[*BalanceReport](s, useCaseBalance, "loading user", err)
	}
	if user == nil {
		return notFound[*BalanceReport](fmt.Sprintf("user %d not found", userID))
	}
	record, err := s.records.GetByUserAndPeriod(ctx, userID, p)
	if err != nil {
		return internalFailure[*BalanceReport](s, useCaseBalance, "loading energy record", err)
	}
	if record == nil {
		return notFound[*BalanceReport](fmt.Sprintf("no energy record for user %d in period %s", userID, p))
	}
	contracts, err := s.contracts.GetByUserID(ctx, userID)
	if err != nil {
		return internalFailure[*BalanceReport](s, useCaseBalance, "loading contracts", err)
	}
	return ok(BuildBalanceReport(userID, *record, contracts), "energy balance calculated")
}

// BuildBalanceReport derives the balance from a record and the user's
// contracts. Contracts of other periods are ignored whatever their status.
func BuildBalanceReport(userID int64, record community.EnergyRecord, contracts []community.P2PContract) *BalanceReport {
	trades := TradeBlock{
		SoldKWh:     decimal.Zero,
		SoldValue:   decimal.Zero,
		BoughtKWh:   decimal.Zero,
		BoughtValue: decimal.Zero,
	}
	for _, c := range contracts {
		if c.ContractPeriod != record.Period {
			continue
		}
		if c.SellerID == userID {
			trades.SoldKWh = trades.SoldKWh.Add(c.EnergyKWh)
			trades.SoldValue = trades.SoldValue.Add(c.TotalValue())
			trades.SalesCount++
		}
		if c.BuyerID == userID {
			trades.BoughtKWh = trades.BoughtKWh.Add(c.EnergyKWh)
			trades.BoughtValue = trades.BoughtValue.Add(c.TotalValue())
			trades.PurchasesCount++
		}
	}

	selfConsumed := record.SelfConsumption()
	net := record.GeneratedKWh.Add(trades.BoughtKWh).Sub(record.ConsumedKWh).Sub(trades.SoldKWh)

	return &BalanceReport{
		UserID: userID,
		Period: record.Period,
		Generation: GenerationBlock{
			TotalGeneratedKWh: record.GeneratedKWh,
			SelfConsumedKWh:   selfConsumed,
			SurplusKWh:        record.Surplus(),
		},
		Consumption: ConsumptionBlock{
			TotalConsumedKWh:     record.ConsumedKWh,
			FromOwnGenerationKWh: selfConsumed,
			DeficitKWh:           record.Deficit(),
		},
		Grid: GridBlock{
			ExportedToGridKWh:   record.ExportedKWh,
			ImportedFromGridKWh: record.ImportedKWh,
		},
		P2P:           trades,
		NetBalanceKWh: net,
	}
}

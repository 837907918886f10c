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

// ConsumeCredit draws kwh from a credit. The store applies the increment
// atomically so concurrent draws never exceed the credit.
func (s *SettlementService) ConsumeCredit(ctx context.Context, creditID int64, kwh decimal.Decimal) (res Result[*CreditSummary]) {
	start := time.Now()
	defer func() { metrics.ObserveUseCase(useCaseConsumeCredit, string(res.Status), time.Since(start)) }()

	if err := community.ValidateConsumption(kwh); err != nil {
		if errors.Is(err, community.ErrTooPrecise) {
			return badRequest[*CreditSummary](fmt.Sprintf("kwh must have at most %d decimal places", community.EnergyScale))
		}
		return badRequest[*CreditSummary]("kwh must be greater than zero")
	}
	credit, err := s.credits.Consume(ctx, creditID, kwh, s.clock.Now())
	switch {
	case errors.Is(err, community.ErrCreditNotFound):
		return notFound[*CreditSummary](fmt.Sprintf("credit %d not found", creditID))
	case errors.Is(err, community.ErrCreditExhausted):
		return badRequest[*CreditSummary](fmt.Sprintf("credit %d has less than %s kWh available", creditID, kwh))
	case errors.Is(err, community.ErrCreditExpired):
		return badRequest[*CreditSummary](fmt.Sprintf("credit %d is expired", creditID))
	case err != nil:
		return internalFailure[*CreditSummary](s, useCaseConsumeCredit, "consuming credit", err)
	}

	s.logger.Info("credit consumed",
		zap.Int64("credit_id", creditID),
		zap.String("kwh", kwh.String()),
		zap.String("available_kwh", credit.Available().String()),
	)
	return ok(creditSummaryOf(*credit), "credit consumed")
}

// UpdateContractStatus closes an active contract as completed or cancelled.
func (s *SettlementService) UpdateContractStatus(ctx context.Context, contractID int64, status string) (res Result[*ContractSummary]) {
	start := time.Now()
	defer func() { metrics.ObserveUseCase(useCaseContract, string(res.Status), time.Since(start)) }()

	target, err := community.ParseContractStatus(status)
	if err != nil {
		return badRequest[*ContractSummary](fmt.Sprintf("invalid status %q, must be completed or cancelled", status))
	}
	if target == community.ContractStatusActive {
		return badRequest[*ContractSummary]("contracts cannot be reactivated")
	}

	contract, err := s.contracts.UpdateStatus(ctx, contractID, target)
	switch {
	case errors.Is(err, community.ErrContractNotFound):
		return notFound[*ContractSummary](fmt.Sprintf("contract %d not found", contractID))
	case errors.Is(err, community.ErrInvalidTransition):
		return badRequest[*ContractSummary](fmt.Sprintf("contract %d is not active", contractID))
	case err != nil:
		return internalFailure[*ContractSummary](s, useCaseContract, "updating contract status", err)
	}

	s.logger.Info("contract status updated",
		zap.Int64("contract_id", contractID),
		zap.String("status", string(contract.Status)),
	)
	return ok(contractSummaryOf(*contract, ""), fmt.Sprintf("contract %d %s", contractID, contract.Status))
}

package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	community "energy-community/internal/community/domain"
)

var (
	ErrUserRepositoryRequired       = errors.New("settlement service: user repository is required")
	ErrMemberRepositoryRequired     = errors.New("settlement service: member repository is required")
	ErrRecordRepositoryRequired     = errors.New("settlement service: energy record repository is required")
	ErrContractRepositoryRequired   = errors.New("settlement service: contract repository is required")
	ErrCreditRepositoryRequired     = errors.New("settlement service: credit repository is required")
	ErrAllocationRepositoryRequired = errors.New("settlement service: allocation repository is required")
)

const (
	useCaseBalance       = "energy_balance"
	useCaseRoster        = "community_users"
	useCaseRegister      = "register_member"
	useCaseProfile       = "user_profile"
	useCaseConsumeCredit = "consume_credit"
	useCaseContract      = "update_contract_status"
)

// Clock provides current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

// Now returns current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Repositories groups the storage ports the service reads and writes.
type Repositories struct {
	Users       community.UserRepository
	Members     community.MemberRepository
	Records     community.EnergyRecordRepository
	Contracts   community.ContractRepository
	Credits     community.CreditRepository
	Allocations community.AllocationRepository
}

func (r Repositories) validate() error {
	switch {
	case r.Users == nil:
		return ErrUserRepositoryRequired
	case r.Members == nil:
		return ErrMemberRepositoryRequired
	case r.Records == nil:
		return ErrRecordRepositoryRequired
	case r.Contracts == nil:
		return ErrContractRepositoryRequired
	case r.Credits == nil:
		return ErrCreditRepositoryRequired
	case r.Allocations == nil:
		return ErrAllocationRepositoryRequired
	}
	return nil
}

// Option configures a SettlementService.
type Option func(*SettlementService)

// WithClock overrides the time source.
func WithClock(clock Clock) Option {
	return func(s *SettlementService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLocation sets the timezone used to derive the current period.
func WithLocation(loc *time.Location) Option {
	return func(s *SettlementService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithDefaultPDEShare sets the share assigned when registration omits one.
func WithDefaultPDEShare(share decimal.Decimal) Option {
	return func(s *SettlementService) {
		s.defaultShare = share
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *SettlementService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// SettlementService computes balances and rosters and manages memberships,
// credits and contracts. It is stateless apart from its collaborators and safe
// for concurrent use.
type SettlementService struct {
	users        community.UserRepository
	members      community.MemberRepository
	records      community.EnergyRecordRepository
	contracts    community.ContractRepository
	credits      community.CreditRepository
	allocations  community.AllocationRepository
	clock        Clock
	location     *time.Location
	defaultShare decimal.Decimal
	logger       *zap.Logger
}

// NewSettlementService constructs the service.
func NewSettlementService(repos Repositories, opts ...Option) (*SettlementService, error) {
	if err := repos.validate(); err != nil {
		return nil, err
	}
	s := &SettlementService{
		users:        repos.Users,
		members:      repos.Members,
		records:      repos.Records,
		contracts:    repos.Contracts,
		credits:      repos.Credits,
		allocations:  repos.Allocations,
		clock:        SystemClock{},
		location:     time.UTC,
		defaultShare: decimal.RequireFromString("0.1"),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := community.ValidatePDEShare(s.defaultShare); err != nil {
		return nil, fmt.Errorf("settlement service: default pde share: %w", err)
	}
	return s, nil
}

// periodAt is the period containing at in the configured timezone.
func (s *SettlementService) periodAt(at time.Time) community.Period {
	return community.PeriodOf(at.In(s.location))
}

func internalFailure[T any](s *SettlementService, useCase, action string, err error) Result[T] {
	s.logger.Error("use case failed",
		zap.String("use_case", useCase),
		zap.String("action", action),
		zap.Error(err),
	)
	return internalError[T](fmt.Sprintf("internal error while %s", action))
}

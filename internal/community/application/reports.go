package application

import (
	"time"

	"github.com/shopspring/decimal"

	community "energy-community/internal/community/domain"
)

// BalanceReport is a user's energy position for one period.
type BalanceReport struct {
	UserID        int64            `json:"user_id"`
	Period        community.Period `json:"period"`
	Generation    GenerationBlock  `json:"generation"`
	Consumption   ConsumptionBlock `json:"consumption"`
	Grid          GridBlock        `json:"grid_interaction"`
	P2P           TradeBlock       `json:"p2p_transactions"`
	NetBalanceKWh decimal.Decimal  `json:"net_balance_kwh"`
}

// GenerationBlock summarises generation.
type GenerationBlock struct {
	TotalGeneratedKWh decimal.Decimal `json:"total_generated_kwh"`
	SelfConsumedKWh   decimal.Decimal `json:"self_consumed_kwh"`
	SurplusKWh        decimal.Decimal `json:"surplus_kwh"`
}

// ConsumptionBlock summarises consumption.
type ConsumptionBlock struct {
	TotalConsumedKWh     decimal.Decimal `json:"total_consumed_kwh"`
	FromOwnGenerationKWh decimal.Decimal `json:"from_own_generation_kwh"`
	DeficitKWh           decimal.Decimal `json:"deficit_kwh"`
}

// GridBlock carries the raw grid quantities of the record.
type GridBlock struct {
	ExportedToGridKWh   decimal.Decimal `json:"exported_to_grid_kwh"`
	ImportedFromGridKWh decimal.Decimal `json:"imported_from_grid_kwh"`
}

// TradeBlock aggregates the P2P contracts of the period.
type TradeBlock struct {
	SoldKWh        decimal.Decimal `json:"sold_kwh"`
	SoldValue      decimal.Decimal `json:"sold_value"`
	BoughtKWh      decimal.Decimal `json:"bought_kwh"`
	BoughtValue    decimal.Decimal `json:"bought_value"`
	SalesCount     int             `json:"sales_count"`
	PurchasesCount int             `json:"purchases_count"`
}

// RosterReport lists a community's members with their current-period figures.
type RosterReport struct {
	CommunityID  int64            `json:"community_id"`
	Period       community.Period `json:"period"`
	MembersCount int              `json:"members_count"`
	Members      []RosterMember   `json:"members"`
}

// RosterMember is one roster row.
type RosterMember struct {
	UserID               int64            `json:"user_id"`
	Name                 string           `json:"name"`
	Email                string           `json:"email"`
	Role                 string           `json:"role"`
	PDEShare             decimal.Decimal  `json:"pde_share"`
	InstalledCapacity    decimal.Decimal  `json:"installed_capacity"`
	Energy               EnergyQuantities `json:"energy_data"`
	ActiveContractsCount int              `json:"active_contracts_count"`
	TotalCreditsKWh      decimal.Decimal  `json:"total_credits_kwh"`
	PDEAllocatedKWh      decimal.Decimal  `json:"pde_allocated_kwh"`
}

// EnergyQuantities are the four raw quantities of a record.
type EnergyQuantities struct {
	GeneratedKWh decimal.Decimal `json:"generated_kwh"`
	ConsumedKWh  decimal.Decimal `json:"consumed_kwh"`
	ExportedKWh  decimal.Decimal `json:"exported_kwh"`
	ImportedKWh  decimal.Decimal `json:"imported_kwh"`
}

// RegisterMemberCommand is the input of RegisterUserInCommunity.
type RegisterMemberCommand struct {
	UserID            int64
	CommunityID       int64
	Role              string
	PDEShare          *decimal.Decimal
	InstalledCapacity *decimal.Decimal
}

// MemberRegistration is the created membership.
type MemberRegistration struct {
	MembershipID      int64           `json:"membership_id"`
	UserID            int64           `json:"user_id"`
	CommunityID       int64           `json:"community_id"`
	Role              string          `json:"role"`
	PDEShare          decimal.Decimal `json:"pde_share"`
	InstalledCapacity decimal.Decimal `json:"installed_capacity"`
	JoinedAt          time.Time       `json:"joined_at"`
}

// UserProfile is the full view of a user and their community data.
type UserProfile struct {
	User               UserSummary        `json:"user"`
	Membership         *MembershipSummary `json:"community_membership"`
	CurrentMonthEnergy *EnergySnapshot    `json:"current_month_energy"`
	ActiveContracts    []ContractSummary  `json:"active_contracts"`
	ActiveCredits      []CreditSummary    `json:"active_credits"`
	PDEAllocation      *AllocationSummary `json:"pde_allocation"`
}

// UserSummary is the identity block of a profile.
type UserSummary struct {
	ID       int64  `json:"id"`
	Document string `json:"document"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
	Role     int    `json:"role"`
}

// MembershipSummary is the membership block of a profile.
type MembershipSummary struct {
	CommunityID       int64            `json:"community_id"`
	Role              string           `json:"role"`
	PDEShare          *decimal.Decimal `json:"pde_share"`
	InstalledCapacity *decimal.Decimal `json:"installed_capacity"`
	JoinedAt          time.Time        `json:"joined_at"`
}

// EnergySnapshot is the current-month record with derived values.
type EnergySnapshot struct {
	EnergyQuantities
	SelfConsumptionKWh decimal.Decimal `json:"self_consumption_kwh"`
	SurplusKWh         decimal.Decimal `json:"surplus_kwh"`
	DeficitKWh         decimal.Decimal `json:"deficit_kwh"`
}

// ContractSummary is an active contract seen from the user's side.
type ContractSummary struct {
	ID             int64            `json:"id"`
	SellerID       int64            `json:"seller_id"`
	BuyerID        int64            `json:"buyer_id"`
	EnergyKWh      decimal.Decimal  `json:"energy_kwh"`
	PricePerKWh    decimal.Decimal  `json:"price_per_kwh"`
	TotalValue     decimal.Decimal  `json:"total_value"`
	ContractPeriod community.Period `json:"contract_period"`
	Status         string           `json:"status"`
	Role           string           `json:"role,omitempty"`
}

// CreditSummary is an active credit.
type CreditSummary struct {
	ID             int64           `json:"id"`
	CreditKWh      decimal.Decimal `json:"credit_kwh"`
	UsedKWh        decimal.Decimal `json:"used_kwh"`
	AvailableKWh   decimal.Decimal `json:"available_kwh"`
	ExpirationDate *time.Time      `json:"expiration_date"`
}

// AllocationSummary is the current-period PDE allocation.
type AllocationSummary struct {
	AllocatedKWh    decimal.Decimal  `json:"allocated_kwh"`
	SharePercentage decimal.Decimal  `json:"share_percentage"`
	Period          community.Period `json:"period"`
}

// contractSummaryOf renders a contract; role is the viewer's side and may be empty.
func contractSummaryOf(c community.P2PContract, role string) *ContractSummary {
	return &ContractSummary{
		ID:             c.ID,
		SellerID:       c.SellerID,
		BuyerID:        c.BuyerID,
		EnergyKWh:      c.EnergyKWh,
		PricePerKWh:    c.PricePerKWh,
		TotalValue:     c.TotalValue(),
		ContractPeriod: c.ContractPeriod,
		Status:         string(c.Status),
		Role:           role,
	}
}

func creditSummaryOf(c community.EnergyCredit) *CreditSummary {
	return &CreditSummary{
		ID:             c.ID,
		CreditKWh:      c.CreditKWh,
		UsedKWh:        c.UsedKWh,
		AvailableKWh:   c.Available(),
		ExpirationDate: c.ExpirationDate,
	}
}

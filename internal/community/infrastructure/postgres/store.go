package postgres

import "database/sql"

// Store bundles the Postgres repositories sharing one pool.
type Store struct {
	Users       *UserRepository
	Members     *MemberRepository
	Records     *EnergyRecordRepository
	Contracts   *ContractRepository
	Credits     *CreditRepository
	Allocations *AllocationRepository
}

// NewStore constructs all repositories on db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		Users:       NewUserRepository(db),
		Members:     NewMemberRepository(db),
		Records:     NewEnergyRecordRepository(db),
		Contracts:   NewContractRepository(db),
		Credits:     NewCreditRepository(db),
		Allocations: NewAllocationRepository(db),
	}
}

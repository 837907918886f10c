package memory

// Store bundles the in-memory repositories for local runs and tests.
type Store struct {
	Users       *UserRepository
	Members     *MemberRepository
	Records     *EnergyRecordRepository
	Contracts   *ContractRepository
	Credits     *CreditRepository
	Allocations *AllocationRepository
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		Users:       NewUserRepository(),
		Members:     NewMemberRepository(),
		Records:     NewEnergyRecordRepository(),
		Contracts:   NewContractRepository(),
		Credits:     NewCreditRepository(),
		Allocations: NewAllocationRepository(),
	}
}

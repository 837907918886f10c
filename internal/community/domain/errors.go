package community

import "errors"

var (
	// ErrInvalidPeriod is returned when a period token is not YYYY-MM.
	ErrInvalidPeriod = errors.New("community: period must be YYYY-MM")
	// ErrNegativeValue is returned when an energy or money quantity is negative.
	ErrNegativeValue = errors.New("community: negative value")
	// ErrInvalidRole is returned for membership roles outside producer/consumer/prosumer.
	ErrInvalidRole = errors.New("community: invalid member role")
	// ErrInvalidPDEShare is returned when a pde share is outside [0, 1].
	ErrInvalidPDEShare = errors.New("community: pde share must be between 0 and 1")
	// ErrInvalidSharePercentage is returned when an allocation share is outside [0, 100].
	ErrInvalidSharePercentage = errors.New("community: share percentage must be between 0 and 100")
	// ErrTooPrecise is returned when a quantity has more decimal places than storage keeps.
	ErrTooPrecise = errors.New("community: too many decimal places")
	// ErrMembershipExists is returned by storage when the user already has a membership.
	ErrMembershipExists = errors.New("community: user already has a membership")

	// ErrInvalidCredit is returned when a credit violates 0 <= used <= credit, credit > 0.
	ErrInvalidCredit = errors.New("community: invalid energy credit")
	// ErrInvalidConsumption is returned when a credit consumption amount is not positive.
	ErrInvalidConsumption = errors.New("community: consumption must be positive")
	// ErrCreditNotFound is returned when a credit does not exist.
	ErrCreditNotFound = errors.New("community: credit not found")
	// ErrCreditExhausted is returned when a consumption would exceed the credit.
	ErrCreditExhausted = errors.New("community: credit exhausted")
	// ErrCreditExpired is returned when consuming an expired credit.
	ErrCreditExpired = errors.New("community: credit expired")

	// ErrSelfTrade is returned when seller and buyer are the same user.
	ErrSelfTrade = errors.New("community: seller and buyer must differ")
	// ErrInvalidContractEnergy is returned when contracted energy is not positive.
	ErrInvalidContractEnergy = errors.New("community: contract energy must be positive")
	// ErrInvalidContractStatus is returned for unknown contract statuses.
	ErrInvalidContractStatus = errors.New("community: invalid contract status")
	// ErrInvalidTransition is returned when a contract status change is not allowed.
	ErrInvalidTransition = errors.New("community: invalid contract status transition")
	// ErrContractNotFound is returned when a contract does not exist.
	ErrContractNotFound = errors.New("community: contract not found")
)

package community

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MemberRole is the role a user plays in a community.
type MemberRole string

const (
	RoleProducer MemberRole = "producer"
	RoleConsumer MemberRole = "consumer"
	RoleProsumer MemberRole = "prosumer"
)

// MemberRoles lists the valid roles in display order.
var MemberRoles = []MemberRole{RoleProducer, RoleConsumer, RoleProsumer}

// ParseMemberRole validates a role string.
func ParseMemberRole(value string) (MemberRole, error) {
	for _, role := range MemberRoles {
		if string(role) == value {
			return role, nil
		}
	}
	return "", ErrInvalidRole
}

// MemberRoleList returns the valid roles joined for messages.
func MemberRoleList() string {
	names := make([]string, 0, len(MemberRoles))
	for _, role := range MemberRoles {
		names = append(names, string(role))
	}
	return strings.Join(names, ", ")
}

// Member binds a user to a community. A user holds at most one membership.
type Member struct {
	ID                int64
	CommunityID       int64
	UserID            int64
	Role              MemberRole
	PDEShare          *decimal.Decimal
	InstalledCapacity *decimal.Decimal
	JoinedAt          time.Time
}

// Validate checks membership invariants.
func (m Member) Validate() error {
	if _, err := ParseMemberRole(string(m.Role)); err != nil {
		return err
	}
	if m.PDEShare != nil {
		if err := ValidatePDEShare(*m.PDEShare); err != nil {
			return err
		}
	}
	if m.InstalledCapacity != nil {
		return ValidateInstalledCapacity(*m.InstalledCapacity)
	}
	return nil
}

// ValidatePDEShare checks 0 <= share <= 1 with at most four decimal places.
func ValidatePDEShare(share decimal.Decimal) error {
	if share.IsNegative() || share.GreaterThan(decimal.NewFromInt(1)) {
		return ErrInvalidPDEShare
	}
	return checkScale(PDEShareScale, share)
}

// ValidateInstalledCapacity checks a non-negative kW value with at most three decimal places.
func ValidateInstalledCapacity(capacity decimal.Decimal) error {
	if capacity.IsNegative() {
		return ErrNegativeValue
	}
	return checkScale(CapacityScale, capacity)
}

// PDEShareOrZero returns the nominal share, 0 when unset.
func (m Member) PDEShareOrZero() decimal.Decimal {
	if m.PDEShare == nil {
		return decimal.Zero
	}
	return *m.PDEShare
}

// InstalledCapacityOrZero returns the installed kW, 0 when unset.
func (m Member) InstalledCapacityOrZero() decimal.Decimal {
	if m.InstalledCapacity == nil {
		return decimal.Zero
	}
	return *m.InstalledCapacity
}

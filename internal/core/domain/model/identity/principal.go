// Package identity models the authenticated caller of a marketplace operation.
//
// Capabilities are explicit predicates on Principal (IsAdmin, IsCarrier, Is) so that
// authorization decisions stay inside the aggregates that own them.
package identity

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var ErrPrincipalIsNotConstructed = errors.New("Principal must be created via NewPrincipal")

// Role is a coarse capability granted by the authentication context.
type Role string

const (
	RoleUser    Role = "USER"
	RoleAdmin   Role = "ADMIN"
	RoleCarrier Role = "CARRIER"
)

// ParseRole accepts role names case-insensitively.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleUser, RoleAdmin, RoleCarrier:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
	}
}

// Principal is the caller identity attached to every command and query.
type Principal struct {
	userID        kernel.UUID
	roles         []Role
	companyID     *kernel.UUID
	isConstructed bool
}

// NewPrincipal builds a principal. A principal without roles is treated as a plain user.
func NewPrincipal(userID kernel.UUID, roles ...Role) (Principal, error) {
	if err := userID.Validate(); err != nil {
		return Principal{}, err
	}

	unique := make([]Role, 0, len(roles)+1)
	for _, r := range roles {
		if !slices.Contains(unique, r) {
			unique = append(unique, r)
		}
	}
	if len(unique) == 0 {
		unique = append(unique, RoleUser)
	}
	slices.Sort(unique)

	return Principal{userID: userID, roles: unique, isConstructed: true}, nil
}

func (p Principal) UserID() kernel.UUID {
	return p.userID
}

func (p Principal) Roles() []Role {
	return slices.Clone(p.roles)
}

func (p Principal) HasRole(role Role) bool {
	return slices.Contains(p.roles, role)
}

func (p Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}

func (p Principal) IsCarrier() bool {
	return p.HasRole(RoleCarrier)
}

// WithCompany returns a copy of p that acts for companyID.
func (p Principal) WithCompany(companyID kernel.UUID) (Principal, error) {
	if err := errors.Join(p.Validate(), companyID.Validate()); err != nil {
		return Principal{}, err
	}
	p.companyID = &companyID
	return p, nil
}

// CompanyID is nil for a principal that acts for no company.
func (p Principal) CompanyID() *kernel.UUID {
	return p.companyID
}

// MemberOf reports whether the principal acts for companyID.
func (p Principal) MemberOf(companyID kernel.UUID) bool {
	return p.isConstructed && p.companyID != nil && p.companyID.IsEqual(companyID)
}

// Is reports whether the principal acts as the given user.
func (p Principal) Is(userID kernel.UUID) bool {
	return p.isConstructed && p.userID.IsEqual(userID)
}

func (p Principal) Validate() error {
	if !p.isConstructed {
		return ErrPrincipalIsNotConstructed
	}
	return nil
}

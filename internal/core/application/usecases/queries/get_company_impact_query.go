package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetCompanyImpactQueryIsNotConstructed = errors.New(
	"GetCompanyImpactQuery must be created via NewGetCompanyImpactQuery constructor",
)

// GetCompanyImpactQuery reads a company's accumulated impact. Only members of the
// company and admins may see it. A company without completed transactions has zero
// totals, not a missing record.
type GetCompanyImpactQuery struct { //nolint:recvcheck //using for validation
	principal identity.Principal
	companyID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCompanyImpactQuery(principal identity.Principal, companyID kernel.UUID) (GetCompanyImpactQuery, error) {
	if err := errors.Join(principal.Validate(), companyID.Validate()); err != nil {
		return GetCompanyImpactQuery{}, err
	}
	return GetCompanyImpactQuery{
		principal: principal,
		companyID: companyID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetCompanyImpactQuery) Validate() error {
	return q.guard.Validate(ErrGetCompanyImpactQueryIsNotConstructed)
}

func (q GetCompanyImpactQuery) Principal() identity.Principal {
	return q.principal
}

func (q GetCompanyImpactQuery) CompanyID() kernel.UUID {
	return q.companyID
}

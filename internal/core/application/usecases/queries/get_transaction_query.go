package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetTransactionQueryIsNotConstructed = errors.New(
	"GetTransactionQuery must be created via NewGetTransactionQuery constructor",
)

// GetTransactionQuery reads one ledger entry. Only its participants and admins may see it.
//
// Example:
//
//	query, err := NewGetTransactionQuery(principal, transactionID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetTransactionQuery struct { //nolint:recvcheck //using for validation
	principal     identity.Principal
	transactionID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetTransactionQuery(principal identity.Principal, transactionID kernel.UUID) (GetTransactionQuery, error) {
	if err := errors.Join(principal.Validate(), transactionID.Validate()); err != nil {
		return GetTransactionQuery{}, err
	}
	return GetTransactionQuery{
		principal:     principal,
		transactionID: transactionID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (q GetTransactionQuery) Validate() error {
	return q.guard.Validate(ErrGetTransactionQueryIsNotConstructed)
}

func (q GetTransactionQuery) Principal() identity.Principal {
	return q.principal
}

func (q GetTransactionQuery) TransactionID() kernel.UUID {
	return q.transactionID
}

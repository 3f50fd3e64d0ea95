package queries

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrListTransactionsQueryIsNotConstructed = errors.New(
	"ListTransactionsQuery must be created via NewListTransactionsQuery constructor",
)

// ParticipantRole selects which side of the caller's transactions to list.
type ParticipantRole string

const (
	AsBuyer  ParticipantRole = "buyer"
	AsSeller ParticipantRole = "seller"
	AsAny    ParticipantRole = "any"
)

// ParseParticipantRole accepts buyer, seller or any; an empty string means any.
func ParseParticipantRole(s string) (ParticipantRole, error) {
	switch r := ParticipantRole(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return AsAny, nil
	case AsBuyer, AsSeller, AsAny:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not buyer, seller or any", s))
	}
}

// ListTransactionsQuery pages through the caller's own transactions, newest first.
type ListTransactionsQuery struct { //nolint:recvcheck //using for validation
	principal  identity.Principal
	role       ParticipantRole
	statuses   []transaction.Status
	pagination Pagination

	guard guard.ConstructorGuard
}

// NewListTransactionsQuery builds the query. An empty status list matches every status.
func NewListTransactionsQuery(
	principal identity.Principal,
	role ParticipantRole,
	statuses []transaction.Status,
	page int,
	pageSize int,
) (ListTransactionsQuery, error) {
	if err := principal.Validate(); err != nil {
		return ListTransactionsQuery{}, err
	}
	if role == "" {
		role = AsAny
	}
	if _, err := ParseParticipantRole(string(role)); err != nil {
		return ListTransactionsQuery{}, err
	}
	for _, s := range statuses {
		if err := s.Validate(); err != nil {
			return ListTransactionsQuery{}, err
		}
	}

	return ListTransactionsQuery{
		principal:  principal,
		role:       role,
		statuses:   append([]transaction.Status(nil), statuses...),
		pagination: newPagination(page, pageSize, DefaultTransactionPageSize, MaxTransactionPageSize),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListTransactionsQuery) Validate() error {
	return q.guard.Validate(ErrListTransactionsQueryIsNotConstructed)
}

func (q ListTransactionsQuery) Principal() identity.Principal {
	return q.principal
}

func (q ListTransactionsQuery) Role() ParticipantRole {
	return q.role
}

func (q ListTransactionsQuery) Statuses() []transaction.Status {
	return append([]transaction.Status(nil), q.statuses...)
}

func (q ListTransactionsQuery) Pagination() Pagination {
	return q.pagination
}

// TransactionPage is one page of transactions plus the total match count.
type TransactionPage struct {
	Items    []TransactionView
	Page     int
	PageSize int
	Total    int64
}

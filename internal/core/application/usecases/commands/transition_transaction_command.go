package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrTransitionTransactionCommandIsNotConstructed = errors.New(
	"TransitionTransactionCommand must be created via NewTransitionTransactionCommand constructor",
)

// TransitionTransactionCommand moves a transaction to target.
//
// Reason is required when cancelling. ExpectedVersion, when set, is the version the
// caller last read; the handler refuses to act on anything newer. Details are used
// only when the transition is an acceptance and opens the delivery.
type TransitionTransactionCommand struct { //nolint:recvcheck //using for validation
	principal       identity.Principal
	transactionID   kernel.UUID
	target          transaction.Status
	reason          string
	expectedVersion *int
	details         logistics.Details

	guard guard.ConstructorGuard
}

func NewTransitionTransactionCommand(
	principal identity.Principal,
	transactionID kernel.UUID,
	target transaction.Status,
	reason string,
) (TransitionTransactionCommand, error) {
	cmd := TransitionTransactionCommand{
		reason: strings.TrimSpace(reason),
		guard:  guard.NewConstructorGuard(),
	}

	var targetErr error
	if err := target.Validate(); err != nil || target == transaction.Pending {
		targetErr = errs.NewValueIsInvalidErrorWithCause("target status", errors.New("must be ACCEPTED, COMPLETED or CANCELLED"))
	}

	if err := errors.Join(
		principal.Validate(),
		transactionID.Validate(),
		targetErr,
	); err != nil {
		return TransitionTransactionCommand{}, err
	}

	cmd.principal = principal
	cmd.transactionID = transactionID
	cmd.target = target
	return cmd, nil
}

// WithExpectedVersion returns a copy that fails with a conflict unless the stored
// version still equals v.
func (c TransitionTransactionCommand) WithExpectedVersion(v int) TransitionTransactionCommand {
	c.expectedVersion = &v
	return c
}

// WithLogisticsDetails returns a copy carrying the delivery coordinates used on acceptance.
func (c TransitionTransactionCommand) WithLogisticsDetails(d logistics.Details) TransitionTransactionCommand {
	c.details = d
	return c
}

func (c TransitionTransactionCommand) Validate() error {
	return c.guard.Validate(ErrTransitionTransactionCommandIsNotConstructed)
}

func (c TransitionTransactionCommand) Principal() identity.Principal {
	return c.principal
}

func (c TransitionTransactionCommand) TransactionID() kernel.UUID {
	return c.transactionID
}

func (c TransitionTransactionCommand) Target() transaction.Status {
	return c.target
}

func (c TransitionTransactionCommand) Reason() string {
	return c.reason
}

func (c TransitionTransactionCommand) ExpectedVersion() (int, bool) {
	if c.expectedVersion == nil {
		return 0, false
	}
	return *c.expectedVersion, true
}

func (c TransitionTransactionCommand) LogisticsDetails() logistics.Details {
	return c.details
}

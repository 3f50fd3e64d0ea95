package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrAppendAuditNoteCommandIsNotConstructed = errors.New(
	"AppendAuditNoteCommand must be created via NewAppendAuditNoteCommand constructor",
)

// AppendAuditNoteCommand adds an admin correction to the tracking history of a
// delivery, including a delivered or failed one. The status is never changed.
type AppendAuditNoteCommand struct { //nolint:recvcheck //using for validation
	principal   identity.Principal
	logisticsID kernel.UUID
	description string

	guard guard.ConstructorGuard
}

func NewAppendAuditNoteCommand(
	principal identity.Principal,
	logisticsID kernel.UUID,
	description string,
) (AppendAuditNoteCommand, error) {
	description = strings.TrimSpace(description)
	var descriptionErr error
	if description == "" {
		descriptionErr = errs.NewValueIsRequiredError("description")
	}

	if err := errors.Join(principal.Validate(), logisticsID.Validate(), descriptionErr); err != nil {
		return AppendAuditNoteCommand{}, err
	}

	return AppendAuditNoteCommand{
		principal:   principal,
		logisticsID: logisticsID,
		description: description,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c AppendAuditNoteCommand) Validate() error {
	return c.guard.Validate(ErrAppendAuditNoteCommandIsNotConstructed)
}

func (c AppendAuditNoteCommand) Principal() identity.Principal {
	return c.principal
}

func (c AppendAuditNoteCommand) LogisticsID() kernel.UUID {
	return c.logisticsID
}

func (c AppendAuditNoteCommand) Description() string {
	return c.description
}

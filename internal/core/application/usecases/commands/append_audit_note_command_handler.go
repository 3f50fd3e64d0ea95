package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/pkg/errs"
)

type AppendAuditNoteCommandHandler struct {
	uowFactory LogisticsUoWFactory
}

func NewAppendAuditNoteCommandHandler(uowFactory LogisticsUoWFactory) AppendAuditNoteCommandHandler {
	return AppendAuditNoteCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle appends the note as an AUDIT tracking event. Admins only.
func (h AppendAuditNoteCommandHandler) Handle(
	ctx context.Context,
	cmd AppendAuditNoteCommand,
) (logistics.TrackingEvent, error) {
	if err := cmd.Validate(); err != nil {
		return logistics.TrackingEvent{}, err
	}
	if !cmd.Principal().IsAdmin() {
		return logistics.TrackingEvent{}, errs.NewForbiddenError("append audit note", "only admins can audit deliveries")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return logistics.TrackingEvent{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.LogisticsRepository()

	record, err := repo.Get(ctx, cmd.LogisticsID())
	if err != nil {
		return logistics.TrackingEvent{}, err
	}

	readVersion := record.Version()
	event, err := record.AppendAuditNote(kernel.NewUUID(), cmd.Description(), time.Now().UTC())
	if err != nil {
		return logistics.TrackingEvent{}, err
	}

	if err = repo.Update(ctx, record, readVersion); err != nil {
		return logistics.TrackingEvent{}, err
	}
	if err = repo.AppendEvent(ctx, event); err != nil {
		return logistics.TrackingEvent{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return logistics.TrackingEvent{}, err
	}

	return event, nil
}

package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
)

// RecordTrackingEventCommandHandler applies a carrier status update and appends its
// tracking event. Two updates racing on the same delivery cannot both take the
// next sequence number: the loser gets errs.ErrConcurrencyConflict.
type RecordTrackingEventCommandHandler struct {
	uowFactory LogisticsUoWFactory
	hooks      LogisticsHooks
}

func NewRecordTrackingEventCommandHandler(
	uowFactory LogisticsUoWFactory,
	hooks LogisticsHooks,
) RecordTrackingEventCommandHandler {
	return RecordTrackingEventCommandHandler{
		uowFactory: uowFactory,
		hooks:      hooks,
	}
}

func (h RecordTrackingEventCommandHandler) Handle(
	ctx context.Context,
	cmd RecordTrackingEventCommand,
) (logistics.TrackingEvent, error) {
	if err := cmd.Validate(); err != nil {
		return logistics.TrackingEvent{}, err
	}
	if err := requireCarrierIntegration(cmd.Principal(), "record tracking event"); err != nil {
		return logistics.TrackingEvent{}, err
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

	tx, err := uow.TransactionRepository().Get(ctx, record.TransactionID())
	if err != nil {
		return logistics.TrackingEvent{}, err
	}

	readVersion := record.Version()
	now := time.Now().UTC()
	occurredAt := cmd.OccurredAt()
	if occurredAt.IsZero() {
		occurredAt = now
	}

	event, err := record.RecordStatus(
		kernel.NewUUID(),
		cmd.Status(),
		occurredAt,
		cmd.Location(),
		cmd.Description(),
		cmd.Point(),
		now,
	)
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

	h.hooks.LogisticsUpdated(context.WithoutCancel(ctx), tx, record, event)
	return event, nil
}

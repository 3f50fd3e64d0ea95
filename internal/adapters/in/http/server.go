// Package http exposes the marketplace over a JSON HTTP API served by echo.
//
// The contract lives in api/openapi.yaml. Requests are authenticated with HS256 bearer
// tokens, turned into an identity.Principal and passed to the command and query
// handlers of the application layer; authorization decisions stay in those handlers
// except for the carrier integration guard on the logistics endpoints.
package http

import (
	"context"
	"net/http"
	"time"

	"marketplace/internal/core/application/dispatcher"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/impact"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime/types"
)

// carrierWriteAttempts bounds the re-reads of a carrier update that lost a race to
// another write on the same delivery. Carrier commands carry no expected version.
const carrierWriteAttempts = 3

// Handler is the shape shared by every command and query handler.
type Handler[Q, R any] interface {
	Handle(ctx context.Context, q Q) (R, error)
}

// Inbox is the notification dispatcher as seen by the API.
type Inbox interface {
	MarkAsRead(ctx context.Context, id, userID kernel.UUID) (*notification.Notification, error)
	MarkAllAsRead(ctx context.Context, userID kernel.UUID) (int64, error)
	Delete(ctx context.Context, id, userID kernel.UUID) error
	Broadcast(ctx context.Context, userIDs []kernel.UUID, msg dispatcher.Message) (int, error)
}

// Handlers groups the use cases served by the API.
type Handlers struct {
	CreateTransaction     Handler[commands.CreateTransactionCommand, *transaction.Transaction]
	TransitionTransaction Handler[commands.TransitionTransactionCommand, *transaction.Transaction]
	ChangeTerms           Handler[commands.ChangeTransactionTermsCommand, *transaction.Transaction]
	AssignCarrier         Handler[commands.AssignCarrierCommand, *logistics.Logistics]
	RecordTrackingEvent   Handler[commands.RecordTrackingEventCommand, logistics.TrackingEvent]
	AppendAuditNote       Handler[commands.AppendAuditNoteCommand, logistics.TrackingEvent]

	GetTransaction        Handler[queries.GetTransactionQuery, queries.TransactionView]
	ListTransactions      Handler[queries.ListTransactionsQuery, queries.TransactionPage]
	GetLogistics          Handler[queries.GetLogisticsQuery, queries.LogisticsView]
	ListOverdueDeliveries Handler[queries.ListOverdueDeliveriesQuery, queries.OverdueDeliveries]
	ListNotifications     Handler[queries.ListNotificationsQuery, queries.NotificationPage]
	CountUnread           Handler[queries.CountUnreadNotificationsQuery, int64]
	GetCompanyImpact      Handler[queries.GetCompanyImpactQuery, impact.CompanyImpact]
}

// Server implements ServerInterface.
type Server struct {
	h     Handlers
	inbox Inbox
	now   func() time.Time
}

func NewServer(h Handlers, inbox Inbox, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	return &Server{h: h, inbox: inbox, now: now}
}

var _ ServerInterface = (*Server)(nil)

// CreateTransaction handles POST /api/v1/transactions.
func (s *Server) CreateTransaction(ctx echo.Context) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return unauthorized(ctx, "Missing principal")
	}
	var body NewTransaction
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	productID, err := fromWire(body.ProductId)
	if err != nil {
		return writeError(ctx, err)
	}
	kind, err := transaction.ParseKind(body.Kind)
	if err != nil {
		return writeError(ctx, err)
	}
	cmd, err := commands.NewCreateTransactionCommand(principal, kernel.NewUUID(), productID, body.Quantity, kind)
	if err != nil {
		return writeError(ctx, err)
	}

	tx, err := s.h.CreateTransaction.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, transactionFromDomain(tx))
}

// ListTransactions handles GET /api/v1/transactions.
func (s *Server) ListTransactions(ctx echo.Context, params ListTransactionsParams) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return unauthorized(ctx, "Missing principal")
	}

	role, err := queries.ParseParticipantRole(deref(params.Role))
	if err != nil {
		return writeError(ctx, err)
	}
	var statuses []transaction.Status
	for _, name := range deref(params.Status) {
		status, err := transaction.ParseStatus(name)
		if err != nil {
			return writeError(ctx, err)
		}
		statuses = append(statuses, status)
	}
	query, err := queries.NewListTransactionsQuery(principal, role, statuses, deref(params.Page), deref(params.PageSize))
	if err != nil {
		return writeError(ctx, err)
	}

	page, err := s.h.ListTransactions.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	response := TransactionPage{
		Items:    make([]Transaction, len(page.Items)),
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    page.Total,
	}
	for i, view := range page.Items {
		response.Items[i] = transactionFromView(view)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetTransaction handles GET /api/v1/transactions/{id}.
func (s *Server) GetTransaction(ctx echo.Context, id types.UUID) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return unauthorized(ctx, "Missing principal")
	}
	txID, err := fromWire(id)
	if err != nil {
		return writeError(ctx, err)
	}
	query, err := queries.NewGetTransactionQuery(principal, txID)
	if err != nil {
		return writeError(ctx, err)
	}

	view, err := s.h.GetTransaction.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, transactionFromView(view))
}

// ChangeTransactionTerms handles PATCH /api/v1/transactions/{id}/terms.
func (s *Server) ChangeTransactionTerms(ctx echo.Context, id types.UUID) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return unauthorized(ctx, "Missing principal")
	}
	var body TermsChange
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	txID, err := fromWire(id)
	if err != nil {
		return writeError(ctx, err)
	}

	var price *kernel.Money
	if body.Price != nil {
		m, err := kernel.MoneyFromString(*body.Price)
		if err != nil {
			return writeError(ctx, err)
		}
		price = &m
	}
	cmd, err := commands.NewChangeTransactionTermsCommand(principal, txID, price, body.Quantity)
	if err != nil {
		return writeError(ctx, err)
	}
	if body.ExpectedVersion != nil {
		cmd = cmd.WithExpectedVersion(*body.ExpectedVersion)
	}

	tx, err := s.h.ChangeTerms.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, transactionFromDomain(tx))
}

// TransitionTransaction handles POST /api/v1/transactions/{id}/transition.
func (s *Server) TransitionTransaction(ctx echo.Context, id types.UUID) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return unauthorized(ctx, "Missing principal")
	}
	var body TransitionRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	txID, err := fromWire(id)
	if err != nil {
		return writeError(ctx, err)
	}
	target, err := transaction.ParseStatus(body.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewTransitionTransactionCommand(principal, txID, target, body.Reason)
	if err != nil {
		return writeError(ctx, err)
	}
	if body.ExpectedVersion != nil {
		cmd = cmd.WithExpectedVersion(*body.ExpectedVersion)
	}
	if body.Logistics != nil {
		cmd = cmd.WithLogisticsDetails(logistics.Details{
			PickupAddress:   body.Logistics.PickupAddress,
			DeliveryAddress: body.Logistics.DeliveryAddress,
			ContactName:     body.Logistics.ContactName,
			ContactPhone:    body.Logistics.ContactPhone,
		})
	}

	tx, err := s.h.TransitionTransaction.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, transactionFromDomain(tx))
}

// GetTransactionLogistics handles GET /api/v1/transactions/{id}/logistics.
func (s *Server) GetTransactionLogistics(ctx echo.Context, id types.UUID) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return unauthorized(ctx, "Missing principal")
	}
	txID, err := fromWire(id)
	if err != nil {
		return writeError(ctx, err)
	}
	query, err := queries.NewGetLogisticsQuery(principal, txID, s.now())
	if err != nil {
		return writeError(ctx, err)
	}

	view, err := s.h.GetLogistics.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, logisticsFromView(view))
}

// ListOverdueDeliveries handles GET /api/v1/logistics/overdue.
func (s *Server) ListOverdueDeliveries(ctx echo.Context, params ListOverdueDeliveriesParams) error {
	query := queries.NewListOverdueDeliveriesQuery(s.now(), deref(params.Limit))

	overdue, err := s.h.ListOverdueDeliveries.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	response := OverdueDeliveries{
		Items: make([]OverdueDelivery, len(overdue.Items)),
		Total: overdue.Total,
	}
	for i, item := range overdue.Items {
		response.Items[i] = OverdueDelivery{
			LogisticsId:         toWire(item.LogisticsID),
			TransactionId:       toWire(item.TransactionID),
			Carrier:             item.Carrier,
			TrackingNumber:      item.TrackingNumber,
			Status:              item.Status,
			EstimatedDeliveryAt: item.EstimatedDeliveryAt,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// AssignCarrier handles PUT /api/v1/logistics/{id}/carrier.
func (s *Server) AssignCarrier(ctx echo.Context, id types.UUID) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return unauthorized(ctx, "Missing principal")
	}
	var body CarrierAssignment
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	logisticsID, err := fromWire(id)
	if err != nil {
		return writeError(ctx, err)
	}
	cost := kernel.ZeroMoney()
	if body.Cost != nil {
		if cost, err = kernel.MoneyFromString(*body.Cost); err != nil {
			return writeError(ctx, err)
		}
	}

	cmd, err := commands.NewAssignCarrierCommand(
		principal, logisticsID, body.Carrier, body.TrackingNumber, cost, body.EstimatedDeliveryAt,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	var record *logistics.Logistics
	err = commands.RetryOnConflict(ctx.Request().Context(), carrierWriteAttempts, func(c context.Context) error {
		var handleErr error
		record, handleErr = s.h.AssignCarrier.Handle(c, cmd)
		return handleErr
	})
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, logisticsFromDomain(record, s.now()))
}

// RecordTrackingEvent handles POST /api/v1/logistics/{id}/events.
func (s *Server) RecordTrackingEvent(ctx echo.Context, id types.UUID) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return unauthorized(ctx, "Missing principal")
	}
	var body NewTrackingEvent
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	logisticsID, err := fromWire(id)
	if err != nil {
		return writeError(ctx, err)
	}
	status, err := logistics.ParseStatus(body.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	var point *kernel.GeoPoint
	switch {
	case body.Lat != nil && body.Lng != nil:
		p, err := kernel.NewGeoPoint(*body.Lat, *body.Lng)
		if err != nil {
			return writeError(ctx, err)
		}
		point = &p
	case body.Lat != nil || body.Lng != nil:
		return writeError(ctx, errs.NewValueIsRequiredError("lat and lng"))
	}
	occurredAt := s.now().UTC()
	if body.OccurredAt != nil {
		occurredAt = body.OccurredAt.UTC()
	}

	cmd, err := commands.NewRecordTrackingEventCommand(
		principal, logisticsID, status, occurredAt, body.Location, body.Description, point,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	var event logistics.TrackingEvent
	err = commands.RetryOnConflict(ctx.Request().Context(), carrierWriteAttempts, func(c context.Context) error {
		var handleErr error
		event, handleErr = s.h.RecordTrackingEvent.Handle(c, cmd)
		return handleErr
	})
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, trackingEventFromDomain(event))
}

// AppendAuditNote handles POST /api/v1/logistics/{id}/audit.
func (s *Server) AppendAuditNote(ctx echo.Context, id types.UUID) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return unauthorized(ctx, "Missing principal")
	}
	var body AuditNote
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	logisticsID, err := fromWire(id)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewAppendAuditNoteCommand(principal, logisticsID, body.Description)
	if err != nil {
		return writeError(ctx, err)
	}
	event, err := s.h.AppendAuditNote.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, trackingEventFromDomain(event))
}

// ListNotifications handles GET /api/v1/notifications.
func (s *Server) ListNotifications(ctx echo.Context, params ListNotificationsParams) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return unauthorized(ctx, "Missing principal")
	}
	query, err := queries.NewListNotificationsQuery(
		principal.UserID(), deref(params.UnreadOnly), deref(params.Page), deref(params.PageSize),
	)
	if err != nil {
		return writeError(ctx, err)
	}

	page, err := s.h.ListNotifications.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	response := NotificationPage{
		Items:    make([]Notification, len(page.Items)),
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    page.Total,
	}
	for i, n := range page.Items {
		response.Items[i] = notificationFromDomain(n)
	}
	return ctx.JSON(http.StatusOK, response)
}

// CountUnreadNotifications handles GET /api/v1/notifications/unread-count.
func (s *Server) CountUnreadNotifications(ctx echo.Context) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return unauthorized(ctx, "Missing principal")
	}
	query, err := queries.NewCountUnreadNotificationsQuery(principal.UserID())
	if err != nil {
		return writeError(ctx, err)
	}

	count, err := s.h.CountUnread.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, UnreadCount{Count: count})
}

// MarkAllNotificationsRead handles POST /api/v1/notifications/read-all. It answers
// 200 whatever the prior state was.
func (s *Server) MarkAllNotificationsRead(ctx echo.Context) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return unauthorized(ctx, "Missing principal")
	}
	updated, err := s.inbox.MarkAllAsRead(ctx.Request().Context(), principal.UserID())
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, MarkAllReadResult{Updated: updated})
}

// BroadcastNotification handles POST /api/v1/notifications/broadcast.
func (s *Server) BroadcastNotification(ctx echo.Context) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return unauthorized(ctx, "Missing principal")
	}
	if !principal.IsAdmin() {
		return writeError(ctx, errs.NewForbiddenError("broadcast", "only admins can broadcast"))
	}
	var body BroadcastRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	userIDs := make([]kernel.UUID, 0, len(body.UserIds))
	for _, id := range body.UserIds {
		userID, err := fromWire(id)
		if err != nil {
			return writeError(ctx, err)
		}
		userIDs = append(userIDs, userID)
	}
	typ := notification.TypeAnnouncement
	if body.Type != "" {
		typ = notification.Type(body.Type)
	}
	priority := notification.Medium
	if body.Priority != "" {
		p, err := notification.ParsePriority(body.Priority)
		if err != nil {
			return writeError(ctx, err)
		}
		priority = p
	}

	queued, err := s.inbox.Broadcast(ctx.Request().Context(), userIDs, dispatcher.Message{
		Type:     typ,
		Title:    body.Title,
		Message:  body.Message,
		Data:     body.Data,
		Priority: priority,
	})
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusAccepted, BroadcastAccepted{Recipients: queued})
}

// MarkNotificationRead handles POST /api/v1/notifications/{id}/read. Marking an
// already read notification returns it unchanged.
func (s *Server) MarkNotificationRead(ctx echo.Context, id types.UUID) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return unauthorized(ctx, "Missing principal")
	}
	notificationID, err := fromWire(id)
	if err != nil {
		return writeError(ctx, err)
	}

	n, err := s.inbox.MarkAsRead(ctx.Request().Context(), notificationID, principal.UserID())
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, notificationFromDomain(n))
}

// DeleteNotification handles DELETE /api/v1/notifications/{id}.
func (s *Server) DeleteNotification(ctx echo.Context, id types.UUID) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return unauthorized(ctx, "Missing principal")
	}
	notificationID, err := fromWire(id)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.inbox.Delete(ctx.Request().Context(), notificationID, principal.UserID()); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetCompanyImpact handles GET /api/v1/companies/{id}/impact.
func (s *Server) GetCompanyImpact(ctx echo.Context, id types.UUID) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return unauthorized(ctx, "Missing principal")
	}
	companyID, err := fromWire(id)
	if err != nil {
		return writeError(ctx, err)
	}
	query, err := queries.NewGetCompanyImpactQuery(principal, companyID)
	if err != nil {
		return writeError(ctx, err)
	}

	totals, err := s.h.GetCompanyImpact.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	response := CompanyImpact{
		CompanyId:             toWire(companyID),
		CO2Saved:              totals.CO2Saved,
		WasteReduced:          totals.WasteReduced,
		CompletedTransactions: totals.CompletedTransactions,
	}
	if !totals.UpdatedAt.IsZero() {
		updatedAt := totals.UpdatedAt
		response.UpdatedAt = &updatedAt
	}
	return ctx.JSON(http.StatusOK, response)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

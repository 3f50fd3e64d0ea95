package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	"github.com/oapi-codegen/runtime/types"
)

// ServerInterface lists one method per operation of api/openapi.yaml.
type ServerInterface interface {
	// (POST /api/v1/transactions)
	CreateTransaction(ctx echo.Context) error
	// (GET /api/v1/transactions)
	ListTransactions(ctx echo.Context, params ListTransactionsParams) error
	// (GET /api/v1/transactions/{id})
	GetTransaction(ctx echo.Context, id types.UUID) error
	// (PATCH /api/v1/transactions/{id}/terms)
	ChangeTransactionTerms(ctx echo.Context, id types.UUID) error
	// (POST /api/v1/transactions/{id}/transition)
	TransitionTransaction(ctx echo.Context, id types.UUID) error
	// (GET /api/v1/transactions/{id}/logistics)
	GetTransactionLogistics(ctx echo.Context, id types.UUID) error
	// (GET /api/v1/logistics/overdue)
	ListOverdueDeliveries(ctx echo.Context, params ListOverdueDeliveriesParams) error
	// (PUT /api/v1/logistics/{id}/carrier)
	AssignCarrier(ctx echo.Context, id types.UUID) error
	// (POST /api/v1/logistics/{id}/events)
	RecordTrackingEvent(ctx echo.Context, id types.UUID) error
	// (POST /api/v1/logistics/{id}/audit)
	AppendAuditNote(ctx echo.Context, id types.UUID) error
	// (GET /api/v1/notifications)
	ListNotifications(ctx echo.Context, params ListNotificationsParams) error
	// (GET /api/v1/notifications/unread-count)
	CountUnreadNotifications(ctx echo.Context) error
	// (POST /api/v1/notifications/read-all)
	MarkAllNotificationsRead(ctx echo.Context) error
	// (POST /api/v1/notifications/broadcast)
	BroadcastNotification(ctx echo.Context) error
	// (POST /api/v1/notifications/{id}/read)
	MarkNotificationRead(ctx echo.Context, id types.UUID) error
	// (DELETE /api/v1/notifications/{id})
	DeleteNotification(ctx echo.Context, id types.UUID) error
	// (GET /api/v1/companies/{id}/impact)
	GetCompanyImpact(ctx echo.Context, id types.UUID) error
}

// ServerInterfaceWrapper binds path and query parameters before calling the server.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts every operation under baseURL. carrierOnly guards the
// carrier integration endpoints.
func RegisterHandlers(router EchoRouter, si ServerInterface, baseURL string, carrierOnly echo.MiddlewareFunc) {
	w := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/transactions", w.CreateTransaction)
	router.GET(baseURL+"/transactions", w.ListTransactions)
	router.GET(baseURL+"/transactions/:id", w.GetTransaction)
	router.PATCH(baseURL+"/transactions/:id/terms", w.ChangeTransactionTerms)
	router.POST(baseURL+"/transactions/:id/transition", w.TransitionTransaction)
	router.GET(baseURL+"/transactions/:id/logistics", w.GetTransactionLogistics)

	router.GET(baseURL+"/logistics/overdue", w.ListOverdueDeliveries, carrierOnly)
	router.PUT(baseURL+"/logistics/:id/carrier", w.AssignCarrier, carrierOnly)
	router.POST(baseURL+"/logistics/:id/events", w.RecordTrackingEvent, carrierOnly)
	router.POST(baseURL+"/logistics/:id/audit", w.AppendAuditNote)

	router.GET(baseURL+"/notifications", w.ListNotifications)
	router.GET(baseURL+"/notifications/unread-count", w.CountUnreadNotifications)
	router.POST(baseURL+"/notifications/read-all", w.MarkAllNotificationsRead)
	router.POST(baseURL+"/notifications/broadcast", w.BroadcastNotification)
	router.POST(baseURL+"/notifications/:id/read", w.MarkNotificationRead)
	router.DELETE(baseURL+"/notifications/:id", w.DeleteNotification)

	router.GET(baseURL+"/companies/:id/impact", w.GetCompanyImpact)
}

func bindID(ctx echo.Context) (types.UUID, error) {
	var id types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}
	return id, nil
}

func bindQuery(ctx echo.Context, explode bool, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", explode, false, name, ctx.QueryParams(), dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}

func (w *ServerInterfaceWrapper) CreateTransaction(ctx echo.Context) error {
	return w.Handler.CreateTransaction(ctx)
}

func (w *ServerInterfaceWrapper) ListTransactions(ctx echo.Context) error {
	var params ListTransactionsParams
	if err := bindQuery(ctx, true, "role", &params.Role); err != nil {
		return err
	}
	if err := bindQuery(ctx, true, "status", &params.Status); err != nil {
		return err
	}
	if err := bindQuery(ctx, true, "page", &params.Page); err != nil {
		return err
	}
	if err := bindQuery(ctx, true, "pageSize", &params.PageSize); err != nil {
		return err
	}
	return w.Handler.ListTransactions(ctx, params)
}

func (w *ServerInterfaceWrapper) GetTransaction(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetTransaction(ctx, id)
}

func (w *ServerInterfaceWrapper) ChangeTransactionTerms(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ChangeTransactionTerms(ctx, id)
}

func (w *ServerInterfaceWrapper) TransitionTransaction(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.TransitionTransaction(ctx, id)
}

func (w *ServerInterfaceWrapper) GetTransactionLogistics(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetTransactionLogistics(ctx, id)
}

func (w *ServerInterfaceWrapper) ListOverdueDeliveries(ctx echo.Context) error {
	var params ListOverdueDeliveriesParams
	if err := bindQuery(ctx, true, "limit", &params.Limit); err != nil {
		return err
	}
	return w.Handler.ListOverdueDeliveries(ctx, params)
}

func (w *ServerInterfaceWrapper) AssignCarrier(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.AssignCarrier(ctx, id)
}

func (w *ServerInterfaceWrapper) RecordTrackingEvent(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.RecordTrackingEvent(ctx, id)
}

func (w *ServerInterfaceWrapper) AppendAuditNote(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.AppendAuditNote(ctx, id)
}

func (w *ServerInterfaceWrapper) ListNotifications(ctx echo.Context) error {
	var params ListNotificationsParams
	if err := bindQuery(ctx, true, "unreadOnly", &params.UnreadOnly); err != nil {
		return err
	}
	if err := bindQuery(ctx, true, "page", &params.Page); err != nil {
		return err
	}
	if err := bindQuery(ctx, true, "pageSize", &params.PageSize); err != nil {
		return err
	}
	return w.Handler.ListNotifications(ctx, params)
}

func (w *ServerInterfaceWrapper) CountUnreadNotifications(ctx echo.Context) error {
	return w.Handler.CountUnreadNotifications(ctx)
}

func (w *ServerInterfaceWrapper) MarkAllNotificationsRead(ctx echo.Context) error {
	return w.Handler.MarkAllNotificationsRead(ctx)
}

func (w *ServerInterfaceWrapper) BroadcastNotification(ctx echo.Context) error {
	return w.Handler.BroadcastNotification(ctx)
}

func (w *ServerInterfaceWrapper) MarkNotificationRead(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.MarkNotificationRead(ctx, id)
}

func (w *ServerInterfaceWrapper) DeleteNotification(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.DeleteNotification(ctx, id)
}

func (w *ServerInterfaceWrapper) GetCompanyImpact(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetCompanyImpact(ctx, id)
}

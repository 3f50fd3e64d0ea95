package http

import (
	"time"

	"github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Wire types of api/openapi.yaml.

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type NewTransaction struct {
	ProductId types.UUID `json:"productId"`
	Quantity  int        `json:"quantity"`
	Kind      string     `json:"kind"`
}

type Transaction struct {
	Id              types.UUID      `json:"id"`
	Kind            string          `json:"kind"`
	Status          string          `json:"status"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	Total           decimal.Decimal `json:"total"`
	ProductId       types.UUID      `json:"productId"`
	BuyerId         types.UUID      `json:"buyerId"`
	SellerId        types.UUID      `json:"sellerId"`
	SellerCompanyId *types.UUID     `json:"sellerCompanyId"`
	Category        string          `json:"category,omitempty"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	AcceptedAt      *time.Time      `json:"acceptedAt"`
	CompletedAt     *time.Time      `json:"completedAt"`
	CancelledAt     *time.Time      `json:"cancelledAt"`
	CancelReason    string          `json:"cancelReason,omitempty"`
	LogisticsId     *types.UUID     `json:"logisticsId"`
}

type TransactionPage struct {
	Items    []Transaction `json:"items"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	Total    int64         `json:"total"`
}

type ListTransactionsParams struct {
	Role     *string   `form:"role,omitempty" json:"role,omitempty"`
	Status   *[]string `form:"status,omitempty" json:"status,omitempty"`
	Page     *int      `form:"page,omitempty" json:"page,omitempty"`
	PageSize *int      `form:"pageSize,omitempty" json:"pageSize,omitempty"`
}

type LogisticsDetails struct {
	PickupAddress   string `json:"pickupAddress,omitempty"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
	ContactName     string `json:"contactName,omitempty"`
	ContactPhone    string `json:"contactPhone,omitempty"`
}

type TransitionRequest struct {
	Status          string            `json:"status"`
	Reason          string            `json:"reason,omitempty"`
	ExpectedVersion *int              `json:"expectedVersion,omitempty"`
	Logistics       *LogisticsDetails `json:"logistics,omitempty"`
}

type TermsChange struct {
	Price           *string `json:"price,omitempty"`
	Quantity        *int    `json:"quantity,omitempty"`
	ExpectedVersion *int    `json:"expectedVersion,omitempty"`
}

type CarrierAssignment struct {
	Carrier             string     `json:"carrier"`
	TrackingNumber      string     `json:"trackingNumber"`
	Cost                *string    `json:"cost,omitempty"`
	EstimatedDeliveryAt *time.Time `json:"estimatedDeliveryAt,omitempty"`
}

type NewTrackingEvent struct {
	Status      string     `json:"status"`
	OccurredAt  *time.Time `json:"occurredAt,omitempty"`
	Location    string     `json:"location,omitempty"`
	Description string     `json:"description,omitempty"`
	Lat         *float64   `json:"lat,omitempty"`
	Lng         *float64   `json:"lng,omitempty"`
}

type AuditNote struct {
	Description string `json:"description"`
}

type TrackingEvent struct {
	Id          types.UUID `json:"id"`
	Sequence    int        `json:"sequence"`
	OccurredAt  time.Time  `json:"occurredAt"`
	Status      string     `json:"status"`
	Location    string     `json:"location,omitempty"`
	Description string     `json:"description,omitempty"`
	Lat         *float64   `json:"lat"`
	Lng         *float64   `json:"lng"`
}

type Logistics struct {
	Id                  types.UUID      `json:"id"`
	TransactionId       types.UUID      `json:"transactionId"`
	Carrier             string          `json:"carrier,omitempty"`
	TrackingNumber      *string         `json:"trackingNumber"`
	Status              string          `json:"status"`
	PickupAddress       string          `json:"pickupAddress,omitempty"`
	DeliveryAddress     string          `json:"deliveryAddress,omitempty"`
	ContactName         string          `json:"contactName,omitempty"`
	ContactPhone        string          `json:"contactPhone,omitempty"`
	Cost                decimal.Decimal `json:"cost"`
	PickupAt            *time.Time      `json:"pickupAt"`
	EstimatedDeliveryAt *time.Time      `json:"estimatedDeliveryAt"`
	ActualDeliveryAt    *time.Time      `json:"actualDeliveryAt"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
	Overdue             bool            `json:"overdue"`
	Events              []TrackingEvent `json:"events"`
}

type ListOverdueDeliveriesParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

type OverdueDelivery struct {
	LogisticsId         types.UUID `json:"logisticsId"`
	TransactionId       types.UUID `json:"transactionId"`
	Carrier             string     `json:"carrier,omitempty"`
	TrackingNumber      *string    `json:"trackingNumber"`
	Status              string     `json:"status"`
	EstimatedDeliveryAt time.Time  `json:"estimatedDeliveryAt"`
}

type OverdueDeliveries struct {
	Items []OverdueDelivery `json:"items"`
	Total int64             `json:"total"`
}

type Notification struct {
	Id        types.UUID     `json:"id"`
	UserId    types.UUID     `json:"userId"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Priority  string         `json:"priority"`
	Read      bool           `json:"read"`
	CreatedAt time.Time      `json:"createdAt"`
	ReadAt    *time.Time     `json:"readAt"`
}

type NotificationPage struct {
	Items    []Notification `json:"items"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
	Total    int64          `json:"total"`
}

type ListNotificationsParams struct {
	UnreadOnly *bool `form:"unreadOnly,omitempty" json:"unreadOnly,omitempty"`
	Page       *int  `form:"page,omitempty" json:"page,omitempty"`
	PageSize   *int  `form:"pageSize,omitempty" json:"pageSize,omitempty"`
}

type UnreadCount struct {
	Count int64 `json:"count"`
}

type MarkAllReadResult struct {
	Updated int64 `json:"updated"`
}

type BroadcastRequest struct {
	UserIds  []types.UUID   `json:"userIds"`
	Type     string         `json:"type,omitempty"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data,omitempty"`
	Priority string         `json:"priority,omitempty"`
}

type BroadcastAccepted struct {
	Recipients int `json:"recipients"`
}

type CompanyImpact struct {
	CompanyId             types.UUID      `json:"companyId"`
	CO2Saved              decimal.Decimal `json:"co2Saved"`
	WasteReduced          decimal.Decimal `json:"wasteReduced"`
	CompletedTransactions int             `json:"completedTransactions"`
	UpdatedAt             *time.Time      `json:"updatedAt"`
}

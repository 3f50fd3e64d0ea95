package http

import (
	"time"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/transaction"

	"github.com/oapi-codegen/runtime/types"
)

func toWire(id kernel.UUID) types.UUID {
	return id.Bytes()
}

func toWirePtr(id *kernel.UUID) *types.UUID {
	if id == nil {
		return nil
	}
	w := toWire(*id)
	return &w
}

func fromWire(id types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

func transactionFromDomain(tx *transaction.Transaction) Transaction {
	return Transaction{
		Id:              toWire(tx.ID()),
		Kind:            tx.Kind().String(),
		Status:          tx.Status().String(),
		Price:           tx.Price().Decimal(),
		Quantity:        tx.Quantity(),
		Total:           tx.Total().Decimal(),
		ProductId:       toWire(tx.ProductID()),
		BuyerId:         toWire(tx.BuyerID()),
		SellerId:        toWire(tx.SellerID()),
		SellerCompanyId: toWirePtr(tx.SellerCompanyID()),
		Category:        tx.Category(),
		Version:         tx.Version(),
		CreatedAt:       tx.CreatedAt(),
		UpdatedAt:       tx.UpdatedAt(),
		AcceptedAt:      tx.AcceptedAt(),
		CompletedAt:     tx.CompletedAt(),
		CancelledAt:     tx.CancelledAt(),
		CancelReason:    tx.CancelReason(),
	}
}

func transactionFromView(v queries.TransactionView) Transaction {
	return Transaction{
		Id:              toWire(v.ID),
		Kind:            v.Kind,
		Status:          v.Status,
		Price:           v.Price,
		Quantity:        v.Quantity,
		Total:           v.Total,
		ProductId:       toWire(v.ProductID),
		BuyerId:         toWire(v.BuyerID),
		SellerId:        toWire(v.SellerID),
		SellerCompanyId: toWirePtr(v.SellerCompanyID),
		Category:        v.Category,
		Version:         v.Version,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
		AcceptedAt:      v.AcceptedAt,
		CompletedAt:     v.CompletedAt,
		CancelledAt:     v.CancelledAt,
		CancelReason:    v.CancelReason,
		LogisticsId:     toWirePtr(v.LogisticsID),
	}
}

func logisticsFromView(v queries.LogisticsView) Logistics {
	events := make([]TrackingEvent, len(v.Events))
	for i, e := range v.Events {
		events[i] = TrackingEvent{
			Id:          toWire(e.ID),
			Sequence:    e.Sequence,
			OccurredAt:  e.OccurredAt,
			Status:      e.Status,
			Location:    e.Location,
			Description: e.Description,
			Lat:         e.Lat,
			Lng:         e.Lng,
		}
	}
	return Logistics{
		Id:                  toWire(v.ID),
		TransactionId:       toWire(v.TransactionID),
		Carrier:             v.Carrier,
		TrackingNumber:      v.TrackingNumber,
		Status:              v.Status,
		PickupAddress:       v.PickupAddress,
		DeliveryAddress:     v.DeliveryAddress,
		ContactName:         v.ContactName,
		ContactPhone:        v.ContactPhone,
		Cost:                v.Cost,
		PickupAt:            v.PickupAt,
		EstimatedDeliveryAt: v.EstimatedDeliveryAt,
		ActualDeliveryAt:    v.ActualDeliveryAt,
		CreatedAt:           v.CreatedAt,
		UpdatedAt:           v.UpdatedAt,
		Overdue:             v.Overdue,
		Events:              events,
	}
}

func logisticsFromDomain(l *logistics.Logistics, now time.Time) Logistics {
	details := l.Details()
	domainEvents := l.Events()
	events := make([]TrackingEvent, len(domainEvents))
	for i, e := range domainEvents {
		events[i] = trackingEventFromDomain(e)
	}
	return Logistics{
		Id:                  toWire(l.ID()),
		TransactionId:       toWire(l.TransactionID()),
		Carrier:             l.Carrier(),
		TrackingNumber:      l.TrackingNumber(),
		Status:              l.Status().String(),
		PickupAddress:       details.PickupAddress,
		DeliveryAddress:     details.DeliveryAddress,
		ContactName:         details.ContactName,
		ContactPhone:        details.ContactPhone,
		Cost:                l.Cost().Decimal(),
		PickupAt:            l.PickupAt(),
		EstimatedDeliveryAt: l.EstimatedDeliveryAt(),
		ActualDeliveryAt:    l.ActualDeliveryAt(),
		CreatedAt:           l.CreatedAt(),
		UpdatedAt:           l.UpdatedAt(),
		Overdue:             l.IsOverdue(now),
		Events:              events,
	}
}

func trackingEventFromDomain(e logistics.TrackingEvent) TrackingEvent {
	event := TrackingEvent{
		Id:          toWire(e.ID()),
		Sequence:    e.Sequence(),
		OccurredAt:  e.OccurredAt(),
		Status:      e.Label(),
		Location:    e.Location(),
		Description: e.Description(),
	}
	if p := e.Point(); p != nil {
		lat, lng := p.Lat(), p.Lng()
		event.Lat, event.Lng = &lat, &lng
	}
	return event
}

func notificationFromDomain(n *notification.Notification) Notification {
	return Notification{
		Id:        toWire(n.ID()),
		UserId:    toWire(n.UserID()),
		Type:      string(n.Type()),
		Title:     n.Title(),
		Message:   n.Message(),
		Data:      n.Data(),
		Priority:  n.Priority().String(),
		Read:      n.IsRead(),
		CreatedAt: n.CreatedAt(),
		ReadAt:    n.ReadAt(),
	}
}

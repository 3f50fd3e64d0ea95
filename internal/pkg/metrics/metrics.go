// Package metrics holds the Prometheus collectors of the marketplace service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service collectors. Build it once per process with New and
// pass it to the components that record into it.
type Metrics struct {
	TransitionsTotal     *prometheus.CounterVec
	NotificationsTotal   *prometheus.CounterVec
	ChannelFailuresTotal *prometheus.CounterVec
	DeliveryQueueDropped prometheus.Counter
	OverdueDeliveries    prometheus.Gauge
	PurgedNotifications  prometheus.Counter
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketplace_transaction_transitions_total",
				Help: "Committed transaction status changes",
			},
			[]string{"from", "to"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketplace_notifications_total",
				Help: "Persisted notifications",
			},
			[]string{"type", "priority"},
		),
		ChannelFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketplace_channel_delivery_failures_total",
				Help: "Best-effort delivery failures per channel",
			},
			[]string{"channel"},
		),
		DeliveryQueueDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "marketplace_delivery_queue_dropped_total",
				Help: "Escalations dropped because the delivery queue was full or stopped",
			},
		),
		OverdueDeliveries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "marketplace_overdue_deliveries",
				Help: "Deliveries past their estimate without an actual delivery time",
			},
		),
		PurgedNotifications: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "marketplace_notifications_purged_total",
				Help: "Notifications removed by the retention sweep",
			},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}

	reg.MustRegister(
		m.TransitionsTotal,
		m.NotificationsTotal,
		m.ChannelFailuresTotal,
		m.DeliveryQueueDropped,
		m.OverdueDeliveries,
		m.PurgedNotifications,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

// NewUnregistered builds collectors on a private registry, for tests and tools.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}

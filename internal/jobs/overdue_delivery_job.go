package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// DefaultOverdueSchedule scans every five minutes.
const DefaultOverdueSchedule = "0 */5 * * * *"

// overdueSample bounds how many overdue deliveries one scan logs individually.
const overdueSample = 20

const overdueRunTimeout = time.Minute

type OverdueDeliveriesHandler interface {
	Handle(ctx context.Context, query queries.ListOverdueDeliveriesQuery) (queries.OverdueDeliveries, error)
}

// OverdueDeliveryJob publishes the number of overdue deliveries as a gauge. It only
// reads: an overdue delivery stays in whatever status its carrier last reported.
type OverdueDeliveryJob struct {
	handler  OverdueDeliveriesHandler
	schedule string
	metrics  *metrics.Metrics
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewOverdueDeliveryJob(
	handler OverdueDeliveriesHandler,
	schedule string,
	m *metrics.Metrics,
	logger *slog.Logger,
) *OverdueDeliveryJob {
	if schedule == "" {
		schedule = DefaultOverdueSchedule
	}
	return &OverdueDeliveryJob{
		handler:  handler,
		schedule: schedule,
		metrics:  m,
		now:      time.Now,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "overdue_delivery_job"),
	}
}

func (j *OverdueDeliveryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), overdueRunTimeout)
		defer cancel()

		if _, err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Overdue delivery scan failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Overdue delivery job started", "schedule", j.schedule)
	return nil
}

// Run performs one scan and returns the total number of overdue deliveries.
func (j *OverdueDeliveryJob) Run(ctx context.Context) (int64, error) {
	result, err := j.handler.Handle(ctx, queries.NewListOverdueDeliveriesQuery(j.now().UTC(), overdueSample))
	if err != nil {
		return 0, err
	}

	j.metrics.OverdueDeliveries.Set(float64(result.Total))
	if result.Total == 0 {
		return 0, nil
	}

	j.logger.WarnContext(ctx, "Overdue deliveries found", "total", result.Total)
	for _, d := range result.Items {
		j.logger.WarnContext(ctx, "Delivery overdue",
			"logistics_id", d.LogisticsID.String(),
			"transaction_id", d.TransactionID.String(),
			"carrier", d.Carrier,
			"status", d.Status,
			"estimated_delivery_at", d.EstimatedDeliveryAt,
		)
	}
	return result.Total, nil
}

func (j *OverdueDeliveryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Overdue delivery job stopped")
}

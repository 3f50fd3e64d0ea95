package jobs

import (
	"fmt"
	"log/slog"

	"marketplace/internal/pkg/metrics"
)

type Config struct {
	Retention       RetentionConfig
	OverdueSchedule string
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	retentionJob *NotificationRetentionJob
	overdueJob   *OverdueDeliveryJob
}

func NewJobManager(
	cfg Config,
	purger Purger,
	overdueHandler OverdueDeliveriesHandler,
	m *metrics.Metrics,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		retentionJob: NewNotificationRetentionJob(purger, cfg.Retention, logger),
		overdueJob:   NewOverdueDeliveryJob(overdueHandler, cfg.OverdueSchedule, m, logger),
	}
}

// StartAll starts all scheduled jobs. If one fails to start, the ones already
// running are stopped.
func (jm *JobManager) StartAll() error {
	if err := jm.retentionJob.Start(); err != nil {
		return fmt.Errorf("failed to start notification retention job: %w", err)
	}

	if err := jm.overdueJob.Start(); err != nil {
		jm.retentionJob.Stop()
		return fmt.Errorf("failed to start overdue delivery job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.overdueJob.Stop()
	jm.retentionJob.Stop()
}

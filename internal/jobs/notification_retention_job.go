package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultRetentionSchedule runs the sweep daily at 03:00.
const DefaultRetentionSchedule = "0 0 3 * * *"

const retentionRunTimeout = 5 * time.Minute

// Purger removes notifications older than a cutoff.
type Purger interface {
	Purge(ctx context.Context, olderThan time.Duration, onlyRead bool) (int64, error)
}

type RetentionConfig struct {
	Schedule      string
	ReadOlderThan time.Duration
	AllOlderThan  time.Duration
}

// Sweep reports what one retention run removed.
type Sweep struct {
	Read int64
	All  int64
}

// NotificationRetentionJob purges read notifications past ReadOlderThan and every
// notification past AllOlderThan. A zero duration disables that half of the sweep.
type NotificationRetentionJob struct {
	purger Purger
	cfg    RetentionConfig
	cron   *cron.Cron
	logger *slog.Logger
}

func NewNotificationRetentionJob(purger Purger, cfg RetentionConfig, logger *slog.Logger) *NotificationRetentionJob {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultRetentionSchedule
	}
	return &NotificationRetentionJob{
		purger: purger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger.With("component", "notification_retention_job"),
	}
}

// Start schedules the sweep.
func (j *NotificationRetentionJob) Start() error {
	_, err := j.cron.AddFunc(j.cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), retentionRunTimeout)
		defer cancel()

		if _, err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Notification retention sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", j.cfg.Schedule, err)
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification retention job started", "schedule", j.cfg.Schedule)
	return nil
}

// Run performs one sweep. Both halves run even if the first one fails.
func (j *NotificationRetentionJob) Run(ctx context.Context) (Sweep, error) {
	var (
		sweep           Sweep
		errRead, errAll error
	)
	if j.cfg.ReadOlderThan > 0 {
		sweep.Read, errRead = j.purger.Purge(ctx, j.cfg.ReadOlderThan, true)
	}
	if j.cfg.AllOlderThan > 0 {
		sweep.All, errAll = j.purger.Purge(ctx, j.cfg.AllOlderThan, false)
	}

	if err := errors.Join(errRead, errAll); err != nil {
		return sweep, err
	}
	if sweep.Read+sweep.All > 0 {
		j.logger.InfoContext(ctx, "Notifications purged", "read", sweep.Read, "all", sweep.All)
	}
	return sweep, nil
}

func (j *NotificationRetentionJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Notification retention job stopped")
}

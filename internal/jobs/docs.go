// Package jobs provides the scheduled background tasks of the marketplace.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field specs with seconds)
// and overlapping runs of the same job are skipped.
//
// # Available Jobs
//
//  1. NotificationRetentionJob - purges read notifications past one age and every
//     notification past a longer one. Default: daily at 03:00.
//  2. OverdueDeliveryJob - counts deliveries past their estimate, sets the
//     overdue_deliveries gauge and logs a sample. It never changes a delivery.
//     Default: every five minutes.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(cfg, dispatcher, overdueHandler, m, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
package jobs

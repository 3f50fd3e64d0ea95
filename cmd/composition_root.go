package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	httpadapter "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/impactconfig"
	"marketplace/internal/adapters/out/kafka"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/catalogrepo"
	"marketplace/internal/adapters/out/postgres/notificationrepo"
	"marketplace/internal/adapters/out/postgres/userrepo"
	"marketplace/internal/adapters/out/redis"
	"marketplace/internal/adapters/out/smtp"
	"marketplace/internal/core/application/dispatcher"
	"marketplace/internal/core/application/integration"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"
	"marketplace/internal/pkg/metrics"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	metrics    *metrics.Metrics
	logger     *slog.Logger

	calculator services.ImpactCalculator
	dispatcher *dispatcher.Dispatcher
	hooks      *integration.Hooks
	closers    []func() error
}

// NewCompositionRoot builds the outbound adapters. Redis, Kafka and SMTP are
// optional: an empty address leaves that channel out.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, m *metrics.Metrics, logger *slog.Logger) (*CompositionRoot, error) {
	factors, err := impactconfig.Load(cfg.ImpactFactorsPath)
	if err != nil {
		return nil, fmt.Errorf("impact factors: %w", err)
	}

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		metrics:    m,
		logger:     logger,
		calculator: services.NewImpactCalculator(factors),
	}

	var push ports.RealtimePublisher
	if cfg.RedisAddr != "" {
		client := redis.NewClient(cfg.RedisAddr)
		push = redis.NewPublisher(client)
		c.closers = append(c.closers, client.Close)
	} else {
		logger.Warn("REDIS_ADDR is empty, realtime push disabled")
	}

	var email ports.EmailSender
	if cfg.SMTPHost != "" {
		sender, err := smtp.NewSender(smtp.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			Timeout:  cfg.SMTPTimeout,
		})
		if err != nil {
			return nil, errors.Join(err, c.Close())
		}
		email = sender
	} else {
		logger.Warn("SMTP_HOST is empty, email escalation disabled")
	}

	var events ports.TransactionEventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(kafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaTransactionTopic, logger))
		events = publisher
		c.closers = append(c.closers, publisher.Close)
	} else {
		logger.Warn("KAFKA_BROKERS is empty, transaction events are not published")
	}

	c.dispatcher = dispatcher.New(
		dispatcher.Config{
			Workers:           cfg.DeliveryWorkers,
			QueueSize:         cfg.DeliveryQueueSize,
			BroadcastInterval: cfg.BroadcastSendInterval,
		},
		notificationrepo.NewGormNotificationRepository(gormDB),
		push,
		email,
		userrepo.NewGormDirectory(gormDB),
		m,
		logger,
	)
	c.hooks = integration.New(c.dispatcher, events, m, logger)
	return c, nil
}

func (c *CompositionRoot) Dispatcher() *dispatcher.Dispatcher {
	return c.dispatcher
}

func (c *CompositionRoot) CreateCreateTransactionCommandHandler() commands.CreateTransactionCommandHandler {
	return commands.NewCreateTransactionCommandHandler(c.transactionUoWFactory(), catalogrepo.NewGormCatalog(c.gormDB), c.hooks)
}

func (c *CompositionRoot) CreateTransitionTransactionCommandHandler() commands.TransitionTransactionCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionTransactionCommandHandler(f, c.calculator, c.hooks)
}

func (c *CompositionRoot) CreateChangeTransactionTermsCommandHandler() commands.ChangeTransactionTermsCommandHandler {
	return commands.NewChangeTransactionTermsCommandHandler(c.transactionUoWFactory(), catalogrepo.NewGormCatalog(c.gormDB), c.hooks)
}

func (c *CompositionRoot) CreateAssignCarrierCommandHandler() commands.AssignCarrierCommandHandler {
	return commands.NewAssignCarrierCommandHandler(c.logisticsUoWFactory())
}

func (c *CompositionRoot) CreateRecordTrackingEventCommandHandler() commands.RecordTrackingEventCommandHandler {
	return commands.NewRecordTrackingEventCommandHandler(c.logisticsUoWFactory(), c.hooks)
}

func (c *CompositionRoot) CreateAppendAuditNoteCommandHandler() commands.AppendAuditNoteCommandHandler {
	return commands.NewAppendAuditNoteCommandHandler(c.logisticsUoWFactory())
}

func (c *CompositionRoot) CreateListOverdueDeliveriesQueryHandler() queries.ListOverdueDeliveriesQueryHandler {
	return queries.NewListOverdueDeliveriesQueryHandler(c.gormDB)
}

// HTTPHandlers collects every use case the HTTP server exposes.
func (c *CompositionRoot) HTTPHandlers() httpadapter.Handlers {
	return httpadapter.Handlers{
		CreateTransaction:     c.CreateCreateTransactionCommandHandler(),
		TransitionTransaction: c.CreateTransitionTransactionCommandHandler(),
		ChangeTerms:           c.CreateChangeTransactionTermsCommandHandler(),
		AssignCarrier:         c.CreateAssignCarrierCommandHandler(),
		RecordTrackingEvent:   c.CreateRecordTrackingEventCommandHandler(),
		AppendAuditNote:       c.CreateAppendAuditNoteCommandHandler(),

		GetTransaction:        queries.NewGetTransactionQueryHandler(c.gormDB),
		ListTransactions:      queries.NewListTransactionsQueryHandler(c.gormDB),
		GetLogistics:          queries.NewGetLogisticsQueryHandler(c.gormDB),
		ListOverdueDeliveries: c.CreateListOverdueDeliveriesQueryHandler(),
		ListNotifications:     queries.NewListNotificationsQueryHandler(c.gormDB),
		CountUnread:           queries.NewCountUnreadNotificationsQueryHandler(c.gormDB),
		GetCompanyImpact:      queries.NewGetCompanyImpactQueryHandler(c.gormDB),
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(jobs.Config{
		Retention: jobs.RetentionConfig{
			Schedule:      c.cfg.RetentionSchedule,
			ReadOlderThan: c.cfg.NotificationRetentionRead,
			AllOlderThan:  c.cfg.NotificationRetentionAll,
		},
		OverdueSchedule: c.cfg.OverdueScanSchedule,
	}, c.dispatcher, c.CreateListOverdueDeliveriesQueryHandler(), c.metrics, c.logger)
}

// Close releases the outbound connections opened by NewCompositionRoot.
func (c *CompositionRoot) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}

func (c *CompositionRoot) transactionUoWFactory() commands.TransactionUoWFactory {
	return FuncTransactionUoWFactory(func() commands.TransactionUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) logisticsUoWFactory() commands.LogisticsUoWFactory {
	return FuncLogisticsUoWFactory(func() commands.LogisticsUoW {
		return c.uowFactory.Create()
	})
}

type FuncTransactionUoWFactory func() commands.TransactionUoW

func (f FuncTransactionUoWFactory) Create() commands.TransactionUoW {
	return f()
}

type FuncLogisticsUoWFactory func() commands.LogisticsUoW

func (f FuncLogisticsUoWFactory) Create() commands.LogisticsUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

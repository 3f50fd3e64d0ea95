package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/metrics"

	"golang.org/x/time/rate"
)

var (
	ErrQueueFull = errors.New("delivery queue full")
	ErrStopped   = errors.New("dispatcher stopped")
)

const (
	channelRealtime = "realtime"
	channelEmail    = "email"
)

// Message is what callers want a user to be told.
type Message struct {
	UserID   kernel.UUID
	Type     notification.Type
	Title    string
	Message  string
	Data     map[string]any
	Priority notification.Priority
}

type broadcast struct {
	userIDs []kernel.UUID
	msg     Message
}

// Dispatcher is safe for concurrent use.
type Dispatcher struct {
	repo      ports.NotificationRepository
	push      ports.RealtimePublisher
	email     ports.EmailSender
	directory ports.UserDirectory
	metrics   *metrics.Metrics
	logger    *slog.Logger
	cfg       Config
	limiter   *rate.Limiter

	mu        sync.Mutex
	accepting bool
	sendWG    sync.WaitGroup
	queue     chan *notification.Notification
	bulk      chan broadcast
	runCtx    context.Context
	runCancel context.CancelFunc
	workerWG  sync.WaitGroup
}

func New(
	cfg Config,
	repo ports.NotificationRepository,
	push ports.RealtimePublisher,
	email ports.EmailSender,
	directory ports.UserDirectory,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Dispatcher {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return &Dispatcher{
		repo:      repo,
		push:      push,
		email:     email,
		directory: directory,
		metrics:   m,
		logger:    logger.With("component", "notification_dispatcher"),
		cfg:       cfg,
		limiter:   rate.NewLimiter(rate.Every(cfg.BroadcastInterval), 1),
	}
}

// Start launches the delivery workers and the broadcast worker. Calling it twice is a no-op.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.queue != nil {
		d.mu.Unlock()
		return
	}
	d.queue = make(chan *notification.Notification, d.cfg.QueueSize)
	d.bulk = make(chan broadcast, d.cfg.BroadcastQueue)
	d.accepting = true
	d.runCtx, d.runCancel = context.WithCancel(context.WithoutCancel(ctx))
	queue, bulk, runCtx := d.queue, d.bulk, d.runCtx
	d.mu.Unlock()

	for i := range d.cfg.Workers {
		d.spawn("delivery", i, func() {
			for {
				select {
				case <-runCtx.Done():
					return
				case n, ok := <-queue:
					if !ok {
						return
					}
					d.deliver(runCtx, n)
				}
			}
		})
	}
	d.spawn("broadcast", 0, func() {
		for {
			select {
			case <-runCtx.Done():
				return
			case b, ok := <-bulk:
				if !ok {
					return
				}
				d.runBroadcast(runCtx, b)
			}
		}
	})
	d.logger.InfoContext(ctx, "Notification dispatcher started", "workers", d.cfg.Workers)
}

func (d *Dispatcher) spawn(kind string, idx int, loop func()) {
	d.workerWG.Add(1)
	go func() {
		defer d.workerWG.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("panic in delivery worker",
					"worker", fmt.Sprintf("%s-%d", kind, idx), "panic", r, "stack", string(debug.Stack()))
			}
		}()
		loop()
	}()
}

// Stop refuses new work and drains the queues until ctx is done. Whatever is
// still queued at the deadline is abandoned and the workers are cancelled; the
// stored notifications stay. The dispatcher can be started again afterwards.
func (d *Dispatcher) Stop(ctx context.Context) {
	d.mu.Lock()
	if d.queue == nil {
		d.mu.Unlock()
		return
	}
	d.accepting = false
	queue, bulk, cancel := d.queue, d.bulk, d.runCancel
	d.mu.Unlock()
	defer d.release()

	enqueued := make(chan struct{})
	go func() {
		d.sendWG.Wait()
		close(enqueued)
	}()
	select {
	case <-ctx.Done():
		cancel()
		d.logger.WarnContext(ctx, "Notification dispatcher stopped before senders finished")
		return
	case <-enqueued:
	}

	close(queue)
	close(bulk)

	drained := make(chan struct{})
	go func() {
		d.workerWG.Wait()
		close(drained)
	}()
	select {
	case <-ctx.Done():
		d.logger.WarnContext(ctx, "Notification dispatcher stopped before queues drained")
	case <-drained:
		d.logger.InfoContext(ctx, "Notification dispatcher stopped")
	}
	cancel()
}

func (d *Dispatcher) release() {
	d.mu.Lock()
	d.queue, d.bulk = nil, nil
	d.runCtx, d.runCancel = nil, nil
	d.mu.Unlock()
}

// Dispatch stores a notification for msg.UserID and queues it for delivery. The
// returned notification is the stored one, whatever later happens on the channels.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) (*notification.Notification, error) {
	n, err := d.store(ctx, msg)
	if err != nil {
		return nil, err
	}

	if err = d.enqueue(n); err != nil {
		d.metrics.DeliveryQueueDropped.Inc()
		d.logger.WarnContext(ctx, "Notification delivery dropped",
			"notification_id", n.ID().String(),
			"user_id", n.UserID().String(),
			"error", err,
		)
	}
	return n, nil
}

func (d *Dispatcher) store(ctx context.Context, msg Message) (*notification.Notification, error) {
	n, err := notification.NewNotification(
		kernel.NewUUID(),
		msg.UserID,
		msg.Type,
		msg.Title,
		msg.Message,
		msg.Data,
		msg.Priority,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err = d.repo.Add(ctx, n); err != nil {
		return nil, err
	}
	d.metrics.NotificationsTotal.WithLabelValues(string(n.Type()), n.Priority().String()).Inc()
	return n, nil
}

// Broadcast queues msg for every user in userIDs; msg.UserID is ignored.
// It returns the number of distinct recipients queued.
func (d *Dispatcher) Broadcast(ctx context.Context, userIDs []kernel.UUID, msg Message) (int, error) {
	if len(userIDs) == 0 {
		return 0, errs.NewValueIsRequiredError("recipients")
	}
	if err := validateMessage(msg); err != nil {
		return 0, err
	}

	unique := make([]kernel.UUID, 0, len(userIDs))
	for _, id := range userIDs {
		if err := id.Validate(); err != nil {
			return 0, err
		}
		if !slices.ContainsFunc(unique, id.IsEqual) {
			unique = append(unique, id)
		}
	}

	d.mu.Lock()
	if !d.accepting || d.bulk == nil {
		d.mu.Unlock()
		return 0, ErrStopped
	}
	bulk := d.bulk
	d.sendWG.Add(1)
	d.mu.Unlock()
	defer d.sendWG.Done()

	select {
	case bulk <- broadcast{userIDs: unique, msg: msg}:
		d.logger.InfoContext(ctx, "Broadcast queued", "recipients", len(unique), "type", string(msg.Type))
		return len(unique), nil
	default:
		return 0, ErrQueueFull
	}
}

// MarkAsRead stamps readAt once. Calling it again returns the same readAt.
// A notification owned by someone else is reported as not found.
func (d *Dispatcher) MarkAsRead(ctx context.Context, id, userID kernel.UUID) (*notification.Notification, error) {
	n, err := d.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if n.IsRead() {
		return n, nil
	}
	if err = d.repo.MarkRead(ctx, id, time.Now().UTC()); err != nil {
		return nil, err
	}
	return d.repo.Get(ctx, id)
}

// MarkAllAsRead returns how many notifications changed state.
func (d *Dispatcher) MarkAllAsRead(ctx context.Context, userID kernel.UUID) (int64, error) {
	if err := userID.Validate(); err != nil {
		return 0, err
	}
	return d.repo.MarkAllRead(ctx, userID, time.Now().UTC())
}

func (d *Dispatcher) Delete(ctx context.Context, id, userID kernel.UUID) error {
	if _, err := d.owned(ctx, id, userID); err != nil {
		return err
	}
	return d.repo.Delete(ctx, id)
}

// Purge removes notifications older than olderThan, or only the read ones among them.
func (d *Dispatcher) Purge(ctx context.Context, olderThan time.Duration, onlyRead bool) (int64, error) {
	if olderThan <= 0 {
		return 0, errs.NewValueIsOutOfRangeError("retention", olderThan, time.Nanosecond, "unbounded")
	}
	purged, err := d.repo.Purge(ctx, time.Now().UTC().Add(-olderThan), onlyRead)
	if err != nil {
		return 0, err
	}
	d.metrics.PurgedNotifications.Add(float64(purged))
	return purged, nil
}

func (d *Dispatcher) owned(ctx context.Context, id, userID kernel.UUID) (*notification.Notification, error) {
	n, err := d.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.BelongsTo(userID) {
		return nil, errs.NewObjectNotFoundError("notification", id.String())
	}
	return n, nil
}

func (d *Dispatcher) enqueue(n *notification.Notification) error {
	d.mu.Lock()
	if !d.accepting || d.queue == nil {
		d.mu.Unlock()
		return ErrStopped
	}
	queue := d.queue
	d.sendWG.Add(1)
	d.mu.Unlock()
	defer d.sendWG.Done()

	select {
	case queue <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) pushBestEffort(ctx context.Context, n *notification.Notification) {
	if d.push == nil {
		return
	}
	pushCtx, cancel := context.WithTimeout(ctx, d.cfg.PushTimeout)
	defer cancel()
	if err := d.push.Publish(pushCtx, n); err != nil {
		d.channelFailed(ctx, channelRealtime, n, err)
	}
}

// deliver pushes n and, for HIGH priority, emails it. Failures are counted, never retried.
func (d *Dispatcher) deliver(ctx context.Context, n *notification.Notification) {
	d.pushBestEffort(ctx, n)
	if n.Priority() == notification.High {
		d.escalate(ctx, n)
	}
}

func (d *Dispatcher) escalate(ctx context.Context, n *notification.Notification) {
	if d.email == nil || d.directory == nil {
		return
	}
	if ctx.Err() != nil {
		d.channelFailed(ctx, channelEmail, n, ctx.Err())
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.EmailTimeout)
	defer cancel()

	to, err := d.directory.EmailOf(sendCtx, n.UserID())
	if err != nil {
		d.channelFailed(ctx, channelEmail, n, err)
		return
	}
	if err = d.email.Send(sendCtx, to, n.Title(), n.Message()); err != nil {
		d.channelFailed(ctx, channelEmail, n, err)
	}
}

func (d *Dispatcher) runBroadcast(ctx context.Context, b broadcast) {
	delivered := 0
	for _, userID := range b.userIDs {
		if err := d.limiter.Wait(ctx); err != nil {
			d.logger.WarnContext(ctx, "Broadcast interrupted",
				"delivered", delivered, "recipients", len(b.userIDs), "error", err)
			return
		}
		msg := b.msg
		msg.UserID = userID
		n, err := d.store(ctx, msg)
		if err != nil {
			d.logger.ErrorContext(ctx, "Broadcast notification not stored", "user_id", userID.String(), "error", err)
			continue
		}
		d.deliver(ctx, n)
		delivered++
	}
	d.logger.InfoContext(ctx, "Broadcast finished", "delivered", delivered, "recipients", len(b.userIDs))
}

func (d *Dispatcher) channelFailed(ctx context.Context, channel string, n *notification.Notification, err error) {
	d.metrics.ChannelFailuresTotal.WithLabelValues(channel).Inc()
	d.logger.WarnContext(ctx, "Channel delivery failed",
		"channel", channel,
		"notification_id", n.ID().String(),
		"user_id", n.UserID().String(),
		"error", err,
	)
}

func validateMessage(msg Message) error {
	var titleErr, messageErr error
	if strings.TrimSpace(msg.Title) == "" {
		titleErr = errs.NewValueIsRequiredError("title")
	}
	if strings.TrimSpace(msg.Message) == "" {
		messageErr = errs.NewValueIsRequiredError("message")
	}
	return errors.Join(msg.Type.Validate(), msg.Priority.Validate(), titleErr, messageErr)
}

// Package kafka publishes committed transaction status changes. Messages are keyed by
// transaction id so that every change of one transaction lands on the same partition
// in commit order.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/transaction"

	kafkago "github.com/segmentio/kafka-go"
)

const (
	EventTransactionStatusChanged = "TransactionStatusChanged"
	EventVersion                  = 1
	Producer                      = "marketplace-api"
)

// Envelope wraps every event written to the topic.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// StatusChangedPayload is the payload of EventTransactionStatusChanged. From is empty
// for a newly requested transaction.
type StatusChangedPayload struct {
	TransactionID string `json:"transaction_id"`
	Kind          string `json:"kind"`
	From          string `json:"from,omitempty"`
	To            string `json:"to"`
	Version       int    `json:"version"`
	BuyerID       string `json:"buyer_id"`
	SellerID      string `json:"seller_id"`
	ActorID       string `json:"actor_id"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewWriter returns an asynchronous writer that waits for all in-sync replicas.
// WriteMessages only queues the batch; failed batches are logged by the completion
// callback and Close flushes whatever is still buffered.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *kafkago.Writer {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "kafka_writer", "topic", topic)
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		Completion:   completionLogger(logger),
	}
}

func completionLogger(logger *slog.Logger) func([]kafkago.Message, error) {
	return func(messages []kafkago.Message, err error) {
		if err == nil {
			return
		}
		for _, m := range messages {
			logger.Warn("Event not delivered", "key", string(m.Key), "error", err)
		}
	}
}

// Publisher implements ports.TransactionEventPublisher.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(writer messageWriter) *Publisher {
	return &Publisher{writer: writer}
}

func (p *Publisher) PublishStatusChanged(ctx context.Context, event transaction.StatusChanged) error {
	envelope, err := newStatusChangedEnvelope(event)
	if err != nil {
		return err
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.TransactionID.String()),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(EventTransactionStatusChanged)},
		},
	}
	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s: %w", EventTransactionStatusChanged, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func newStatusChangedEnvelope(event transaction.StatusChanged) (Envelope, error) {
	payload := StatusChangedPayload{
		TransactionID: event.TransactionID.String(),
		Kind:          event.Kind.String(),
		To:            event.To.String(),
		Version:       event.Version,
		BuyerID:       event.BuyerID.String(),
		SellerID:      event.SellerID.String(),
		ActorID:       event.ActorID.String(),
	}
	if event.From != transaction.Unknown {
		payload.From = event.From.String()
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode payload: %w", err)
	}
	return Envelope{
		EventID:       event.EventID.String(),
		EventType:     EventTransactionStatusChanged,
		EventVersion:  EventVersion,
		OccurredAt:    event.OccurredAt.UTC(),
		Producer:      Producer,
		CorrelationID: event.TransactionID.String(),
		Payload:       raw,
	}, nil
}

package kafka_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"marketplace/internal/adapters/out/kafka"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/transaction"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafkago.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func statusChanged(from, to transaction.Status) transaction.StatusChanged {
	return transaction.StatusChanged{
		EventID:       kernel.NewUUID(),
		TransactionID: kernel.NewUUID(),
		Kind:          transaction.Donation,
		From:          from,
		To:            to,
		Version:       2,
		BuyerID:       kernel.NewUUID(),
		SellerID:      kernel.NewUUID(),
		ActorID:       kernel.NewUUID(),
		OccurredAt:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPublisher_PublishStatusChanged_KeysByTransaction(t *testing.T) {
	// Given
	writer := &recordingWriter{}
	event := statusChanged(transaction.Pending, transaction.Accepted)

	// When
	err := kafka.NewPublisher(writer).PublishStatusChanged(context.Background(), event)

	// Then
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, event.TransactionID.String(), string(msg.Key))

	var envelope kafka.Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	assert.Equal(t, event.EventID.String(), envelope.EventID)
	assert.Equal(t, kafka.EventTransactionStatusChanged, envelope.EventType)
	assert.Equal(t, kafka.EventVersion, envelope.EventVersion)
	assert.Equal(t, kafka.Producer, envelope.Producer)
	assert.True(t, event.OccurredAt.Equal(envelope.OccurredAt))

	var payload kafka.StatusChangedPayload
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, "DONATION", payload.Kind)
	assert.Equal(t, "PENDING", payload.From)
	assert.Equal(t, "ACCEPTED", payload.To)
	assert.Equal(t, 2, payload.Version)
	assert.Equal(t, event.ActorID.String(), payload.ActorID)
}

func TestPublisher_PublishStatusChanged_NewTransactionHasNoFrom(t *testing.T) {
	// Given
	writer := &recordingWriter{}

	// When
	err := kafka.NewPublisher(writer).PublishStatusChanged(context.Background(),
		statusChanged(transaction.Unknown, transaction.Pending))

	// Then
	require.NoError(t, err)
	var envelope kafka.Envelope
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &envelope))
	var payload map[string]any
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.NotContains(t, payload, "from")
	assert.Equal(t, "PENDING", payload["to"])
}

func TestPublisher_PublishStatusChanged_WrapsWriterError(t *testing.T) {
	// Given
	boom := errors.New("leader not available")
	writer := &recordingWriter{err: boom}

	// When
	err := kafka.NewPublisher(writer).PublishStatusChanged(context.Background(),
		statusChanged(transaction.Accepted, transaction.Completed))

	// Then
	assert.ErrorIs(t, err, boom)
}

func TestPublisher_Close(t *testing.T) {
	writer := &recordingWriter{}
	require.NoError(t, kafka.NewPublisher(writer).Close())
	assert.True(t, writer.closed)
}

func TestNewWriter_QueuesWithoutBlockingAndLogsFailedBatches(t *testing.T) {
	// Given
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	// When
	w := kafka.NewWriter([]string{"localhost:9092"}, "marketplace.transactions", logger)

	// Then
	assert.True(t, w.Async)
	assert.Equal(t, kafkago.RequireAll, w.RequiredAcks)
	require.NotNil(t, w.Completion)

	w.Completion([]kafkago.Message{{Key: []byte("tx-1")}}, nil)
	assert.Zero(t, logs.Len())

	w.Completion([]kafkago.Message{{Key: []byte("tx-1")}, {Key: []byte("tx-2")}}, errors.New("leader not available"))
	assert.Equal(t, 2, strings.Count(logs.String(), "Event not delivered"))
	assert.Contains(t, logs.String(), `"key":"tx-2"`)
	assert.Contains(t, logs.String(), `"topic":"marketplace.transactions"`)
	require.NoError(t, w.Close())
}

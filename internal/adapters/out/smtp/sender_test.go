package smtp_test

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	smtp_adapter "marketplace/internal/adapters/out/smtp"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type capture struct {
	messages []*mail.Msg
}

func newSender(t *testing.T, c *capture, err error) *smtp_adapter.Sender {
	t.Helper()
	sender, newErr := smtp_adapter.NewSender(smtp_adapter.Config{
		Host:     "mail.example",
		Port:     2525,
		Username: "bot",
		Password: "secret",
		From:     "noreply@marketplace.example",
	})
	require.NoError(t, newErr)
	return sender.WithMailer(func(_ context.Context, messages ...*mail.Msg) error {
		c.messages = append(c.messages, messages...)
		return err
	}).WithClock(func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) })
}

func TestSender_Send_ComposesPlainTextMessage(t *testing.T) {
	// Given
	c := &capture{}
	sender := newSender(t, c, nil)

	// When
	err := sender.Send(context.Background(), "buyer@greenco.example", "Delivery exception", "Parcel damaged\nat hub")

	// Then
	require.NoError(t, err)
	require.Len(t, c.messages, 1)
	var raw bytes.Buffer
	_, err = c.messages[0].WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "noreply@marketplace.example")
	assert.Contains(t, raw.String(), "buyer@greenco.example")
	assert.Contains(t, raw.String(), "Subject: Delivery exception")
	assert.Contains(t, raw.String(), "text/plain")
	assert.Contains(t, raw.String(), "Parcel damaged")
	assert.Contains(t, raw.String(), "at hub")
}

func TestSender_Send_WrapsTransportError(t *testing.T) {
	boom := errors.New("421 service not available")
	err := newSender(t, &capture{}, boom).Send(context.Background(), "a@b.example", "s", "b")
	assert.ErrorIs(t, err, boom)
}

func TestSender_Send_RejectsHeaderInjection(t *testing.T) {
	c := &capture{}
	err := newSender(t, c, nil).Send(context.Background(), "a@b.example", "hi\r\nBcc: x@y.example", "b")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Empty(t, c.messages)
}

func TestSender_Send_RejectsMalformedRecipient(t *testing.T) {
	err := newSender(t, &capture{}, nil).Send(context.Background(), "not an address", "s", "b")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestSender_Send_RequiresRecipient(t *testing.T) {
	err := newSender(t, &capture{}, nil).Send(context.Background(), " ", "s", "b")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestSender_Send_DisabledWithoutHost(t *testing.T) {
	sender, err := smtp_adapter.NewSender(smtp_adapter.Config{})
	require.NoError(t, err)

	err = sender.Send(context.Background(), "a@b.example", "s", "b")

	assert.ErrorIs(t, err, smtp_adapter.ErrDisabled)
}

func TestSender_Send_PassesCallerContextToTheRelay(t *testing.T) {
	// Given
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sender := newSender(t, &capture{}, nil).WithMailer(func(ctx context.Context, _ ...*mail.Msg) error {
		return ctx.Err()
	})

	// When
	err := sender.Send(ctx, "a@b.example", "s", "b")

	// Then
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSender_Send_UnreachableRelayFailsWithinTimeout(t *testing.T) {
	// Given a port nobody listens on
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	sender, err := smtp_adapter.NewSender(smtp_adapter.Config{
		Host:    "127.0.0.1",
		Port:    port,
		From:    "noreply@marketplace.example",
		Timeout: 500 * time.Millisecond,
	})
	require.NoError(t, err)

	// When
	began := time.Now()
	err = sender.Send(context.Background(), "a@b.example", "s", "b")

	// Then
	require.Error(t, err)
	assert.NotErrorIs(t, err, smtp_adapter.ErrDisabled)
	assert.Less(t, time.Since(began), 5*time.Second)
}

package smtp

import (
	"context"
	"time"

	"github.com/wneessen/go-mail"
)

// MailerFunc replaces the relay client in tests.
type MailerFunc func(ctx context.Context, messages ...*mail.Msg) error

func (f MailerFunc) DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error {
	return f(ctx, messages...)
}

func (s *Sender) WithMailer(m MailerFunc) *Sender {
	s.client = m
	return s
}

func (s *Sender) WithClock(now func() time.Time) *Sender {
	s.now = now
	return s
}

// Package smtp hands notification emails to an SMTP relay.
package smtp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/pkg/errs"

	"github.com/wneessen/go-mail"
)

const DefaultTimeout = 10 * time.Second

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// Timeout bounds the dial and every command exchanged with the relay.
	Timeout time.Duration
}

// mailer is the part of *mail.Client the sender needs.
type mailer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Sender implements ports.EmailSender. A Sender without a host is disabled and
// reports ErrDisabled for every message.
type Sender struct {
	cfg    Config
	client mailer
	now    func() time.Time
}

var ErrDisabled = errors.New("smtp transport is not configured")

func NewSender(cfg Config) (*Sender, error) {
	s := &Sender{cfg: cfg, now: time.Now}
	if cfg.Host == "" {
		return s, nil
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := []mail.Option{
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client for %s: %w", cfg.Host, err)
	}
	s.cfg, s.client = cfg, client
	return s, nil
}

// Send dials the relay and delivers one plain text message. ctx and the
// configured timeout both bound the exchange.
func (s *Sender) Send(ctx context.Context, to, subject, body string) error {
	if s.client == nil {
		return ErrDisabled
	}
	if strings.TrimSpace(to) == "" {
		return errs.NewValueIsRequiredError("to")
	}
	if strings.ContainsAny(to+subject, "\r\n") {
		return errs.NewValueIsInvalidError("header")
	}

	msg, err := s.compose(to, subject, body)
	if err != nil {
		return err
	}
	if err = s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func (s *Sender) compose(to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("from", err)
	}
	if err := msg.To(to); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("to", err)
	}
	msg.Subject(subject)
	msg.SetDateWithValue(s.now().UTC())
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

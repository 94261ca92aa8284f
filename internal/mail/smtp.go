package mail

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"net/textproto"

	"github.com/isometry/media-webhook-relay/internal/helpers"
	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

// SMTPProviderName identifies the SMTP sender.
const SMTPProviderName = "smtp"

// SMTPDialer is the subset of gomail.Dialer used by the sender.
type SMTPDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPConfig holds the relay connection settings.
type SMTPConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	TLSSkipVerify bool
}

// SMTP sends one message per recipient over a single SMTP session.
type SMTP struct {
	dialer SMTPDialer
	logger *slog.Logger
}

// NewSMTP returns an SMTP sender. A nil logger falls back to a no-op logger.
func NewSMTP(dialer SMTPDialer, logger *slog.Logger) *SMTP {
	if logger == nil {
		logger = helpers.NewNoopLogger()
	}
	return &SMTP{dialer: dialer, logger: logger}
}

// NewSMTPFromConfig builds a gomail dialer for the given relay.
func NewSMTPFromConfig(cfg SMTPConfig, logger *slog.Logger) (*SMTP, error) {
	if cfg.Host == "" {
		return nil, errors.New("missing SMTP host")
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	if cfg.TLSSkipVerify {
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, InsecureSkipVerify: true} //nolint:gosec // opt-in for private relays
	}
	return NewSMTP(d, logger), nil
}

// SendMultiple sends the message to each recipient individually.
func (s *SMTP) SendMultiple(_ context.Context, msg *Message) ([]Result, error) {
	if err := validate(msg); err != nil {
		return nil, err
	}

	messages := make([]*gomail.Message, 0, len(msg.To))
	for _, to := range msg.To {
		m := gomail.NewMessage()
		m.SetAddressHeader("From", msg.From, "")
		m.SetHeader("To", to)
		m.SetHeader("Subject", msg.Subject)
		m.SetBody("text/plain", msg.Text)
		messages = append(messages, m)
	}

	s.logger.Debug("sending mail via SMTP...", slog.Int("recipients", len(messages)))
	if err := s.dialer.DialAndSend(messages...); err != nil {
		var tpErr *textproto.Error
		if errors.As(err, &tpErr) {
			return nil, &ProviderError{
				Provider:   SMTPProviderName,
				StatusCode: http.StatusBadGateway,
				Messages:   []string{tpErr.Msg},
			}
		}
		return nil, errors.Wrap(err, "failed to send email via SMTP")
	}

	results := make([]Result, 0, len(msg.To))
	for _, to := range msg.To {
		results = append(results, Result{
			StatusCode: http.StatusAccepted,
			Body:       map[string]string{"recipient": to, "status": "queued"},
		})
	}
	return results, nil
}

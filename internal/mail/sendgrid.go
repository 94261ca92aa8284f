package mail

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/isometry/media-webhook-relay/internal/helpers"
	"github.com/pkg/errors"
)

// SendGridProviderName identifies the SendGrid sender.
const SendGridProviderName = "sendgrid"

const sendGridMailPath = "/v3/mail/send"

// SendGridOption configures a SendGrid sender.
type SendGridOption func(*SendGrid)

// WithSendGridBaseURL overrides the SendGrid API base URL.
func WithSendGridBaseURL(baseURL string) SendGridOption {
	return func(s *SendGrid) {
		s.baseURL = baseURL
	}
}

// WithSendGridLogger sets the logger instance for the sender.
func WithSendGridLogger(logger *slog.Logger) SendGridOption {
	return func(s *SendGrid) {
		s.logger = logger
	}
}

// SendGrid sends mail through the SendGrid v3 Mail Send API.
type SendGrid struct {
	apiKey  string
	baseURL string
	logger  *slog.Logger
	rest    *resty.Client
}

type sgAddress struct {
	Email string `json:"email"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgMail struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
	TrackingSettings struct {
		ClickTracking struct {
			Enable     bool `json:"enable"`
			EnableText bool `json:"enable_text"`
		} `json:"click_tracking"`
	} `json:"tracking_settings"`
}

type sgErrors struct {
	Errors []struct {
		Message string `json:"message"`
		Field   string `json:"field,omitempty"`
	} `json:"errors"`
}

// NewSendGrid returns a SendGrid sender authenticated with apiKey.
func NewSendGrid(apiKey string, opts ...SendGridOption) (*SendGrid, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing SendGrid API key")
	}
	_inst := &SendGrid{apiKey: apiKey, baseURL: "https://api.sendgrid.com"}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.rest = resty.New().
		SetBaseURL(strings.TrimSuffix(_inst.baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	return _inst, nil
}

// SendMultiple sends a single API request with one personalization per recipient.
func (s *SendGrid) SendMultiple(ctx context.Context, msg *Message) ([]Result, error) {
	if err := validate(msg); err != nil {
		return nil, err
	}

	payload := sgMail{
		From:    sgAddress{Email: msg.From},
		Subject: msg.Subject,
		Content: []sgContent{{Type: "text/plain", Value: msg.Text}},
	}
	for _, to := range msg.To {
		payload.Personalizations = append(payload.Personalizations, sgPersonalization{To: []sgAddress{{Email: to}}})
	}
	payload.TrackingSettings.ClickTracking.Enable = msg.ClickTracking
	payload.TrackingSettings.ClickTracking.EnableText = msg.ClickTracking

	s.logger.Debug("sending mail via SendGrid...", slog.Int("recipients", len(msg.To)))
	resp, err := s.rest.R().
		SetContext(ctx).
		SetBody(payload).
		Post(sendGridMailPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send email via SendGrid")
	}

	if resp.IsError() {
		return nil, newSendGridError(resp)
	}

	var body any = resp.String()
	if len(resp.Body()) > 0 && json.Valid(resp.Body()) {
		var decoded any
		if err = json.Unmarshal(resp.Body(), &decoded); err == nil {
			body = decoded
		}
	}
	return []Result{{
		StatusCode: resp.StatusCode(),
		Body:       body,
		Headers:    helpers.LowerHeaders(resp.Header()),
	}}, nil
}

func newSendGridError(resp *resty.Response) error {
	pErr := &ProviderError{Provider: SendGridProviderName, StatusCode: resp.StatusCode()}
	var sgErr sgErrors
	if err := json.Unmarshal(resp.Body(), &sgErr); err == nil {
		for _, e := range sgErr.Errors {
			pErr.Messages = append(pErr.Messages, e.Message)
		}
	}
	if len(pErr.Messages) == 0 {
		msg := strings.TrimSpace(resp.String())
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		pErr.Messages = []string{msg}
	}
	return pErr
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/isometry/media-webhook-relay/internal/mail"
	"github.com/isometry/media-webhook-relay/internal/models"
	"github.com/pkg/errors"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "Webhook Notification"

// NotifyHandler emails the inbound payload to the configured recipients.
type NotifyHandler struct {
	logger        *slog.Logger
	sender        mail.Sender
	recipients    []string
	from          string
	subject       string
	archiver      Archiver
	archiveBucket string
}

// NewNotifyHandler creates a notify handler. A sender, at least one recipient and a sender address are required.
func NewNotifyHandler(opts ...Option) (*NotifyHandler, error) {
	o := newOptions(opts...)
	switch {
	case o.sender == nil:
		return nil, errors.New("missing email sender")
	case len(o.recipients) == 0:
		return nil, errors.New("missing notification recipients")
	case o.from == "":
		return nil, errors.New("missing verified sender address")
	}
	if o.subject == "" {
		o.subject = DefaultSubject
	}
	return &NotifyHandler{
		logger:        o.logger,
		sender:        o.sender,
		recipients:    o.recipients,
		from:          o.from,
		subject:       o.subject,
		archiver:      o.archiver,
		archiveBucket: o.archiveBucket,
	}, nil
}

// Process sends the pretty-printed payload to every recipient with click tracking disabled.
func (h *NotifyHandler) Process(ctx context.Context, req models.Request) (models.Response, error) {
	if resp, err := checkMethod(h.logger, req); err != nil {
		return resp, err
	}

	text, err := prettyPayload(req.Body)
	if err != nil {
		var badRequest *BadRequestError
		errors.As(err, &badRequest)
		h.logger.Warn("invalid notification payload", slog.Any("error", err))
		return badRequestResponse(badRequest), err
	}

	deliveryID := uuid.NewString()
	logger := h.logger.With(slog.String("deliveryID", deliveryID))
	h.archive(ctx, logger, deliveryID, req.Body)

	msg := &mail.Message{
		From:          h.from,
		To:            h.recipients,
		Subject:       h.subject,
		Text:          text,
		ClickTracking: false,
	}
	logger.Debug("sending notification...", slog.Any("to", msg.To), slog.String("from", msg.From))

	results, err := h.sender.SendMultiple(ctx, msg)
	if err != nil {
		var providerErr *mail.ProviderError
		if errors.As(err, &providerErr) {
			statusCode, text := providerErr.StatusCode, providerErr.FirstMessage()
			if statusCode == 0 {
				statusCode = http.StatusBadGateway
			}
			if text == "" {
				text = providerErr.Error()
			}
			logger.Warn("provider rejected notification", slog.Int("status", statusCode), slog.Any("error", err))
			return textResponse(statusCode, text), err
		}
		logger.Error("failed to send notification", slog.Any("error", err))
		return textResponse(http.StatusBadGateway, err.Error()), err
	}
	if len(results) == 0 {
		err = errors.New("email provider returned no response")
		return textResponse(http.StatusBadGateway, err.Error()), err
	}

	logger.Info("notification sent", slog.Int("status", results[0].StatusCode), slog.Int("recipients", len(msg.To)))
	return jsonResponse(results[0].StatusCode, map[string]any{"message": results[0]}), nil
}

func (h *NotifyHandler) archive(ctx context.Context, logger *slog.Logger, id, body string) {
	if h.archiver == nil || h.archiveBucket == "" {
		return
	}
	key, err := h.archiver.PutS3Object(ctx, id, h.archiveBucket, []byte(body))
	if err != nil {
		logger.Warn("failed to archive notification payload", slog.Any("error", err))
		return
	}
	logger.Debug("archived notification payload", slog.String("key", key))
}

// prettyPayload re-indents a JSON object or array with two spaces, keeping the inbound key order.
func prettyPayload(body string) (string, error) {
	var payload any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return "", &BadRequestError{Reason: "invalid JSON body: " + err.Error()}
	}
	switch payload.(type) {
	case map[string]any, []any:
	default:
		return "", &BadRequestError{Reason: "payload must be a JSON object or array"}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace([]byte(body)), "", "  "); err != nil {
		return "", &BadRequestError{Reason: "invalid JSON body: " + err.Error()}
	}
	return buf.String(), nil
}

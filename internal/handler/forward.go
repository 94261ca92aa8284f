package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/isometry/media-webhook-relay/internal/fetch"
	"github.com/isometry/media-webhook-relay/internal/models"
	"github.com/pkg/errors"
)

// ForwardPayload is the body accepted by the forward handler.
type ForwardPayload struct {
	URL string `json:"url" validate:"required,http_url"`
}

// ForwardHandler fetches the URL named in the request body and relays the upstream response.
type ForwardHandler struct {
	logger  *slog.Logger
	fetcher fetch.Fetcher
}

// NewForwardHandler creates a forward handler. Without WithFetcher a default fetch.Client is used.
func NewForwardHandler(opts ...Option) *ForwardHandler {
	o := newOptions(opts...)
	if o.fetcher == nil {
		o.fetcher = fetch.NewClient(fetch.WithLogger(o.logger.With("component", "fetch")))
	}
	return &ForwardHandler{logger: o.logger, fetcher: o.fetcher}
}

// Process performs exactly one GET against the requested URL.
func (h *ForwardHandler) Process(ctx context.Context, req models.Request) (models.Response, error) {
	if resp, err := checkMethod(h.logger, req); err != nil {
		return resp, err
	}

	payload, err := decodePayload[ForwardPayload](req.Body)
	if err != nil {
		var badRequest *BadRequestError
		errors.As(err, &badRequest)
		h.logger.Warn("invalid forward payload", slog.Any("error", err))
		return badRequestResponse(badRequest), err
	}

	logger := h.logger.With(slog.String("url", payload.URL))
	logger.Debug("forwarding...")

	result, err := h.fetcher.Get(ctx, payload.URL)
	if err != nil {
		statusCode := http.StatusBadGateway
		var upstreamErr *fetch.UpstreamError
		if errors.As(err, &upstreamErr) && upstreamErr.StatusCode != 0 {
			statusCode = upstreamErr.StatusCode
		}
		logger.Warn("forward failed", slog.Int("status", statusCode), slog.Any("error", err))
		return textResponse(statusCode, fmt.Sprintf("Error fetching %s", payload.URL)), err
	}

	logger.Info("forwarded", slog.Int("upstreamStatus", result.Status))
	return jsonResponse(http.StatusOK, map[string]any{"message": result}), nil
}

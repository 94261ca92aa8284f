// Package handler implements the forward and notify webhook handlers.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"

	"github.com/isometry/media-webhook-relay/internal/helpers"
	"github.com/isometry/media-webhook-relay/internal/models"
)

const (
	contentTypeJSON = "application/json"
	contentTypeText = "text/plain; charset=utf-8"
)

// Handler processes one inbound request. The returned error describes a failed invocation for logging;
// the response is always populated and ready to be sent.
type Handler interface {
	Process(ctx context.Context, req models.Request) (models.Response, error)
}

func newOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = helpers.NewNoopLogger()
	}
	return o
}

// checkMethod rejects anything but a POST with a body.
func checkMethod(logger *slog.Logger, req models.Request) (models.Response, error) {
	if req.Body != "" && req.Method == http.MethodPost {
		return models.Response{}, nil
	}
	logger.Info("rejecting request", slog.String("method", req.Method), slog.Int("bodyLength", len(req.Body)))
	return corsJSONResponse(http.StatusBadRequest, map[string]string{"status": "invalid-method"}),
		&InvalidMethodError{Method: req.Method}
}

func badRequestResponse(err *BadRequestError) models.Response {
	body := map[string]any{
		"status": "bad-request",
		"error":  err.Reason,
	}
	if len(err.Fields) > 0 {
		body["fields"] = err.Fields
	}
	return corsJSONResponse(http.StatusBadRequest, body)
}

func corsJSONResponse(statusCode int, v any) models.Response {
	resp := jsonResponse(statusCode, v)
	maps.Copy(resp.Headers, helpers.CORSHeaders)
	return resp
}

func jsonResponse(statusCode int, v any) models.Response {
	body, err := json.Marshal(v)
	if err != nil {
		return textResponse(http.StatusInternalServerError, "failed to encode response: "+err.Error())
	}
	return models.Response{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": contentTypeJSON},
		Body:       string(body),
	}
}

func textResponse(statusCode int, body string) models.Response {
	return models.Response{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": contentTypeText},
		Body:       body,
	}
}

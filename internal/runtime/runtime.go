// Package runtime adapts a handler.Handler to the HTTP server and Lambda hosting surfaces.
package runtime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/isometry/media-webhook-relay/internal/handler"
	"github.com/isometry/media-webhook-relay/internal/helpers"
	"github.com/isometry/media-webhook-relay/internal/models"
)

// Lambda payload types.
const (
	PayloadAPIGatewayV1 = "api-gateway-v1"
	PayloadAPIGatewayV2 = "api-gateway-v2"
	PayloadLambdaURL    = "lambda-url"
)

type Option func(*Runtime)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithMaxBodyBytes caps the body read by ServeHTTP. Zero disables the limit.
func WithMaxBodyBytes(n int64) Option {
	return func(r *Runtime) {
		r.maxBodyBytes = n
	}
}

// WithPayloadType selects the Lambda event shape accepted by HandleEvent.
func WithPayloadType(payloadType string) Option {
	return func(r *Runtime) {
		r.payloadType = payloadType
	}
}

type Runtime struct {
	handler      handler.Handler
	logger       *slog.Logger
	payloadType  string
	maxBodyBytes int64
}

// NewRuntime creates a new runtime instance
func NewRuntime(h handler.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{handler: h, payloadType: PayloadAPIGatewayV2}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// HandleEvent is the Lambda handler for the runtime.
// Handler failures are logged and answered with their response; only an unsupported payload type is returned as an error.
func (r *Runtime) HandleEvent(ctx context.Context, event json.RawMessage) (any, error) {
	logger := r.logger.With(slog.String("requestID", lambdaRequestID(ctx)), slog.String("payloadType", r.payloadType))
	logger.Debug("received lambda event")

	switch r.payloadType {
	case PayloadAPIGatewayV1:
		var in events.APIGatewayProxyRequest
		req, err := decodeEvent(event, &in, func() (string, string, bool, map[string]string) {
			return in.HTTPMethod, in.Body, in.IsBase64Encoded, in.Headers
		})
		resp := r.process(ctx, logger, req, err)
		return events.APIGatewayProxyResponse{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
		}, nil
	case PayloadAPIGatewayV2:
		var in events.APIGatewayV2HTTPRequest
		req, err := decodeEvent(event, &in, func() (string, string, bool, map[string]string) {
			return in.RequestContext.HTTP.Method, in.Body, in.IsBase64Encoded, in.Headers
		})
		resp := r.process(ctx, logger, req, err)
		return events.APIGatewayV2HTTPResponse{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
		}, nil
	case PayloadLambdaURL:
		var in events.LambdaFunctionURLRequest
		req, err := decodeEvent(event, &in, func() (string, string, bool, map[string]string) {
			return in.RequestContext.HTTP.Method, in.Body, in.IsBase64Encoded, in.Headers
		})
		resp := r.process(ctx, logger, req, err)
		return events.LambdaFunctionURLResponse{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported lambda payload type: %s", r.payloadType)
	}
}

// ServeHTTP is the HTTP handler for the runtime
func (r *Runtime) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	logger := r.logger.With(slog.String("requestID", uuid.NewString()))
	logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.String("method", req.Method), slog.String("path", req.URL.Path))

	if r.maxBodyBytes > 0 {
		req.Body = http.MaxBytesReader(rw, req.Body, r.maxBodyBytes)
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			logger.Warn("request body too large", slog.Int64("limit", maxErr.Limit))
			helpers.RespondHTTP(models.Response{StatusCode: http.StatusRequestEntityTooLarge}, err, rw)
			return
		}
		logger.Error("failed to read request body", slog.Any("error", err))
		helpers.RespondHTTP(models.Response{StatusCode: http.StatusInternalServerError}, err, rw)
		return
	}

	logger.Debug("processing request...", slog.String("body", helpers.Truncate(string(body), 256)))
	resp, err := r.handler.Process(req.Context(), models.Request{
		Method:  req.Method,
		Body:    string(body),
		Headers: helpers.LowerHeaders(req.Header),
	})
	if err != nil {
		logger.Info("request failed", slog.Int("status", resp.StatusCode), slog.Any("error", err))
	}
	helpers.RespondHTTP(resp, err, rw)
}

func (r *Runtime) process(ctx context.Context, logger *slog.Logger, req models.Request, decodeErr error) models.Response {
	if decodeErr != nil {
		logger.Warn("failed to decode lambda event", slog.Any("error", decodeErr))
		return models.Response{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
			Body:       decodeErr.Error(),
		}
	}

	resp, err := r.handler.Process(ctx, req)
	if err != nil {
		logger.Info("request failed", slog.Int("status", resp.StatusCode), slog.Any("error", err))
	} else {
		logger.Debug("request handled", slog.Int("status", resp.StatusCode))
	}
	return resp
}

func decodeEvent[T any](event json.RawMessage, in *T, fields func() (method, body string, isBase64 bool, headers map[string]string)) (models.Request, error) {
	if err := json.Unmarshal(event, in); err != nil {
		return models.Request{}, fmt.Errorf("invalid lambda event: %w", err)
	}
	method, body, isBase64, headers := fields()
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return models.Request{}, fmt.Errorf("invalid base64 body: %w", err)
		}
		body = string(decoded)
	}

	lower := make(map[string]string, len(headers))
	for k, v := range headers {
		lower[strings.ToLower(k)] = v
	}
	return models.Request{Method: method, Body: body, Headers: lower}, nil
}

func lambdaRequestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}

// Package fetch provides the outbound HTTP capability used by the forward handler.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/isometry/media-webhook-relay/internal/helpers"
	"github.com/pkg/errors"
)

// Fetcher performs a single GET against an arbitrary URL.
type Fetcher interface {
	Get(ctx context.Context, url string) (*Result, error)
}

// Result is the upstream response relayed back to the caller.
type Result struct {
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	Headers    map[string]string `json:"headers"`
	// Data holds the decoded JSON document when the upstream body is JSON, the raw body otherwise.
	Data any `json:"data"`
}

// UpstreamError is returned when the GET fails. StatusCode is zero when no response was received.
type UpstreamError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("GET %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("GET %s: %d %s: %v", e.URL, e.StatusCode, http.StatusText(e.StatusCode), e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// Option is a function that configures a Client.
type Option func(*Client)

// WithLogger sets the logger instance for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout bounds every request. A zero duration disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// Client is a resty backed Fetcher.
type Client struct {
	logger  *slog.Logger
	timeout time.Duration
	rest    *resty.Client
}

// NewClient returns a Fetcher configured with the given options.
func NewClient(opts ...Option) *Client {
	_inst := &Client{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.rest = resty.New().
		SetHeader("Accept", "application/json, text/plain, */*").
		SetTimeout(_inst.timeout)
	return _inst
}

// Get issues exactly one GET to url. Responses with a status of 400 or above are returned alongside an UpstreamError.
func (c *Client) Get(ctx context.Context, url string) (*Result, error) {
	c.logger.Debug("fetching...", slog.String("url", url))
	resp, err := c.rest.R().SetContext(ctx).Get(url)
	if err != nil {
		c.logger.Warn("fetch failed", slog.String("url", url), slog.Any("error", err))
		return nil, &UpstreamError{URL: url, Cause: err}
	}

	result := newResult(resp)
	if resp.IsError() {
		c.logger.Warn("upstream returned an error status", slog.String("url", url), slog.Int("status", resp.StatusCode()))
		return result, &UpstreamError{
			URL:        url,
			StatusCode: resp.StatusCode(),
			Cause:      errors.Errorf("request failed with status code %d", resp.StatusCode()),
		}
	}
	c.logger.Debug("fetched", slog.String("url", url), slog.Int("status", resp.StatusCode()), slog.Duration("elapsed", resp.Time()))
	return result, nil
}

func newResult(resp *resty.Response) *Result {
	body := resp.Body()
	var data any = string(body)
	if len(body) > 0 && json.Valid(body) {
		var decoded any
		if err := json.Unmarshal(body, &decoded); err == nil {
			data = decoded
		}
	}
	return &Result{
		Status:     resp.StatusCode(),
		StatusText: http.StatusText(resp.StatusCode()),
		Headers:    helpers.LowerHeaders(resp.Header()),
		Data:       data,
	}
}

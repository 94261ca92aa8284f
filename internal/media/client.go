// Package media submits asynchronous eager transforms to the media provider.
package media

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
	"github.com/isometry/media-webhook-relay/internal/helpers"
	"github.com/pkg/errors"
)

// Uploader is the subset of the provider SDK upload API used by the Client.
type Uploader interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

// Config identifies the provider account. URL takes precedence over the individual fields.
type Config struct {
	// URL is a connection string of the form cloudinary://<key>:<secret>@<cloud>.
	URL       string
	CloudName string
	APIKey    string
	APISecret string
	// BaseURL overrides the upload API prefix.
	BaseURL string
}

// EagerUploadRequest submits a remote asset and requests derived encodings generated ahead of delivery.
type EagerUploadRequest struct {
	// File is a remote URL or data URI.
	File         string
	ResourceType string
	Type         string
	// Eager lists transformation strings such as "sp_full_hd/m3u8" or "q_auto/mp4".
	Eager                []string
	EagerAsync           bool
	EagerNotificationURL string
}

// APIError is returned when the provider rejects the upload.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "upload rejected: " + e.Message
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger instance for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client submits signed uploads.
type Client struct {
	uploader Uploader
	logger   *slog.Logger
}

// NewClient wraps an Uploader.
func NewClient(up Uploader, opts ...Option) *Client {
	_inst := &Client{uploader: up}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// NewClientFromConfig builds the provider SDK client for cfg.
func NewClientFromConfig(cfg Config, opts ...Option) (*Client, error) {
	var (
		conf *config.Configuration
		err  error
	)
	if cfg.URL != "" {
		conf, err = config.NewFromURL(strings.TrimSpace(cfg.URL))
	} else {
		conf, err = config.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	}
	if err != nil {
		return nil, errors.Wrap(err, "invalid media provider configuration")
	}
	switch {
	case conf.Cloud.CloudName == "":
		return nil, errors.New("missing media cloud name")
	case conf.Cloud.APIKey == "":
		return nil, errors.New("missing media API key")
	case conf.Cloud.APISecret == "":
		return nil, errors.New("missing media API secret")
	}
	if cfg.BaseURL != "" {
		conf.API.UploadPrefix = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	cld, err := cloudinary.NewFromConfiguration(*conf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create media provider client")
	}
	return NewClient(&cld.Upload, opts...), nil
}

// Params maps req onto the SDK upload parameters.
func Params(req EagerUploadRequest) uploader.UploadParams {
	params := uploader.UploadParams{
		ResourceType:         req.ResourceType,
		Type:                 api.DeliveryType(req.Type),
		Eager:                strings.Join(req.Eager, "|"),
		EagerNotificationURL: req.EagerNotificationURL,
	}
	if req.EagerAsync {
		params.EagerAsync = api.Bool(true)
	}
	return params
}

// Upload submits req. With EagerAsync set the response only acknowledges that the transforms were queued.
func (c *Client) Upload(ctx context.Context, req EagerUploadRequest) (*uploader.UploadResult, error) {
	if req.File == "" {
		return nil, errors.New("missing file to upload")
	}

	c.logger.Debug("submitting upload...", slog.String("file", req.File), slog.String("resourceType", req.ResourceType), slog.Any("eager", req.Eager))
	result, err := c.uploader.Upload(ctx, req.File, Params(req))
	if err != nil {
		return nil, errors.Wrap(err, "failed to submit upload")
	}
	if result == nil {
		return nil, errors.New("empty upload response")
	}
	if result.Error.Message != "" {
		return nil, &APIError{Message: result.Error.Message}
	}
	return result, nil
}

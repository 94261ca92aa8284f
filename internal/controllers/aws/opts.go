package aws

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// WithLogger sets a custom slog.Logger instance for the Controller struct to use for logging operations.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Controller) {
		a.logger = logger
	}
}

// WithContext sets a custom context to be used by the Controller instance for request operations.
func WithContext(ctx context.Context) Option {
	return func(a *Controller) {
		a.ctx = ctx
	}
}

// WithConfig skips loading the default AWS configuration.
func WithConfig(cfg aws.Config) Option {
	return func(a *Controller) {
		a.config = &cfg
	}
}

// WithS3Client replaces the S3 client built from the configuration.
func WithS3Client(client S3API) Option {
	return func(a *Controller) {
		a.s3Client = client
	}
}

// WithSSMClient replaces the SSM client built from the configuration.
func WithSSMClient(client SSMAPI) Option {
	return func(a *Controller) {
		a.ssmClient = client
	}
}

// WithClock overrides the time source used for object keys.
func WithClock(now func() time.Time) Option {
	return func(a *Controller) {
		a.now = now
	}
}

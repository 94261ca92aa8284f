// Package aws provides the Controller struct that wraps AWS services and provides S3 and SSM functionality with context and logging support.
package aws

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/smithy-go/logging"
	"github.com/isometry/media-webhook-relay/internal/helpers"
	"github.com/pkg/errors"
)

// S3API is the subset of the S3 client used by the Controller.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// SSMAPI is the subset of the SSM client used by the Controller.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Controller represents a wrapper for AWS services providing S3 and SSM functionality with context and logging support.
type Controller struct {
	ctx    context.Context
	logger *slog.Logger

	config    *aws.Config
	s3Client  S3API
	ssmClient SSMAPI
	now       func() time.Time
}

// Option defines a function type used to configure an instance of the Controller struct.
type Option func(*Controller)

// NewController initializes a Controller with customizable options and default configurations if unspecified.
// It returns an instance of the Controller struct and an error if any required initialization steps fail.
func NewController(opts ...Option) (*Controller, error) {
	_inst := &Controller{now: time.Now}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.logger = _inst.logger.With("controller", "aws")
	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if _inst.config == nil {
		_inst.logger.Debug("loading default AWS configuration...")
		cfg, err := config.LoadDefaultConfig(_inst.ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load AWS configuration")
		}
		cfg.Logger = newAWSLogger(_inst.logger)
		_inst.config = &cfg
	}

	if _inst.s3Client == nil {
		_inst.s3Client = s3.NewFromConfig(*_inst.config)
	}
	if _inst.ssmClient == nil {
		_inst.ssmClient = ssm.NewFromConfig(*_inst.config)
	}
	return _inst, nil
}

// Config returns the AWS configuration shared by the controller's clients.
func (a *Controller) Config() aws.Config {
	return *a.config
}

// GetSecret retrieves a secret value from SSM Parameter Store using the provided key.
// If encrypted is true, the secret is returned decrypted.
func (a *Controller) GetSecret(key string, encrypted bool) (string, error) {
	if key == "" {
		return "", errors.New("missing SSM parameter key")
	}
	a.logger.With("key", key).Debug("fetching SSM secret...")
	ssmResponse, err := a.ssmClient.GetParameter(a.ctx, &ssm.GetParameterInput{
		Name:           aws.String(key),
		WithDecryption: aws.Bool(encrypted),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to load SSM parameters")
	}
	if ssmResponse.Parameter == nil {
		return "", errors.Errorf("SSM parameter %s has no value", key)
	}
	return aws.ToString(ssmResponse.Parameter.Value), nil
}

// PutS3Object uploads a JSON object to the specified S3 bucket with a key formatted as a timestamp and the provided ID.
// It is a no-op when the bucket name is empty. The object key is returned on success.
func (a *Controller) PutS3Object(ctx context.Context, id string, bucket string, body []byte) (string, error) {
	if bucket == "" {
		return "", nil
	}
	key := fmt.Sprintf("%s.%s.json", a.now().UTC().Format(time.RFC3339Nano), id)
	_, err := a.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to put object to S3")
	}
	a.logger.Debug("stored object", slog.String("bucket", bucket), slog.String("key", key))
	return key, nil
}

type awsLogger struct {
	logger *slog.Logger
}

func newAWSLogger(logger *slog.Logger) *awsLogger {
	return &awsLogger{logger}
}

func (a *awsLogger) Logf(classification logging.Classification, format string, args ...any) {
	a.logger.Debug(fmt.Sprintf("[%v] %s", classification, fmt.Sprintf(format, args...)))
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/isometry/media-webhook-relay/internal/config"
	"github.com/isometry/media-webhook-relay/internal/controllers/aws"
	"github.com/isometry/media-webhook-relay/internal/fetch"
	"github.com/isometry/media-webhook-relay/internal/handler"
	"github.com/isometry/media-webhook-relay/internal/mail"
	"github.com/pkg/errors"
)

// Email key sources.
const (
	keySourceEnv = "env"
	keySourceSSM = "ssm"
)

// dependencies lazily builds the clients shared by the handlers of one process.
type dependencies struct {
	ctx    context.Context
	logger *slog.Logger
	awsCtl *aws.Controller
}

func newDependencies(ctx context.Context, logger *slog.Logger) *dependencies {
	return &dependencies{ctx: ctx, logger: logger}
}

func (d *dependencies) awsController() (*aws.Controller, error) {
	if d.awsCtl != nil {
		return d.awsCtl, nil
	}
	d.logger.Debug("creating AWS controller...")
	ctl, err := aws.NewController(
		aws.WithContext(d.ctx),
		aws.WithLogger(d.logger.With("component", "aws")))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create AWS controller")
	}
	d.awsCtl = ctl
	return ctl, nil
}

func (d *dependencies) forwardHandler() handler.Handler {
	logger := d.logger.With("component", "forward-handler")
	return handler.NewForwardHandler(
		handler.WithFetcher(fetch.NewClient(
			fetch.WithTimeout(config.Forwarder.Timeout),
			fetch.WithLogger(logger))),
		handler.WithLogger(logger))
}

func (d *dependencies) notifyHandler() (handler.Handler, error) {
	logger := d.logger.With("component", "notify-handler")
	sender, err := d.sender(logger)
	if err != nil {
		return nil, err
	}

	opts := []handler.Option{
		handler.WithSender(sender),
		handler.WithRecipients(config.Notifier.Recipients),
		handler.WithFrom(config.Notifier.Sender),
		handler.WithSubject(config.Notifier.Subject),
		handler.WithLogger(logger),
	}
	if config.Global.S3.Upload.Enabled {
		ctl, err := d.awsController()
		if err != nil {
			return nil, err
		}
		opts = append(opts, handler.WithArchive(ctl, config.Global.S3.Upload.BucketName))
	}

	hdl, err := handler.NewNotifyHandler(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create notify handler")
	}
	return hdl, nil
}

func (d *dependencies) sender(logger *slog.Logger) (mail.Sender, error) {
	logger = logger.With("provider", config.Notifier.Provider)
	switch config.Notifier.Provider {
	case mail.SendGridProviderName:
		apiKey, err := d.sendGridAPIKey()
		if err != nil {
			return nil, err
		}
		return mail.NewSendGrid(apiKey,
			mail.WithSendGridBaseURL(config.Notifier.SendGrid.BaseURL),
			mail.WithSendGridLogger(logger))
	case mail.SESProviderName:
		ctl, err := d.awsController()
		if err != nil {
			return nil, err
		}
		return mail.NewSESFromConfig(ctl.Config(), logger), nil
	case mail.SMTPProviderName:
		smtp := config.Notifier.SMTP
		return mail.NewSMTPFromConfig(mail.SMTPConfig{
			Host:          smtp.Host,
			Port:          int(smtp.Port),
			User:          smtp.User,
			Password:      smtp.Password,
			TLSSkipVerify: smtp.TLSSkipVerify,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", config.Notifier.Provider)
	}
}

func (d *dependencies) sendGridAPIKey() (string, error) {
	switch config.Notifier.SendGrid.KeySource {
	case keySourceEnv:
		return config.Notifier.SendGrid.APIKey, nil
	case keySourceSSM:
		ctl, err := d.awsController()
		if err != nil {
			return "", err
		}
		key, err := ctl.GetSecret(config.Notifier.SendGrid.SSMKey, true)
		if err != nil {
			return "", errors.Wrap(err, "failed to fetch SendGrid API key")
		}
		return key, nil
	default:
		return "", fmt.Errorf("unsupported SendGrid key source: %s", config.Notifier.SendGrid.KeySource)
	}
}

// handlerByName returns the handler mounted for a Lambda function.
func (d *dependencies) handlerByName(name string) (handler.Handler, error) {
	switch name {
	case config.HandlerForward:
		return d.forwardHandler(), nil
	case config.HandlerNotify:
		return d.notifyHandler()
	default:
		return nil, fmt.Errorf("unsupported handler: %s", name)
	}
}

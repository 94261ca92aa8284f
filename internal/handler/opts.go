package handler

import (
	"context"
	"log/slog"

	"github.com/isometry/media-webhook-relay/internal/fetch"
	"github.com/isometry/media-webhook-relay/internal/mail"
)

// Archiver stores a copy of an inbound payload.
type Archiver interface {
	PutS3Object(ctx context.Context, id string, bucket string, body []byte) (string, error)
}

// Option configures the handlers at construction time.
type Option func(*options)

type options struct {
	logger *slog.Logger

	fetcher fetch.Fetcher

	sender     mail.Sender
	recipients []string
	from       string
	subject    string

	archiver      Archiver
	archiveBucket string
}

// WithLogger sets the logger instance for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithFetcher sets the outbound HTTP capability of the forward handler.
func WithFetcher(fetcher fetch.Fetcher) Option {
	return func(o *options) {
		o.fetcher = fetcher
	}
}

// WithSender sets the email capability of the notify handler.
func WithSender(sender mail.Sender) Option {
	return func(o *options) {
		o.sender = sender
	}
}

// WithRecipients sets the recipients from a space-separated address list.
func WithRecipients(recipients string) Option {
	return func(o *options) {
		o.recipients = mail.ParseRecipients(recipients)
	}
}

// WithFrom sets the verified sender address.
func WithFrom(from string) Option {
	return func(o *options) {
		o.from = from
	}
}

// WithSubject sets the notification subject.
func WithSubject(subject string) Option {
	return func(o *options) {
		o.subject = subject
	}
}

// WithArchive stores every notification payload in bucket before it is emailed. An empty bucket disables archiving.
func WithArchive(archiver Archiver, bucket string) Option {
	return func(o *options) {
		o.archiver = archiver
		o.archiveBucket = bucket
	}
}

package mail

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/smithy-go"
	"github.com/isometry/media-webhook-relay/internal/helpers"
	"github.com/pkg/errors"
)

// SESProviderName identifies the SES sender.
const SESProviderName = "ses"

// SESAPI is the subset of the SES v2 client used by the sender.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SES sends one email per recipient through Amazon SES. Click tracking is governed by the
// account's configuration sets, so Message.ClickTracking is not applied here.
type SES struct {
	client SESAPI
	logger *slog.Logger
}

// NewSES returns an SES sender. A nil logger falls back to a no-op logger.
func NewSES(client SESAPI, logger *slog.Logger) *SES {
	if logger == nil {
		logger = helpers.NewNoopLogger()
	}
	return &SES{client: client, logger: logger}
}

// NewSESFromConfig builds the SES client from an AWS configuration.
func NewSESFromConfig(cfg aws.Config, logger *slog.Logger) *SES {
	return NewSES(sesv2.NewFromConfig(cfg), logger)
}

// SendMultiple sends the message to each recipient individually and stops at the first failure.
func (s *SES) SendMultiple(ctx context.Context, msg *Message) ([]Result, error) {
	if err := validate(msg); err != nil {
		return nil, err
	}

	content := &types.EmailContent{
		Simple: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")},
			},
		},
	}

	results := make([]Result, 0, len(msg.To))
	for _, to := range msg.To {
		s.logger.Debug("sending mail via SES...", slog.String("to", to))
		out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
			FromEmailAddress: aws.String(msg.From),
			Destination:      &types.Destination{ToAddresses: []string{to}},
			Content:          content,
		})
		if err != nil {
			return results, newSESError(err)
		}
		results = append(results, Result{
			StatusCode: http.StatusOK,
			Body:       map[string]string{"messageId": aws.ToString(out.MessageId)},
		})
	}
	return results, nil
}

func newSESError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return errors.Wrap(err, "failed to send email via SES")
	}
	statusCode := http.StatusBadGateway
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		statusCode = respErr.HTTPStatusCode()
	}
	return &ProviderError{
		Provider:   SESProviderName,
		StatusCode: statusCode,
		Messages:   []string{apiErr.ErrorMessage()},
	}
}

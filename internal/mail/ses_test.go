package mail_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/isometry/media-webhook-relay/internal/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-" + params.Destination.ToAddresses[0])}, nil
}

func TestSES_SendMultiple(t *testing.T) {
	client := &fakeSES{}
	sender := mail.NewSES(client, nil)

	results, err := sender.SendMultiple(context.Background(), testMessage())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, http.StatusOK, results[0].StatusCode)
	assert.Equal(t, map[string]string{"messageId": "msg-bob@abc.com"}, results[0].Body)

	require.Len(t, client.inputs, 2)
	assert.Equal(t, []string{"bob@abc.com"}, client.inputs[0].Destination.ToAddresses)
	assert.Equal(t, []string{"sally@abc.com"}, client.inputs[1].Destination.ToAddresses)
	assert.Equal(t, "sender@example.com", aws.ToString(client.inputs[0].FromEmailAddress))
	assert.Equal(t, "Webhook Notification", aws.ToString(client.inputs[0].Content.Simple.Subject.Data))
}

func TestSES_ProviderError(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "MessageRejected", Message: "Email address is not verified."}
	client := &fakeSES{err: &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: http.StatusBadRequest}},
			Err:      apiErr,
		},
	}}

	_, err := mail.NewSES(client, nil).SendMultiple(context.Background(), testMessage())

	var pErr *mail.ProviderError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, http.StatusBadRequest, pErr.StatusCode)
	assert.Equal(t, "Email address is not verified.", pErr.FirstMessage())
}

func TestSES_TransportError(t *testing.T) {
	client := &fakeSES{err: assert.AnError}

	_, err := mail.NewSES(client, nil).SendMultiple(context.Background(), testMessage())

	var pErr *mail.ProviderError
	assert.False(t, errors.As(err, &pErr))
	assert.ErrorIs(t, err, assert.AnError)
}

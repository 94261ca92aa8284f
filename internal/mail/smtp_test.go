package mail_test

import (
	"bytes"
	"context"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/isometry/media-webhook-relay/internal/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	messages []*gomail.Message
	err      error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.messages = append(f.messages, m...)
	return f.err
}

func TestSMTP_SendMultiple(t *testing.T) {
	dialer := &fakeDialer{}

	results, err := mail.NewSMTP(dialer, nil).SendMultiple(context.Background(), testMessage())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, http.StatusAccepted, results[0].StatusCode)

	require.Len(t, dialer.messages, 2)
	assert.Equal(t, []string{"bob@abc.com"}, dialer.messages[0].GetHeader("To"))
	assert.Equal(t, []string{"sally@abc.com"}, dialer.messages[1].GetHeader("To"))
	assert.Equal(t, []string{"Webhook Notification"}, dialer.messages[0].GetHeader("Subject"))
}

func TestSMTP_Errors(t *testing.T) {
	_, err := mail.NewSMTP(&fakeDialer{err: &textproto.Error{Code: 550, Msg: "mailbox unavailable"}}, nil).
		SendMultiple(context.Background(), testMessage())
	var pErr *mail.ProviderError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, http.StatusBadGateway, pErr.StatusCode)
	assert.Equal(t, "mailbox unavailable", pErr.FirstMessage())

	_, err = mail.NewSMTPFromConfig(mail.SMTPConfig{}, nil)
	assert.Error(t, err)
}

func TestSMTP_LongLines(t *testing.T) {
	dialer := &fakeDialer{}
	msg := testMessage()
	msg.Text = `{"secure_url": "https://res.example.com/video/upload/` + strings.Repeat("a", 2000) + `.m3u8"}`

	_, err := mail.NewSMTP(dialer, nil).SendMultiple(context.Background(), msg)
	require.NoError(t, err)
	require.NotEmpty(t, dialer.messages)

	var buf bytes.Buffer
	_, err = dialer.messages[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Content-Transfer-Encoding: quoted-printable")
	for _, line := range strings.Split(buf.String(), "\r\n") {
		assert.LessOrEqual(t, len(line), 998)
	}
}

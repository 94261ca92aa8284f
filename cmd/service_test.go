package cmd

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/isometry/media-webhook-relay/internal/config"
	"github.com/isometry/media-webhook-relay/internal/fetch"
	"github.com/isometry/media-webhook-relay/internal/handler"
	"github.com/isometry/media-webhook-relay/internal/helpers"
	"github.com/isometry/media-webhook-relay/internal/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct{}

func (stubFetcher) Get(_ context.Context, url string) (*fetch.Result, error) {
	if strings.Contains(url, "missing") {
		return nil, &fetch.UpstreamError{URL: url, StatusCode: http.StatusNotFound}
	}
	return &fetch.Result{Status: http.StatusOK, StatusText: "OK", Data: "ready"}, nil
}

type stubSender struct{}

func (stubSender) SendMultiple(_ context.Context, msg *mail.Message) ([]mail.Result, error) {
	results := make([]mail.Result, len(msg.To))
	for i := range msg.To {
		results[i] = mail.Result{StatusCode: http.StatusAccepted}
	}
	return results, nil
}

type testCase struct {
	Name           string
	Method         string
	Path           string
	Body           string
	ExpectedStatus int
	ExpectedBody   string
	ExpectCORS     bool
}

func TestServiceRouter(t *testing.T) {
	require.NoError(t, config.SetDefaults())

	notify, err := handler.NewNotifyHandler(
		handler.WithSender(stubSender{}),
		handler.WithRecipients("ops@example.com"),
		handler.WithFrom("relay@example.com"))
	require.NoError(t, err)
	forward := handler.NewForwardHandler(handler.WithFetcher(stubFetcher{}))

	srv := httptest.NewServer(newRouter(helpers.NewNoopLogger(), forward, notify))
	defer srv.Close()

	testCases := []testCase{
		{
			Name:           "forward_ok",
			Method:         http.MethodPost,
			Path:           "/forward",
			Body:           `{"url":"https://example.com/ok"}`,
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   `{"message":{"status":200,"statusText":"OK","headers":null,"data":"ready"}}`,
		},
		{
			Name:           "forward_upstream_missing",
			Method:         http.MethodPost,
			Path:           "/forward",
			Body:           `{"url":"https://example.com/missing"}`,
			ExpectedStatus: http.StatusNotFound,
			ExpectedBody:   "Error fetching https://example.com/missing",
		},
		{
			Name:           "forward_get",
			Method:         http.MethodGet,
			Path:           "/forward",
			ExpectedStatus: http.StatusBadRequest,
			ExpectedBody:   `{"status":"invalid-method"}`,
			ExpectCORS:     true,
		},
		{
			Name:           "notify_ok",
			Method:         http.MethodPost,
			Path:           "/notify",
			Body:           `{"public_id":"mountain"}`,
			ExpectedStatus: http.StatusAccepted,
			ExpectedBody:   `{"message":{"statusCode":202,"body":null}}`,
		},
		{
			Name:           "notify_options",
			Method:         http.MethodOptions,
			Path:           "/notify",
			ExpectedStatus: http.StatusBadRequest,
			ExpectedBody:   `{"status":"invalid-method"}`,
			ExpectCORS:     true,
		},
		{
			Name:           "unknown_path",
			Method:         http.MethodPost,
			Path:           "/unknown",
			Body:           `{}`,
			ExpectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			req, err := http.NewRequest(tc.Method, srv.URL+tc.Path, strings.NewReader(tc.Body))
			require.NoError(t, err)

			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tc.ExpectedStatus, resp.StatusCode)
			if tc.ExpectedBody != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				if strings.HasPrefix(tc.ExpectedBody, "{") {
					assert.JSONEq(t, tc.ExpectedBody, string(body))
				} else {
					assert.Equal(t, tc.ExpectedBody, string(body))
				}
			}
			if tc.ExpectCORS {
				assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "Content-Type", resp.Header.Get("Access-Control-Allow-Headers"))
			} else {
				assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestServiceHandlers_ForwardOnly(t *testing.T) {
	require.NoError(t, config.SetDefaults())
	config.Notifier.Provider = mail.SendGridProviderName
	config.Notifier.SendGrid.KeySource = "env"
	config.Notifier.SendGrid.APIKey = ""

	deps := newDependencies(context.Background(), helpers.NewNoopLogger())
	forward, notify := serviceHandlers(deps)
	require.NotNil(t, forward)
	assert.Nil(t, notify)

	srv := httptest.NewServer(newRouter(helpers.NewNoopLogger(), forward, notify))
	defer srv.Close()

	testCases := []struct {
		Name           string
		Method         string
		Path           string
		ExpectedStatus int
	}{
		{
			Name:           "forward_mounted",
			Method:         http.MethodGet,
			Path:           "/forward",
			ExpectedStatus: http.StatusBadRequest,
		},
		{
			Name:           "notify_not_mounted",
			Method:         http.MethodPost,
			Path:           "/notify",
			ExpectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			req, err := http.NewRequest(tc.Method, srv.URL+tc.Path, strings.NewReader(`{"k":"v"}`))
			require.NoError(t, err)

			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tc.ExpectedStatus, resp.StatusCode)
		})
	}
}

package helpers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isometry/media-webhook-relay/internal/helpers"
	"github.com/isometry/media-webhook-relay/internal/models"
	"github.com/stretchr/testify/assert"
)

type testCase struct {
	Name     string
	Response models.Response
	Error    error
	Expected expectedResponse
}

type expectedResponse struct {
	StatusCode int
	Body       string
	Header     string
}

func TestRespondHTTP(t *testing.T) {
	testCases := []testCase{
		{
			Name: "with_valid_response_and_no_error",
			Response: models.Response{
				StatusCode: http.StatusOK,
				Body:       `{"message":"ok"}`,
				Headers:    map[string]string{"Content-Type": "application/json"},
			},
			Expected: expectedResponse{
				StatusCode: http.StatusOK,
				Body:       `{"message":"ok"}`,
				Header:     "application/json",
			},
		},
		{
			Name: "with_valid_response_and_error",
			Response: models.Response{
				StatusCode: http.StatusBadGateway,
				Body:       "Error fetching https://example.com",
				Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
			},
			Error: errors.New("connection refused"),
			Expected: expectedResponse{
				StatusCode: http.StatusBadGateway,
				Body:       "Error fetching https://example.com",
				Header:     "text/plain; charset=utf-8",
			},
		},
		{
			Name:     "with_empty_response_and_no_error",
			Response: models.Response{},
			Expected: expectedResponse{
				StatusCode: http.StatusOK,
				Body:       "",
				Header:     "",
			},
		},
		{
			Name:     "with_empty_response_and_error",
			Response: models.Response{StatusCode: http.StatusInternalServerError},
			Error:    errors.New("internal server error"),
			Expected: expectedResponse{
				StatusCode: http.StatusInternalServerError,
				Body:       "internal server error",
				Header:     "",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			rw := httptest.NewRecorder()

			helpers.RespondHTTP(tc.Response, tc.Error, rw)

			assert.Equal(t, tc.Expected.StatusCode, rw.Code)
			assert.Equal(t, tc.Expected.Header, rw.Header().Get("Content-Type"))
			assert.Equal(t, tc.Expected.Body, rw.Body.String())
		})
	}
}

func TestLowerHeaders(t *testing.T) {
	h := http.Header{}
	h.Add("Content-Type", "application/json")
	h.Add("X-Cld-Timestamp", "1")
	h.Add("X-Cld-Timestamp", "2")
	h["X-Empty"] = nil

	headers := helpers.LowerHeaders(h)

	assert.Equal(t, map[string]string{
		"content-type":    "application/json",
		"x-cld-timestamp": "1",
	}, headers)
}

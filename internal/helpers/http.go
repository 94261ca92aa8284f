package helpers

import (
	"net/http"
	"strings"

	"github.com/isometry/media-webhook-relay/internal/models"
)

// CORSHeaders are the permissive headers attached to rejected requests so browser callers can read them.
var CORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type",
}

// RespondHTTP writes the handler response to rw. When the response has no body the error message, if any, is used instead.
func RespondHTTP(response models.Response, err error, rw http.ResponseWriter) {
	body := response.Body
	if body == "" && err != nil {
		body = err.Error()
	}

	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write([]byte(body))
}

// LowerHeaders flattens and lower-cases the given header map, keeping the first value of each key.
func LowerHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) == 0 {
			continue
		}
		// XXX: we're losing duplicated headers here
		headers[strings.ToLower(k)] = v[0]
	}
	return headers
}

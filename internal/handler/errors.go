package handler

import (
	"fmt"
	"slices"
	"strings"
)

// InvalidMethodError is returned for requests that are not a POST or carry no body.
type InvalidMethodError struct {
	Method string
}

func (m *InvalidMethodError) Error() string {
	return fmt.Sprintf("invalid method %q or empty body", m.Method)
}

// BadRequestError is returned when the request body cannot be decoded or fails validation.
type BadRequestError struct {
	Reason string
	Fields map[string]any
}

func (m *BadRequestError) Error() string {
	if len(m.Fields) == 0 {
		return "bad request: " + m.Reason
	}
	fields := make([]string, 0, len(m.Fields))
	for k, v := range m.Fields {
		fields = append(fields, fmt.Sprintf("%s %v", k, v))
	}
	slices.Sort(fields)
	return fmt.Sprintf("bad request: %s (%s)", m.Reason, strings.Join(fields, ", "))
}

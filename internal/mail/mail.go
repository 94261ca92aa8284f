// Package mail provides the email senders used by the notify handler.
package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Sender dispatches one message to each of its recipients individually.
type Sender interface {
	// SendMultiple returns one Result per provider call. Recipients never see each other's address.
	SendMultiple(ctx context.Context, msg *Message) ([]Result, error)
}

// Message is a plain text notification email.
type Message struct {
	From    string
	To      []string
	Subject string
	Text    string
	// ClickTracking lets the provider rewrite links for tracking. Providers without the feature ignore it.
	ClickTracking bool
}

// Result is the provider's response to a send call.
type Result struct {
	StatusCode int               `json:"statusCode"`
	Body       any               `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// ProviderError is a structured rejection returned by the email provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Messages   []string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s rejected the message with status %d: %s", e.Provider, e.StatusCode, strings.Join(e.Messages, "; "))
}

// FirstMessage returns the first provider message, or an empty string.
func (e *ProviderError) FirstMessage() string {
	if len(e.Messages) == 0 {
		return ""
	}
	return e.Messages[0]
}

// ParseRecipients splits a space-separated recipient list, dropping empty items.
func ParseRecipients(s string) []string {
	return strings.Fields(s)
}

func validate(msg *Message) error {
	if msg == nil {
		return errors.New("message is nil")
	}
	if len(msg.To) == 0 {
		return errors.New("at least one recipient is required")
	}
	if msg.From == "" {
		return errors.New("a sender address is required")
	}
	return nil
}

// Package email sends mail through the Resend API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
)

// Message is an outgoing email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// SendResponse is the body Resend returns for an accepted email.
type SendResponse struct {
	ID string `json:"id"`
}

// Client is the Resend client.
type Client struct {
	api *resend.Client
}

// NewClient creates a new Resend client. An empty baseURL uses the public API.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	api := resend.NewCustomClient(&http.Client{Timeout: timeout}, apiKey)
	if baseURL != "" {
		if u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/"); err == nil {
			api.BaseURL = u
		}
	}
	return &Client{api: api}
}

// Send delivers one email. Any 2xx reply counts as accepted, whatever its body.
func (c *Client) Send(ctx context.Context, msg Message) (*SendResponse, error) {
	req, err := c.api.NewRequest(ctx, http.MethodPost, "emails", &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	var body bytes.Buffer
	if _, err := c.api.Perform(req, &body); err != nil {
		return nil, errors.Wrap(err, "email API error")
	}

	var result SendResponse
	if body.Len() > 0 {
		if err := json.Unmarshal(body.Bytes(), &result); err != nil {
			slog.Debug("unexpected email API response", "body", body.String(), "error", err)
			return &SendResponse{}, nil
		}
	}
	return &result, nil
}

package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vparedes/maricultor/internal/config"
)

// Event is the payload pushed to the external notification endpoint.
type Event struct {
	Type        string         `json:"type"`
	RecipientID string         `json:"recipientId"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Data        map[string]any `json:"data,omitempty"`
	OccurredAt  time.Time      `json:"occurredAt"`
}

// Notifier pushes events to an external consumer (mobile push bridge,
// messaging integration, etc).
type Notifier interface {
	SendEvent(ctx context.Context, event Event) error
}

// Client is a resty-backed implementation of Notifier.
type Client struct {
	httpClient *resty.Client
}

// NewClient builds a webhook client from the provided configuration values.
func NewClient(cfg config.WebhookConfig) *Client {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.URL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	if cfg.Token != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Token))
	}

	return &Client{httpClient: restyClient}
}

// apiError mirrors the error payload returned by the endpoint.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SendEvent posts the event, treating any 4xx/5xx response as an error.
func (c *Client) SendEvent(ctx context.Context, event Event) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(event).
		SetError(apiErr).
		Post("")
	if err != nil {
		return fmt.Errorf("send webhook event: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Message
		if message == "" {
			message = apiErr.Error
		}
		return fmt.Errorf("webhook endpoint error: code=%d, message=%s", resp.StatusCode(), message)
	}

	return nil
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookNotifier delivers direct messages by posting them to the chat
// gateway's webhook endpoint. The gateway owns the actual platform
// session and fans the message out as a DM.
type WebhookNotifier struct {
	url    string
	token  string
	client *http.Client
}

// NewWebhookNotifier creates a notifier that posts to the given webhook
// URL, authenticating with the shared bearer token.
func NewWebhookNotifier(url, token string) *WebhookNotifier {
	return &WebhookNotifier{
		url:   url,
		token: token,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// directMessagePayload is the wire format the gateway expects.
type directMessagePayload struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

// DirectMessage posts one DM to the gateway webhook.
func (n *WebhookNotifier) DirectMessage(ctx context.Context, userID, text string) error {
	body, err := json.Marshal(directMessagePayload{UserID: userID, Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway rejected message: status %d", resp.StatusCode)
	}
	return nil
}

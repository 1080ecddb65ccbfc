// Package leads forwards plan requests to the sales team's systems.
package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookClient posts lead alerts to a CRM or form intake endpoint.
type WebhookClient struct {
	url        string
	token      string
	httpClient *http.Client
}

type webhookPayload struct {
	Subject    string            `json:"subject"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Lead       interface{}       `json:"lead"`
}

type webhookResponse struct {
	ID string `json:"id"`
}

func NewWebhookClient(url, token string, timeout time.Duration) *WebhookClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookClient{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// PublishJSON posts payload and returns the id the endpoint assigned, if any.
func (c *WebhookClient) PublishJSON(ctx context.Context, subject string, payload interface{}, attrs map[string]string) (string, error) {
	jsonData, err := json.Marshal(webhookPayload{Subject: subject, Attributes: attrs, Lead: payload})
	if err != nil {
		return "", fmt.Errorf("failed to marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("lead webhook rejected (status %d): %s", resp.StatusCode, string(body))
	}

	var out webhookResponse
	if len(body) > 0 && json.Unmarshal(body, &out) == nil {
		return out.ID, nil
	}
	return "", nil
}

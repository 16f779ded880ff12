package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// forwardPayload is the JSON body POSTed to a tenant's reply webhook.
type forwardPayload struct {
	To         string `json:"to"`
	From       string `json:"from"`
	Message    string `json:"message"`
	ReceivedAt string `json:"received_at"`
}

// Forwarder delivers inbound SMS replies to tenant webhooks. Delivery is
// best-effort: callers log failures and move on, and nothing is retried.
type Forwarder struct {
	httpClient *http.Client
}

// NewForwarder creates a reply-webhook forwarder.
func NewForwarder() *Forwarder {
	return &Forwarder{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Forward POSTs the inbound message to the tenant's reply webhook URL.
func (f *Forwarder) Forward(ctx context.Context, webhookURL, to, from, message string) error {
	payload := forwardPayload{
		To:         to,
		From:       from,
		Message:    message,
		ReceivedAt: time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("forward: marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("forward: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("forward: sending request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("forward: webhook returned status %d", resp.StatusCode)
	}

	return nil
}

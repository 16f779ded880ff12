package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the Twilio REST API root.
const DefaultBaseURL = "https://api.twilio.com"

// TwilioClient sends SMS through Twilio's Messages endpoint using HTTP
// Basic authentication and a form-encoded body.
type TwilioClient struct {
	httpClient *http.Client
	baseURL    string
	accountSID string
	authToken  string
}

// NewTwilioClient creates a live SMS dispatcher. baseURL is normally
// DefaultBaseURL; tests point it at a local server.
func NewTwilioClient(baseURL, accountSID, authToken string) *TwilioClient {
	return &TwilioClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		accountSID: accountSID,
		authToken:  authToken,
	}
}

// twilioMessageResponse is the subset of Twilio's create-message response
// we care about.
type twilioMessageResponse struct {
	SID string `json:"sid"`
}

// Send performs a single synchronous message-send call. A non-2xx response
// is a hard failure carrying the status and raw body; no retry is attempted.
func (c *TwilioClient) Send(ctx context.Context, from, to, body string) (string, error) {
	if c.accountSID == "" || c.authToken == "" || from == "" {
		return "", ErrNotConfigured
	}

	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("twilio: creating request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("twilio: sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("twilio: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &DispatchError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var msg twilioMessageResponse
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return "", fmt.Errorf("twilio: decoding response: %w", err)
	}

	return msg.SID, nil
}

// DryRun always reports false for the live client.
func (c *TwilioClient) DryRun() bool {
	return false
}

var _ Sender = (*TwilioClient)(nil)

// Package twilio wraps the Twilio Messages API for outbound SMS.
package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Default base URL for the Twilio REST API.
const defaultBaseURL = "https://api.twilio.com"

// Client defines the Twilio operations used by this application.
type Client interface {
	SendSMS(ctx context.Context, msg Message) (*MessageResponse, error)
}

// Message is one outbound SMS.
type Message struct {
	To   string
	From string
	Body string
}

// MessageResponse is Twilio's acknowledgment of a queued message.
type MessageResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// APIError is returned when Twilio responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twilio: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	accountSID string
	authToken  string
	baseURL    string
	http       *http.Client
}

// NewClient creates a new Twilio client.
func NewClient(accountSID, authToken string, opts ...Option) Client {
	c := &httpClient{
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) SendSMS(ctx context.Context, msg Message) (*MessageResponse, error) {
	form := url.Values{
		"To":   {msg.To},
		"From": {msg.From},
		"Body": {msg.Body},
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, url.PathEscape(c.accountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, eris.Wrap(err, "twilio: create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "twilio: send sms")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "twilio: read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var out MessageResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, eris.Wrap(err, "twilio: decode response")
	}
	return &out, nil
}

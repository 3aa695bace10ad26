// Package sendgrid wraps the SendGrid v3 mail send API for transactional
// email.
package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Default base URL for the SendGrid v3 API.
const defaultBaseURL = "https://api.sendgrid.com"

// Client defines the SendGrid operations used by this application.
type Client interface {
	Send(ctx context.Context, email Email) error
}

// Email is one transactional message.
type Email struct {
	To       string
	ToName   string
	From     string
	FromName string
	Subject  string
	HTML     string
}

// APIError is returned when SendGrid responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sendgrid: HTTP %d: %s", e.StatusCode, e.Body)
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
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new SendGrid client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type personalization struct {
	To []address `json:"to"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

func (c *httpClient) Send(ctx context.Context, email Email) error {
	body := sendRequest{
		Personalizations: []personalization{{To: []address{{Email: email.To, Name: email.ToName}}}},
		From:             address{Email: email.From, Name: email.FromName},
		Subject:          email.Subject,
		Content:          []content{{Type: "text/html", Value: email.HTML}},
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "sendgrid: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/mail/send", bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "sendgrid: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "sendgrid: send mail")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return nil
}

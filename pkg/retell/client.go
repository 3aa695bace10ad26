// Package retell wraps the Retell conversational-voice API: LLM and agent
// creation, phone number purchase and binding, and call placement.
package retell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

// Default base URL for the Retell API.
const defaultBaseURL = "https://api.retellai.com"

// Client defines the Retell API operations used by this application.
type Client interface {
	CreateLLM(ctx context.Context, req CreateLLMRequest) (*LLM, error)
	CreateAgent(ctx context.Context, req CreateAgentRequest) (*Agent, error)
	CreatePhoneNumber(ctx context.Context, req CreatePhoneNumberRequest) (*PhoneNumber, error)
	UpdatePhoneNumber(ctx context.Context, idOrNumber string, req UpdatePhoneNumberRequest) error
	CreatePhoneCall(ctx context.Context, req CreatePhoneCallRequest) (*Call, error)
	CreateWebCall(ctx context.Context, req CreateWebCallRequest) (*WebCall, error)
}

// CreateLLMRequest is the body for POST /create-retell-llm.
type CreateLLMRequest struct {
	GeneralPrompt string `json:"general_prompt"`
	Model         string `json:"model,omitempty"`
	BeginMessage  string `json:"begin_message,omitempty"`
}

// LLM is the response from POST /create-retell-llm. Accounts differ on
// which identifier key they return.
type LLM struct {
	LLMID string `json:"llm_id"`
	ID    string `json:"id"`
}

// ResolveID returns whichever identifier the account populated.
func (l *LLM) ResolveID() string {
	if l.LLMID != "" {
		return l.LLMID
	}
	return l.ID
}

// ResponseEngine points an agent at its LLM.
type ResponseEngine struct {
	Type  string `json:"type"`
	LLMID string `json:"llm_id"`
}

// CreateAgentRequest is the body for POST /create-agent.
type CreateAgentRequest struct {
	AgentName      string            `json:"agent_name"`
	VoiceID        string            `json:"voice_id"`
	ResponseEngine ResponseEngine    `json:"response_engine"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Agent is the response from POST /create-agent.
type Agent struct {
	AgentID string `json:"agent_id"`
	ID      string `json:"id"`
	Version int    `json:"version"`
}

// ResolveID returns whichever identifier the account populated.
func (a *Agent) ResolveID() string {
	if a.AgentID != "" {
		return a.AgentID
	}
	return a.ID
}

// CreatePhoneNumberRequest is the body for POST /create-phone-number.
type CreatePhoneNumberRequest struct {
	AreaCode       int    `json:"area_code,omitempty"`
	Nickname       string `json:"nickname,omitempty"`
	InboundAgentID string `json:"inbound_agent_id,omitempty"`
}

// PhoneNumber is the response from POST /create-phone-number. Both the
// number and identifier key names vary by account vintage.
type PhoneNumber struct {
	PhoneNumber   string `json:"phone_number"`
	E164          string `json:"e164"`
	Number        string `json:"number"`
	PhoneNumberID string `json:"phone_number_id"`
	ID            string `json:"id"`
}

// ResolveNumber returns the E.164 representation under whichever key the
// account populated, or empty.
func (p *PhoneNumber) ResolveNumber() string {
	for _, n := range []string{p.PhoneNumber, p.E164, p.Number} {
		if n != "" {
			return n
		}
	}
	return ""
}

// ResolveID returns the internal phone identifier, or empty.
func (p *PhoneNumber) ResolveID() string {
	if p.PhoneNumberID != "" {
		return p.PhoneNumberID
	}
	return p.ID
}

// UpdatePhoneNumberRequest is the body for PATCH /update-phone-number/{id}.
type UpdatePhoneNumberRequest struct {
	InboundAgentID  string `json:"inbound_agent_id,omitempty"`
	OutboundAgentID string `json:"outbound_agent_id,omitempty"`
}

// CreatePhoneCallRequest is the body for POST /v2/create-phone-call.
type CreatePhoneCallRequest struct {
	FromNumber       string            `json:"from_number,omitempty"`
	ToNumber         string            `json:"to_number"`
	OverrideAgentID  string            `json:"override_agent_id,omitempty"`
	DynamicVariables map[string]string `json:"retell_llm_dynamic_variables,omitempty"`
}

// Call is the response from POST /v2/create-phone-call.
type Call struct {
	CallID string `json:"call_id"`
}

// CreateWebCallRequest is the body for POST /v2/create-web-call.
type CreateWebCallRequest struct {
	AgentID  string            `json:"agent_id"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// WebCall is the response from POST /v2/create-web-call.
type WebCall struct {
	AccessToken string `json:"access_token"`
	CallID      string `json:"call_id"`
	AgentID     string `json:"agent_id"`
}

// APIError is returned when Retell responds with a non-2xx status. The body
// is preserved verbatim so callers can surface the platform's own detail.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("retell: HTTP %d: %s", e.StatusCode, e.Body)
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

// NewClient creates a new Retell client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) CreateLLM(ctx context.Context, req CreateLLMRequest) (*LLM, error) {
	var resp LLM
	if err := c.send(ctx, http.MethodPost, "/create-retell-llm", req, &resp); err != nil {
		return nil, eris.Wrap(err, "retell: create llm")
	}
	return &resp, nil
}

func (c *httpClient) CreateAgent(ctx context.Context, req CreateAgentRequest) (*Agent, error) {
	var resp Agent
	if err := c.send(ctx, http.MethodPost, "/create-agent", req, &resp); err != nil {
		return nil, eris.Wrap(err, "retell: create agent")
	}
	return &resp, nil
}

func (c *httpClient) CreatePhoneNumber(ctx context.Context, req CreatePhoneNumberRequest) (*PhoneNumber, error) {
	var resp PhoneNumber
	if err := c.send(ctx, http.MethodPost, "/create-phone-number", req, &resp); err != nil {
		return nil, eris.Wrap(err, "retell: create phone number")
	}
	return &resp, nil
}

func (c *httpClient) UpdatePhoneNumber(ctx context.Context, idOrNumber string, req UpdatePhoneNumberRequest) error {
	path := "/update-phone-number/" + url.PathEscape(idOrNumber)
	if err := c.send(ctx, http.MethodPatch, path, req, nil); err != nil {
		return eris.Wrap(err, fmt.Sprintf("retell: update phone number %s", idOrNumber))
	}
	return nil
}

func (c *httpClient) CreatePhoneCall(ctx context.Context, req CreatePhoneCallRequest) (*Call, error) {
	var resp Call
	if err := c.send(ctx, http.MethodPost, "/v2/create-phone-call", req, &resp); err != nil {
		return nil, eris.Wrap(err, "retell: create phone call")
	}
	return &resp, nil
}

func (c *httpClient) CreateWebCall(ctx context.Context, req CreateWebCallRequest) (*WebCall, error) {
	var resp WebCall
	if err := c.send(ctx, http.MethodPost, "/v2/create-web-call", req, &resp); err != nil {
		return nil, eris.Wrap(err, "retell: create web call")
	}
	return &resp, nil
}

func (c *httpClient) send(ctx context.Context, method, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "decode response")
	}
	return nil
}

package retell

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLLM(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/create-retell-llm", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req CreateLLMRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "You are Allie.", req.GeneralPrompt)
		assert.Equal(t, "gpt-4o-mini", req.Model)

		json.NewEncoder(w).Encode(map[string]string{"llm_id": "llm_123"})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	llm, err := c.CreateLLM(context.Background(), CreateLLMRequest{
		GeneralPrompt: "You are Allie.",
		Model:         "gpt-4o-mini",
	})
	require.NoError(t, err)
	assert.Equal(t, "llm_123", llm.ResolveID())
}

func TestCreateAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create-agent", r.URL.Path)

		var req CreateAgentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "retell-llm", req.ResponseEngine.Type)
		assert.Equal(t, "llm_123", req.ResponseEngine.LLMID)

		json.NewEncoder(w).Encode(map[string]any{"agent_id": "agent_456", "version": 2})
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	agent, err := c.CreateAgent(context.Background(), CreateAgentRequest{
		AgentName:      "Acme - Allie",
		VoiceID:        "11labs-Allie",
		ResponseEngine: ResponseEngine{Type: "retell-llm", LLMID: "llm_123"},
	})
	require.NoError(t, err)
	assert.Equal(t, "agent_456", agent.ResolveID())
	assert.Equal(t, 2, agent.Version)
}

func TestUpdatePhoneNumber(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPatch, r.Method)

		var req UpdatePhoneNumberRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "agent_456", req.InboundAgentID)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	err := c.UpdatePhoneNumber(context.Background(), "+15085551234", UpdatePhoneNumberRequest{
		InboundAgentID:  "agent_456",
		OutboundAgentID: "agent_456",
	})
	require.NoError(t, err)
	assert.Equal(t, "/update-phone-number/+15085551234", gotPath)
}

func TestCreatePhoneNumber_ErrorBodySurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":"no numbers available in area code 999"}`))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.CreatePhoneNumber(context.Background(), CreatePhoneNumberRequest{AreaCode: 999})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "no numbers available")
}

func TestCreateWebCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/create-web-call", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "tok_1",
			"call_id":      "call_9",
			"agent_id":     "agent_456",
		})
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	wc, err := c.CreateWebCall(context.Background(), CreateWebCallRequest{AgentID: "agent_456"})
	require.NoError(t, err)
	assert.Equal(t, "tok_1", wc.AccessToken)
	assert.Equal(t, "call_9", wc.CallID)
}

func TestPhoneNumberResolvers(t *testing.T) {
	tests := []struct {
		name       string
		pn         PhoneNumber
		wantNumber string
		wantID     string
	}{
		{"e164 key", PhoneNumber{E164: "+15085550000", ID: "pn_1"}, "+15085550000", "pn_1"},
		{"phone_number wins", PhoneNumber{PhoneNumber: "+15085550001", E164: "+15085559999"}, "+15085550001", ""},
		{"number only", PhoneNumber{Number: "+15085550002", PhoneNumberID: "pn_2"}, "+15085550002", "pn_2"},
		{"empty", PhoneNumber{}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantNumber, tt.pn.ResolveNumber())
			assert.Equal(t, tt.wantID, tt.pn.ResolveID())
		})
	}
}

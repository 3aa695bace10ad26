package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdesk-ai/reception-cli/internal/calllog"
	"github.com/frontdesk-ai/reception-cli/internal/dedup"
	"github.com/frontdesk-ai/reception-cli/internal/intake"
	"github.com/frontdesk-ai/reception-cli/internal/notify"
	"github.com/frontdesk-ai/reception-cli/internal/provision"
	"github.com/frontdesk-ai/reception-cli/internal/webhook"
	"github.com/frontdesk-ai/reception-cli/pkg/retell"
)

// fakeRetell records prompts and counts purchase operations.
type fakeRetell struct {
	prompts    []string
	phoneCalls int
}

func (f *fakeRetell) CreateLLM(_ context.Context, req retell.CreateLLMRequest) (*retell.LLM, error) {
	f.prompts = append(f.prompts, req.GeneralPrompt)
	return &retell.LLM{LLMID: "llm_1"}, nil
}

func (f *fakeRetell) CreateAgent(_ context.Context, _ retell.CreateAgentRequest) (*retell.Agent, error) {
	return &retell.Agent{AgentID: "agent_1"}, nil
}

func (f *fakeRetell) CreatePhoneNumber(_ context.Context, _ retell.CreatePhoneNumberRequest) (*retell.PhoneNumber, error) {
	f.phoneCalls++
	return &retell.PhoneNumber{PhoneNumber: "+15085551234", PhoneNumberID: "pn_1"}, nil
}

func (f *fakeRetell) UpdatePhoneNumber(_ context.Context, _ string, _ retell.UpdatePhoneNumberRequest) error {
	return nil
}

func (f *fakeRetell) CreatePhoneCall(_ context.Context, _ retell.CreatePhoneCallRequest) (*retell.Call, error) {
	return &retell.Call{CallID: "call_1"}, nil
}

func (f *fakeRetell) CreateWebCall(_ context.Context, req retell.CreateWebCallRequest) (*retell.WebCall, error) {
	return &retell.WebCall{AccessToken: "tok", CallID: "call_w", AgentID: req.AgentID}, nil
}

// memStore is a minimal in-memory calllog.Store.
type memStore struct {
	records []calllog.Record
}

func (m *memStore) Insert(_ context.Context, rec *calllog.Record) error {
	m.records = append(m.records, *rec)
	return nil
}

func (m *memStore) Get(_ context.Context, _ string) (*calllog.Record, error) { return nil, nil }

func (m *memStore) List(_ context.Context, _ calllog.Filter) ([]calllog.Record, error) {
	return m.records, nil
}

func (m *memStore) Migrate(_ context.Context) error { return nil }
func (m *memStore) Close() error                    { return nil }

func newTestServer(t *testing.T) (*Server, *fakeRetell, *memStore) {
	t.Helper()

	rc := &fakeRetell{}
	store := &memStore{}
	seen := dedup.NewMemory(time.Minute)
	t.Cleanup(func() { seen.Close() })

	processor := webhook.NewProcessor(webhook.Config{
		Secret:        "hook-secret",
		Seen:          seen,
		Dispatcher:    notify.NewDispatcher(notify.NewRecordSink(store)),
		MinDurationMS: 20000,
		MinSummaryLen: 65,
	})

	srv := New(Config{
		Workflow:  provision.New(rc),
		Processor: processor,
		Store:     store,
		Defaults:  intake.Defaults{VoiceID: "11labs-Allie", AreaCode: "508", Model: "gpt-4o-mini"},
	})
	return srv, rc, store
}

func postJSON(t *testing.T, handler http.Handler, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestProvision_DryRunEndToEnd(t *testing.T) {
	srv, rc, _ := newTestServer(t)
	router := srv.Router()

	rec := postJSON(t, router, "/api/provision", map[string]any{
		"business_name":      "Acme Paving",
		"website":            "not provided",
		"scheduling_details": "Calandar: not provided",
		"is_test_mode":       "true",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "agent_1", body["agent_id"])
	assert.Equal(t, true, body["dry_run"])
	assert.Equal(t, provision.DryRunPhone, body["phone_number"])

	assert.Zero(t, rc.phoneCalls, "dry run must not purchase numbers")
	require.Len(t, rc.prompts, 1)
	assert.Contains(t, rc.prompts[0], "Scheduling is NOT enabled")
	assert.Contains(t, rc.prompts[0], "Acme Paving")
}

func TestProvision_LiveRun(t *testing.T) {
	srv, rc, _ := newTestServer(t)
	router := srv.Router()

	rec := postJSON(t, router, "/api/provision", map[string]any{
		"business_name": "Acme Paving",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "+15085551234", body["phone_number"])
	assert.Equal(t, 1, rc.phoneCalls)
}

func TestProvision_BadJSON(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodPost, "/api/provision", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["ok"])
}

func TestProvision_MethodNotAllowed(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodPut, "/api/provision", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestProvision_CORSPreflight(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodOptions, "/api/provision", nil)
	req.Header.Set("Origin", "https://forms.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWebhook_AuthRequired(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	rec := postJSON(t, router, "/api/webhook/call", map[string]any{
		"call_id": "call_1",
		"event":   "call_analyzed",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(t, router, "/api/webhook/call", map[string]any{
		"call_id": "call_1",
		"event":   "call_analyzed",
	}, map[string]string{secretHeader: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhook_ShortCallNotifiesNobody(t *testing.T) {
	srv, _, store := newTestServer(t)
	router := srv.Router()

	rec := postJSON(t, router, "/api/webhook/call", map[string]any{
		"call_id":          "call_1",
		"event":            "call_analyzed",
		"call_duration_ms": 5000,
		"call_analysis":    map[string]any{"is_urgent": false},
	}, map[string]string{secretHeader: "hook-secret"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	decision := body["decision"].(map[string]any)
	assert.Equal(t, false, decision["notify"])

	// The record sink still logs the final event.
	require.Len(t, store.records, 1)
	assert.False(t, store.records[0].Notified)
}

func TestWebhook_Dedup(t *testing.T) {
	srv, _, store := newTestServer(t)
	router := srv.Router()

	event := map[string]any{
		"call_id":          "call_1",
		"event":            "call_analyzed",
		"call_duration_ms": 30000,
		"call_analysis":    map[string]any{"is_urgent": true},
	}
	headers := map[string]string{secretHeader: "hook-secret"}

	first := postJSON(t, router, "/api/webhook/call", event, headers)
	require.Equal(t, http.StatusOK, first.Code)

	second := postJSON(t, router, "/api/webhook/call", event, headers)
	require.Equal(t, http.StatusOK, second.Code)
	body := decodeBody(t, second)
	assert.Equal(t, true, body["deduped"])

	assert.Len(t, store.records, 1, "duplicate must not reach sinks")
}

func TestLeads(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	rec := postJSON(t, router, "/api/leads", map[string]any{
		"name":          "Pat Jones",
		"email":         "pat@acme.example",
		"phone":         "+15085551234",
		"business_name": "Acme Paving",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	lead := body["lead"].(map[string]any)
	assert.Equal(t, "Pat Jones", lead["name"])
	assert.NotEmpty(t, body["received_at"])
}

func TestWebCall(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	rec := postJSON(t, router, "/api/web-call", map[string]any{"agent_id": "agent_1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "tok", body["access_token"])

	rec = postJSON(t, router, "/api/web-call", map[string]any{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallsListing(t *testing.T) {
	srv, _, store := newTestServer(t)
	store.records = append(store.records, calllog.Record{CallID: "call_1", Business: "Acme Paving"})
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/api/calls?business=Acme+Paving", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	calls := body["calls"].([]any)
	require.Len(t, calls, 1)
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
}

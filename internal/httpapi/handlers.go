package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/frontdesk-ai/reception-cli/internal/calllog"
	"github.com/frontdesk-ai/reception-cli/internal/facts"
	"github.com/frontdesk-ai/reception-cli/internal/intake"
	"github.com/frontdesk-ai/reception-cli/internal/provision"
	"github.com/frontdesk-ai/reception-cli/internal/webhook"
	"github.com/frontdesk-ai/reception-cli/pkg/retell"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, map[string]any{"status": "healthy"})
}

func (s *Server) handleProvision(w http.ResponseWriter, r *http.Request) {
	var rec intake.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	sub := intake.Resolve(rec, s.defaults)

	excerpt := ""
	if s.fetcher != nil {
		excerpt, _ = s.fetcher.Fetch(r.Context(), sub.Profile.Website)
	}
	var siteFacts facts.WebsiteFacts
	if excerpt != "" {
		siteFacts = facts.Extract(excerpt, sub.BusinessType)
	}

	result, err := s.workflow.Provision(r.Context(), provision.Request{
		Sub:     sub,
		Facts:   siteFacts,
		Excerpt: excerpt,
	})
	if err != nil {
		s.writeProvisionError(w, err)
		return
	}

	primary := result.Primary()
	fields := map[string]any{
		"agent_id":      primary.AgentID,
		"llm_id":        primary.LLMID,
		"phone_number":  primary.PhoneNumber,
		"package":       result.Package,
		"dry_run":       result.DryRun,
		"agents":        result.Agents,
		"business_name": sub.Profile.BusinessName,
	}
	if result.OutboundCallID != "" {
		fields["outbound_call_id"] = result.OutboundCallID
	}
	writeOK(w, fields)
}

func (s *Server) writeProvisionError(w http.ResponseWriter, err error) {
	zap.L().Error("provisioning failed", zap.Error(err))

	var valErr *provision.ValidationError
	if errors.As(err, &valErr) {
		writeError(w, http.StatusBadRequest, "Provisioning Failed", valErr.Error())
		return
	}
	var cfgErr *provision.ConfigurationError
	if errors.As(err, &cfgErr) {
		writeError(w, http.StatusInternalServerError, "Provisioning Failed", cfgErr.Error())
		return
	}
	var apiErr *retell.APIError
	if errors.As(err, &apiErr) {
		writeError(w, http.StatusBadGateway, "Provisioning Failed", apiErr.Body)
		return
	}
	writeError(w, http.StatusInternalServerError, "Provisioning Failed", err.Error())
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if !s.processor.Authorize(r.Header.Get(secretHeader)) {
		writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var event webhook.CallEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	outcome, err := s.processor.Process(r.Context(), event)
	if err != nil {
		zap.L().Error("webhook processing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Processing failed", err.Error())
		return
	}

	if outcome.Deduped {
		writeOK(w, map[string]any{"deduped": true})
		return
	}
	writeOK(w, map[string]any{
		"decision": outcome.Decision,
		"sinks":    outcome.Sinks,
	})
}

type leadRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	BusinessName string `json:"business_name"`
	PackageType  string `json:"package_type"`
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	var lead leadRequest
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	fields := map[string]any{
		"received_at": time.Now().UTC().Format(time.RFC3339),
		"lead":        lead,
	}

	if s.crm != nil {
		name := lead.Name
		if name == "" {
			name = "Unknown"
		}
		leadID, err := s.crm.InsertOne(r.Context(), "Lead", map[string]any{
			"LastName":   name,
			"Company":    lead.BusinessName,
			"Email":      lead.Email,
			"Phone":      lead.Phone,
			"LeadSource": "Intake Form",
		})
		if err != nil {
			zap.L().Warn("crm lead push failed", zap.Error(err))
		} else {
			fields["lead_id"] = leadID
		}
	}

	writeOK(w, fields)
}

func (s *Server) handleWebCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AgentID string `json:"agent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	if req.AgentID == "" {
		req.AgentID = s.defaultAgentID
	}

	wc, err := s.workflow.WebCall(r.Context(), req.AgentID)
	if err != nil {
		var valErr *provision.ValidationError
		if errors.As(err, &valErr) {
			writeError(w, http.StatusBadRequest, "Web call failed", valErr.Error())
			return
		}
		zap.L().Error("web call failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "Web call failed", err.Error())
		return
	}

	writeOK(w, map[string]any{
		"access_token": wc.AccessToken,
		"call_id":      wc.CallID,
		"agent_id":     wc.AgentID,
	})
}

func (s *Server) handleCalls(w http.ResponseWriter, r *http.Request) {
	filter := calllog.Filter{
		Business: r.URL.Query().Get("business"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	records, err := s.store.List(r.Context(), filter)
	if err != nil {
		zap.L().Error("list calls failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Listing failed", err.Error())
		return
	}
	if records == nil {
		records = []calllog.Record{}
	}
	writeOK(w, map[string]any{"calls": records})
}

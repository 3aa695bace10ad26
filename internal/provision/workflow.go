// Package provision runs the ordered agent-creation sequence against the
// voice platform: create LLM, create agent, then (unless the request is a
// dry run) purchase and bind a phone number and optionally place an
// outbound call. LLM and agent failures abort; the phone step degrades to a
// placeholder so a working agent is never rolled back over a number.
package provision

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/frontdesk-ai/reception-cli/internal/facts"
	"github.com/frontdesk-ai/reception-cli/internal/intake"
	"github.com/frontdesk-ai/reception-cli/internal/prompt"
	"github.com/frontdesk-ai/reception-cli/pkg/retell"
)

// PhonePlaceholder stands in for a number when the purchase step failed and
// a later retry will assign one.
const PhonePlaceholder = "Provisioning..."

// DryRunPhone stands in for a number on dry-run requests, where no purchase
// is attempted.
const DryRunPhone = "(dry run)"

// Timeouts bounds each remote call.
type Timeouts struct {
	LLM   time.Duration
	Agent time.Duration
	Phone time.Duration
	Bind  time.Duration
	Call  time.Duration
}

// DefaultTimeouts mirror the platform's own request budget: the slow,
// non-essential phone step gets the longest leash.
var DefaultTimeouts = Timeouts{
	LLM:   12 * time.Second,
	Agent: 12 * time.Second,
	Phone: 12 * time.Second,
	Bind:  7 * time.Second,
	Call:  15 * time.Second,
}

// Request is one fully prepared provisioning job.
type Request struct {
	Sub     intake.Submission
	Facts   facts.WebsiteFacts
	Excerpt string
}

// AgentResult records one provisioned role.
type AgentResult struct {
	Name         string `json:"name"`
	RoleID       string `json:"role_id"`
	RoleDisplay  string `json:"role_display"`
	LLMID        string `json:"llm_id"`
	AgentID      string `json:"agent_id"`
	AgentVersion int    `json:"agent_version"`
	PhoneNumber  string `json:"phone_number"`
}

// Result aggregates a whole provisioning run. Agents holds every role in
// lineup order; the receptionist is always first and serves as the primary.
type Result struct {
	Package        intake.PackageType `json:"package"`
	DryRun         bool               `json:"dry_run"`
	Agents         []AgentResult      `json:"agents"`
	OutboundCallID string             `json:"outbound_call_id,omitempty"`
}

// Primary returns the receptionist line's result.
func (r *Result) Primary() AgentResult {
	for _, a := range r.Agents {
		if a.RoleID == prompt.Receptionist.ID {
			return a
		}
	}
	return r.Agents[0]
}

// Workflow orchestrates provisioning against a Retell client.
type Workflow struct {
	client   retell.Client
	timeouts Timeouts
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithTimeouts overrides the per-call timeouts.
func WithTimeouts(t Timeouts) Option {
	return func(w *Workflow) { w.timeouts = t }
}

// New creates a Workflow.
func New(client retell.Client, opts ...Option) *Workflow {
	w := &Workflow{client: client, timeouts: DefaultTimeouts}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Provision runs the full sequence for every role in the package lineup.
// Dry-run requests stop after agent creation: no phone number is purchased
// and no call is placed.
func (w *Workflow) Provision(ctx context.Context, req Request) (*Result, error) {
	sub := req.Sub
	blocks := prompt.Blocks(sub)
	roles := prompt.Lineup(sub.Profile.PackageType)

	result := &Result{
		Package: sub.Profile.PackageType,
		DryRun:  sub.DryRun,
	}

	for _, role := range roles {
		spec := prompt.Compose(prompt.Input{
			Sub:     sub,
			Role:    role,
			Facts:   req.Facts,
			Excerpt: req.Excerpt,
			Blocks:  blocks,
		})

		agent, err := w.createAgent(ctx, sub, spec)
		if err != nil {
			return nil, err
		}
		agent.Name = role.Name
		agent.RoleID = role.ID
		agent.RoleDisplay = role.Display
		agent.PhoneNumber = DryRunPhone
		result.Agents = append(result.Agents, agent)
	}

	if sub.DryRun {
		zap.L().Info("dry run: skipping phone purchase and binding",
			zap.String("business", sub.Profile.BusinessName),
			zap.Int("agents", len(result.Agents)))
		return result, nil
	}

	for i := range result.Agents {
		phone, err := w.acquirePhone(ctx, sub, result.Agents[i])
		if err != nil {
			return nil, err
		}
		result.Agents[i].PhoneNumber = phone
	}

	if sub.CallMode == "outbound" && sub.DestinationNumber != intake.Sentinel {
		callID, err := w.placeOutboundCall(ctx, sub, result.Primary())
		if err != nil {
			zap.L().Warn("outbound call failed",
				zap.String("to", sub.DestinationNumber),
				zap.Error(err))
		} else {
			result.OutboundCallID = callID
		}
	}

	return result, nil
}

// createAgent runs the two fatal steps: LLM creation and agent creation.
func (w *Workflow) createAgent(ctx context.Context, sub intake.Submission, spec prompt.AgentSpec) (AgentResult, error) {
	llmCtx, cancel := context.WithTimeout(ctx, w.timeouts.LLM)
	defer cancel()
	llm, err := w.client.CreateLLM(llmCtx, retell.CreateLLMRequest{
		GeneralPrompt: spec.PromptText,
		Model:         sub.Model,
		BeginMessage:  spec.GreetingText,
	})
	if err != nil {
		return AgentResult{}, eris.Wrap(err, "provision: create llm")
	}
	llmID := llm.ResolveID()
	if llmID == "" {
		return AgentResult{}, eris.New("provision: llm creation returned no llm_id")
	}

	agentCtx, cancel := context.WithTimeout(ctx, w.timeouts.Agent)
	defer cancel()
	agent, err := w.client.CreateAgent(agentCtx, retell.CreateAgentRequest{
		AgentName:      spec.AgentName,
		VoiceID:        spec.VoiceID,
		ResponseEngine: retell.ResponseEngine{Type: "retell-llm", LLMID: llmID},
		Metadata:       spec.Metadata,
	})
	if err != nil {
		return AgentResult{}, eris.Wrap(err, "provision: create agent")
	}
	agentID := agent.ResolveID()
	if agentID == "" {
		return AgentResult{}, eris.New("provision: agent creation returned no agent_id")
	}

	return AgentResult{
		LLMID:        llmID,
		AgentID:      agentID,
		AgentVersion: agent.Version,
	}, nil
}

// acquirePhone buys and binds a number for one agent. Remote failures
// degrade to the placeholder and the agent itself is kept; a
// ConfigurationError from binding is a precondition violation and
// propagates.
func (w *Workflow) acquirePhone(ctx context.Context, sub intake.Submission, agent AgentResult) (string, error) {
	phoneCtx, cancel := context.WithTimeout(ctx, w.timeouts.Phone)
	defer cancel()

	areaCode, _ := strconv.Atoi(sub.AreaCode)

	pn, err := w.client.CreatePhoneNumber(phoneCtx, retell.CreatePhoneNumberRequest{
		AreaCode: areaCode,
		Nickname: fmt.Sprintf("%s - %s (%s)", sub.Profile.BusinessName, agent.Name, agent.RoleDisplay),
	})
	if err != nil {
		zap.L().Warn("phone purchase failed",
			zap.String("agent_id", agent.AgentID),
			zap.String("area_code", sub.AreaCode),
			zap.Error(err))
		return PhonePlaceholder, nil
	}

	number, err := w.BindPhone(ctx, agent.AgentID, pn)
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			return "", err
		}
		zap.L().Warn("phone binding failed",
			zap.String("agent_id", agent.AgentID),
			zap.Error(err))
		return PhonePlaceholder, nil
	}
	return number, nil
}

// BindPhone attaches a purchased number to an agent for both call
// directions. It tries the E.164 representation first and falls back to the
// internal identifier; having neither is a configuration error, not a
// remote failure.
func (w *Workflow) BindPhone(ctx context.Context, agentID string, pn *retell.PhoneNumber) (string, error) {
	number := pn.ResolveNumber()
	phoneID := pn.ResolveID()
	if number == "" && phoneID == "" {
		return "", &ConfigurationError{Reason: "phone response carries neither phone_number nor phone_number_id"}
	}

	update := retell.UpdatePhoneNumberRequest{
		InboundAgentID:  agentID,
		OutboundAgentID: agentID,
	}

	if number != "" {
		bindCtx, cancel := context.WithTimeout(ctx, w.timeouts.Bind)
		err := w.client.UpdatePhoneNumber(bindCtx, number, update)
		cancel()
		if err == nil {
			return number, nil
		}
		zap.L().Warn("bind by number failed, retrying by id",
			zap.String("number", number),
			zap.Error(err))
	}

	if phoneID == "" {
		return "", eris.New("provision: bind by number failed and no phone_number_id to fall back on")
	}

	bindCtx, cancel := context.WithTimeout(ctx, w.timeouts.Bind)
	defer cancel()
	if err := w.client.UpdatePhoneNumber(bindCtx, phoneID, update); err != nil {
		return "", eris.Wrap(err, "provision: bind by id")
	}
	if number == "" {
		number = "(assigned)"
	}
	return number, nil
}

func (w *Workflow) placeOutboundCall(ctx context.Context, sub intake.Submission, primary AgentResult) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, w.timeouts.Call)
	defer cancel()

	from := ""
	if primary.PhoneNumber != PhonePlaceholder && primary.PhoneNumber != DryRunPhone {
		from = primary.PhoneNumber
	}

	call, err := w.client.CreatePhoneCall(callCtx, retell.CreatePhoneCallRequest{
		FromNumber:      from,
		ToNumber:        sub.DestinationNumber,
		OverrideAgentID: primary.AgentID,
		DynamicVariables: map[string]string{
			"business_name": sub.Profile.BusinessName,
			"contact_name":  sub.Profile.ContactName,
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "provision: create outbound call")
	}
	return call.CallID, nil
}

// WebCall creates a browser call session for an existing agent.
func (w *Workflow) WebCall(ctx context.Context, agentID string) (*retell.WebCall, error) {
	if agentID == "" {
		return nil, &ValidationError{Field: "agent_id", Reason: "no agent identifier available"}
	}

	callCtx, cancel := context.WithTimeout(ctx, w.timeouts.Call)
	defer cancel()
	wc, err := w.client.CreateWebCall(callCtx, retell.CreateWebCallRequest{AgentID: agentID})
	if err != nil {
		return nil, eris.Wrap(err, "provision: create web call")
	}
	return wc, nil
}

// Package prompt assembles agent instruction text from a resolved submission,
// derived website facts, and per-capability protocol blocks. The prompt is an
// ordered list of named sections, each with its own inclusion predicate, so
// individual sections stay testable.
package prompt

import (
	"fmt"
	"strings"

	"github.com/frontdesk-ai/reception-cli/internal/facts"
	"github.com/frontdesk-ai/reception-cli/internal/intake"
)

// excerptLimit bounds the raw website text quoted into a prompt.
const excerptLimit = 800

// Input carries everything one composition needs.
type Input struct {
	Sub     intake.Submission
	Role    Role
	Facts   facts.WebsiteFacts
	Excerpt string
	Blocks  []ProtocolBlock
}

// AgentSpec is the finalized configuration submitted to the voice platform.
type AgentSpec struct {
	AgentName    string
	PromptText   string
	GreetingText string
	VoiceID      string
	Metadata     map[string]string
}

type section struct {
	name    string
	include func(Input) bool
	render  func(Input) string
}

func always(Input) bool { return true }

var sections = []section{
	{"mission", always, renderMission},
	{"global_protocol", always, renderGlobalProtocol},
	{"business_profile", always, renderProfile},
	{"website_facts", func(in Input) bool { return !in.Facts.Empty() }, renderFacts},
	{"website_excerpt", func(in Input) bool { return in.Excerpt != "" }, renderExcerpt},
	{"scheduling", always, renderScheduling},
	{"emergency", blockIncluded(BlockEmergency), blockRenderer(BlockEmergency, "EMERGENCY DISPATCH PROTOCOL")},
	{"intake", blockIncluded(BlockIntake), blockRenderer(BlockIntake, "JOB INTAKE PROTOCOL")},
	{"lead_revival", blockIncluded(BlockLeadRevival), blockRenderer(BlockLeadRevival, "LEAD REVIVAL PROTOCOL")},
	{"closing", always, renderClosing},
}

// Compose renders every applicable section in order and resolves the
// business-name placeholder across the whole text.
func Compose(in Input) AgentSpec {
	var parts []string
	for _, s := range sections {
		if !s.include(in) {
			continue
		}
		if text := strings.TrimSpace(s.render(in)); text != "" {
			parts = append(parts, text)
		}
	}

	bizName := in.Sub.Profile.BusinessName
	text := strings.ReplaceAll(strings.Join(parts, "\n\n"), "{{business_name}}", bizName)

	greeting := in.Sub.Greeting
	if greeting == "" {
		greeting = fmt.Sprintf("Thanks for calling %s, this is %s. How can I help you today?", bizName, in.Role.Name)
	}

	return AgentSpec{
		AgentName:    fmt.Sprintf("%s - %s (%s)", bizName, in.Role.Name, in.Role.Display),
		PromptText:   text,
		GreetingText: greeting,
		VoiceID:      in.Sub.Profile.VoiceID,
		Metadata:     metadata(in),
	}
}

func metadata(in Input) map[string]string {
	return map[string]string{
		"business_name": in.Sub.Profile.BusinessName,
		"client_email":  metaValue(in.Sub.Profile.ContactEmail),
		"notify_phone":  metaValue(in.Sub.NotifyPhone),
		"role_id":       in.Role.ID,
		"role_display":  in.Role.Display,
	}
}

func metaValue(v string) string {
	if v == intake.Sentinel {
		return ""
	}
	return v
}

func renderMission(in Input) string {
	return in.Role.Mission
}

const globalProtocol = `GLOBAL STAFF PROTOCOL (MANDATORY):
- Identity: You are a member of the office team at {{business_name}}.
- AI Disclosure: Do NOT volunteer that you are an AI. If explicitly asked "Are you a robot/AI?", say: "Yes, I am an AI assistant helping the team handle calls. I can help you now or take a detailed message for the office."
- Pricing: Never provide exact quotes or binding prices. Say: "Pricing depends on the job requirements; our team will provide a formal estimate after reviewing your details."
- Safety: Do not provide medical, legal, or technical safety advice. In life-threatening emergencies, instruct the caller to hang up and dial 911.
- Style: Stay in character. Use a warm, professional, and efficient tone. Never fabricate information; if something is unknown, say so and take a message.`

func renderGlobalProtocol(Input) string {
	return globalProtocol
}

func renderProfile(in Input) string {
	p := in.Sub.Profile
	var b strings.Builder
	b.WriteString("BUSINESS PROFILE:\n")
	for _, f := range []struct{ label, value string }{
		{"Business name", p.BusinessName},
		{"Website", p.Website},
		{"Hours", p.BusinessHours},
		{"Services", p.Services},
		{"Service area", p.ServiceArea},
		{"Time zone", p.TimeZone},
		{"Contact", p.ContactName},
		{"Notes", p.ExtraNotes},
	} {
		fmt.Fprintf(&b, "- %s: %s\n", f.label, f.value)
	}
	return b.String()
}

func renderFacts(in Input) string {
	var b strings.Builder
	b.WriteString("WEBSITE FACTS (use as your source of truth for hours, services, and coverage):\n")
	if len(in.Facts.Services) > 0 {
		fmt.Fprintf(&b, "- Services mentioned: %s\n", strings.Join(in.Facts.Services, ", "))
	}
	if len(in.Facts.ServiceArea) > 0 {
		fmt.Fprintf(&b, "- Areas served: %s\n", strings.Join(in.Facts.ServiceArea, ", "))
	}
	switch in.Facts.Serving {
	case facts.ServingBoth:
		b.WriteString("- Serves both residential and commercial customers\n")
	case facts.ServingResidential:
		b.WriteString("- Serves residential customers\n")
	case facts.ServingCommercial:
		b.WriteString("- Serves commercial customers\n")
	}
	return b.String()
}

func renderExcerpt(in Input) string {
	excerpt := in.Excerpt
	if len(excerpt) > excerptLimit {
		excerpt = excerpt[:excerptLimit]
	}
	return "WEBSITE EXCERPT (reference only; if a caller's statement conflicts with this text, the caller takes precedence):\n" + excerpt
}

func renderScheduling(in Input) string {
	b := findBlock(in.Blocks, BlockScheduling)
	if b.Enabled {
		return fmt.Sprintf(`SCHEDULING:
- Live booking is enabled. You may offer to schedule the caller and confirm an appointment using the booking link: %s
- Collect the caller's name, callback number, and service address before booking.`, b.BookingURL)
	}
	return `SCHEDULING:
- Scheduling is NOT enabled for this line.
- Collect the caller's name, callback number, and preferred appointment windows, and promise that a team member will call back to confirm.
- Do not confirm a specific time or date for any appointment.`
}

func blockIncluded(kind BlockKind) func(Input) bool {
	return func(in Input) bool { return findBlock(in.Blocks, kind).Enabled }
}

func blockRenderer(kind BlockKind, heading string) func(Input) string {
	return func(in Input) string {
		return heading + ":\n" + findBlock(in.Blocks, kind).Detail
	}
}

func renderClosing(Input) string {
	return `BEFORE ENDING THE CALL:
- Summarize the caller's name, number, and request back to them.
- Confirm the next step the office will take and thank them for calling.`
}

func findBlock(blocks []ProtocolBlock, kind BlockKind) ProtocolBlock {
	for _, b := range blocks {
		if b.Kind == kind {
			return b
		}
	}
	return ProtocolBlock{Kind: kind}
}

package intake

import "strings"

// PackageType identifies which staff lineup a client purchased.
type PackageType string

const (
	PackageReceptionist PackageType = "receptionist"
	PackageFullStaff    PackageType = "full_staff"
	PackageCustom       PackageType = "custom"
)

// BusinessProfile is the normalized view of a submission. Every field is a
// non-empty string or the Sentinel; downstream code never sees empty values.
type BusinessProfile struct {
	BusinessName  string
	Website       string
	BusinessHours string
	Services      string
	ServiceArea   string
	TimeZone      string
	ContactName   string
	ContactEmail  string
	ContactPhone  string
	ExtraNotes    string
	PackageType   PackageType
	VoiceID       string
}

// Submission is a fully resolved provisioning request: the business profile
// plus the capability details and workflow flags that ride alongside it.
type Submission struct {
	Profile BusinessProfile

	BusinessType string
	Greeting     string
	Model        string

	SchedulingDetails  string
	EmergencyDetails   string
	IntakeDetails      string
	LeadRevivalDetails string

	AreaCode          string
	NotifyPhone       string
	DestinationNumber string
	CallMode          string
	DryRun            bool
}

// Defaults supplies configured fallbacks applied during resolution.
type Defaults struct {
	VoiceID  string
	AreaCode string
	Model    string
}

// Resolve normalizes a raw record into a Submission. Each canonical field is
// resolved through the alias table exactly once.
func Resolve(r Record, d Defaults) Submission {
	profile := BusinessProfile{
		BusinessName:  fieldOr(r, "business_name", "Client Business"),
		Website:       NormalizeURL(r.Resolve(Aliases("website"), "")),
		BusinessHours: r.Field("business_hours"),
		Services:      r.Field("services"),
		ServiceArea:   r.Field("service_area"),
		TimeZone:      r.Field("time_zone"),
		ContactName:   r.Field("contact_name"),
		ContactEmail:  r.Field("contact_email"),
		ContactPhone:  r.Field("contact_phone"),
		ExtraNotes:    r.Field("extra_notes"),
		PackageType:   resolvePackage(r.Field("package_type")),
		VoiceID:       fieldOr(r, "voice_id", d.VoiceID),
	}

	model := r.Field("llm_model")
	if model == Sentinel {
		model = d.Model
	}

	greeting := r.Field("greeting")
	if greeting == Sentinel {
		greeting = ""
	}

	return Submission{
		Profile:            profile,
		BusinessType:       r.Field("business_type"),
		Greeting:           greeting,
		Model:              model,
		SchedulingDetails:  r.Field("scheduling_details"),
		EmergencyDetails:   r.Field("emergency_details"),
		IntakeDetails:      r.Field("intake_details"),
		LeadRevivalDetails: r.Field("lead_revival_details"),
		AreaCode:           r.InferAreaCode(d.AreaCode),
		NotifyPhone:        r.Field("notify_phone"),
		DestinationNumber:  r.Field("destination_number"),
		CallMode:           strings.ToLower(r.Field("call_mode")),
		DryRun:             r.DryRun(),
	}
}

// fieldOr resolves a canonical field but substitutes a non-sentinel default.
func fieldOr(r Record, field, fallback string) string {
	v := r.Field(field)
	if v == Sentinel && fallback != "" {
		return fallback
	}
	return v
}

// resolvePackage collapses the product-name spellings the order forms use
// into the canonical package enum. Anything mentioning a full or bundled
// staff is the full lineup; unrecognized names are custom.
func resolvePackage(raw string) PackageType {
	p := strings.ToLower(raw)
	switch {
	case strings.Contains(p, "full") || strings.Contains(p, "bundle") || strings.Contains(p, "digital_staff"):
		return PackageFullStaff
	case strings.Contains(p, "recep"), strings.Contains(p, "solo"), strings.Contains(p, "allie"), strings.Contains(p, "not provided"):
		return PackageReceptionist
	default:
		return PackageCustom
	}
}

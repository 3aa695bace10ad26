package prompt

import "github.com/frontdesk-ai/reception-cli/internal/intake"

// Role is one member of the canonical staff lineup. Missions reference the
// business by placeholder so one mission text serves every client.
type Role struct {
	Name    string
	Display string
	ID      string
	Mission string
}

var (
	Receptionist = Role{
		Name:    "Allie",
		Display: "AI Receptionist",
		ID:      "receptionist",
		Mission: "You are Allie, the AI Receptionist for {{business_name}}. Your job is to answer calls professionally, capture caller details, provide basic business info from WEBSITE FACTS, and route the caller to the correct next step. You do not overpromise; you set clear expectations and take excellent messages.",
	}
	IntakeSpecialist = Role{
		Name:    "Mia",
		Display: "Intake Specialist",
		ID:      "intake",
		Mission: "You are Mia, the Intake Specialist for {{business_name}}. Your job is to qualify leads and capture complete job details using structured questions (service type, location, urgency, timeline, key details). You organize the request so the team can respond quickly.",
	}
	Scheduler = Role{
		Name:    "Lexi",
		Display: "Scheduler",
		ID:      "scheduler",
		Mission: "You are Lexi, the Scheduler for {{business_name}}. Your job is to gather preferred appointment windows and scheduling details without overpromising. You collect what's needed for approval and explain the confirmation process clearly.",
	}
	Dispatcher = Role{
		Name:    "Sam",
		Display: "Dispatcher",
		ID:      "dispatcher",
		Mission: "You are Sam, the Dispatcher for {{business_name}}. Your job is to identify urgent situations, gather critical details fast, and follow the escalation protocol. If not urgent, you capture details and route to normal workflow.",
	}
)

var fullStaff = []Role{Receptionist, IntakeSpecialist, Scheduler, Dispatcher}

// Lineup returns the roles to provision for a package. Receptionist and
// custom packages get the receptionist alone; the full bundle gets all four.
func Lineup(pkg intake.PackageType) []Role {
	if pkg == intake.PackageFullStaff {
		return fullStaff
	}
	return []Role{Receptionist}
}

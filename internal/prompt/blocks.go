package prompt

import "github.com/frontdesk-ai/reception-cli/internal/intake"

// BlockKind names one operational capability covered by a protocol block.
type BlockKind string

const (
	BlockScheduling  BlockKind = "scheduling"
	BlockEmergency   BlockKind = "emergency"
	BlockIntake      BlockKind = "intake"
	BlockLeadRevival BlockKind = "lead_revival"
)

// ProtocolBlock is one independently enabled slice of the prompt. Scheduling
// enables only when its detail text resolves to a booking URL; the others
// enable whenever real detail text is present.
type ProtocolBlock struct {
	Kind    BlockKind
	Detail  string
	Enabled bool

	// BookingURL is set only for an enabled scheduling block.
	BookingURL string
}

// Blocks derives the four protocol blocks from a resolved submission.
func Blocks(sub intake.Submission) []ProtocolBlock {
	bookingURL := intake.NormalizeURL(sub.SchedulingDetails)
	scheduling := ProtocolBlock{
		Kind:    BlockScheduling,
		Detail:  sub.SchedulingDetails,
		Enabled: bookingURL != intake.Sentinel,
	}
	if scheduling.Enabled {
		scheduling.BookingURL = bookingURL
	}

	return []ProtocolBlock{
		scheduling,
		detailBlock(BlockEmergency, sub.EmergencyDetails),
		detailBlock(BlockIntake, sub.IntakeDetails),
		detailBlock(BlockLeadRevival, sub.LeadRevivalDetails),
	}
}

func detailBlock(kind BlockKind, detail string) ProtocolBlock {
	return ProtocolBlock{Kind: kind, Detail: detail, Enabled: detail != intake.Sentinel}
}

package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_FirstPresentAliasWins(t *testing.T) {
	r := Record{
		"biz_name": "Acme Paving",
		"company":  "Shadow Name",
	}

	got := r.Resolve([]string{"business_name", "biz_name", "company"}, "fallback")
	assert.Equal(t, "Acme Paving", got)

	// Swapping alias order changes the result only when both are present.
	got = r.Resolve([]string{"company", "biz_name"}, "fallback")
	assert.Equal(t, "Shadow Name", got)
}

func TestResolve_SkipsNilAndEmpty(t *testing.T) {
	r := Record{
		"business_name": "",
		"biz_name":      nil,
		"company":       "Acme HVAC",
	}

	got := r.Resolve([]string{"business_name", "biz_name", "company"}, "fallback")
	assert.Equal(t, "Acme HVAC", got)
}

func TestResolve_Fallback(t *testing.T) {
	r := Record{}
	assert.Equal(t, "fallback", r.Resolve([]string{"a", "b"}, "fallback"))
}

func TestResolve_UnwrapsOutputShape(t *testing.T) {
	r := Record{
		"website": map[string]any{"output": "https://acmepaving.com"},
		"hours":   map[string]any{"output": map[string]any{"output": "9-5"}},
		"notes":   map[string]any{"value": "no output key"},
	}

	assert.Equal(t, "https://acmepaving.com", r.Resolve([]string{"website"}, ""))
	assert.Equal(t, "9-5", r.Resolve([]string{"hours"}, ""))
	assert.Equal(t, "fallback", r.Resolve([]string{"notes"}, "fallback"))
}

func TestResolve_ScalarCoercion(t *testing.T) {
	r := Record{
		"area_code": float64(617),
		"flag":      true,
	}

	assert.Equal(t, "617", r.Resolve([]string{"area_code"}, ""))
	assert.Equal(t, "true", r.Resolve([]string{"flag"}, ""))
}

func TestDryRun(t *testing.T) {
	cases := []struct {
		name string
		rec  Record
		want bool
	}{
		{"bool true", Record{"is_test_mode": true}, true},
		{"string true", Record{"dry_run": "true"}, true},
		{"yes any case", Record{"is_test_mode": "YES"}, true},
		{"odd casing key", Record{"Is_Test_mode": "true"}, true},
		{"false", Record{"is_test_mode": "false"}, false},
		{"absent", Record{}, false},
		{"garbage", Record{"dry_run": "maybe"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.rec.DryRun())
		})
	}
}

func TestAliases_TableCoversCanonicalFields(t *testing.T) {
	for _, field := range []string{
		"business_name", "website", "business_hours", "services",
		"service_area", "time_zone", "contact_name", "contact_email",
		"contact_phone", "extra_notes", "package_type", "voice_id",
		"scheduling_details", "emergency_details", "intake_details",
		"lead_revival_details", "preferred_area_code", "notify_phone",
		"destination_number", "call_mode", "dry_run",
	} {
		require.NotEmpty(t, Aliases(field), "alias table missing %s", field)
	}
}

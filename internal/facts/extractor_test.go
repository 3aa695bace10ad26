package facts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractServices_HintBiased(t *testing.T) {
	text := "We offer drain cleaning, water heater installation, and sump pump repair. Free estimates on every job."
	f := Extract(text, "Plumbing Contractor")
	assert.Contains(t, f.Services, "drain cleaning")
	assert.Contains(t, f.Services, "water heater")
	assert.Contains(t, f.Services, "sump pump")
	assert.Contains(t, f.Services, "free estimate")
	assert.NotContains(t, f.Services, "sealcoating")
}

func TestExtractServices_InferredCategory(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"paving wins first", "Asphalt repair and drain cleaning done right.", "asphalt repair"},
		{"plumbing next", "Drain cleaning and furnace repair specialists.", "drain cleaning"},
		{"hvac last", "Heating and cooling experts, boiler service and thermostat tune ups.", "heating"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Extract(tt.text, "")
			assert.Contains(t, f.Services, tt.want)
		})
	}
}

func TestKeywordPresent_LongestWordFallback(t *testing.T) {
	// "sealcoating services" never appears verbatim but the distinctive
	// word does.
	assert.True(t, keywordPresent("professional sealcoating in your area", "sealcoating"))
	assert.True(t, keywordPresent("our resurfacing crews", "resurfacing"))
	// Short words never match alone.
	assert.False(t, keywordPresent("we pump water", "sump pump"))
}

func TestExtractServices_Cap(t *testing.T) {
	text := "heating cooling air conditioning furnace repair heat pump duct cleaning " +
		"boiler service thermostat installation repair installation maintenance " +
		"service emergency service free estimate free quote"
	f := Extract(text, "hvac")
	assert.Len(t, f.Services, maxServices)
}

func TestExtractServiceArea_IncludingPattern(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			"and surrounding",
			"Proudly serving the region including Boston, Worcester and surrounding areas.",
			[]string{"Boston", "Worcester"},
		},
		{
			"trailing period",
			"We cover many towns including Springfield.",
			[]string{"Springfield"},
		},
		{
			"and-joined list",
			"Serving communities including Quincy and Braintree and surrounding towns.",
			[]string{"Quincy", "Braintree"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Extract(tt.text, "")
			assert.Equal(t, tt.want, f.ServiceArea)
		})
	}
}

func TestExtractServiceArea_CapitalizedPairs(t *testing.T) {
	f := Extract("Serving Fall River, New Bedford and beyond since 1995.", "")
	assert.Contains(t, f.ServiceArea, "Fall River")
	assert.Contains(t, f.ServiceArea, "New Bedford")
}

func TestExtractServiceArea_DedupAndCase(t *testing.T) {
	f := Extract("including BOSTON, Worcester and surrounding areas. Boston, Worcester crews on call.", "")
	assert.Equal(t, []string{"Boston", "Worcester"}, f.ServiceArea)
}

func TestExtractServing(t *testing.T) {
	tests := []struct {
		text string
		want ServingMode
	}{
		{"residential and commercial paving", ServingBoth},
		{"residential driveways only", ServingResidential},
		{"commercial parking lots", ServingCommercial},
		{"we pave things", ServingUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Extract(tt.text, "").Serving, tt.text)
	}
}

func TestEmpty(t *testing.T) {
	assert.True(t, Extract("nothing relevant here", "").Empty())
	assert.False(t, Extract("residential heating", "hvac").Empty())
}

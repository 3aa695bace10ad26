package facts

// tradeKeywords maps a trade category to the service phrases worth surfacing
// in an agent prompt. Phrases are lowercase; matching also accepts the
// longest word of a phrase so compound mentions still hit.
var tradeKeywords = map[string][]string{
	"hvac": {
		"heating", "cooling", "air conditioning", "furnace repair",
		"heat pump", "duct cleaning", "boiler service", "thermostat installation",
	},
	"plumbing": {
		"drain cleaning", "water heater", "leak repair", "pipe replacement",
		"sump pump", "sewer line", "faucet installation", "garbage disposal",
	},
	"paving": {
		"driveway paving", "asphalt repair", "sealcoating", "line striping",
		"resurfacing", "crack filling", "parking lot paving",
	},
	"roofing": {
		"roof replacement", "shingle repair", "gutter installation",
		"roof leak repair", "flashing", "skylight installation",
	},
	"electrical": {
		"panel upgrade", "rewiring", "lighting installation",
		"generator installation", "ev charger installation", "ceiling fan installation",
	},
}

// genericKeywords apply to every trade.
var genericKeywords = []string{
	"repair", "installation", "maintenance", "service",
	"emergency service", "free estimate", "free quote",
}

// inferencePriority is the fixed order categories are probed in when no
// business-type hint matches; the first category with any keyword present
// in the text wins.
var inferencePriority = []string{"paving", "plumbing", "hvac"}

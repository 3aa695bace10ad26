// Package facts pulls service keywords, coverage areas, and customer-type
// signals out of plain website text so prompts can cite what the business
// actually advertises.
package facts

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ServingMode classifies the customer base a site advertises to.
type ServingMode string

const (
	ServingResidential ServingMode = "residential"
	ServingCommercial  ServingMode = "commercial"
	ServingBoth        ServingMode = "both"
	ServingUnknown     ServingMode = ""
)

// WebsiteFacts is the structured digest of one site's text.
type WebsiteFacts struct {
	Services    []string
	ServiceArea []string
	Serving     ServingMode
}

// Empty reports whether extraction found nothing usable.
func (f WebsiteFacts) Empty() bool {
	return len(f.Services) == 0 && len(f.ServiceArea) == 0 && f.Serving == ServingUnknown
}

const (
	maxServices   = 12
	maxPlaces     = 10
	minPlaceLen   = 3
	maxPairGroups = 2
)

var titleCaser = cases.Title(language.English)

// Extract digests site text. typeHint is the business type from intake when
// known; it biases keyword selection toward that trade's vocabulary.
func Extract(text, typeHint string) WebsiteFacts {
	lower := strings.ToLower(text)
	return WebsiteFacts{
		Services:    extractServices(lower, typeHint),
		ServiceArea: extractServiceArea(text),
		Serving:     extractServing(lower),
	}
}

func extractServices(lower, typeHint string) []string {
	category := matchCategory(strings.ToLower(typeHint))
	if category == "" {
		category = inferCategory(lower)
	}

	candidates := append([]string{}, tradeKeywords[category]...)
	candidates = append(candidates, genericKeywords...)

	var found []string
	seen := map[string]bool{}
	for _, kw := range candidates {
		if len(found) == maxServices {
			break
		}
		if seen[kw] || !keywordPresent(lower, kw) {
			continue
		}
		seen[kw] = true
		found = append(found, kw)
	}
	return found
}

// matchCategory resolves a business-type hint to a known trade by substring
// in either direction, so "HVAC Contractor" and "heating" alike land on hvac.
func matchCategory(hint string) string {
	if hint == "" {
		return ""
	}
	for category := range tradeKeywords {
		if strings.Contains(hint, category) || strings.Contains(category, hint) {
			return category
		}
	}
	return ""
}

func inferCategory(lower string) string {
	for _, category := range inferencePriority {
		for _, kw := range tradeKeywords[category] {
			if keywordPresent(lower, kw) {
				return category
			}
		}
	}
	return ""
}

// keywordPresent accepts either the exact phrase or its longest word when
// that word is distinctive enough to stand alone.
func keywordPresent(lower, kw string) bool {
	if strings.Contains(lower, kw) {
		return true
	}
	longest := ""
	for _, word := range strings.Fields(kw) {
		if len(word) > len(longest) {
			longest = word
		}
	}
	if len(longest) < 5 {
		return false
	}
	return strings.Contains(lower, longest)
}

var (
	includingRe = regexp.MustCompile(`(?i)\bincluding\s+(.+?)(?:\s+and\s+surrounding|\s+surrounding|\s+areas?\b|\s+towns\b|\s+cities\b|\.)`)
	placePairRe = regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)?), ([A-Z][a-z]+(?: [A-Z][a-z]+)?)\b`)
	placeSplit  = regexp.MustCompile(`\s*(?:,|\band\b)\s*`)
)

func extractServiceArea(text string) []string {
	var places []string
	for _, m := range includingRe.FindAllStringSubmatch(text, -1) {
		places = append(places, placeSplit.Split(m[1], -1)...)
	}
	pairs := placePairRe.FindAllStringSubmatch(text, maxPairGroups)
	for _, m := range pairs {
		places = append(places, m[1], m[2])
	}

	var out []string
	seen := map[string]bool{}
	for _, p := range places {
		p = strings.TrimSpace(p)
		if len(p) < minPlaceLen {
			continue
		}
		p = titleCaser.String(strings.ToLower(p))
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
		if len(out) == maxPlaces {
			break
		}
	}
	return out
}

func extractServing(lower string) ServingMode {
	res := strings.Contains(lower, "residential")
	com := strings.Contains(lower, "commercial")
	switch {
	case res && com:
		return ServingBoth
	case res:
		return ServingResidential
	case com:
		return ServingCommercial
	}
	return ServingUnknown
}

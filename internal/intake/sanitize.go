package intake

import (
	"regexp"
	"strings"
)

// emptyish tokens the intake platform emits for fields the user left blank.
var emptyish = map[string]bool{
	"":             true,
	"[]":           true,
	"no data":      true,
	"/":            true,
	"null":         true,
	"not provided": true,
}

// Clean maps known empty-ish tokens to the Sentinel, decodes HTML entities,
// and collapses whitespace. Clean is idempotent.
func Clean(value string) string {
	s := DecodeEntities(value)
	s = collapseSpace(s)

	if emptyish[strings.ToLower(strings.TrimSpace(s))] {
		return Sentinel
	}

	// Partially-empty array stringification leaks "[]" into otherwise real
	// values; replace the artifact with the sentinel text.
	if strings.Contains(s, "[]") {
		s = collapseSpace(strings.ReplaceAll(s, "[]", Sentinel))
	}

	return s
}

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
)

// DecodeEntities decodes the HTML entities that survive form submission.
// Values re-submitted through the form pipeline arrive double-encoded
// ("&amp;amp;"), so decoding repeats until the text stops changing; each
// pass strictly shrinks the text, so the loop terminates.
func DecodeEntities(text string) string {
	for {
		next := entityReplacer.Replace(text)
		if next == text {
			return next
		}
		text = next
	}
}

var spaceRe = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

var (
	embeddedURLRe = regexp.MustCompile(`https?://[^\s"'<>)]+`)
	bareDomainRe  = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9.-]*\.[a-zA-Z]{2,}(/\S*)?$`)
)

// NormalizeURL extracts a usable URL from a raw submission value: a URL
// embedded in prose is pulled out, a bare domain gets an https scheme, and
// anything unusable becomes the Sentinel.
func NormalizeURL(raw any) string {
	s := strings.TrimSpace(unwrap(raw))
	if s == "" || emptyish[strings.ToLower(s)] {
		return Sentinel
	}

	if m := embeddedURLRe.FindString(s); m != "" {
		return strings.TrimRight(m, ".,;")
	}

	if bareDomainRe.MatchString(s) {
		return "https://" + s
	}

	if strings.HasPrefix(s, "http") {
		return s
	}

	return Sentinel
}

package intake

import "regexp"

var nonDigitRe = regexp.MustCompile(`\D`)

// DigitsOnly strips every non-digit character.
func DigitsOnly(s string) string {
	return nonDigitRe.ReplaceAllString(s, "")
}

// InferAreaCode picks the US area code to buy a number in. Priority:
// an explicit preferred_area_code, then the business phone's area code,
// then the configured default.
func (r Record) InferAreaCode(fallback string) string {
	preferred := DigitsOnly(r.Resolve(Aliases("preferred_area_code"), ""))
	if len(preferred) >= 3 {
		return preferred[:3]
	}

	d := DigitsOnly(r.Resolve(Aliases("contact_phone"), ""))
	switch {
	case len(d) == 10:
		return d[:3]
	case len(d) == 11 && d[0] == '1':
		return d[1:4]
	}

	return fallback
}

package utils

import "strings"

const countryCode = "84"

// NormalizePhone converts Vietnamese phone numbers to the canonical +84 form.
// A leading 0 is replaced by +84, a bare 84 prefix gets a +, and values that
// already carry +84 pass through. Anything else is returned unchanged: this is
// best-effort normalization, not validation.
func NormalizePhone(phone string) string {
	s := strings.TrimSpace(phone)
	switch {
	case strings.HasPrefix(s, "+"+countryCode):
		return s
	case strings.HasPrefix(s, "0") && isDigits(s):
		return "+" + countryCode + s[1:]
	case strings.HasPrefix(s, countryCode) && isDigits(s):
		return "+" + s
	default:
		return phone
	}
}

// DigitsOnly strips everything but 0-9, for loose phone comparison.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

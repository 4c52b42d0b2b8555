package analyzer

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,2}[-.\s]?)?(\(?\d{3}\)?[-.\s]?)\d{3}[-.\s]?\d{4}`)
)

// ExtractEmail returns the first e-mail address in text, or NotFound.
func ExtractEmail(text string) string {
	if m := emailPattern.FindString(text); m != "" {
		return m
	}
	return NotFound
}

// ExtractPhone returns the first phone number in text in canonical form, or
// NotFound.
func ExtractPhone(text string) string {
	m := phonePattern.FindString(text)
	if m == "" {
		return NotFound
	}
	return NormalizePhone(m)
}

// NormalizePhone rewrites a raw number into the 11-digit local mobile form
// (09XXXXXXXXX) where it can. Other numbers of 10 or more digits keep their
// last 10 digits, dropping any country code; shorter ones are returned as
// their digits.
func NormalizePhone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	switch n := len(digits); {
	case n == 11 && digits[0] == '0':
		return digits
	case n == 12 && strings.HasPrefix(digits, "63"):
		return "0" + digits[2:]
	case n >= 10 && digits[n-10] == '9':
		return "0" + digits[n-10:]
	case n >= 10:
		return digits[n-10:]
	case n == 0:
		return strings.TrimSpace(raw)
	default:
		return digits
	}
}

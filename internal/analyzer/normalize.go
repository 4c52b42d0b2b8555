package analyzer

import (
	"strings"
	"unicode"
)

// NotFound marks a contact field that could not be extracted.
const NotFound = "Not found"

// ResumeRecord is one résumé after normalization and contact extraction.
type ResumeRecord struct {
	Name    string `json:"name"`
	Content string `json:"-"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// NewResumeRecord normalizes raw text and pulls contact details from it.
func NewResumeRecord(name, raw string) ResumeRecord {
	content := Normalize(raw)
	return ResumeRecord{
		Name:    name,
		Content: content,
		Email:   ExtractEmail(content),
		Phone:   ExtractPhone(content),
	}
}

// Normalize strips zero-width and control characters, then collapses every
// whitespace run to a single space. Stripping happens first so the result is
// a fixed point: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
			return -1
		}
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

package analyzer

import (
	"io"
	"log/slog"
	"testing"

	"resumescan/internal/errors"
	"resumescan/internal/taxonomy"
)

const testTaxonomy = `{
  "industryKeywords": {
    "technology": ["\\bsoftware\\b", "\\bdevelopers?\\b", "\\bcloud\\b"],
    "finance": ["\\bfinanc\\w*", "\\baccount\\w*", "\\baudit\\w*"]
  },
  "industrySkills": {
    "technology": {
      "technical": ["Python", "Docker", "Kubernetes", "AWS", "React", "Terraform", "GraphQL"],
      "soft": ["Communication", "Teamwork"],
      "certifications": ["CCNA"]
    },
    "finance": {
      "technical": ["Excel", "QuickBooks"],
      "soft": ["Integrity"],
      "certifications": ["CPA"]
    }
  }
}`

func newTestAnalyzer(t testing.TB) *Analyzer {
	t.Helper()
	tax, err := taxonomy.Parse([]byte(testTaxonomy))
	if err != nil {
		t.Fatalf("parse test taxonomy: %v", err)
	}
	return New(tax, DefaultSettings(), errors.NewLoggerWithWriter(io.Discard, slog.LevelError))
}

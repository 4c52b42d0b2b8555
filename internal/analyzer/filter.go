package analyzer

import (
	"fmt"
	"strings"
)

// Band selects results by the high/medium/low thresholds of a metric. The
// empty band selects everything.
type Band string

const (
	BandAll    Band = ""
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// ParseBand accepts high, medium, low, all or the empty string.
func ParseBand(s string) (Band, error) {
	switch b := Band(strings.ToLower(strings.TrimSpace(s))); b {
	case BandHigh, BandMedium, BandLow, BandAll:
		return b, nil
	case "all":
		return BandAll, nil
	default:
		return "", fmt.Errorf("invalid band %q (expected high, medium, low or all)", s)
	}
}

// SkillFilter selects results by which skills were found.
type SkillFilter string

const (
	SkillFilterAll            SkillFilter = ""
	SkillFilterTechnical      SkillFilter = "technical"
	SkillFilterSoft           SkillFilter = "soft"
	SkillFilterCertifications SkillFilter = "certifications"
	SkillFilterJobSpecific    SkillFilter = "jd_specific"
	SkillFilterNone           SkillFilter = "none"
)

// ParseSkillFilter accepts the SkillFilter names, all or the empty string.
func ParseSkillFilter(s string) (SkillFilter, error) {
	switch f := SkillFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case SkillFilterAll, SkillFilterTechnical, SkillFilterSoft, SkillFilterCertifications,
		SkillFilterJobSpecific, SkillFilterNone:
		return f, nil
	case "all":
		return SkillFilterAll, nil
	default:
		return "", fmt.Errorf("invalid skill filter %q (expected technical, soft, certifications, jd_specific, none or all)", s)
	}
}

// Filter narrows a result list. Zero fields do not filter.
type Filter struct {
	Score           Band
	Relevance       Band
	ExperienceLevel int
	Skills          SkillFilter
}

// IsZero reports whether the filter keeps every result.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Apply returns the results that pass every criterion, in input order.
func (f Filter) Apply(results []*Result) []*Result {
	if f.IsZero() {
		return results
	}
	out := make([]*Result, 0, len(results))
	for _, r := range results {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether r passes the filter.
func (f Filter) Match(r *Result) bool {
	if !scoreInBand(r.Score, f.Score) || !relevanceInBand(r.RelevanceScore, f.Relevance) {
		return false
	}
	if f.ExperienceLevel != 0 && r.ExperienceLevel != f.ExperienceLevel {
		return false
	}

	switch f.Skills {
	case SkillFilterTechnical:
		return len(r.FoundSkills.Technical) > 0
	case SkillFilterSoft:
		return len(r.FoundSkills.Soft) > 0
	case SkillFilterCertifications:
		return len(r.FoundSkills.Certifications) > 0
	case SkillFilterJobSpecific:
		return r.JDSkillMatches > 0
	case SkillFilterNone:
		return r.FoundSkills.Len() == 0
	}
	return true
}

func scoreInBand(score float64, b Band) bool {
	switch b {
	case BandHigh:
		return score >= 15
	case BandMedium:
		return score >= 8 && score < 15
	case BandLow:
		return score < 8
	}
	return true
}

func relevanceInBand(relevance float64, b Band) bool {
	switch b {
	case BandHigh:
		return relevance >= 70
	case BandMedium:
		return relevance >= 40 && relevance < 70
	case BandLow:
		return relevance < 40
	}
	return true
}

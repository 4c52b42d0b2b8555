package analyzer

import (
	"fmt"
	"strconv"
	"strings"
)

const noMatchSummary = "This resume doesn't match the job description. Consider adding relevant technical and soft skills."

const maxSummaryGaps = 5

// RelevanceBand classifies a relevance percentage.
func RelevanceBand(relevance float64) string {
	switch {
	case relevance >= 70:
		return "strong"
	case relevance >= 40:
		return "moderate"
	default:
		return "limited"
	}
}

// summarize builds the result's summary from its other fields. It only reads
// the result, so equal results produce equal text.
func summarize(r *Result) string {
	if r.FoundSkills.Len() == 0 {
		return noMatchSummary
	}

	var b strings.Builder
	fmt.Fprintf(&b, "This resume shows a score of %s with %s relevance (%s%%) to the job description. ",
		formatOneDecimal(r.Score), RelevanceBand(r.RelevanceScore), formatOneDecimal(r.RelevanceScore))

	switch r.JDSkillMatches {
	case 0:
	case 1:
		b.WriteString("It covers 1 skill named in the job description. ")
	default:
		fmt.Fprintf(&b, "It covers %d skills named in the job description. ", r.JDSkillMatches)
	}

	if r.GapAnalysis != nil && len(r.GapAnalysis.Technical) > 0 {
		gaps := r.GapAnalysis.Technical
		listed := gaps
		if len(listed) > maxSummaryGaps {
			listed = listed[:maxSummaryGaps]
		}
		fmt.Fprintf(&b, "Critical technical gaps: %s", strings.Join(listed, ", "))
		if extra := len(gaps) - len(listed); extra > 0 {
			fmt.Fprintf(&b, " and %d more", extra)
		}
		b.WriteString(". ")
	}

	if r.SalaryEstimate != nil {
		fmt.Fprintf(&b, "Estimated salary range is around %s. ", *r.SalaryEstimate)
	}
	if r.CultureMatch != nil {
		fmt.Fprintf(&b, "Culture fit score is %s. ", *r.CultureMatch)
	}

	return strings.TrimSpace(b.String())
}

func formatOneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

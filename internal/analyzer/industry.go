package analyzer

import (
	"strings"

	"resumescan/internal/taxonomy"
)

// detectIndustry scores each industry by keyword hits and returns the first
// industry with the strictly highest count. No hits at all selects the
// default industry.
func detectIndustry(tax *taxonomy.Taxonomy, jobDescription string) string {
	text := strings.ToLower(jobDescription)

	best := taxonomy.DefaultIndustry
	bestScore := 0
	for _, ind := range tax.Industries() {
		score := 0
		for _, re := range ind.Keywords {
			score += len(re.FindAllStringIndex(text, -1))
		}
		if score > bestScore {
			best, bestScore = ind.Name, score
		}
	}
	return best
}

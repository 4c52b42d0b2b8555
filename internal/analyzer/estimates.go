package analyzer

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultBaseSalary     int64 = 25000
	DefaultCurrencySymbol       = "₱"

	technicalSalaryBonus     int64 = 2000
	certificationSalaryBonus int64 = 3000
	softSalaryBonus          int64 = 500
	highValueSalaryBonus     int64 = 5000
)

// experienceMultiplierPct scales the salary by experience level, in percent.
// Levels outside the table use 100.
var experienceMultiplierPct = map[int]int64{
	1: 80,
	2: 100,
	3: 130,
	4: 160,
	5: 200,
}

var highValueKeywords = []string{
	"machine learning",
	"artificial intelligence",
	"blockchain",
	"cloud architecture",
	"kubernetes",
	"cybersecurity",
	"data science",
	"devops",
	"senior",
	"lead",
	"principal",
	"architect",
}

func countHighValueKeywords(jobLower string) int {
	n := 0
	for _, kw := range highValueKeywords {
		if strings.Contains(jobLower, kw) {
			n++
		}
	}
	return n
}

// estimateSalary returns the monthly estimate in whole currency units.
func estimateSalary(found SkillSet, experienceLevel, highValueHits int, base int64) int64 {
	total := base +
		technicalSalaryBonus*int64(len(found.Technical)) +
		certificationSalaryBonus*int64(len(found.Certifications)) +
		softSalaryBonus*int64(len(found.Soft)) +
		highValueSalaryBonus*int64(highValueHits)

	pct, ok := experienceMultiplierPct[experienceLevel]
	if !ok {
		pct = 100
	}
	return total * pct / 100
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount with thousands separators, e.g. ₱37,700.
func FormatAmount(symbol string, amount int64) string {
	return symbol + amountPrinter.Sprintf("%d", amount)
}

var standardCultureTraits = []string{
	"team", "collaborate", "integrity", "respect", "growth", "learning",
	"flexibility", "balance", "ownership", "transparency", "innovation", "communication",
}

var cultureVocabulary = regexp.MustCompile(
	`\b(?:diversity|inclusion|innovation|collaboration|teamwork|work-life balance|integrity|transparency|accountability|empathy|mission|values|autonomy)\b`)

// jobCultureKeywords lists culture words from the fixed vocabulary that the
// lower-cased job description mentions, in order of first mention.
func jobCultureKeywords(jobLower string) []string {
	set := newOrderedSet()
	for _, m := range cultureVocabulary.FindAllString(jobLower, -1) {
		set.add(m)
	}
	return set.items
}

// cultureFit returns a whole percentage. Traits named by the job description
// count an extra half on both sides of the ratio.
func cultureFit(resumeLower string, jobKeywords []string) int {
	traits := newOrderedSet()
	for _, t := range standardCultureTraits {
		traits.add(t)
	}
	for _, k := range jobKeywords {
		traits.add(k)
	}

	matches := 0
	for _, t := range traits.items {
		if strings.Contains(resumeLower, t) {
			matches++
		}
	}
	jobMatches := 0
	for _, k := range jobKeywords {
		if strings.Contains(resumeLower, k) {
			jobMatches++
		}
	}

	weighted := (float64(matches) + 0.5*float64(jobMatches)) /
		(float64(len(traits.items)) + 0.5*float64(len(jobKeywords)))
	return int(math.Round(weighted * 100))
}

func formatCultureFit(pct int) string {
	return fmt.Sprintf("%d%% Match", pct)
}

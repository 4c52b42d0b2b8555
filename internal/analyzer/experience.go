package analyzer

import (
	"regexp"
	"strconv"
)

var experienceYearPatterns = compileAll(
	`(?i)(\d+)\+?\s*(?:years?|yrs?)(?:\s+of)?\s+(?:experience|exp)\b`,
	`(?i)minimum\s+(?:of\s+)?(\d+)\s*(?:years?|yrs?)`,
	`(?i)at\s+least\s+(\d+)\s*(?:years?|yrs?)`,
	`(?i)(\d+)\s*[-–]\s*(\d+)\s*(?:years?|yrs?)`,
)

var seniorityLevels = []struct {
	pattern *regexp.Regexp
	level   int
}{
	{regexp.MustCompile(`(?i)\b(?:senior|lead|principal|architect)\b`), 5},
	{regexp.MustCompile(`(?i)\b(?:mid|intermediate)\b`), 3},
	{regexp.MustCompile(`(?i)\b(?:junior|entry|associate)\b`), 1},
}

const defaultExperienceLevel = 2

// EstimateExperience returns the years of experience a job description asks
// for. Explicit year counts win; otherwise seniority words decide.
func EstimateExperience(jobDescription string) int {
	most := 0
	for _, re := range experienceYearPatterns {
		for _, m := range re.FindAllStringSubmatch(jobDescription, -1) {
			for _, group := range m[1:] {
				if n, err := strconv.Atoi(group); err == nil && n > most {
					most = n
				}
			}
		}
	}
	if most >= 1 {
		return most
	}

	for _, s := range seniorityLevels {
		if s.pattern.MatchString(jobDescription) {
			return s.level
		}
	}
	return defaultExperienceLevel
}

// ExperienceLabel names an experience level for display.
func ExperienceLabel(level int) string {
	switch {
	case level <= 1:
		return "Entry Level"
	case level == 2:
		return "Junior"
	case level == 3:
		return "Mid Level"
	case level == 4:
		return "Senior"
	default:
		return "Lead/Principal"
	}
}

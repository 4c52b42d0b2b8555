package formatters

import (
	"encoding/csv"
	"strconv"
	"strings"
)

var csvHeaders = []string{
	"Name", "Email", "Phone", "Overall Score", "JD Relevance %",
	"Experience Level", "JD Skill Matches", "Technical Skills",
	"Soft Skills", "Certifications", "Estimated Salary", "Culture Fit",
}

// CSVFormatter writes one row per ranked candidate
type CSVFormatter struct{}

func (cf *CSVFormatter) Format(data any) (string, error) {
	report, _, err := reportOf(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	w := csv.NewWriter(&output)
	if err := w.Write(csvHeaders); err != nil {
		return "", err
	}
	for _, r := range report.Results {
		row := []string{
			r.Name,
			r.Email,
			r.Phone,
			strconv.FormatFloat(r.Score, 'f', -1, 64),
			strconv.FormatFloat(r.RelevanceScore, 'f', -1, 64),
			r.ExperienceLabel,
			strconv.Itoa(r.JDSkillMatches),
			strings.Join(r.FoundSkills.Technical, "; "),
			strings.Join(r.FoundSkills.Soft, "; "),
			strings.Join(r.FoundSkills.Certifications, "; "),
			notAvailable(r.SalaryEstimate),
			notAvailable(r.CultureMatch),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return output.String(), nil
}

func (cf *CSVFormatter) SupportedType() string {
	return TypeBatchReport
}

package formatters

import (
	"fmt"
	"strings"

	"resumescan/internal/analyzer"
)

// ReportTextFormatter handles text formatting for batch reports
type ReportTextFormatter struct{}

func (rtf *ReportTextFormatter) Format(data any) (string, error) {
	report, _, err := reportOf(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== RESUME ANALYSIS ===\n")
	output.WriteString(fmt.Sprintf("Batch: %s\n", report.ID))
	output.WriteString(fmt.Sprintf("Industry: %s%s\n", report.Industry, detectedSuffix(report.IndustryDetected)))
	output.WriteString(fmt.Sprintf("Required experience: %s\n\n", analyzer.ExperienceLabel(report.ExperienceLevel)))

	output.WriteString("=== STATISTICS ===\n")
	writeStatsText(&output, report.Stats)
	output.WriteString("\n")

	output.WriteString("=== CANDIDATES ===\n")
	for i, r := range report.Results {
		output.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, r.Name))
		output.WriteString(fmt.Sprintf("   Email: %s | Phone: %s\n", r.Email, r.Phone))
		output.WriteString(fmt.Sprintf("   Score: %.1f | Relevance: %.1f%% | Experience: %s\n",
			r.Score, r.RelevanceScore, r.ExperienceLabel))
		output.WriteString(fmt.Sprintf("   JD skill matches: %d\n", r.JDSkillMatches))
		output.WriteString(fmt.Sprintf("   Technical: %s\n", joinSkills(r.FoundSkills.Technical, ", ")))
		output.WriteString(fmt.Sprintf("   Soft: %s\n", joinSkills(r.FoundSkills.Soft, ", ")))
		output.WriteString(fmt.Sprintf("   Certifications: %s\n", joinSkills(r.FoundSkills.Certifications, ", ")))
		if r.GapAnalysis != nil {
			output.WriteString(fmt.Sprintf("   Missing: %s\n", joinSkills(r.GapAnalysis.All(), ", ")))
		}
		if r.SalaryEstimate != nil {
			output.WriteString(fmt.Sprintf("   Estimated salary: %s\n", *r.SalaryEstimate))
		}
		if r.CultureMatch != nil {
			output.WriteString(fmt.Sprintf("   Culture fit: %s\n", *r.CultureMatch))
		}
		output.WriteString(fmt.Sprintf("   %s\n", r.Summary))
	}

	if len(report.Skipped) > 0 {
		output.WriteString("\n=== SKIPPED ===\n")
		for _, s := range report.Skipped {
			output.WriteString(fmt.Sprintf("- %s: %s\n", s.Name, s.Reason))
		}
	}

	return output.String(), nil
}

func (rtf *ReportTextFormatter) SupportedType() string {
	return TypeBatchReport
}

// ReportMarkdownFormatter handles markdown formatting for batch reports
type ReportMarkdownFormatter struct{}

func (rmf *ReportMarkdownFormatter) Format(data any) (string, error) {
	report, _, err := reportOf(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Resume Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Industry:** %s%s  \n", report.Industry, detectedSuffix(report.IndustryDetected)))
	output.WriteString(fmt.Sprintf("**Required experience:** %s  \n", analyzer.ExperienceLabel(report.ExperienceLevel)))
	output.WriteString(fmt.Sprintf("**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))

	output.WriteString("## Statistics\n\n")
	output.WriteString("| Metric | Value |\n|---|---|\n")
	output.WriteString(fmt.Sprintf("| Resumes | %d |\n", report.Stats.TotalResumes))
	output.WriteString(fmt.Sprintf("| Average score | %.2f |\n", report.Stats.AvgScore))
	output.WriteString(fmt.Sprintf("| Average relevance | %.2f%% |\n", report.Stats.AvgRelevance))
	output.WriteString(fmt.Sprintf("| High relevance | %d |\n", report.Stats.HighRelevance))
	output.WriteString(fmt.Sprintf("| With certifications | %d |\n\n", report.Stats.WithCertifications))

	output.WriteString("## Ranking\n\n")
	output.WriteString("| # | Candidate | Score | Relevance | Experience | JD Matches |\n")
	output.WriteString("|---|---|---|---|---|---|\n")
	for i, r := range report.Results {
		output.WriteString(fmt.Sprintf("| %d | %s | %.1f | %.1f%% | %s | %d |\n",
			i+1, escapeCell(r.Name), r.Score, r.RelevanceScore, r.ExperienceLabel, r.JDSkillMatches))
	}
	output.WriteString("\n")

	for _, r := range report.Results {
		output.WriteString(fmt.Sprintf("## %s\n\n", r.Name))
		output.WriteString(fmt.Sprintf("**Score:** %.1f | **Relevance:** %.1f%%\n\n", r.Score, r.RelevanceScore))
		output.WriteString(fmt.Sprintf("- **Email:** %s\n", r.Email))
		output.WriteString(fmt.Sprintf("- **Phone:** %s\n", r.Phone))
		output.WriteString(fmt.Sprintf("- **Technical:** %s\n", joinSkills(r.FoundSkills.Technical, ", ")))
		output.WriteString(fmt.Sprintf("- **Soft:** %s\n", joinSkills(r.FoundSkills.Soft, ", ")))
		output.WriteString(fmt.Sprintf("- **Certifications:** %s\n", joinSkills(r.FoundSkills.Certifications, ", ")))
		if r.GapAnalysis != nil {
			output.WriteString(fmt.Sprintf("- **Missing:** %s\n", joinSkills(r.GapAnalysis.All(), ", ")))
		}
		if r.SalaryEstimate != nil {
			output.WriteString(fmt.Sprintf("- **Estimated salary:** %s\n", *r.SalaryEstimate))
		}
		if r.CultureMatch != nil {
			output.WriteString(fmt.Sprintf("- **Culture fit:** %s\n", *r.CultureMatch))
		}
		output.WriteString(fmt.Sprintf("\n%s\n\n", r.Summary))
	}

	if len(report.Skipped) > 0 {
		output.WriteString("## Skipped\n\n")
		for _, s := range report.Skipped {
			output.WriteString(fmt.Sprintf("- `%s`: %s\n", s.Name, s.Reason))
		}
	}

	return output.String(), nil
}

func (rmf *ReportMarkdownFormatter) SupportedType() string {
	return TypeBatchReport
}

func writeStatsText(output *strings.Builder, stats analyzer.BatchStats) {
	output.WriteString(fmt.Sprintf("Resumes analyzed: %d\n", stats.TotalResumes))
	output.WriteString(fmt.Sprintf("Average score: %.2f\n", stats.AvgScore))
	output.WriteString(fmt.Sprintf("Average relevance: %.2f%%\n", stats.AvgRelevance))
	output.WriteString(fmt.Sprintf("High relevance (70%%+): %d\n", stats.HighRelevance))
	output.WriteString(fmt.Sprintf("With technical skills: %d\n", stats.WithTechnicalSkills))
	output.WriteString(fmt.Sprintf("With soft skills: %d\n", stats.WithSoftSkills))
	output.WriteString(fmt.Sprintf("With certifications: %d\n", stats.WithCertifications))
}

func detectedSuffix(detected bool) string {
	if detected {
		return " (detected)"
	}
	return ""
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

package types

import (
	"resumescan/internal/analyzer"
	"resumescan/internal/taxonomy"
)

// ResumeInput is a résumé submitted inline in a JSON request
type ResumeInput struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// AnalyzeRequest represents the JSON body of an analysis request
type AnalyzeRequest struct {
	JobDescription string           `json:"jobDescription"`
	Industry       string           `json:"industry"`
	Options        analyzer.Options `json:"options"`
	Resumes        []ResumeInput    `json:"resumes"`
}

// AnalyzeOutput is a batch report together with the job description it was
// scored against
type AnalyzeOutput struct {
	*analyzer.BatchReport
	JobDescription string `json:"jobDescription"`
	// Filtered counts the results removed by result filters.
	Filtered int `json:"filtered,omitempty"`
}

// DetectIndustryRequest represents the body of an industry detection request
type DetectIndustryRequest struct {
	JobDescription string `json:"jobDescription"`
}

// DetectIndustryOutput names the industry detected for a job description
type DetectIndustryOutput struct {
	Industry string `json:"industry"`
}

// IndustrySkillsOutput lists the taxonomy skills of one industry
type IndustrySkillsOutput struct {
	Industry string              `json:"industry"`
	Known    bool                `json:"known"`
	Skills   taxonomy.SkillLists `json:"skills"`
}

// IndustryListOutput lists the taxonomy industries in order
type IndustryListOutput struct {
	Industries []string `json:"industries"`
}

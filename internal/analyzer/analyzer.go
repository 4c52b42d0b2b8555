// Package analyzer scores résumés against a job description using an
// industry skill taxonomy.
package analyzer

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"resumescan/internal/errors"
	"resumescan/internal/taxonomy"
)

const DefaultMinJobDescriptionLength = 10

const maxDeepPhrases = 20

// Options switch the optional parts of an analysis on.
type Options struct {
	SkillGaps      bool `json:"skillGaps"`
	SalaryInsights bool `json:"salaryInsights"`
	CultureFit     bool `json:"cultureFit"`
	DeepAnalysis   bool `json:"deepAnalysis"`
}

// Settings tune the analyzer.
type Settings struct {
	MinJobDescriptionLength int
	GapSkillCap             int
	BaseSalary              int64
	CurrencySymbol          string
	Workers                 int
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		MinJobDescriptionLength: DefaultMinJobDescriptionLength,
		GapSkillCap:             DefaultGapSkillCap,
		BaseSalary:              DefaultBaseSalary,
		CurrencySymbol:          DefaultCurrencySymbol,
		Workers:                 4,
	}
}

// Result is the analysis of one résumé.
type Result struct {
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	Phone           string        `json:"phone"`
	Industry        string        `json:"industry"`
	FoundSkills     SkillSet      `json:"foundSkills"`
	Score           float64       `json:"score"`
	RelevanceScore  float64       `json:"relevanceScore"`
	ExperienceLevel int           `json:"experienceLevel"`
	ExperienceLabel string        `json:"experienceLabel"`
	JDSkillMatches  int           `json:"jdSkillMatches"`
	GapAnalysis     *SkillSet     `json:"gapAnalysis"`
	SalaryEstimate  *string       `json:"salaryEstimate"`
	CultureMatch    *string       `json:"cultureMatch"`
	DeepAnalysis    *DeepAnalysis `json:"deepAnalysis"`
	Summary         string        `json:"summary"`
}

// DeepAnalysis explains how a score came about.
type DeepAnalysis struct {
	PatternVersion       string   `json:"patternVersion"`
	PhraseCount          int      `json:"phraseCount"`
	MatchedPhraseCount   int      `json:"matchedPhraseCount"`
	MatchedPhrases       []string `json:"matchedPhrases"`
	FromJobDescription   SkillSet `json:"fromJobDescription"`
	FromIndustry         SkillSet `json:"fromIndustry"`
	JobDescriptionSkills SkillSet `json:"jobDescriptionSkills"`
	CultureKeywords      []string `json:"cultureKeywords"`
	HighValueKeywords    int      `json:"highValueKeywords"`
	ResumeWordCount      int      `json:"resumeWordCount"`
}

// JobProfile is everything derived from a job description alone. It is built
// once per batch and shared read-only by every résumé analysis.
type JobProfile struct {
	Description     string
	Skills          JobSkills
	Phrases         []string
	ExperienceLevel int
	CultureKeywords []string
	HighValueHits   int
}

// Analyzer runs analyses against one taxonomy. It holds no mutable state and
// may be shared between goroutines.
type Analyzer struct {
	taxonomy *taxonomy.Taxonomy
	settings Settings
	logger   *errors.Logger
}

// New creates an analyzer. Unset settings fall back to defaults, except
// GapSkillCap where zero is a valid cap. A nil logger discards output.
func New(tax *taxonomy.Taxonomy, settings Settings, logger *errors.Logger) *Analyzer {
	defaults := DefaultSettings()
	if settings.MinJobDescriptionLength <= 0 {
		settings.MinJobDescriptionLength = defaults.MinJobDescriptionLength
	}
	if settings.BaseSalary <= 0 {
		settings.BaseSalary = defaults.BaseSalary
	}
	if settings.CurrencySymbol == "" {
		settings.CurrencySymbol = defaults.CurrencySymbol
	}
	if settings.Workers <= 0 {
		settings.Workers = defaults.Workers
	}
	if logger == nil {
		logger = errors.NewLoggerWithWriter(io.Discard, slog.LevelError)
	}
	return &Analyzer{taxonomy: tax, settings: settings, logger: logger}
}

// Taxonomy returns the taxonomy the analyzer scores against.
func (a *Analyzer) Taxonomy() *taxonomy.Taxonomy {
	return a.taxonomy
}

// DetectIndustry picks the industry whose keywords occur most often in the
// job description.
func (a *Analyzer) DetectIndustry(jobDescription string) string {
	return detectIndustry(a.taxonomy, jobDescription)
}

// ValidateJobDescription rejects descriptions too short to analyze.
func (a *Analyzer) ValidateJobDescription(jobDescription string) error {
	if len([]rune(strings.TrimSpace(jobDescription))) < a.settings.MinJobDescriptionLength {
		return errors.NewValidationError(errors.ErrCodeJobDescriptionTooShort,
			fmt.Sprintf("Job description is required and must be at least %d characters long",
				a.settings.MinJobDescriptionLength), nil)
	}
	return nil
}

// Profile validates a job description and derives its profile.
func (a *Analyzer) Profile(jobDescription string) (*JobProfile, error) {
	if err := a.ValidateJobDescription(jobDescription); err != nil {
		return nil, err
	}
	desc := Normalize(jobDescription)
	lower := strings.ToLower(desc)
	return &JobProfile{
		Description:     desc,
		Skills:          ExtractJobSkills(lower),
		Phrases:         jobPhrases(lower),
		ExperienceLevel: EstimateExperience(desc),
		CultureKeywords: jobCultureKeywords(lower),
		HighValueHits:   countHighValueKeywords(lower),
	}, nil
}

// ResolveIndustry returns the industry to score against: the detected one
// when industry is blank, the taxonomy's spelling when it is known, and the
// default industry otherwise. detected reports whether detection ran.
func (a *Analyzer) ResolveIndustry(industry, jobDescription string) (name string, detected bool) {
	if strings.TrimSpace(industry) == "" {
		return a.DetectIndustry(jobDescription), true
	}
	return a.taxonomy.Resolve(industry), false
}

// AnalyzeOne analyzes a single résumé. Blank résumé text is not an error: it
// yields a result with zero scores and no skills.
func (a *Analyzer) AnalyzeOne(resumeText, filename, industry, jobDescription string, opts Options) (*Result, error) {
	profile, err := a.Profile(jobDescription)
	if err != nil {
		return nil, err
	}
	name, _ := a.ResolveIndustry(industry, jobDescription)
	return a.Analyze(profile, name, NewResumeRecord(filename, resumeText), opts), nil
}

// Analyze scores a prepared résumé against a prepared job profile.
func (a *Analyzer) Analyze(profile *JobProfile, industry string, resume ResumeRecord, opts Options) *Result {
	resumeLower := strings.ToLower(resume.Content)
	industrySkills := a.taxonomy.SkillsFor(industry)

	match := matchSkills(resumeLower, profile.Skills, industrySkills, opts.SkillGaps, a.settings.GapSkillCap)
	relevanceScore, matchedPhrases := relevance(profile.Phrases, resumeLower)

	r := &Result{
		Name:            resume.Name,
		Email:           resume.Email,
		Phone:           resume.Phone,
		Industry:        industry,
		FoundSkills:     match.found,
		Score:           finalScore(match.found, match.jdSkillMatches, relevanceScore),
		RelevanceScore:  relevanceScore,
		ExperienceLevel: profile.ExperienceLevel,
		ExperienceLabel: ExperienceLabel(profile.ExperienceLevel),
		JDSkillMatches:  match.jdSkillMatches,
		GapAnalysis:     match.gaps,
	}

	if opts.SalaryInsights {
		amount := estimateSalary(match.found, profile.ExperienceLevel, profile.HighValueHits, a.settings.BaseSalary)
		salary := FormatAmount(a.settings.CurrencySymbol, amount)
		r.SalaryEstimate = &salary
	}
	if opts.CultureFit {
		culture := formatCultureFit(cultureFit(resumeLower, profile.CultureKeywords))
		r.CultureMatch = &culture
	}
	if opts.DeepAnalysis {
		shown := matchedPhrases
		if len(shown) > maxDeepPhrases {
			shown = shown[:maxDeepPhrases]
		}
		r.DeepAnalysis = &DeepAnalysis{
			PatternVersion:       JobSkillPatternVersion,
			PhraseCount:          len(profile.Phrases),
			MatchedPhraseCount:   len(matchedPhrases),
			MatchedPhrases:       append([]string{}, shown...),
			FromJobDescription:   match.fromJob.nonNil(),
			FromIndustry:         match.fromIndustry.nonNil(),
			JobDescriptionSkills: profile.Skills.SkillSet.nonNil(),
			CultureKeywords:      append([]string{}, profile.CultureKeywords...),
			HighValueKeywords:    profile.HighValueHits,
			ResumeWordCount:      len(wordPattern.FindAllStringIndex(resumeLower, -1)),
		}
	}

	r.Summary = summarize(r)
	return r
}

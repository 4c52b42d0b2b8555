package analyzer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"resumescan/internal/errors"
)

const highRelevanceThreshold = 70

// Document is one résumé handed to a batch. Err carries an extraction
// failure; such documents are skipped.
type Document struct {
	Name string
	Text string
	Err  error
}

// SkippedDocument records why a document produced no result.
type SkippedDocument struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// BatchStats aggregates a batch of results.
type BatchStats struct {
	TotalResumes        int     `json:"totalResumes"`
	AvgScore            float64 `json:"avgScore"`
	AvgRelevance        float64 `json:"avgRelevance"`
	WithTechnicalSkills int     `json:"withTechnicalSkills"`
	WithSoftSkills      int     `json:"withSoftSkills"`
	WithCertifications  int     `json:"withCertifications"`
	HighRelevance       int     `json:"highRelevance"`
}

// BatchReport is the outcome of AnalyzeBatch.
type BatchReport struct {
	ID               string            `json:"id"`
	GeneratedAt      time.Time         `json:"generatedAt"`
	Industry         string            `json:"industry"`
	IndustryDetected bool              `json:"industryDetected"`
	ExperienceLevel  int               `json:"experienceLevel"`
	JobSkills        SkillSet          `json:"jobSkills"`
	PatternVersion   string            `json:"patternVersion"`
	Options          Options           `json:"options"`
	Results          []*Result         `json:"results"`
	Stats            BatchStats        `json:"stats"`
	Skipped          []SkippedDocument `json:"skipped,omitempty"`
}

// AnalyzeBatch analyzes documents that share one job description. Documents
// run concurrently; blank or failed ones are skipped and listed in the
// report. Results are sorted best match first. The call fails when the job
// description is too short, when no document yields a result, or when ctx
// ends first.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, docs []Document, industry, jobDescription string, opts Options) (*BatchReport, error) {
	profile, err := a.Profile(jobDescription)
	if err != nil {
		return nil, err
	}
	industryName, detected := a.ResolveIndustry(industry, jobDescription)

	results := make([]*Result, len(docs))
	failures := make([]string, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.settings.Workers)
	for i, doc := range docs {
		switch {
		case doc.Err != nil:
			failures[i] = doc.Err.Error()
			continue
		case strings.TrimSpace(doc.Text) == "":
			failures[i] = "no text could be extracted"
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := a.analyzeSafely(profile, industryName, doc, opts)
			if err != nil {
				failures[i] = err.Error()
				return nil
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.NewAnalysisError(errors.ErrCodeAnalysisCancelled, "batch analysis interrupted", err)
	}

	report := &BatchReport{
		ID:               uuid.NewString(),
		GeneratedAt:      time.Now().UTC(),
		Industry:         industryName,
		IndustryDetected: detected,
		ExperienceLevel:  profile.ExperienceLevel,
		JobSkills:        profile.Skills.SkillSet.nonNil(),
		PatternVersion:   JobSkillPatternVersion,
		Options:          opts,
	}
	for i, r := range results {
		if r != nil {
			report.Results = append(report.Results, r)
			continue
		}
		report.Skipped = append(report.Skipped, SkippedDocument{Name: docs[i].Name, Reason: failures[i]})
		a.logger.Warn("Skipping resume", "name", docs[i].Name, "reason", failures[i])
	}

	if len(report.Results) == 0 {
		return nil, errors.NewAnalysisError(errors.ErrCodeNoValidResumes, "No valid resumes could be processed", nil).
			WithContext("documents", len(docs))
	}

	SortResults(report.Results)
	report.Stats = ComputeStats(report.Results)

	a.logger.Info("Batch analyzed",
		"batch_id", report.ID,
		"industry", industryName,
		"industry_detected", detected,
		"resumes", len(report.Results),
		"skipped", len(report.Skipped))
	return report, nil
}

// analyzeSafely turns a panic inside one résumé's analysis into an error so
// the rest of the batch still completes.
func (a *Analyzer) analyzeSafely(profile *JobProfile, industry string, doc Document, opts Options) (r *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("analysis failed: %v", p)
		}
	}()
	return a.Analyze(profile, industry, NewResumeRecord(doc.Name, doc.Text), opts), nil
}

// SortResults orders results by relevance, then score, both descending.
// Results equal on both keep their input order.
func SortResults(results []*Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].RelevanceScore != results[j].RelevanceScore {
			return results[i].RelevanceScore > results[j].RelevanceScore
		}
		return results[i].Score > results[j].Score
	})
}

// ComputeStats aggregates results. Averages are rounded to two decimals.
func ComputeStats(results []*Result) BatchStats {
	stats := BatchStats{TotalResumes: len(results)}
	if len(results) == 0 {
		return stats
	}

	var scoreSum, relevanceSum float64
	for _, r := range results {
		scoreSum += r.Score
		relevanceSum += r.RelevanceScore
		if len(r.FoundSkills.Technical) > 0 {
			stats.WithTechnicalSkills++
		}
		if len(r.FoundSkills.Soft) > 0 {
			stats.WithSoftSkills++
		}
		if len(r.FoundSkills.Certifications) > 0 {
			stats.WithCertifications++
		}
		if r.RelevanceScore >= highRelevanceThreshold {
			stats.HighRelevance++
		}
	}
	n := float64(len(results))
	stats.AvgScore = round2(scoreSum / n)
	stats.AvgRelevance = round2(relevanceSum / n)
	return stats
}

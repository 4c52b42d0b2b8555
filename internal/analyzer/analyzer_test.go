package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumescan/internal/errors"
	"resumescan/internal/taxonomy"
)

const backendJD = "We are hiring a senior software developer with 5+ years of experience in Python, Docker and AWS. " +
	"Strong communication and teamwork required. CCNA is a plus. We value innovation and diversity."

func TestDetectIndustry(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		name string
		jd   string
		want string
	}{
		{"finance only", "We need a financial analyst for audit and accounting work.", "finance"},
		{"technology", "Cloud software developer wanted", "technology"},
		{"no keywords", "Friendly barista for our cafe", taxonomy.DefaultIndustry},
		{"tie keeps first industry", "software audit", "technology"},
		{"finance outscores technology", "software audit for finance and accounting", "finance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.DetectIndustry(tt.jd))
		})
	}
}

func TestAnalyzeOne(t *testing.T) {
	a := newTestAnalyzer(t)
	resume := `Jane Doe
jane.doe@example.com | +63 917 123 4567
Python developer with Docker and Kubernetes. Known for communication, teamwork and innovation.`

	r, err := a.AnalyzeOne(resume, "jane.txt", "", backendJD, Options{})
	require.NoError(t, err)

	assert.Equal(t, "jane.txt", r.Name)
	assert.Equal(t, "jane.doe@example.com", r.Email)
	assert.Equal(t, "09171234567", r.Phone)
	assert.Equal(t, "technology", r.Industry)
	assert.Equal(t, 5, r.ExperienceLevel)
	assert.Equal(t, "Lead/Principal", r.ExperienceLabel)
	assert.Equal(t, []string{"python", "docker", "Kubernetes"}, r.FoundSkills.Technical)
	assert.Equal(t, []string{"communication", "teamwork"}, r.FoundSkills.Soft)
	assert.Empty(t, r.FoundSkills.Certifications)
	assert.Equal(t, 4, r.JDSkillMatches)
	assert.GreaterOrEqual(t, r.RelevanceScore, 0.0)
	assert.LessOrEqual(t, r.RelevanceScore, 100.0)
	assert.Equal(t, finalScore(r.FoundSkills, 4, r.RelevanceScore), r.Score)

	assert.Nil(t, r.GapAnalysis)
	assert.Nil(t, r.SalaryEstimate)
	assert.Nil(t, r.CultureMatch)
	assert.Nil(t, r.DeepAnalysis)
	assert.Contains(t, r.Summary, "It covers 4 skills named in the job description.")

	data, err := json.Marshal(r)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "gapAnalysis")
	assert.Nil(t, raw["gapAnalysis"], "disabled options serialize as null")
}

func TestAnalyzeOneWithAllOptions(t *testing.T) {
	a := newTestAnalyzer(t)
	opts := Options{SkillGaps: true, SalaryInsights: true, CultureFit: true, DeepAnalysis: true}

	r, err := a.AnalyzeOne("Python and Docker engineer, CCNA certified, values diversity", "x.txt", "technology", backendJD, opts)
	require.NoError(t, err)

	require.NotNil(t, r.GapAnalysis)
	assert.Contains(t, r.GapAnalysis.Technical, "aws")
	assert.NotContains(t, r.GapAnalysis.Technical, "python")

	require.NotNil(t, r.SalaryEstimate)
	assert.Regexp(t, `^₱\d{1,3}(,\d{3})*$`, *r.SalaryEstimate)
	require.NotNil(t, r.CultureMatch)
	assert.Regexp(t, `^\d+% Match$`, *r.CultureMatch)
	assert.Contains(t, r.Summary, "Estimated salary range is around "+*r.SalaryEstimate+".")
	assert.Contains(t, r.Summary, "Culture fit score is "+*r.CultureMatch+".")
	assert.Contains(t, r.Summary, "Critical technical gaps:")

	require.NotNil(t, r.DeepAnalysis)
	assert.Equal(t, JobSkillPatternVersion, r.DeepAnalysis.PatternVersion)
	assert.Equal(t, []string{"python", "docker"}, r.DeepAnalysis.FromJobDescription.Technical)
	assert.Equal(t, []string{"ccna"}, r.DeepAnalysis.FromJobDescription.Certifications)
	assert.Equal(t, []string{"teamwork", "innovation", "diversity"}, r.DeepAnalysis.CultureKeywords)
	assert.LessOrEqual(t, len(r.DeepAnalysis.MatchedPhrases), maxDeepPhrases)
}

func TestAnalyzeOneUnknownIndustryFallsBack(t *testing.T) {
	a := newTestAnalyzer(t)
	r, err := a.AnalyzeOne("Terraform and GraphQL", "x.txt", "aerospace", "Building rockets all day long", Options{})
	require.NoError(t, err)

	assert.Equal(t, taxonomy.DefaultIndustry, r.Industry)
	assert.Equal(t, []string{"Terraform", "GraphQL"}, r.FoundSkills.Technical)
}

func TestAnalyzeOneBlankResume(t *testing.T) {
	a := newTestAnalyzer(t)
	r, err := a.AnalyzeOne("  \n\t ", "blank.txt", "", backendJD, Options{SkillGaps: true})
	require.NoError(t, err)

	assert.Zero(t, r.Score)
	assert.Zero(t, r.RelevanceScore)
	assert.Zero(t, r.FoundSkills.Len())
	assert.Equal(t, NotFound, r.Email)
	assert.Equal(t, NotFound, r.Phone)
	assert.Equal(t, noMatchSummary, r.Summary)
}

func TestAnalyzeOneRejectsShortJobDescription(t *testing.T) {
	a := newTestAnalyzer(t)
	_, err := a.AnalyzeOne("Python", "x.txt", "", "  too short ", Options{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeJobDescriptionTooShort))
	assert.Equal(t, errors.ErrorTypeValidation, errors.TypeOf(err))
}

func TestAddingTechnicalSkillRaisesScore(t *testing.T) {
	a := newTestAnalyzer(t)
	jd := "Backend developer for our payments platform"

	base, err := a.AnalyzeOne("Python developer", "a.txt", "technology", jd, Options{})
	require.NoError(t, err)
	more, err := a.AnalyzeOne("Python developer Terraform", "b.txt", "technology", jd, Options{})
	require.NoError(t, err)

	assert.Greater(t, more.Score, base.Score)
}

func TestAnalyzeBatch(t *testing.T) {
	a := newTestAnalyzer(t)
	docs := []Document{
		{Name: "weak.txt", Text: "Barista with latte art skills"},
		{Name: "strong.txt", Text: backendJD},
		{Name: "empty.txt", Text: "   "},
		{Name: "broken.pdf", Err: fmt.Errorf("corrupt pdf")},
		{Name: "medium.txt", Text: "Python and Docker on AWS, good communication"},
	}

	report, err := a.AnalyzeBatch(context.Background(), docs, "", backendJD, Options{SkillGaps: true})
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	assert.Equal(t, "strong.txt", report.Results[0].Name)
	assert.Equal(t, 100.0, report.Results[0].RelevanceScore)
	assert.Equal(t, "medium.txt", report.Results[1].Name)
	assert.Equal(t, "weak.txt", report.Results[2].Name)

	require.Len(t, report.Skipped, 2)
	assert.Equal(t, "empty.txt", report.Skipped[0].Name)
	assert.Equal(t, "broken.pdf", report.Skipped[1].Name)
	assert.Equal(t, "corrupt pdf", report.Skipped[1].Reason)

	assert.Equal(t, "technology", report.Industry)
	assert.True(t, report.IndustryDetected)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 3, report.Stats.TotalResumes)
	assert.Equal(t, 2, report.Stats.WithTechnicalSkills)
	assert.Equal(t, 1, report.Stats.HighRelevance)
}

func TestAnalyzeBatchWithoutLogger(t *testing.T) {
	tax, err := taxonomy.Parse([]byte(testTaxonomy))
	require.NoError(t, err)
	a := New(tax, DefaultSettings(), nil)

	docs := []Document{
		{Name: "strong.txt", Text: backendJD},
		{Name: "empty.txt", Text: ""},
	}
	var report *BatchReport
	require.NotPanics(t, func() {
		report, err = a.AnalyzeBatch(context.Background(), docs, "", backendJD, Options{})
	})
	require.NoError(t, err)
	assert.Len(t, report.Results, 1)
	assert.Len(t, report.Skipped, 1)
}

func TestAnalyzeBatchErrorsAreDistinct(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx := context.Background()

	_, shortErr := a.AnalyzeBatch(ctx, []Document{{Name: "a.txt", Text: "Python"}}, "", "short", Options{})
	require.Error(t, shortErr)
	assert.True(t, errors.HasCode(shortErr, errors.ErrCodeJobDescriptionTooShort))

	_, noneErr := a.AnalyzeBatch(ctx, []Document{{Name: "a.txt", Text: ""}}, "", backendJD, Options{})
	require.Error(t, noneErr)
	assert.True(t, errors.HasCode(noneErr, errors.ErrCodeNoValidResumes))
	assert.Contains(t, noneErr.Error(), "No valid resumes could be processed")

	_, emptyErr := a.AnalyzeBatch(ctx, nil, "", backendJD, Options{})
	assert.True(t, errors.HasCode(emptyErr, errors.ErrCodeNoValidResumes))

	assert.NotEqual(t, errors.TypeOf(shortErr), errors.TypeOf(noneErr))
}

func TestAnalyzeBatchCancelled(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.AnalyzeBatch(ctx, []Document{{Name: "a.txt", Text: "Python"}}, "", backendJD, Options{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAnalysisCancelled))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSortResults(t *testing.T) {
	results := []*Result{
		{Name: "a", RelevanceScore: 90, Score: 10},
		{Name: "b", RelevanceScore: 90, Score: 20},
		{Name: "c", RelevanceScore: 50, Score: 99},
	}
	SortResults(results)

	got := make([][2]float64, len(results))
	for i, r := range results {
		got[i] = [2]float64{r.RelevanceScore, r.Score}
	}
	assert.Equal(t, [][2]float64{{90, 20}, {90, 10}, {50, 99}}, got)
}

func TestComputeStats(t *testing.T) {
	results := []*Result{
		{Score: 10, RelevanceScore: 80, FoundSkills: SkillSet{Technical: []string{"go"}, Soft: []string{"x"}}},
		{Score: 5, RelevanceScore: 30, FoundSkills: SkillSet{Certifications: []string{"pmp"}}},
		{Score: 0.5, RelevanceScore: 70},
	}
	stats := ComputeStats(results)

	assert.Equal(t, BatchStats{
		TotalResumes:        3,
		AvgScore:            5.17,
		AvgRelevance:        60,
		WithTechnicalSkills: 1,
		WithSoftSkills:      1,
		WithCertifications:  1,
		HighRelevance:       2,
	}, stats)

	assert.Equal(t, BatchStats{}, ComputeStats(nil))
}

func TestFilter(t *testing.T) {
	results := []*Result{
		{Name: "high", Score: 20, RelevanceScore: 85, ExperienceLevel: 5, JDSkillMatches: 2,
			FoundSkills: SkillSet{Technical: []string{"go"}}},
		{Name: "medium", Score: 9, RelevanceScore: 55, ExperienceLevel: 3,
			FoundSkills: SkillSet{Soft: []string{"teamwork"}, Certifications: []string{"pmp"}}},
		{Name: "low", Score: 2, RelevanceScore: 10, ExperienceLevel: 3},
	}

	names := func(rs []*Result) []string {
		out := make([]string, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.Name)
		}
		return out
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero filter", Filter{}, []string{"high", "medium", "low"}},
		{"score high", Filter{Score: BandHigh}, []string{"high"}},
		{"score medium", Filter{Score: BandMedium}, []string{"medium"}},
		{"score low", Filter{Score: BandLow}, []string{"low"}},
		{"relevance medium", Filter{Relevance: BandMedium}, []string{"medium"}},
		{"relevance low", Filter{Relevance: BandLow}, []string{"low"}},
		{"experience", Filter{ExperienceLevel: 3}, []string{"medium", "low"}},
		{"technical", Filter{Skills: SkillFilterTechnical}, []string{"high"}},
		{"soft", Filter{Skills: SkillFilterSoft}, []string{"medium"}},
		{"certifications", Filter{Skills: SkillFilterCertifications}, []string{"medium"}},
		{"job specific", Filter{Skills: SkillFilterJobSpecific}, []string{"high"}},
		{"none", Filter{Skills: SkillFilterNone}, []string{"low"}},
		{"combined", Filter{ExperienceLevel: 3, Skills: SkillFilterNone}, []string{"low"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(tt.filter.Apply(results)))
		})
	}
}

func TestParseFilterValues(t *testing.T) {
	b, err := ParseBand("HIGH")
	require.NoError(t, err)
	assert.Equal(t, BandHigh, b)

	b, err = ParseBand("all")
	require.NoError(t, err)
	assert.Equal(t, BandAll, b)

	_, err = ParseBand("extreme")
	assert.Error(t, err)

	f, err := ParseSkillFilter("jd_specific")
	require.NoError(t, err)
	assert.Equal(t, SkillFilterJobSpecific, f)

	_, err = ParseSkillFilter("hardware")
	assert.Error(t, err)
}

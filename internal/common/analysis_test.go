package common

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumescan/internal/analyzer"
	"resumescan/internal/config"
	"resumescan/internal/errors"
	"resumescan/internal/types"
)

const testJobDescription = "We are hiring a senior software developer with 5+ years of experience in Python, Docker and AWS cloud services."

func testLogger() *errors.Logger {
	return errors.NewLoggerWithWriter(io.Discard, slog.LevelError)
}

func newTestAnalyzer(t *testing.T) *analyzer.Analyzer {
	t.Helper()
	an, err := NewAnalyzer(config.Defaults(), testLogger())
	require.NoError(t, err)
	return an
}

func TestNewAnalyzerMissingTaxonomy(t *testing.T) {
	cfg := config.Defaults()
	cfg.Analysis.TaxonomyFile = filepath.Join(t.TempDir(), "absent.yaml")

	_, err := NewAnalyzer(cfg, testLogger())
	assert.True(t, errors.HasCode(err, errors.ErrCodeTaxonomyUnavailable))
}

func TestSettingsFromConfig(t *testing.T) {
	settings := SettingsFromConfig(config.AnalysisConfig{
		MinJobDescriptionLength: 20,
		GapSkillCap:             3,
		Workers:                 2,
		CurrencySymbol:          "$",
		BaseSalary:              40000,
	})
	assert.Equal(t, analyzer.Settings{
		MinJobDescriptionLength: 20,
		GapSkillCap:             3,
		BaseSalary:              40000,
		CurrencySymbol:          "$",
		Workers:                 2,
	}, settings)
}

func TestRunAnalysisFilters(t *testing.T) {
	an := newTestAnalyzer(t)
	docs := []analyzer.Document{
		{Name: "strong.txt", Text: "Senior software developer. Python, Docker and AWS cloud services for 6 years."},
		{Name: "weak.txt", Text: "Barista with great latte art."},
		{Name: "blank.txt", Text: "   "},
	}

	out, err := RunAnalysis(context.Background(), an, docs, AnalysisRequest{JobDescription: testJobDescription})
	require.NoError(t, err)
	assert.Equal(t, testJobDescription, out.JobDescription)
	assert.Len(t, out.Results, 2)
	assert.Equal(t, "strong.txt", out.Results[0].Name)
	assert.Equal(t, 0, out.Filtered)
	require.Len(t, out.Skipped, 1)
	assert.Equal(t, "blank.txt", out.Skipped[0].Name)

	out, err = RunAnalysis(context.Background(), an, docs, AnalysisRequest{
		JobDescription: testJobDescription,
		Filter:         analyzer.Filter{Skills: analyzer.SkillFilterNone},
	})
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "weak.txt", out.Results[0].Name)
	assert.Equal(t, 1, out.Filtered)
	assert.Equal(t, 2, out.Stats.TotalResumes)
}

func TestRunAnalysisShortJobDescription(t *testing.T) {
	_, err := RunAnalysis(context.Background(), newTestAnalyzer(t),
		[]analyzer.Document{{Name: "a.txt", Text: "Python"}}, AnalysisRequest{JobDescription: "short"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeJobDescriptionTooShort))
}

func TestRunCommandWritesOutput(t *testing.T) {
	var buf bytes.Buffer
	handler := NewOutputHandler(testLogger()).WithWriter(&buf)
	require.NoError(t, handler.HandleOutput(types.DetectIndustryOutput{Industry: "finance"}, CommandConfig{OutputFormat: "json"}))

	var decoded types.DetectIndustryOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "finance", decoded.Industry)

	path := filepath.Join(t.TempDir(), "out", "industries.txt")
	err := RunCommand(context.Background(), testLogger(), CommandConfig{OutputFile: path, OutputFormat: "text"},
		func(context.Context) (types.IndustryListOutput, error) {
			return types.IndustryListOutput{Industries: []string{"technology", "finance"}}, nil
		})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "technology\nfinance\n", string(data))
}

func TestRunCommandRejectsBinaryOnStdout(t *testing.T) {
	called := false
	err := RunCommand(context.Background(), testLogger(), CommandConfig{OutputFormat: "xlsx"},
		func(context.Context) (*types.AnalyzeOutput, error) {
			called = true
			return nil, nil
		})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidFormat))
	assert.False(t, called)
}

func TestHandleOutputUnsupportedCombination(t *testing.T) {
	handler := NewOutputHandler(testLogger()).WithWriter(io.Discard)
	err := handler.HandleOutput(types.DetectIndustryOutput{Industry: "finance"}, CommandConfig{OutputFormat: "csv"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidFormat))
}

package common

import (
	"context"

	"resumescan/internal/analyzer"
	"resumescan/internal/config"
	"resumescan/internal/errors"
	"resumescan/internal/observability"
	"resumescan/internal/taxonomy"
	"resumescan/internal/types"
)

// NewAnalyzer loads the configured taxonomy and builds an analyzer from the
// analysis settings.
func NewAnalyzer(cfg *config.Config, logger *errors.Logger) (*analyzer.Analyzer, error) {
	tax, err := taxonomy.Load(cfg.Analysis.TaxonomyFile)
	if err != nil {
		return nil, err
	}

	source := cfg.Analysis.TaxonomyFile
	if source == "" {
		source = "built-in"
	}
	logger.Debug("Taxonomy loaded", "source", source, "industries", len(tax.Names()))

	return analyzer.New(tax, SettingsFromConfig(cfg.Analysis), logger), nil
}

// SettingsFromConfig maps the analysis configuration onto analyzer settings.
func SettingsFromConfig(cfg config.AnalysisConfig) analyzer.Settings {
	return analyzer.Settings{
		MinJobDescriptionLength: cfg.MinJobDescriptionLength,
		GapSkillCap:             cfg.GapSkillCap,
		BaseSalary:              cfg.BaseSalary,
		CurrencySymbol:          cfg.CurrencySymbol,
		Workers:                 cfg.Workers,
	}
}

// AnalysisRequest describes one batch analysis.
type AnalysisRequest struct {
	JobDescription string
	Industry       string
	Options        analyzer.Options
	Filter         analyzer.Filter

	// Metrics instruments the batch when set; Source labels it.
	Metrics *observability.Metrics
	Source  string
}

// RunAnalysis analyzes docs and applies the request's result filter. Batch
// statistics and metrics always describe the unfiltered results.
func RunAnalysis(ctx context.Context, an *analyzer.Analyzer, docs []analyzer.Document, req AnalysisRequest) (*types.AnalyzeOutput, error) {
	analyze := func(ctx context.Context) (*analyzer.BatchReport, error) {
		return an.AnalyzeBatch(ctx, docs, req.Industry, req.JobDescription, req.Options)
	}

	var report *analyzer.BatchReport
	var err error
	if req.Metrics != nil {
		report, err = req.Metrics.TrackAnalysis(ctx, req.Source, analyze)
	} else {
		report, err = analyze(ctx)
	}
	if err != nil {
		return nil, err
	}

	output := &types.AnalyzeOutput{BatchReport: report, JobDescription: req.JobDescription}
	if !req.Filter.IsZero() {
		kept := req.Filter.Apply(report.Results)
		output.Filtered = len(report.Results) - len(kept)
		report.Results = kept
	}
	return output, nil
}

// OperationFunc produces a command's result.
type OperationFunc[Output any] func(context.Context) (Output, error)

// RunCommand checks the output destination, runs operation and writes its
// result in the configured format.
func RunCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	operation OperationFunc[Output],
) error {
	outputHandler := NewOutputHandler(logger)
	if err := outputHandler.CheckDestination(cmdConfig); err != nil {
		return err
	}

	result, err := operation(ctx)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}

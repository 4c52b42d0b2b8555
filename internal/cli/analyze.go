package cli

import (
	"context"
	"fmt"
	"strings"

	"resumescan/internal/analyzer"
	"resumescan/internal/common"
	"resumescan/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze --jd <source> <resume>...",
	Short: "Score resumes against a job description",
	Long: `Score one or more resumes against a job description.

Sources may be local files, directories (every supported file inside is read),
http(s) URLs or s3:// URIs when those sources are enabled. PDF, DOCX, HTML and
plain text documents are supported.

Each resume gets a score, a relevance score against the job description's key
phrases, an estimated experience level and the skills found. Optional sections
add skill gaps, a salary estimate, a culture fit rating and a deep analysis.

Filters (--score, --relevance, --experience, --skill) narrow the listed results;
batch statistics always cover every resume.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeFlags.output.OutputFormat == "" {
			analyzeFlags.output.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeFlags.output.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

// analyzeCommandFlags holds the analyze command's flag values
type analyzeCommandFlags struct {
	output         common.CommandConfig
	jobDescription string
	industry       string

	skillGaps      bool
	salaryInsights bool
	cultureFit     bool
	deepAnalysis   bool

	filter common.FilterParams
}

var analyzeFlags analyzeCommandFlags

func init() {
	flags := analyzeCmd.Flags()
	flags.StringVar(&analyzeFlags.jobDescription, "jd", "", "Job description source (file, URL or s3:// URI)")
	flags.StringVar(&analyzeFlags.industry, "industry", "", "Industry to score against (default: detected from the job description)")

	flags.BoolVar(&analyzeFlags.skillGaps, "skill-gaps", false, "Include missing industry skills")
	flags.BoolVar(&analyzeFlags.salaryInsights, "salary", false, "Include a salary estimate")
	flags.BoolVar(&analyzeFlags.cultureFit, "culture", false, "Include a culture fit rating")
	flags.BoolVar(&analyzeFlags.deepAnalysis, "deep", false, "Include the deep analysis section")

	flags.StringVar(&analyzeFlags.filter.Score, "score", "", "Only list scores in a band: high, medium or low")
	flags.StringVar(&analyzeFlags.filter.Relevance, "relevance", "", "Only list relevance in a band: high, medium or low")
	flags.IntVar(&analyzeFlags.filter.Experience, "experience", 0, "Only list an exact experience level (1-5)")
	flags.StringVar(&analyzeFlags.filter.Skills, "skill", "", "Only list resumes with: technical, soft, certifications, jd_specific or none")

	flags.StringVarP(&analyzeFlags.output.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	flags.StringVar(&analyzeFlags.output.OutputFormat, "format", "", "Output format: json, text, markdown, csv or xlsx")

	_ = analyzeCmd.MarkFlagRequired("jd")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
	_ = analyzeCmd.RegisterFlagCompletionFunc("skill", fixedCompletion(
		"technical", "soft", "certifications", "jd_specific", "none"))
	_ = analyzeCmd.RegisterFlagCompletionFunc("score", fixedCompletion("high", "medium", "low"))
	_ = analyzeCmd.RegisterFlagCompletionFunc("relevance", fixedCompletion("high", "medium", "low"))
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// options maps the section flags onto analyzer options
func (f analyzeCommandFlags) options() analyzer.Options {
	return analyzer.Options{
		SkillGaps:      f.skillGaps,
		SalaryInsights: f.salaryInsights,
		CultureFit:     f.cultureFit,
		DeepAnalysis:   f.deepAnalysis,
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	filter, err := common.ParseFilter(analyzeFlags.filter)
	if err != nil {
		return err
	}

	an, err := common.NewAnalyzer(cfg, logger)
	if err != nil {
		return err
	}

	om, shutdown, err := commandObservability(cfg)
	if err != nil {
		return err
	}
	defer shutdown()
	metrics := om.GetMetrics()

	loader, err := newLoader(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}

	operation := func(ctx context.Context) (*types.AnalyzeOutput, error) {
		jd, err := loader.Text(ctx, analyzeFlags.jobDescription)
		if err != nil {
			return nil, fmt.Errorf("failed to read job description: %w", err)
		}
		jd = strings.TrimSpace(jd)
		if err := an.ValidateJobDescription(jd); err != nil {
			return nil, err
		}

		docs := loader.Documents(ctx, args)
		logger.Info("Starting resume analysis",
			"resumes", len(docs),
			"job_chars", len(jd),
			"industry", analyzeFlags.industry,
			"output_format", analyzeFlags.output.OutputFormat)

		return common.RunAnalysis(ctx, an, docs, common.AnalysisRequest{
			JobDescription: jd,
			Industry:       analyzeFlags.industry,
			Options:        analyzeFlags.options(),
			Filter:         filter,
			Metrics:        metrics,
			Source:         "cli",
		})
	}

	if err := common.RunCommand(ctx, logger, analyzeFlags.output, operation); err != nil {
		return fmt.Errorf("failed to analyze resumes: %w", err)
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}

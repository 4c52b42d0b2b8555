package cli

import (
	"context"
	"fmt"
	"strings"

	"resumescan/internal/analyzer"
	"resumescan/internal/common"
	"resumescan/internal/formatters"
	"resumescan/internal/types"

	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect --jd <source>",
	Short: "Detect the industry of a job description",
	Long: `Detect which taxonomy industry a job description belongs to by counting
industry keyword matches. Jobs that match no industry keyword report
technology.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareFormat(cmd, &detectOutput, types.DetectIndustryOutput{})
	},
	RunE: runDetect,
}

var skillsCmd = &cobra.Command{
	Use:   "skills <industry>",
	Short: "List the skills the taxonomy expects for an industry",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareFormat(cmd, &skillsOutput, types.IndustrySkillsOutput{})
	},
	RunE: runSkills,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		an, err := common.NewAnalyzer(getConfigFromContext(cmd.Context()), getLoggerFromContext(cmd.Context()))
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return an.Taxonomy().Names(), cobra.ShellCompDirectiveNoFileComp
	},
}

var industriesCmd = &cobra.Command{
	Use:   "industries",
	Short: "List the taxonomy industries",
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareFormat(cmd, &industriesOutput, types.IndustryListOutput{})
	},
	RunE: runIndustries,
}

var (
	detectJobDescription string
	detectOutput         common.CommandConfig
	skillsOutput         common.CommandConfig
	industriesOutput     common.CommandConfig
)

func init() {
	detectCmd.Flags().StringVar(&detectJobDescription, "jd", "", "Job description source (file, URL or s3:// URI)")
	_ = detectCmd.MarkFlagRequired("jd")

	for _, c := range []struct {
		cmd    *cobra.Command
		output *common.CommandConfig
	}{
		{detectCmd, &detectOutput},
		{skillsCmd, &skillsOutput},
		{industriesCmd, &industriesOutput},
	} {
		c.cmd.Flags().StringVarP(&c.output.OutputFile, "output", "o", "", "Output file path (default: stdout)")
		c.cmd.Flags().StringVar(&c.output.OutputFormat, "format", "", "Output format: json, text or markdown")
	}
}

// prepareFormat applies the default format and checks that sample's type can
// be written in it
func prepareFormat(cmd *cobra.Command, output *common.CommandConfig, sample any) error {
	cfg := getConfigFromContext(cmd.Context())
	if output.OutputFormat == "" {
		output.OutputFormat = cfg.App.DefaultFormat
	}
	if err := common.ValidateOutputFormat(output.OutputFormat, cfg.App.SupportedFormats); err != nil {
		return err
	}
	if !formatters.GlobalRegistry.Supports(sample, output.OutputFormat) {
		return fmt.Errorf("output format '%s' is not available for %s", output.OutputFormat, cmd.Name())
	}
	return nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

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

	return common.RunCommand(ctx, logger, detectOutput, func(ctx context.Context) (types.DetectIndustryOutput, error) {
		jd, err := loader.Text(ctx, detectJobDescription)
		if err != nil {
			return types.DetectIndustryOutput{}, fmt.Errorf("failed to read job description: %w", err)
		}
		jd = strings.TrimSpace(jd)
		if err := an.ValidateJobDescription(jd); err != nil {
			return types.DetectIndustryOutput{}, err
		}

		industry := an.DetectIndustry(jd)
		metrics.RecordIndustryDetection(ctx, industry)
		logger.Debug("Industry detected", "industry", industry, "job_chars", len(jd))
		return types.DetectIndustryOutput{Industry: industry}, nil
	})
}

func runSkills(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := getLoggerFromContext(ctx)

	an, err := common.NewAnalyzer(getConfigFromContext(ctx), logger)
	if err != nil {
		return err
	}

	return common.RunCommand(ctx, logger, skillsOutput, func(context.Context) (types.IndustrySkillsOutput, error) {
		return industrySkills(an, args[0]), nil
	})
}

// industrySkills looks an industry up by name. Unknown industries give empty
// skill lists.
func industrySkills(an *analyzer.Analyzer, name string) types.IndustrySkillsOutput {
	out := types.IndustrySkillsOutput{Industry: name}
	if ind, ok := an.Taxonomy().Lookup(name); ok {
		out.Industry = ind.Name
		out.Known = true
		out.Skills = ind.Skills
	}
	return out
}

func runIndustries(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := getLoggerFromContext(ctx)

	an, err := common.NewAnalyzer(getConfigFromContext(ctx), logger)
	if err != nil {
		return err
	}

	return common.RunCommand(ctx, logger, industriesOutput, func(context.Context) (types.IndustryListOutput, error) {
		return types.IndustryListOutput{Industries: an.Taxonomy().Names()}, nil
	})
}

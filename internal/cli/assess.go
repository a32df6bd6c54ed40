package cli

import (
	"context"
	"fmt"

	"careerhub/internal/ai"
	"careerhub/internal/common"
	"careerhub/internal/types"

	"github.com/spf13/cobra"
)

var assessCmd = &cobra.Command{
	Use:   "assess [skills-file] [interests-file]",
	Short: "Run a career assessment from skill and interest descriptions",
	Long: `Run the AI career assessment without going through the HTTP API.
The command takes two arguments: a file describing your skills and a file
describing your interests. Both files should be in plain text format. The
result lists recommended career paths and skill areas worth developing.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if assessConfig.OutputFormat == "" {
			assessConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(assessConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAssess,
}

var assessConfig common.CommandConfig

func init() {
	assessCmd.Flags().StringVarP(&assessConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	assessCmd.Flags().StringVar(&assessConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = assessCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAssess(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Create AI service for the assessment operation
	assessmentAIConfig := cfg.GetAssessmentConfig()
	aiService, err := ai.NewService(&assessmentAIConfig, "assessment", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	createInput := func(contents []string) (types.CareerAssessmentInput, error) {
		if len(contents) != 2 {
			return types.CareerAssessmentInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.CareerAssessmentInput{
			Skills:    contents[0],
			Interests: contents[1],
		}, nil
	}

	logDetails := func(input types.CareerAssessmentInput, cfg common.CommandConfig) {
		logger.Info("Starting career assessment",
			"skills_chars", len(input.Skills),
			"interests_chars", len(input.Interests),
			"output_format", cfg.OutputFormat)
	}

	// Create a wrapper function that uses our specific AI service
	assessOperation := func(ctx context.Context, input types.CareerAssessmentInput) (types.CareerAssessmentOutput, *ai.TokenUsage, error) {
		return aiService.Provider.CareerAssessment(ctx, input)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		assessConfig,
		args,
		createInput,
		assessOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to run career assessment: %w", err)
	}
	logger.Info("Career assessment completed successfully")
	return nil
}

package cli

import (
	"context"
	"fmt"

	"careerhub/internal/ai"
	"careerhub/internal/common"
	"careerhub/internal/types"

	"github.com/spf13/cobra"
)

var interviewCmd = &cobra.Command{
	Use:   "interview [job-description-file]",
	Short: "Practice one interview turn for a job description",
	Long: `Run one turn of the AI interview practice loop without going through
the HTTP API. The command takes the path to a job description file and
generates the next interview question. The loop is stateless: pass
--question to ask for a later question, and --answer with your answer to
the previous question to get feedback on it alongside the next question.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if len(interviewSkills) == 0 {
			return fmt.Errorf("at least one --skill is required")
		}
		if interviewQuestion < 1 {
			return fmt.Errorf("--question must be 1 or greater")
		}
		// Apply default format if not specified
		if interviewConfig.OutputFormat == "" {
			interviewConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(interviewConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runInterview,
}

var (
	interviewConfig   common.CommandConfig
	interviewSkills   []string
	interviewQuestion int
	interviewAnswer   string
)

func init() {
	interviewCmd.Flags().StringVarP(&interviewConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	interviewCmd.Flags().StringVar(&interviewConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	interviewCmd.Flags().StringSliceVar(&interviewSkills, "skill", nil, "Candidate skill (repeatable)")
	interviewCmd.Flags().IntVar(&interviewQuestion, "question", 1, "Question number in the practice loop")
	interviewCmd.Flags().StringVar(&interviewAnswer, "answer", "", "Answer to the previous question, for feedback")

	// Add completion for format flag
	_ = interviewCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runInterview(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Create AI service for the interview operation
	interviewAIConfig := cfg.GetInterviewConfig()
	aiService, err := ai.NewService(&interviewAIConfig, "interview", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	createInput := func(contents []string) (types.InterviewPreparationInput, error) {
		if len(contents) != 1 {
			return types.InterviewPreparationInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return types.InterviewPreparationInput{
			JobDescription: contents[0],
			UserSkills:     interviewSkills,
			UserAnswer:     interviewAnswer,
			QuestionNumber: interviewQuestion,
		}, nil
	}

	logDetails := func(input types.InterviewPreparationInput, cfg common.CommandConfig) {
		logger.Info("Starting interview practice turn",
			"job_chars", len(input.JobDescription),
			"skills", len(input.UserSkills),
			"question_number", input.QuestionNumber,
			"has_answer", input.UserAnswer != "",
			"output_format", cfg.OutputFormat)
	}

	// Create a wrapper function that uses our specific AI service
	interviewOperation := func(ctx context.Context, input types.InterviewPreparationInput) (types.InterviewPreparationOutput, *ai.TokenUsage, error) {
		return aiService.Provider.InterviewPreparation(ctx, input)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		interviewConfig,
		args,
		createInput,
		interviewOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to run interview practice: %w", err)
	}
	logger.Info("Interview practice turn completed successfully")
	return nil
}

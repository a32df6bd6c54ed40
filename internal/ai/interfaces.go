package ai

import (
	"context"

	"careerhub/internal/types"
)

// AIProvider interface for different AI implementations
// All methods return token usage information - callers can ignore it if not needed
type AIProvider interface {
	CareerAssessment(ctx context.Context, input types.CareerAssessmentInput) (types.CareerAssessmentOutput, *TokenUsage, error)
	InterviewPreparation(ctx context.Context, input types.InterviewPreparationInput) (types.InterviewPreparationOutput, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

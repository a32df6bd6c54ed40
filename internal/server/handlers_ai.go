package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"careerhub/internal/ai"
	"careerhub/internal/observability"
	"careerhub/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createAssessmentHandler wraps the career assessment flow with observability
func (s *Server) createAssessmentHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerhub.api")
		ctx, span := tracer.Start(ctx, "api.assessment")
		defer span.End()

		// Parse request
		var req types.CareerAssessmentInput
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation
		if strings.TrimSpace(req.Skills) == "" {
			err := fmt.Errorf("missing skills")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing skills", "skills field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Interests) == "" {
			err := fmt.Errorf("missing interests")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing interests", "interests field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.skills_length", len(req.Skills)),
			attribute.Int("request.interests_length", len(req.Interests)),
			attribute.String("operation", "assessment"),
		)

		// Create AI service for the assessment operation
		assessmentConfig := s.AppConfig.GetAssessmentConfig()
		aiService, err := ai.NewService(&assessmentConfig, "assessment", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		// Track AI operation with observability and token usage
		metrics := om.GetMetrics()
		var result types.CareerAssessmentOutput
		err = metrics.TrackAIOperationWithTokens(ctx, "assessment", func(ctx context.Context) *observability.AIOperationResult {
			output, tokenUsage, aiErr := aiService.Provider.CareerAssessment(ctx, req)
			result = output
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "assessment_completed", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to run career assessment", err.Error(), http.StatusInternalServerError)
			return
		}

		// Record success metrics
		metrics.RecordBusinessMetric(ctx, "assessment_completed", true, om,
			attribute.Int("output.recommendations_length", len(result.CareerRecommendations)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.recommendations_length", len(result.CareerRecommendations)),
			attribute.Int("response.development_length", len(result.SkillDevelopmentAreas)),
		)

		writeJSON(w, http.StatusOK, result)
	}
}

// createInterviewHandler wraps one turn of the interview practice loop with
// observability. The flow is stateless so each turn carries the full context.
func (s *Server) createInterviewHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerhub.api")
		ctx, span := tracer.Start(ctx, "api.interview")
		defer span.End()

		var req types.InterviewPreparationInput
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}
		if len(req.UserSkills) == 0 {
			err := fmt.Errorf("missing user skills")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing user skills", "userSkills field is required", http.StatusBadRequest)
			return
		}
		if req.QuestionNumber < 1 {
			err := fmt.Errorf("invalid question number: %d", req.QuestionNumber)
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid question number", "questionNumber must be 1 or greater", http.StatusBadRequest)
			return
		}

		// Size validation
		if len(req.JobDescription) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("job description too large: %d chars", len(req.JobDescription))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Job description too large", fmt.Sprintf("jobDescription exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.Int("request.question_number", req.QuestionNumber),
			attribute.Bool("request.has_answer", req.UserAnswer != ""),
			attribute.String("operation", "interview"),
		)

		// Create AI service for the interview operation
		interviewConfig := s.AppConfig.GetInterviewConfig()
		aiService, err := ai.NewService(&interviewConfig, "interview", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		var result types.InterviewPreparationOutput
		err = metrics.TrackAIOperationWithTokens(ctx, "interview", func(ctx context.Context) *observability.AIOperationResult {
			output, tokenUsage, aiErr := aiService.Provider.InterviewPreparation(ctx, req)
			result = output
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "interview_turn", false, om)
			writeErrorResponse(w, "Failed to run interview preparation", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "interview_turn", true, om,
			attribute.Int("question_number", req.QuestionNumber),
			attribute.Bool("has_feedback", result.Feedback != ""))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Bool("response.has_feedback", result.Feedback != ""),
		)

		writeJSON(w, http.StatusOK, result)
	}
}

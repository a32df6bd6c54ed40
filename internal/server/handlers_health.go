package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"careerhub/internal/ai"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	return s.AppConfig.Observability.HealthCheck.Timeout
}

// healthHandler provides a comprehensive health check endpoint covering the
// store backend and the AI model status for both flows
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "careerhub",
		"version": s.Version,
	}

	// Check store connectivity
	storeStatus := s.checkStoreHealth()
	response["store"] = storeStatus

	// Check AI model availability for both flows
	aiStatus := s.checkAIModelsHealth()
	response["ai_models"] = aiStatus

	// Check circuit breaker status
	circuitBreakerStatus := s.checkCircuitBreakerHealth()
	response["circuit_breakers"] = circuitBreakerStatus

	// Determine overall health status
	overallHealthy := true
	if available, ok := storeStatus["available"].(bool); ok && !available {
		overallHealthy = false
	}
	for _, modelStatus := range aiStatus {
		if modelInfo, ok := modelStatus.(map[string]any); ok {
			if available, exists := modelInfo["available"]; exists {
				if avail, ok := available.(bool); ok && !avail {
					overallHealthy = false
					break
				}
			}
		}
	}

	if !overallHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkStoreHealth pings the persistence backend
func (s *Server) checkStoreHealth() map[string]any {
	timeout := s.getHealthCheckTimeout()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		return map[string]any{
			"available": false,
			"backend":   s.AppConfig.Store.Backend,
			"error":     err.Error(),
		}
	}
	return map[string]any{
		"available": true,
		"backend":   s.AppConfig.Store.Backend,
	}
}

// checkAIModelsHealth checks the health of the AI models behind both flows
func (s *Server) checkAIModelsHealth() map[string]any {
	// Use configurable health check timeout
	timeout := s.getHealthCheckTimeout()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	aiStatus := make(map[string]any)

	// Check assessment service model
	assessmentConfig := s.AppConfig.GetAssessmentConfig()
	if assessmentService, err := ai.NewService(&assessmentConfig, "assessment", s.Logger); err == nil {
		modelInfo := assessmentService.GetModelInfo(ctx)
		aiStatus["assessment"] = modelInfo
	} else {
		aiStatus["assessment"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create assessment service: %v", err),
		}
	}

	// Check interview service model
	interviewConfig := s.AppConfig.GetInterviewConfig()
	if interviewService, err := ai.NewService(&interviewConfig, "interview", s.Logger); err == nil {
		modelInfo := interviewService.GetModelInfo(ctx)
		aiStatus["interview"] = modelInfo
	} else {
		aiStatus["interview"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create interview service: %v", err),
		}
	}

	return aiStatus
}

// checkCircuitBreakerHealth checks the circuit breakers for both AI flows
func (s *Server) checkCircuitBreakerHealth() map[string]any {
	circuitBreakerStatus := make(map[string]any)

	// Check assessment service circuit breaker
	assessmentConfig := s.AppConfig.GetAssessmentConfig()
	if _, err := ai.NewService(&assessmentConfig, "assessment", s.Logger); err == nil {
		circuitBreakerStatus["assessment"] = map[string]any{
			"available": true,
			"message":   "Circuit breaker integrated with assessment service",
		}
	} else {
		circuitBreakerStatus["assessment"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create assessment service: %v", err),
		}
	}

	// Check interview service circuit breaker
	interviewConfig := s.AppConfig.GetInterviewConfig()
	if _, err := ai.NewService(&interviewConfig, "interview", s.Logger); err == nil {
		circuitBreakerStatus["interview"] = map[string]any{
			"available": true,
			"message":   "Circuit breaker integrated with interview service",
		}
	} else {
		circuitBreakerStatus["interview"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create interview service: %v", err),
		}
	}

	return circuitBreakerStatus
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "careerhub",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	// Add configuration info
	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_token":         s.RateLimit.ByToken,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

package server

import (
	"net/http"

	"careerhub/internal/auth"
	"careerhub/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// createSignUpHandler creates the account and its role profile in one step.
// All request validation happens before the identity provider is called, so a
// rejected request never leaves a dangling account behind.
func (s *Server) createSignUpHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerhub.api")
		ctx, span := tracer.Start(ctx, "api.auth.signup")
		defer span.End()

		var req auth.SignUpRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(attribute.String("signup.role", req.Role))

		profile, err := s.Auth.SignUp(ctx, req)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "signup"))
			metrics := om.GetMetrics()
			metrics.RecordBusinessMetric(ctx, "signup", false, om,
				attribute.String("role", req.Role))
			writeAppError(w, "Sign up failed", err)
			return
		}

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "signup", true, om,
			attribute.String("role", string(profile.Role)))

		span.SetAttributes(attribute.Bool("success", true))
		writeJSON(w, http.StatusCreated, profile)
	}
}

// signOutHandler revokes the caller's refresh tokens
func (s *Server) signOutHandler(w http.ResponseWriter, r *http.Request) {
	profile, ok := profileFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, "Missing session token", "Authorization Bearer token required", http.StatusUnauthorized)
		return
	}

	if err := s.Auth.SignOut(r.Context(), profile.UID); err != nil {
		writeAppError(w, "Sign out failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// meHandler returns the caller's profile
func (s *Server) meHandler(w http.ResponseWriter, r *http.Request) {
	profile, ok := profileFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, "Missing session token", "Authorization Bearer token required", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

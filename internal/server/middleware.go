package server

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"careerhub/internal/errors"
	"careerhub/internal/types"
)

// contextKey is a private type for request context values.
type contextKey string

const profileContextKey contextKey = "careerhub.profile"

// profileFromContext returns the authenticated profile stored by authMiddleware.
func profileFromContext(ctx context.Context) (*types.UserProfile, bool) {
	profile, ok := ctx.Value(profileContextKey).(*types.UserProfile)
	return profile, ok
}

// bearerToken extracts the session token from the Authorization header.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// authMiddleware verifies the session token and stores the caller's profile
// in the request context
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.Logger.Info("Authentication failed: missing session token",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r))
			writeErrorResponse(w, "Missing session token", "Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		profile, err := s.Auth.VerifySession(r.Context(), token)
		if err != nil {
			s.Logger.Info("Authentication failed: invalid session token",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r))
			writeAppError(w, "Invalid session token", err)
			return
		}

		ctx := context.WithValue(r.Context(), profileContextKey, profile)
		next(w, r.WithContext(ctx))
	}
}

// requireRole gates a handler to callers holding the given role. It implies
// authMiddleware.
func (s *Server) requireRole(role types.Role, next http.HandlerFunc) http.HandlerFunc {
	return s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		profile, ok := profileFromContext(r.Context())
		if !ok {
			writeErrorResponse(w, "Missing session token", "Authorization Bearer token required", http.StatusUnauthorized)
			return
		}
		if profile.Role != role {
			s.Logger.Info("Authorization failed: wrong role",
				"endpoint", r.URL.Path,
				"required_role", string(role),
				"actual_role", string(profile.Role))
			writeErrorResponse(w, "Forbidden", fmt.Sprintf("this endpoint requires the %s role", role), http.StatusForbidden)
			return
		}
		next(w, r)
	})
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				// Limit the request body size
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}

			next(w, r)
		}
	}
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if goerrors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

// writeAppError maps an application error onto an HTTP status and writes the
// standard error body, including the machine-readable code
func writeAppError(w http.ResponseWriter, summary string, err error) {
	statusCode := http.StatusInternalServerError
	code := ""
	message := err.Error()

	var appErr *errors.AppError
	if goerrors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message
		statusCode = statusForAppError(appErr)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   summary,
		Code:    code,
		Message: message,
	}
	if encErr := json.NewEncoder(w).Encode(response); encErr != nil {
		log.Printf("Failed to encode error response: %v", encErr)
	}
}

func statusForAppError(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidTransition, errors.ErrCodeProfileIncomplete:
		return http.StatusConflict
	case errors.ErrCodePermissionDenied:
		return http.StatusForbidden
	case errors.ErrCodeTokenInvalid:
		return http.StatusUnauthorized
	case errors.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	}

	switch appErr.Type {
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeAuth:
		return http.StatusUnauthorized
	case errors.ErrorTypeStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

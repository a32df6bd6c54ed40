// Package auth handles account creation and session verification. Identity
// is an interface so tests and local development can run without Firebase.
package auth

import (
	"context"

	"careerhub/internal/errors"
	"careerhub/internal/store"
	"careerhub/internal/types"
)

// Identity abstracts the identity provider behind the signup and session
// operations.
type Identity interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyIDToken(ctx context.Context, idToken string) (string, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
	DeleteUser(ctx context.Context, uid string) error
}

// SignUpRequest carries the signup form fields.
type SignUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	DisplayName     string `json:"displayName"`
	Role            string `json:"role"`
}

// Service wires the identity provider to the profile store.
type Service struct {
	identity       Identity
	store          store.Store
	logger         *errors.Logger
	minPasswordLen int
}

// NewService creates the auth service. minPasswordLen below 6 is raised to 6,
// matching the identity provider's own floor.
func NewService(identity Identity, st store.Store, minPasswordLen int, logger *errors.Logger) *Service {
	if minPasswordLen < 6 {
		minPasswordLen = 6
	}
	return &Service{
		identity:       identity,
		store:          st,
		logger:         logger,
		minPasswordLen: minPasswordLen,
	}
}

// SignUp validates the form, creates the identity account and writes the
// profile document. All validation runs before the identity provider is
// called, so a mismatched confirmation never creates an account.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*types.UserProfile, error) {
	if req.Email == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Email is required", nil)
	}
	if req.Password != req.ConfirmPassword {
		return nil, errors.NewValidationError(errors.ErrCodePasswordMismatch,
			"Passwords do not match", nil)
	}
	if len(req.Password) < s.minPasswordLen {
		return nil, errors.NewValidationError(errors.ErrCodeWeakPassword,
			"Password is too short", nil).
			WithContext("min_length", s.minPasswordLen)
	}
	role, ok := types.ParseRole(req.Role)
	if !ok {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRole,
			"Unknown role", nil).WithContext("role", req.Role)
	}

	uid, err := s.identity.CreateUser(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		return nil, errors.NewAuthError(errors.ErrCodeInvalidRequest,
			"Failed to create account", err).WithContext("email", req.Email)
	}

	profile := &types.UserProfile{
		UID:         uid,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        role,
	}
	if err := s.store.CreateUserProfile(ctx, profile); err != nil {
		// Roll the account back so a retry does not hit "email already in use"
		// with no profile behind it.
		if delErr := s.identity.DeleteUser(ctx, uid); delErr != nil {
			s.logger.LogError(delErr, "Failed to roll back identity account after profile write failure",
				"uid", uid)
		}
		return nil, err
	}

	s.logger.Info("User signed up", "uid", uid, "role", string(role))
	return profile, nil
}

// VerifySession validates a Firebase ID token and loads the caller's
// profile. Accounts created out of band default to the student role so a
// missing profile never locks a user out entirely.
func (s *Service) VerifySession(ctx context.Context, idToken string) (*types.UserProfile, error) {
	if idToken == "" {
		return nil, errors.NewAuthError(errors.ErrCodeTokenInvalid,
			"Missing session token", nil)
	}
	uid, err := s.identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, errors.NewAuthError(errors.ErrCodeTokenInvalid,
			"Invalid session token", err)
	}

	profile, err := s.store.GetUserProfile(ctx, uid)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.ErrCodeNotFound {
			s.logger.Warn("No profile for authenticated user, defaulting to student role", "uid", uid)
			return &types.UserProfile{UID: uid, Role: types.RoleStudent}, nil
		}
		return nil, err
	}
	return profile, nil
}

// SignOut revokes the user's refresh tokens. Existing ID tokens expire on
// their own within the hour.
func (s *Service) SignOut(ctx context.Context, uid string) error {
	if err := s.identity.RevokeRefreshTokens(ctx, uid); err != nil {
		return errors.NewAuthError(errors.ErrCodeInvalidRequest,
			"Failed to revoke session", err).WithContext("uid", uid)
	}
	s.logger.Info("User signed out", "uid", uid)
	return nil
}

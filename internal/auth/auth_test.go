package auth

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerhub/internal/errors"
	"careerhub/internal/store"
	"careerhub/internal/types"
)

func newTestService() (*Service, *FakeIdentity, *store.MemoryStore) {
	identity := NewFakeIdentity()
	st := store.NewMemoryStore()
	logger := errors.NewLogger(slog.LevelError)
	return NewService(identity, st, 6, logger), identity, st
}

func validSignUp() SignUpRequest {
	return SignUpRequest{
		Email:           "jordan@example.com",
		Password:        "sup3rsecret",
		ConfirmPassword: "sup3rsecret",
		DisplayName:     "Jordan Lee",
		Role:            "student",
	}
}

func TestSignUpCreatesAccountAndProfile(t *testing.T) {
	svc, _, st := newTestService()

	profile, err := svc.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)
	require.NotEmpty(t, profile.UID)
	assert.Equal(t, types.RoleStudent, profile.Role)

	stored, err := st.GetUserProfile(context.Background(), profile.UID)
	require.NoError(t, err)
	assert.Equal(t, "jordan@example.com", stored.Email)
	assert.Nil(t, stored.SchoolID)
	assert.Nil(t, stored.EmployerID)
}

func TestSignUpPasswordMismatchBlocksAccountCreation(t *testing.T) {
	svc, identity, _ := newTestService()

	req := validSignUp()
	req.ConfirmPassword = "different"

	_, err := svc.SignUp(context.Background(), req)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodePasswordMismatch, appErr.Code)

	// The identity provider must never have been called.
	assert.Zero(t, identity.CreateCalls)
}

func TestSignUpRejectsShortPassword(t *testing.T) {
	svc, identity, _ := newTestService()

	req := validSignUp()
	req.Password = "abc"
	req.ConfirmPassword = "abc"

	_, err := svc.SignUp(context.Background(), req)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeWeakPassword, appErr.Code)
	assert.Zero(t, identity.CreateCalls)
}

func TestSignUpRejectsUnknownRole(t *testing.T) {
	svc, identity, _ := newTestService()

	req := validSignUp()
	req.Role = "superadmin"

	_, err := svc.SignUp(context.Background(), req)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidRole, appErr.Code)
	assert.Zero(t, identity.CreateCalls)
}

func TestSignUpIdentityFailureSurfacesError(t *testing.T) {
	svc, identity, _ := newTestService()
	identity.CreateUserErr = fmt.Errorf("provider unavailable")

	_, err := svc.SignUp(context.Background(), validSignUp())
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeAuth, appErr.Type)
}

func TestSignUpRollsBackAccountWhenProfileWriteFails(t *testing.T) {
	svc, identity, st := newTestService()

	// Occupy a UID in the profile store, then force the next identity
	// account onto the same UID so the profile write collides.
	require.NoError(t, st.CreateUserProfile(context.Background(),
		&types.UserProfile{UID: "collide", Email: "old@example.com", Role: types.RoleStudent}))
	identity.NextUID = "collide"

	_, err := svc.SignUp(context.Background(), validSignUp())
	require.Error(t, err)

	// The identity account was rolled back, so the email is free again.
	identity.NextUID = ""
	req := validSignUp()
	req.Email = "jordan@example.com"
	_, err = identity.CreateUser(context.Background(), req.Email, req.Password, req.DisplayName)
	require.NoError(t, err)
}

func TestVerifySessionReturnsProfile(t *testing.T) {
	svc, _, _ := newTestService()

	profile, err := svc.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	got, err := svc.VerifySession(context.Background(), TokenFor(profile.UID))
	require.NoError(t, err)
	assert.Equal(t, profile.UID, got.UID)
	assert.Equal(t, types.RoleStudent, got.Role)
}

func TestVerifySessionDefaultsMissingProfileToStudent(t *testing.T) {
	svc, _, _ := newTestService()

	got, err := svc.VerifySession(context.Background(), TokenFor("out-of-band-uid"))
	require.NoError(t, err)
	assert.Equal(t, "out-of-band-uid", got.UID)
	assert.Equal(t, types.RoleStudent, got.Role)
}

func TestVerifySessionRejectsMalformedToken(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.VerifySession(context.Background(), "garbage")
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeTokenInvalid, appErr.Code)

	_, err = svc.VerifySession(context.Background(), "")
	require.Error(t, err)
}

func TestSignOutRevokesTokens(t *testing.T) {
	svc, _, _ := newTestService()

	profile, err := svc.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(context.Background(), profile.UID))

	_, err = svc.VerifySession(context.Background(), TokenFor(profile.UID))
	require.Error(t, err)
}

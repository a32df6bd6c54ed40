package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"careerhub/internal/auth"
	"careerhub/internal/config"
	careerhubErrors "careerhub/internal/errors"
	"careerhub/internal/observability"
	"careerhub/internal/store"
	"careerhub/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server   *Server
	router   http.Handler
	store    *store.MemoryStore
	identity *auth.FakeIdentity
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Host = "localhost"
	cfg.Server.Port = "0"
	cfg.Server.MaxRequestBody = 1 << 20
	cfg.Server.TLS.Mode = "disabled"
	cfg.App.DefaultFormat = "text"
	cfg.App.MinPasswordLen = 6
	cfg.Store.Backend = "memory"
	return cfg
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	logger := careerhubErrors.NewLogger(slog.LevelError)
	st := store.NewMemoryStore()
	identity := auth.NewFakeIdentity()
	authSvc := auth.NewService(identity, st, cfg.App.MinPasswordLen, logger)

	srv := NewServer(cfg, Deps{Store: st, Auth: authSvc}, "test", logger)
	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, cfg)
	require.NoError(t, err)

	return &testEnv{
		server:   srv,
		router:   srv.setupRoutes(om),
		store:    st,
		identity: identity,
	}
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func (env *testEnv) signUp(t *testing.T, email, role string) (types.UserProfile, string) {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", auth.SignUpRequest{
		Email:           email,
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
		DisplayName:     "Test User",
		Role:            role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	profile := decodeBody[types.UserProfile](t, rec)
	return profile, auth.TokenFor(profile.UID)
}

// employerWithCompany signs up an employer and saves the company profile so
// posting management endpoints are usable.
func (env *testEnv) employerWithCompany(t *testing.T, email string) string {
	t.Helper()

	_, token := env.signUp(t, email, "employer")
	rec := env.do(t, http.MethodPut, "/api/v1/employer/profile", token, orgProfileRequest{
		Name: "Acme Corp",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return token
}

func (env *testEnv) createPosting(t *testing.T, token, status string) types.JobPosting {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/api/v1/employer/jobs", token, postingRequest{
		Title:       "Backend Engineer",
		Description: "Build services",
		Type:        "Full-time",
		Location:    "Remote",
		Status:      status,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[types.JobPosting](t, rec)
}

func TestSignUpAndMe(t *testing.T) {
	env := newTestEnv(t)

	profile, token := env.signUp(t, "student@example.com", "student")
	assert.Equal(t, types.RoleStudent, profile.Role)

	rec := env.do(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	me := decodeBody[types.UserProfile](t, rec)
	assert.Equal(t, "student@example.com", me.Email)
	assert.Equal(t, profile.UID, me.UID)
}

func TestSignUpPasswordMismatchBlocksAccountCreation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", auth.SignUpRequest{
		Email:           "student@example.com",
		Password:        "hunter22",
		ConfirmPassword: "different",
		DisplayName:     "Test User",
		Role:            "student",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, env.identity.CreateCalls)
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleGateBlocksWrongRole(t *testing.T) {
	env := newTestEnv(t)

	_, token := env.signUp(t, "student@example.com", "student")
	rec := env.do(t, http.MethodPost, "/api/v1/employer/jobs", token, postingRequest{
		Title: "Nope", Description: "Nope", Type: "Full-time",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEmployerWithoutCompanyProfileGetsConflict(t *testing.T) {
	env := newTestEnv(t)

	_, token := env.signUp(t, "boss@example.com", "employer")
	rec := env.do(t, http.MethodPost, "/api/v1/employer/jobs", token, postingRequest{
		Title: "Backend Engineer", Description: "Build services", Type: "Full-time",
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, careerhubErrors.ErrCodeProfileIncomplete, body.Code)
}

func TestPublicBoardShowsOnlyOpenPostings(t *testing.T) {
	env := newTestEnv(t)
	token := env.employerWithCompany(t, "boss@example.com")

	draft := env.createPosting(t, token, "draft")
	open := env.createPosting(t, token, "open")

	rec := env.do(t, http.MethodGet, "/api/v1/jobs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	postings := decodeBody[[]types.JobPosting](t, rec)
	require.Len(t, postings, 1)
	assert.Equal(t, open.ID, postings[0].ID)

	// Drafts are indistinguishable from missing postings on the public board.
	rec = env.do(t, http.MethodGet, "/api/v1/jobs/"+draft.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/jobs/"+open.ID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCombinedOpportunityBoard(t *testing.T) {
	env := newTestEnv(t)

	employerToken := env.employerWithCompany(t, "boss@example.com")
	env.createPosting(t, employerToken, "draft")
	open := env.createPosting(t, employerToken, "open")

	_, adminToken := env.signUp(t, "admin@school.edu", "school_admin")
	rec := env.do(t, http.MethodPut, "/api/v1/school/profile", adminToken, orgProfileRequest{
		Name: "State University",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/school/internships", adminToken, programRequest{
		Title: "Summer Research", Description: "Lab work", Status: "open",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	program := decodeBody[types.InternshipProgram](t, rec)

	rec = env.do(t, http.MethodGet, "/api/v1/opportunities", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	board := decodeBody[[]opportunity](t, rec)
	require.Len(t, board, 2)

	kinds := map[string]string{}
	for _, o := range board {
		kinds[o.Kind] = o.ID
	}
	assert.Equal(t, open.ID, kinds["job"])
	assert.Equal(t, program.ID, kinds["internship"])
}

func TestPostingLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token := env.employerWithCompany(t, "boss@example.com")

	posting := env.createPosting(t, token, "draft")

	rec := env.do(t, http.MethodPatch, "/api/v1/employer/jobs/"+posting.ID+"/status", token,
		statusUpdateRequest{Status: "open"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPatch, "/api/v1/employer/jobs/"+posting.ID+"/status", token,
		statusUpdateRequest{Status: "closed"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Closed postings cannot go back to draft.
	rec = env.do(t, http.MethodPatch, "/api/v1/employer/jobs/"+posting.ID+"/status", token,
		statusUpdateRequest{Status: "draft"})
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, careerhubErrors.ErrCodeInvalidTransition, body.Code)
}

func TestStudentApplyFlow(t *testing.T) {
	env := newTestEnv(t)
	employerToken := env.employerWithCompany(t, "boss@example.com")
	posting := env.createPosting(t, employerToken, "open")

	_, studentToken := env.signUp(t, "student@example.com", "student")

	rec := env.do(t, http.MethodPost, "/api/v1/student/applications/jobs", studentToken,
		applyJobRequest{JobPostingID: posting.ID, CoverLetter: "Hi"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	app := decodeBody[types.JobApplication](t, rec)
	assert.Equal(t, types.JobAppPending, app.Status)
	assert.Equal(t, posting.Title, app.PostingTitle)
	assert.Equal(t, "student@example.com", app.StudentEmail)
	assert.False(t, app.ApplicationDate.IsZero())

	rec = env.do(t, http.MethodGet, "/api/v1/student/applications/jobs", studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	apps := decodeBody[[]types.JobApplication](t, rec)
	assert.Len(t, apps, 1)
}

func TestApplyToDraftPostingRejected(t *testing.T) {
	env := newTestEnv(t)
	employerToken := env.employerWithCompany(t, "boss@example.com")
	posting := env.createPosting(t, employerToken, "draft")

	_, studentToken := env.signUp(t, "student@example.com", "student")

	rec := env.do(t, http.MethodPost, "/api/v1/student/applications/jobs", studentToken,
		applyJobRequest{JobPostingID: posting.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmployerApplicationStatusUpdate(t *testing.T) {
	env := newTestEnv(t)
	employerToken := env.employerWithCompany(t, "boss@example.com")
	posting := env.createPosting(t, employerToken, "open")

	_, studentToken := env.signUp(t, "student@example.com", "student")
	rec := env.do(t, http.MethodPost, "/api/v1/student/applications/jobs", studentToken,
		applyJobRequest{JobPostingID: posting.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	app := decodeBody[types.JobApplication](t, rec)

	rec = env.do(t, http.MethodPatch, "/api/v1/employer/applications/"+app.ID+"/status", employerToken,
		statusUpdateRequest{Status: "shortlisted"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[types.JobApplication](t, rec)
	assert.Equal(t, types.JobAppShortlisted, updated.Status)

	// Shortlisted applications cannot jump straight to offered.
	rec = env.do(t, http.MethodPatch, "/api/v1/employer/applications/"+app.ID+"/status", employerToken,
		statusUpdateRequest{Status: "offered"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStudentDeclinesOwnApplication(t *testing.T) {
	env := newTestEnv(t)
	employerToken := env.employerWithCompany(t, "boss@example.com")
	posting := env.createPosting(t, employerToken, "open")

	_, studentToken := env.signUp(t, "student@example.com", "student")
	rec := env.do(t, http.MethodPost, "/api/v1/student/applications/jobs", studentToken,
		applyJobRequest{JobPostingID: posting.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	app := decodeBody[types.JobApplication](t, rec)

	rec = env.do(t, http.MethodPost, "/api/v1/student/applications/jobs/"+app.ID+"/decline", studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	declined := decodeBody[types.JobApplication](t, rec)
	assert.Equal(t, types.JobAppDeclined, declined.Status)

	// Another student's application reads as not found.
	_, otherToken := env.signUp(t, "other@example.com", "student")
	rec = env.do(t, http.MethodPost, "/api/v1/student/applications/jobs/"+app.ID+"/decline", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSchoolInternshipFlow(t *testing.T) {
	env := newTestEnv(t)

	_, adminToken := env.signUp(t, "admin@school.edu", "school_admin")
	rec := env.do(t, http.MethodPut, "/api/v1/school/profile", adminToken, orgProfileRequest{
		Name: "State University",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/school/internships", adminToken, programRequest{
		Title: "Summer Research", Description: "Lab work", Status: "open",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	program := decodeBody[types.InternshipProgram](t, rec)
	assert.Equal(t, "State University", program.SchoolName)

	_, studentToken := env.signUp(t, "student@example.com", "student")
	rec = env.do(t, http.MethodPost, "/api/v1/student/applications/internships", studentToken,
		applyInternshipRequest{InternshipProgramID: program.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	app := decodeBody[types.InternshipApplication](t, rec)
	assert.Equal(t, types.InternAppPending, app.Status)

	rec = env.do(t, http.MethodPatch, "/api/v1/school/applications/"+app.ID+"/status", adminToken,
		statusUpdateRequest{Status: "reviewed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPatch, "/api/v1/school/applications/"+app.ID+"/status", adminToken,
		statusUpdateRequest{Status: "accepted"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Accepted is terminal.
	rec = env.do(t, http.MethodPatch, "/api/v1/school/applications/"+app.ID+"/status", adminToken,
		statusUpdateRequest{Status: "rejected"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestResumeRoundTripAndExport(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp(t, "student@example.com", "student")

	doc := types.Resume{
		Personal: types.PersonalInfo{FullName: "Jordan Lee", Email: "student@example.com"},
		Summary:  "Graduating CS student",
		Skills:   []string{"Go", "SQL"},
	}
	rec := env.do(t, http.MethodPut, "/api/v1/student/resume", token, doc)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/v1/student/resume", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	saved := decodeBody[types.Resume](t, rec)
	assert.Equal(t, "Jordan Lee", saved.Personal.FullName)

	rec = env.do(t, http.MethodGet, "/api/v1/student/resume/export?format=markdown", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Jordan Lee")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")

	rec = env.do(t, http.MethodGet, "/api/v1/student/resume/export?format=docx", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOwnershipHidesForeignPostings(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := env.employerWithCompany(t, "boss@example.com")
	posting := env.createPosting(t, ownerToken, "open")

	otherToken := env.employerWithCompany(t, "rival@example.com")
	rec := env.do(t, http.MethodPatch, "/api/v1/employer/jobs/"+posting.ID+"/status", otherToken,
		statusUpdateRequest{Status: "closed"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimitExceeded(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.Server.RateLimit.Enabled = true
		cfg.Server.RateLimit.RequestsPerMin = 1
		cfg.Server.RateLimit.BurstCapacity = 1
		cfg.Server.RateLimit.ByIP = true
	})

	body := auth.SignUpRequest{
		Email:           "a@example.com",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
		Role:            "student",
	}
	rec := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body.Email = "b@example.com"
	rec = env.do(t, http.MethodPost, "/api/v1/auth/signup", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHealthReportsStoreBackend(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	// AI services cannot start without an API key, so the endpoint reports
	// degraded, but the store section must show the memory backend as up.
	require.Contains(t, []int{http.StatusOK, http.StatusServiceUnavailable}, rec.Code)

	payload := decodeBody[map[string]any](t, rec)
	storeStatus, ok := payload["store"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, storeStatus["available"])
	assert.Equal(t, "memory", storeStatus["backend"])
}

func TestStatsExposesRateLimitConfig(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "careerhub", payload["service"])
	assert.Contains(t, payload, "rate_limiting")
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerhub/internal/errors"
	"careerhub/internal/types"
)

func seedOpenPosting(t *testing.T, s *MemoryStore) *types.JobPosting {
	t.Helper()
	posting := &types.JobPosting{
		Title:       "Backend Engineer",
		Description: "Build APIs",
		EmployerID:  "emp-1",
		CompanyName: "Acme",
		Type:        types.EmploymentFullTime,
		Location:    "Remote",
		Status:      types.PostingOpen,
		CreatedBy:   "user-emp-1",
	}
	_, err := s.CreateJobPosting(context.Background(), posting)
	require.NoError(t, err)
	return posting
}

func seedOpenProgram(t *testing.T, s *MemoryStore) *types.InternshipProgram {
	t.Helper()
	program := &types.InternshipProgram{
		Title:      "Summer Internship",
		SchoolID:   "school-1",
		SchoolName: "Tech High",
		Status:     types.PostingOpen,
		CreatedBy:  "user-school-1",
	}
	_, err := s.CreateInternshipProgram(context.Background(), program)
	require.NoError(t, err)
	return program
}

func studentRequest(postingID string) JobApplicationRequest {
	return JobApplicationRequest{
		StudentID:    "stu-1",
		StudentName:  "Jordan Lee",
		StudentEmail: "jordan@example.com",
		JobPostingID: postingID,
		CoverLetter:  "I am interested in this role.",
	}
}

func TestListOpenJobPostingsExcludesDraftAndClosed(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	open := seedOpenPosting(t, s)

	draft := &types.JobPosting{Title: "Draft role", EmployerID: "emp-1", Status: types.PostingDraft}
	_, err := s.CreateJobPosting(ctx, draft)
	require.NoError(t, err)

	closed := &types.JobPosting{Title: "Closed role", EmployerID: "emp-1", Status: types.PostingClosed}
	_, err = s.CreateJobPosting(ctx, closed)
	require.NoError(t, err)

	listed, err := s.ListOpenJobPostings(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, open.ID, listed[0].ID)

	// The owner still sees all three.
	mine, err := s.ListJobPostingsByEmployer(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestApplyForJobSnapshotsPosting(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	posting := seedOpenPosting(t, s)

	app, err := s.ApplyForJob(ctx, studentRequest(posting.ID))
	require.NoError(t, err)

	assert.NotEmpty(t, app.ID)
	assert.Equal(t, posting.Title, app.PostingTitle)
	assert.Equal(t, posting.EmployerID, app.EmployerID)
	assert.Equal(t, types.JobAppPending, app.Status)
	assert.False(t, app.ApplicationDate.IsZero())
	assert.Equal(t, app.ApplicationDate, app.UpdatedAt)
}

func TestApplyForJobRejectedWhenNotOpen(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	posting := seedOpenPosting(t, s)
	require.NoError(t, s.UpdateJobPostingStatus(ctx, posting.ID, types.PostingClosed))

	_, err := s.ApplyForJob(ctx, studentRequest(posting.ID))
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidRequest, appErr.Code)
}

func TestDuplicateApplicationsCreateSeparateDocuments(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	posting := seedOpenPosting(t, s)

	first, err := s.ApplyForJob(ctx, studentRequest(posting.ID))
	require.NoError(t, err)
	second, err := s.ApplyForJob(ctx, studentRequest(posting.ID))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	apps, err := s.ListJobApplicationsByPosting(ctx, posting.ID)
	require.NoError(t, err)
	assert.Len(t, apps, 2)
}

func TestStatusUpdatePreservesApplicationDate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	posting := seedOpenPosting(t, s)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	current := base
	original := now
	now = func() time.Time { return current }
	defer func() { now = original }()

	app, err := s.ApplyForJob(ctx, studentRequest(posting.ID))
	require.NoError(t, err)
	require.Equal(t, base, app.ApplicationDate)

	current = base.Add(48 * time.Hour)
	updated, err := s.UpdateJobApplicationStatus(ctx, app.ID, types.JobAppShortlisted)
	require.NoError(t, err)

	assert.Equal(t, base, updated.ApplicationDate, "applicationDate is written once at creation")
	assert.Equal(t, current, updated.UpdatedAt)
}

func TestSameStatusUpdateIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	posting := seedOpenPosting(t, s)

	app, err := s.ApplyForJob(ctx, studentRequest(posting.ID))
	require.NoError(t, err)

	updated, err := s.UpdateJobApplicationStatus(ctx, app.ID, types.JobAppPending)
	require.NoError(t, err)
	assert.Equal(t, types.JobAppPending, updated.Status)
}

func TestJobApplicationInvalidTransitions(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	posting := seedOpenPosting(t, s)

	app, err := s.ApplyForJob(ctx, studentRequest(posting.ID))
	require.NoError(t, err)

	// pending cannot jump straight to offered.
	_, err = s.UpdateJobApplicationStatus(ctx, app.ID, types.JobAppOffered)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidTransition, appErr.Code)

	// rejected is terminal.
	_, err = s.UpdateJobApplicationStatus(ctx, app.ID, types.JobAppRejected)
	require.NoError(t, err)
	_, err = s.UpdateJobApplicationStatus(ctx, app.ID, types.JobAppShortlisted)
	require.Error(t, err)
}

func TestJobPostingLifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	posting := &types.JobPosting{Title: "New role", EmployerID: "emp-1", Status: types.PostingDraft}
	id, err := s.CreateJobPosting(ctx, posting)
	require.NoError(t, err)

	require.NoError(t, s.UpdateJobPostingStatus(ctx, id, types.PostingOpen))
	require.NoError(t, s.UpdateJobPostingStatus(ctx, id, types.PostingClosed))

	// Closed postings can be reopened.
	require.NoError(t, s.UpdateJobPostingStatus(ctx, id, types.PostingOpen))

	// Nothing goes back to draft.
	err = s.UpdateJobPostingStatus(ctx, id, types.PostingDraft)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidTransition, appErr.Code)
}

func TestApplyForInternshipDenormalizesSchool(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	program := seedOpenProgram(t, s)

	app, err := s.ApplyForInternship(ctx, InternshipApplicationRequest{
		StudentID:           "stu-1",
		StudentName:         "Jordan Lee",
		StudentEmail:        "jordan@example.com",
		InternshipProgramID: program.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, program.SchoolID, app.SchoolID)
	assert.Equal(t, program.Title, app.ProgramTitle)
	assert.Equal(t, types.InternAppPending, app.Status)

	bySchool, err := s.ListInternshipApplicationsBySchool(ctx, program.SchoolID)
	require.NoError(t, err)
	require.Len(t, bySchool, 1)
	assert.Equal(t, app.ID, bySchool[0].ID)
}

func TestInternshipApplicationLifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	program := seedOpenProgram(t, s)

	app, err := s.ApplyForInternship(ctx, InternshipApplicationRequest{
		StudentID:           "stu-1",
		InternshipProgramID: program.ID,
	})
	require.NoError(t, err)

	_, err = s.UpdateInternshipApplicationStatus(ctx, app.ID, types.InternAppReviewed)
	require.NoError(t, err)
	_, err = s.UpdateInternshipApplicationStatus(ctx, app.ID, types.InternAppAccepted)
	require.NoError(t, err)

	// accepted is terminal.
	_, err = s.UpdateInternshipApplicationStatus(ctx, app.ID, types.InternAppRejected)
	require.Error(t, err)
}

func TestProfileOrganizationLinks(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	profile := &types.UserProfile{
		UID:         "user-emp-1",
		Email:       "hr@acme.com",
		DisplayName: "Acme HR",
		Role:        types.RoleEmployer,
	}
	require.NoError(t, s.CreateUserProfile(ctx, profile))

	// Freshly signed-up employers have no organization yet.
	got, err := s.GetUserProfile(ctx, "user-emp-1")
	require.NoError(t, err)
	assert.Nil(t, got.EmployerID)

	empID, err := s.SaveEmployer(ctx, &types.Employer{Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, s.SetProfileEmployer(ctx, "user-emp-1", empID))

	got, err = s.GetUserProfile(ctx, "user-emp-1")
	require.NoError(t, err)
	require.NotNil(t, got.EmployerID)
	assert.Equal(t, empID, *got.EmployerID)
}

func TestCreateUserProfileRejectsDuplicateUID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	profile := &types.UserProfile{UID: "dup", Email: "a@b.c", Role: types.RoleStudent}
	require.NoError(t, s.CreateUserProfile(ctx, profile))

	err := s.CreateUserProfile(ctx, &types.UserProfile{UID: "dup", Email: "x@y.z", Role: types.RoleStudent})
	require.Error(t, err)
}

func TestResumeSaveAndLoad(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	resume := &types.Resume{
		StudentID: "stu-1",
		Personal:  types.PersonalInfo{FullName: "Jordan Lee", Email: "jordan@example.com"},
		Summary:   "CS student interested in backend work.",
		Skills:    []string{"Go", "SQL"},
	}
	require.NoError(t, s.SaveResume(ctx, resume))

	got, err := s.GetResume(ctx, "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "Jordan Lee", got.Personal.FullName)
	assert.Equal(t, []string{"Go", "SQL"}, got.Skills)

	_, err = s.GetResume(ctx, "stu-unknown")
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
}

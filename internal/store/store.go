// Package store persists careerhub documents. The Firestore implementation
// is the production backend; the memory implementation backs tests and
// local development without credentials.
package store

import (
	"context"
	"time"

	"careerhub/internal/types"
)

// Firestore collection names. The memory backend reuses them as map keys so
// both backends stay query-compatible.
const (
	CollectionUserProfiles           = "userProfiles"
	CollectionSchools                = "schools"
	CollectionEmployers              = "employers"
	CollectionJobPostings            = "jobPostings"
	CollectionJobApplications        = "jobApplications"
	CollectionInternshipPrograms     = "internshipPrograms"
	CollectionInternshipApplications = "internshipApplications"
	CollectionResumes                = "resumes"
)

// JobApplicationRequest carries what the student submits when applying to a
// job posting. The store fills in the denormalized snapshot fields.
type JobApplicationRequest struct {
	StudentID    string
	StudentName  string
	StudentEmail string
	JobPostingID string
	CoverLetter  string
	ResumeLink   string
}

// InternshipApplicationRequest is the internship counterpart of
// JobApplicationRequest.
type InternshipApplicationRequest struct {
	StudentID           string
	StudentName         string
	StudentEmail        string
	InternshipProgramID string
	CoverLetter         string
}

// Store defines the persistence operations the handlers depend on.
// Status updates validate the requested transition against the lifecycle
// tables in the types package and bump UpdatedAt; ApplicationDate is written
// once at creation and never touched again.
type Store interface {
	// User profiles, keyed by the Firebase UID.
	CreateUserProfile(ctx context.Context, profile *types.UserProfile) error
	GetUserProfile(ctx context.Context, uid string) (*types.UserProfile, error)
	SetProfileSchool(ctx context.Context, uid, schoolID string) error
	SetProfileEmployer(ctx context.Context, uid, employerID string) error

	// Organization documents.
	SaveSchool(ctx context.Context, school *types.School) (string, error)
	GetSchool(ctx context.Context, id string) (*types.School, error)
	SaveEmployer(ctx context.Context, employer *types.Employer) (string, error)
	GetEmployer(ctx context.Context, id string) (*types.Employer, error)

	// Job postings.
	CreateJobPosting(ctx context.Context, posting *types.JobPosting) (string, error)
	GetJobPosting(ctx context.Context, id string) (*types.JobPosting, error)
	ListOpenJobPostings(ctx context.Context) ([]types.JobPosting, error)
	ListJobPostingsByEmployer(ctx context.Context, employerID string) ([]types.JobPosting, error)
	UpdateJobPosting(ctx context.Context, posting *types.JobPosting) error
	UpdateJobPostingStatus(ctx context.Context, id string, status types.PostingStatus) error

	// Internship programs.
	CreateInternshipProgram(ctx context.Context, program *types.InternshipProgram) (string, error)
	GetInternshipProgram(ctx context.Context, id string) (*types.InternshipProgram, error)
	ListOpenInternshipPrograms(ctx context.Context) ([]types.InternshipProgram, error)
	ListInternshipProgramsBySchool(ctx context.Context, schoolID string) ([]types.InternshipProgram, error)
	UpdateInternshipProgram(ctx context.Context, program *types.InternshipProgram) error
	UpdateInternshipProgramStatus(ctx context.Context, id string, status types.PostingStatus) error

	// Job applications.
	ApplyForJob(ctx context.Context, req JobApplicationRequest) (*types.JobApplication, error)
	GetJobApplication(ctx context.Context, id string) (*types.JobApplication, error)
	ListJobApplicationsByPosting(ctx context.Context, jobPostingID string) ([]types.JobApplication, error)
	ListJobApplicationsByEmployer(ctx context.Context, employerID string) ([]types.JobApplication, error)
	ListJobApplicationsByStudent(ctx context.Context, studentID string) ([]types.JobApplication, error)
	UpdateJobApplicationStatus(ctx context.Context, id string, status types.JobApplicationStatus) (*types.JobApplication, error)

	// Internship applications.
	ApplyForInternship(ctx context.Context, req InternshipApplicationRequest) (*types.InternshipApplication, error)
	GetInternshipApplication(ctx context.Context, id string) (*types.InternshipApplication, error)
	ListInternshipApplicationsByProgram(ctx context.Context, programID string) ([]types.InternshipApplication, error)
	ListInternshipApplicationsBySchool(ctx context.Context, schoolID string) ([]types.InternshipApplication, error)
	ListInternshipApplicationsByStudent(ctx context.Context, studentID string) ([]types.InternshipApplication, error)
	UpdateInternshipApplicationStatus(ctx context.Context, id string, status types.InternshipApplicationStatus) (*types.InternshipApplication, error)

	// Resumes, one document per student keyed by UID.
	SaveResume(ctx context.Context, resume *types.Resume) error
	GetResume(ctx context.Context, studentID string) (*types.Resume, error)

	// Ping reports whether the backend is reachable, for health checks.
	Ping(ctx context.Context) error
	Close() error
}

// now is swapped out in tests that assert timestamp behavior.
var now = func() time.Time { return time.Now().UTC() }

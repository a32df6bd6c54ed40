package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"careerhub/internal/errors"
	"careerhub/internal/types"
)

// MemoryStore is an in-process Store used by tests and by local development
// when no Firestore project is configured. It applies the same lifecycle and
// timestamp rules as the Firestore backend.
type MemoryStore struct {
	mu sync.RWMutex

	profiles   map[string]types.UserProfile
	schools    map[string]types.School
	employers  map[string]types.Employer
	postings   map[string]types.JobPosting
	programs   map[string]types.InternshipProgram
	jobApps    map[string]types.JobApplication
	internApps map[string]types.InternshipApplication
	resumes    map[string]types.Resume
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:   make(map[string]types.UserProfile),
		schools:    make(map[string]types.School),
		employers:  make(map[string]types.Employer),
		postings:   make(map[string]types.JobPosting),
		programs:   make(map[string]types.InternshipProgram),
		jobApps:    make(map[string]types.JobApplication),
		internApps: make(map[string]types.InternshipApplication),
		resumes:    make(map[string]types.Resume),
	}
}

func notFound(resource, id string) *errors.AppError {
	return errors.NewStoreError(errors.ErrCodeNotFound,
		fmt.Sprintf("%s not found", resource), nil).
		WithContext("resource", resource).
		WithContext("id", id)
}

func (s *MemoryStore) CreateUserProfile(_ context.Context, profile *types.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[profile.UID]; exists {
		return errors.NewStoreError(errors.ErrCodeInvalidRequest,
			"User profile already exists", nil).WithContext("uid", profile.UID)
	}
	profile.CreatedAt = now()
	s.profiles[profile.UID] = *profile
	return nil
}

func (s *MemoryStore) GetUserProfile(_ context.Context, uid string) (*types.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[uid]
	if !ok {
		return nil, notFound("user profile", uid)
	}
	return &profile, nil
}

func (s *MemoryStore) SetProfileSchool(_ context.Context, uid, schoolID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[uid]
	if !ok {
		return notFound("user profile", uid)
	}
	profile.SchoolID = &schoolID
	s.profiles[uid] = profile
	return nil
}

func (s *MemoryStore) SetProfileEmployer(_ context.Context, uid, employerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[uid]
	if !ok {
		return notFound("user profile", uid)
	}
	profile.EmployerID = &employerID
	s.profiles[uid] = profile
	return nil
}

func (s *MemoryStore) SaveSchool(_ context.Context, school *types.School) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if school.ID == "" {
		school.ID = uuid.NewString()
	}
	school.UpdatedAt = now()
	s.schools[school.ID] = *school
	return school.ID, nil
}

func (s *MemoryStore) GetSchool(_ context.Context, id string) (*types.School, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	school, ok := s.schools[id]
	if !ok {
		return nil, notFound("school", id)
	}
	return &school, nil
}

func (s *MemoryStore) SaveEmployer(_ context.Context, employer *types.Employer) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if employer.ID == "" {
		employer.ID = uuid.NewString()
	}
	employer.UpdatedAt = now()
	s.employers[employer.ID] = *employer
	return employer.ID, nil
}

func (s *MemoryStore) GetEmployer(_ context.Context, id string) (*types.Employer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	employer, ok := s.employers[id]
	if !ok {
		return nil, notFound("employer", id)
	}
	return &employer, nil
}

func (s *MemoryStore) CreateJobPosting(_ context.Context, posting *types.JobPosting) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posting.ID = uuid.NewString()
	ts := now()
	posting.CreatedAt = ts
	posting.UpdatedAt = ts
	s.postings[posting.ID] = *posting
	return posting.ID, nil
}

func (s *MemoryStore) GetJobPosting(_ context.Context, id string) (*types.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	posting, ok := s.postings[id]
	if !ok {
		return nil, notFound("job posting", id)
	}
	return &posting, nil
}

func (s *MemoryStore) ListOpenJobPostings(_ context.Context) ([]types.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []types.JobPosting{}
	for _, posting := range s.postings {
		if posting.Status == types.PostingOpen {
			result = append(result, posting)
		}
	}
	return result, nil
}

func (s *MemoryStore) ListJobPostingsByEmployer(_ context.Context, employerID string) ([]types.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []types.JobPosting{}
	for _, posting := range s.postings {
		if posting.EmployerID == employerID {
			result = append(result, posting)
		}
	}
	return result, nil
}

func (s *MemoryStore) UpdateJobPosting(_ context.Context, posting *types.JobPosting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.postings[posting.ID]
	if !ok {
		return notFound("job posting", posting.ID)
	}
	current.Title = posting.Title
	current.Description = posting.Description
	current.Requirements = posting.Requirements
	current.Type = posting.Type
	current.Location = posting.Location
	current.UpdatedAt = now()
	s.postings[posting.ID] = current
	return nil
}

func (s *MemoryStore) UpdateJobPostingStatus(_ context.Context, id string, status types.PostingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	posting, ok := s.postings[id]
	if !ok {
		return notFound("job posting", id)
	}
	if !posting.Status.CanTransition(status) {
		return invalidTransition("job posting", id, string(posting.Status), string(status))
	}
	posting.Status = status
	posting.UpdatedAt = now()
	s.postings[id] = posting
	return nil
}

func (s *MemoryStore) CreateInternshipProgram(_ context.Context, program *types.InternshipProgram) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	program.ID = uuid.NewString()
	ts := now()
	program.CreatedAt = ts
	program.UpdatedAt = ts
	s.programs[program.ID] = *program
	return program.ID, nil
}

func (s *MemoryStore) GetInternshipProgram(_ context.Context, id string) (*types.InternshipProgram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	program, ok := s.programs[id]
	if !ok {
		return nil, notFound("internship program", id)
	}
	return &program, nil
}

func (s *MemoryStore) ListOpenInternshipPrograms(_ context.Context) ([]types.InternshipProgram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []types.InternshipProgram{}
	for _, program := range s.programs {
		if program.Status == types.PostingOpen {
			result = append(result, program)
		}
	}
	return result, nil
}

func (s *MemoryStore) ListInternshipProgramsBySchool(_ context.Context, schoolID string) ([]types.InternshipProgram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []types.InternshipProgram{}
	for _, program := range s.programs {
		if program.SchoolID == schoolID {
			result = append(result, program)
		}
	}
	return result, nil
}

func (s *MemoryStore) UpdateInternshipProgram(_ context.Context, program *types.InternshipProgram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.programs[program.ID]
	if !ok {
		return notFound("internship program", program.ID)
	}
	current.Title = program.Title
	current.Description = program.Description
	current.Requirements = program.Requirements
	current.UpdatedAt = now()
	s.programs[program.ID] = current
	return nil
}

func (s *MemoryStore) UpdateInternshipProgramStatus(_ context.Context, id string, status types.PostingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	program, ok := s.programs[id]
	if !ok {
		return notFound("internship program", id)
	}
	if !program.Status.CanTransition(status) {
		return invalidTransition("internship program", id, string(program.Status), string(status))
	}
	program.Status = status
	program.UpdatedAt = now()
	s.programs[id] = program
	return nil
}

func (s *MemoryStore) ApplyForJob(_ context.Context, req JobApplicationRequest) (*types.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posting, ok := s.postings[req.JobPostingID]
	if !ok {
		return nil, notFound("job posting", req.JobPostingID)
	}
	if posting.Status != types.PostingOpen {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Job posting is not open for applications", nil).
			WithContext("job_posting_id", req.JobPostingID).
			WithContext("status", string(posting.Status))
	}

	ts := now()
	app := types.JobApplication{
		ID:              uuid.NewString(),
		StudentID:       req.StudentID,
		StudentName:     req.StudentName,
		StudentEmail:    req.StudentEmail,
		JobPostingID:    req.JobPostingID,
		PostingTitle:    posting.Title,
		EmployerID:      posting.EmployerID,
		CoverLetter:     req.CoverLetter,
		ResumeLink:      req.ResumeLink,
		Status:          types.JobAppPending,
		ApplicationDate: ts,
		UpdatedAt:       ts,
	}
	s.jobApps[app.ID] = app
	return &app, nil
}

func (s *MemoryStore) GetJobApplication(_ context.Context, id string) (*types.JobApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.jobApps[id]
	if !ok {
		return nil, notFound("job application", id)
	}
	return &app, nil
}

func (s *MemoryStore) ListJobApplicationsByPosting(_ context.Context, jobPostingID string) ([]types.JobApplication, error) {
	return s.filterJobApplications(func(app types.JobApplication) bool {
		return app.JobPostingID == jobPostingID
	})
}

func (s *MemoryStore) ListJobApplicationsByEmployer(_ context.Context, employerID string) ([]types.JobApplication, error) {
	return s.filterJobApplications(func(app types.JobApplication) bool {
		return app.EmployerID == employerID
	})
}

func (s *MemoryStore) ListJobApplicationsByStudent(_ context.Context, studentID string) ([]types.JobApplication, error) {
	return s.filterJobApplications(func(app types.JobApplication) bool {
		return app.StudentID == studentID
	})
}

func (s *MemoryStore) filterJobApplications(keep func(types.JobApplication) bool) ([]types.JobApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []types.JobApplication{}
	for _, app := range s.jobApps {
		if keep(app) {
			result = append(result, app)
		}
	}
	return result, nil
}

func (s *MemoryStore) UpdateJobApplicationStatus(_ context.Context, id string, newStatus types.JobApplicationStatus) (*types.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.jobApps[id]
	if !ok {
		return nil, notFound("job application", id)
	}
	if !app.Status.CanTransition(newStatus) {
		return nil, invalidTransition("job application", id, string(app.Status), string(newStatus))
	}
	app.Status = newStatus
	app.UpdatedAt = now()
	s.jobApps[id] = app
	return &app, nil
}

func (s *MemoryStore) ApplyForInternship(_ context.Context, req InternshipApplicationRequest) (*types.InternshipApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	program, ok := s.programs[req.InternshipProgramID]
	if !ok {
		return nil, notFound("internship program", req.InternshipProgramID)
	}
	if program.Status != types.PostingOpen {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Internship program is not open for applications", nil).
			WithContext("internship_program_id", req.InternshipProgramID).
			WithContext("status", string(program.Status))
	}

	ts := now()
	app := types.InternshipApplication{
		ID:                  uuid.NewString(),
		StudentID:           req.StudentID,
		StudentName:         req.StudentName,
		StudentEmail:        req.StudentEmail,
		InternshipProgramID: req.InternshipProgramID,
		ProgramTitle:        program.Title,
		SchoolID:            program.SchoolID,
		CoverLetter:         req.CoverLetter,
		Status:              types.InternAppPending,
		ApplicationDate:     ts,
		UpdatedAt:           ts,
	}
	s.internApps[app.ID] = app
	return &app, nil
}

func (s *MemoryStore) GetInternshipApplication(_ context.Context, id string) (*types.InternshipApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.internApps[id]
	if !ok {
		return nil, notFound("internship application", id)
	}
	return &app, nil
}

func (s *MemoryStore) ListInternshipApplicationsByProgram(_ context.Context, programID string) ([]types.InternshipApplication, error) {
	return s.filterInternshipApplications(func(app types.InternshipApplication) bool {
		return app.InternshipProgramID == programID
	})
}

func (s *MemoryStore) ListInternshipApplicationsBySchool(_ context.Context, schoolID string) ([]types.InternshipApplication, error) {
	return s.filterInternshipApplications(func(app types.InternshipApplication) bool {
		return app.SchoolID == schoolID
	})
}

func (s *MemoryStore) ListInternshipApplicationsByStudent(_ context.Context, studentID string) ([]types.InternshipApplication, error) {
	return s.filterInternshipApplications(func(app types.InternshipApplication) bool {
		return app.StudentID == studentID
	})
}

func (s *MemoryStore) filterInternshipApplications(keep func(types.InternshipApplication) bool) ([]types.InternshipApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []types.InternshipApplication{}
	for _, app := range s.internApps {
		if keep(app) {
			result = append(result, app)
		}
	}
	return result, nil
}

func (s *MemoryStore) UpdateInternshipApplicationStatus(_ context.Context, id string, newStatus types.InternshipApplicationStatus) (*types.InternshipApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.internApps[id]
	if !ok {
		return nil, notFound("internship application", id)
	}
	if !app.Status.CanTransition(newStatus) {
		return nil, invalidTransition("internship application", id, string(app.Status), string(newStatus))
	}
	app.Status = newStatus
	app.UpdatedAt = now()
	s.internApps[id] = app
	return &app, nil
}

func (s *MemoryStore) SaveResume(_ context.Context, resume *types.Resume) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	resume.UpdatedAt = now()
	s.resumes[resume.StudentID] = *resume
	return nil
}

func (s *MemoryStore) GetResume(_ context.Context, studentID string) (*types.Resume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resume, ok := s.resumes[studentID]
	if !ok {
		return nil, notFound("resume", studentID)
	}
	return &resume, nil
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"careerhub/internal/config"
	"careerhub/internal/errors"
	"careerhub/internal/types"
)

// FirestoreStore implements Store on top of Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
	logger *errors.Logger
}

// NewFirestoreStore creates a Firestore-backed store. Credentials resolve in
// order: inline JSON (typically injected from Vault), a credentials file,
// then application default credentials.
func NewFirestoreStore(ctx context.Context, cfg *config.FirebaseConfig, logger *errors.Logger) (*FirestoreStore, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, errors.NewStoreError(errors.ErrCodeStoreUnavailable,
			"Failed to create Firestore client", err).
			WithContext("project_id", cfg.ProjectID)
	}

	logger.Info("Firestore store initialized", "project_id", cfg.ProjectID)
	return &FirestoreStore{client: client, logger: logger}, nil
}

// mapFirestoreError converts gRPC status codes into store errors so handlers
// never see transport details.
func mapFirestoreError(err error, resource, id string) *errors.AppError {
	if status.Code(err) == codes.NotFound {
		return errors.NewStoreError(errors.ErrCodeNotFound,
			fmt.Sprintf("%s not found", resource), err).
			WithContext("resource", resource).
			WithContext("id", id)
	}
	return errors.NewStoreError(errors.ErrCodeStoreUnavailable,
		fmt.Sprintf("Failed to access %s", resource), err).
		WithContext("resource", resource).
		WithContext("id", id)
}

func (s *FirestoreStore) CreateUserProfile(ctx context.Context, profile *types.UserProfile) error {
	profile.CreatedAt = now()
	_, err := s.client.Collection(CollectionUserProfiles).Doc(profile.UID).Create(ctx, profile)
	if err != nil {
		return mapFirestoreError(err, "user profile", profile.UID)
	}
	return nil
}

func (s *FirestoreStore) GetUserProfile(ctx context.Context, uid string) (*types.UserProfile, error) {
	snap, err := s.client.Collection(CollectionUserProfiles).Doc(uid).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(err, "user profile", uid)
	}
	var profile types.UserProfile
	if err := snap.DataTo(&profile); err != nil {
		return nil, mapFirestoreError(err, "user profile", uid)
	}
	return &profile, nil
}

func (s *FirestoreStore) SetProfileSchool(ctx context.Context, uid, schoolID string) error {
	return s.updateProfileLink(ctx, uid, "schoolId", schoolID)
}

func (s *FirestoreStore) SetProfileEmployer(ctx context.Context, uid, employerID string) error {
	return s.updateProfileLink(ctx, uid, "employerId", employerID)
}

func (s *FirestoreStore) updateProfileLink(ctx context.Context, uid, field, value string) error {
	_, err := s.client.Collection(CollectionUserProfiles).Doc(uid).Update(ctx, []firestore.Update{
		{Path: field, Value: value},
	})
	if err != nil {
		return mapFirestoreError(err, "user profile", uid)
	}
	return nil
}

// SaveSchool upserts the school document. The document ID is the owning
// admin's UID so each admin manages exactly one school.
func (s *FirestoreStore) SaveSchool(ctx context.Context, school *types.School) (string, error) {
	school.UpdatedAt = now()
	_, err := s.client.Collection(CollectionSchools).Doc(school.ID).Set(ctx, school, firestore.MergeAll)
	if err != nil {
		return "", mapFirestoreError(err, "school", school.ID)
	}
	return school.ID, nil
}

func (s *FirestoreStore) GetSchool(ctx context.Context, id string) (*types.School, error) {
	snap, err := s.client.Collection(CollectionSchools).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(err, "school", id)
	}
	var school types.School
	if err := snap.DataTo(&school); err != nil {
		return nil, mapFirestoreError(err, "school", id)
	}
	school.ID = snap.Ref.ID
	return &school, nil
}

func (s *FirestoreStore) SaveEmployer(ctx context.Context, employer *types.Employer) (string, error) {
	employer.UpdatedAt = now()
	_, err := s.client.Collection(CollectionEmployers).Doc(employer.ID).Set(ctx, employer, firestore.MergeAll)
	if err != nil {
		return "", mapFirestoreError(err, "employer", employer.ID)
	}
	return employer.ID, nil
}

func (s *FirestoreStore) GetEmployer(ctx context.Context, id string) (*types.Employer, error) {
	snap, err := s.client.Collection(CollectionEmployers).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(err, "employer", id)
	}
	var employer types.Employer
	if err := snap.DataTo(&employer); err != nil {
		return nil, mapFirestoreError(err, "employer", id)
	}
	employer.ID = snap.Ref.ID
	return &employer, nil
}

func (s *FirestoreStore) CreateJobPosting(ctx context.Context, posting *types.JobPosting) (string, error) {
	ts := now()
	posting.CreatedAt = ts
	posting.UpdatedAt = ts
	ref, _, err := s.client.Collection(CollectionJobPostings).Add(ctx, posting)
	if err != nil {
		return "", mapFirestoreError(err, "job posting", "")
	}
	posting.ID = ref.ID
	return ref.ID, nil
}

func (s *FirestoreStore) GetJobPosting(ctx context.Context, id string) (*types.JobPosting, error) {
	snap, err := s.client.Collection(CollectionJobPostings).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(err, "job posting", id)
	}
	var posting types.JobPosting
	if err := snap.DataTo(&posting); err != nil {
		return nil, mapFirestoreError(err, "job posting", id)
	}
	posting.ID = snap.Ref.ID
	return &posting, nil
}

func (s *FirestoreStore) ListOpenJobPostings(ctx context.Context) ([]types.JobPosting, error) {
	iter := s.client.Collection(CollectionJobPostings).
		Where("status", "==", string(types.PostingOpen)).
		Documents(ctx)
	return collectJobPostings(iter)
}

func (s *FirestoreStore) ListJobPostingsByEmployer(ctx context.Context, employerID string) ([]types.JobPosting, error) {
	iter := s.client.Collection(CollectionJobPostings).
		Where("employerId", "==", employerID).
		Documents(ctx)
	return collectJobPostings(iter)
}

func collectJobPostings(iter *firestore.DocumentIterator) ([]types.JobPosting, error) {
	postings := []types.JobPosting{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapFirestoreError(err, "job postings", "")
		}
		var posting types.JobPosting
		if err := doc.DataTo(&posting); err != nil {
			return nil, mapFirestoreError(err, "job postings", doc.Ref.ID)
		}
		posting.ID = doc.Ref.ID
		postings = append(postings, posting)
	}
	return postings, nil
}

// UpdateJobPosting rewrites the editable fields. Status changes go through
// UpdateJobPostingStatus so the lifecycle table applies.
func (s *FirestoreStore) UpdateJobPosting(ctx context.Context, posting *types.JobPosting) error {
	_, err := s.client.Collection(CollectionJobPostings).Doc(posting.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: posting.Title},
		{Path: "description", Value: posting.Description},
		{Path: "requirements", Value: posting.Requirements},
		{Path: "type", Value: string(posting.Type)},
		{Path: "location", Value: posting.Location},
		{Path: "updatedAt", Value: now()},
	})
	if err != nil {
		return mapFirestoreError(err, "job posting", posting.ID)
	}
	return nil
}

func (s *FirestoreStore) UpdateJobPostingStatus(ctx context.Context, id string, status types.PostingStatus) error {
	posting, err := s.GetJobPosting(ctx, id)
	if err != nil {
		return err
	}
	if !posting.Status.CanTransition(status) {
		return invalidTransition("job posting", id, string(posting.Status), string(status))
	}
	_, uerr := s.client.Collection(CollectionJobPostings).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(status)},
		{Path: "updatedAt", Value: now()},
	})
	if uerr != nil {
		return mapFirestoreError(uerr, "job posting", id)
	}
	return nil
}

func (s *FirestoreStore) CreateInternshipProgram(ctx context.Context, program *types.InternshipProgram) (string, error) {
	ts := now()
	program.CreatedAt = ts
	program.UpdatedAt = ts
	ref, _, err := s.client.Collection(CollectionInternshipPrograms).Add(ctx, program)
	if err != nil {
		return "", mapFirestoreError(err, "internship program", "")
	}
	program.ID = ref.ID
	return ref.ID, nil
}

func (s *FirestoreStore) GetInternshipProgram(ctx context.Context, id string) (*types.InternshipProgram, error) {
	snap, err := s.client.Collection(CollectionInternshipPrograms).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(err, "internship program", id)
	}
	var program types.InternshipProgram
	if err := snap.DataTo(&program); err != nil {
		return nil, mapFirestoreError(err, "internship program", id)
	}
	program.ID = snap.Ref.ID
	return &program, nil
}

func (s *FirestoreStore) ListOpenInternshipPrograms(ctx context.Context) ([]types.InternshipProgram, error) {
	iter := s.client.Collection(CollectionInternshipPrograms).
		Where("status", "==", string(types.PostingOpen)).
		Documents(ctx)
	return collectInternshipPrograms(iter)
}

func (s *FirestoreStore) ListInternshipProgramsBySchool(ctx context.Context, schoolID string) ([]types.InternshipProgram, error) {
	iter := s.client.Collection(CollectionInternshipPrograms).
		Where("schoolId", "==", schoolID).
		Documents(ctx)
	return collectInternshipPrograms(iter)
}

func collectInternshipPrograms(iter *firestore.DocumentIterator) ([]types.InternshipProgram, error) {
	programs := []types.InternshipProgram{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapFirestoreError(err, "internship programs", "")
		}
		var program types.InternshipProgram
		if err := doc.DataTo(&program); err != nil {
			return nil, mapFirestoreError(err, "internship programs", doc.Ref.ID)
		}
		program.ID = doc.Ref.ID
		programs = append(programs, program)
	}
	return programs, nil
}

func (s *FirestoreStore) UpdateInternshipProgram(ctx context.Context, program *types.InternshipProgram) error {
	_, err := s.client.Collection(CollectionInternshipPrograms).Doc(program.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: program.Title},
		{Path: "description", Value: program.Description},
		{Path: "requirements", Value: program.Requirements},
		{Path: "updatedAt", Value: now()},
	})
	if err != nil {
		return mapFirestoreError(err, "internship program", program.ID)
	}
	return nil
}

func (s *FirestoreStore) UpdateInternshipProgramStatus(ctx context.Context, id string, status types.PostingStatus) error {
	program, err := s.GetInternshipProgram(ctx, id)
	if err != nil {
		return err
	}
	if !program.Status.CanTransition(status) {
		return invalidTransition("internship program", id, string(program.Status), string(status))
	}
	_, uerr := s.client.Collection(CollectionInternshipPrograms).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(status)},
		{Path: "updatedAt", Value: now()},
	})
	if uerr != nil {
		return mapFirestoreError(uerr, "internship program", id)
	}
	return nil
}

// ApplyForJob snapshots the posting title and employer at application time.
// Students may apply to the same posting more than once; each submission is
// its own document.
func (s *FirestoreStore) ApplyForJob(ctx context.Context, req JobApplicationRequest) (*types.JobApplication, error) {
	posting, err := s.GetJobPosting(ctx, req.JobPostingID)
	if err != nil {
		return nil, err
	}
	if posting.Status != types.PostingOpen {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Job posting is not open for applications", nil).
			WithContext("job_posting_id", req.JobPostingID).
			WithContext("status", string(posting.Status))
	}

	ts := now()
	app := &types.JobApplication{
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
	ref, _, err := s.client.Collection(CollectionJobApplications).Add(ctx, app)
	if err != nil {
		return nil, mapFirestoreError(err, "job application", "")
	}
	app.ID = ref.ID
	return app, nil
}

func (s *FirestoreStore) GetJobApplication(ctx context.Context, id string) (*types.JobApplication, error) {
	snap, err := s.client.Collection(CollectionJobApplications).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(err, "job application", id)
	}
	var app types.JobApplication
	if err := snap.DataTo(&app); err != nil {
		return nil, mapFirestoreError(err, "job application", id)
	}
	app.ID = snap.Ref.ID
	return &app, nil
}

func (s *FirestoreStore) ListJobApplicationsByPosting(ctx context.Context, jobPostingID string) ([]types.JobApplication, error) {
	return s.collectJobApplications(ctx, "jobPostingId", jobPostingID)
}

func (s *FirestoreStore) ListJobApplicationsByEmployer(ctx context.Context, employerID string) ([]types.JobApplication, error) {
	return s.collectJobApplications(ctx, "employerId", employerID)
}

func (s *FirestoreStore) ListJobApplicationsByStudent(ctx context.Context, studentID string) ([]types.JobApplication, error) {
	return s.collectJobApplications(ctx, "studentId", studentID)
}

func (s *FirestoreStore) collectJobApplications(ctx context.Context, field, value string) ([]types.JobApplication, error) {
	iter := s.client.Collection(CollectionJobApplications).
		Where(field, "==", value).
		Documents(ctx)
	apps := []types.JobApplication{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapFirestoreError(err, "job applications", value)
		}
		var app types.JobApplication
		if err := doc.DataTo(&app); err != nil {
			return nil, mapFirestoreError(err, "job applications", doc.Ref.ID)
		}
		app.ID = doc.Ref.ID
		apps = append(apps, app)
	}
	return apps, nil
}

// UpdateJobApplicationStatus enforces the application lifecycle. Setting the
// current status again succeeds and still bumps updatedAt.
func (s *FirestoreStore) UpdateJobApplicationStatus(ctx context.Context, id string, newStatus types.JobApplicationStatus) (*types.JobApplication, error) {
	app, err := s.GetJobApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if !app.Status.CanTransition(newStatus) {
		return nil, invalidTransition("job application", id, string(app.Status), string(newStatus))
	}
	ts := now()
	_, uerr := s.client.Collection(CollectionJobApplications).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(newStatus)},
		{Path: "updatedAt", Value: ts},
	})
	if uerr != nil {
		return nil, mapFirestoreError(uerr, "job application", id)
	}
	app.Status = newStatus
	app.UpdatedAt = ts
	return app, nil
}

// ApplyForInternship mirrors ApplyForJob, additionally denormalizing the
// program's school ID so school admins can list applications with one
// equality filter.
func (s *FirestoreStore) ApplyForInternship(ctx context.Context, req InternshipApplicationRequest) (*types.InternshipApplication, error) {
	program, err := s.GetInternshipProgram(ctx, req.InternshipProgramID)
	if err != nil {
		return nil, err
	}
	if program.Status != types.PostingOpen {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Internship program is not open for applications", nil).
			WithContext("internship_program_id", req.InternshipProgramID).
			WithContext("status", string(program.Status))
	}

	ts := now()
	app := &types.InternshipApplication{
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
	ref, _, err := s.client.Collection(CollectionInternshipApplications).Add(ctx, app)
	if err != nil {
		return nil, mapFirestoreError(err, "internship application", "")
	}
	app.ID = ref.ID
	return app, nil
}

func (s *FirestoreStore) GetInternshipApplication(ctx context.Context, id string) (*types.InternshipApplication, error) {
	snap, err := s.client.Collection(CollectionInternshipApplications).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(err, "internship application", id)
	}
	var app types.InternshipApplication
	if err := snap.DataTo(&app); err != nil {
		return nil, mapFirestoreError(err, "internship application", id)
	}
	app.ID = snap.Ref.ID
	return &app, nil
}

func (s *FirestoreStore) ListInternshipApplicationsByProgram(ctx context.Context, programID string) ([]types.InternshipApplication, error) {
	return s.collectInternshipApplications(ctx, "internshipProgramId", programID)
}

func (s *FirestoreStore) ListInternshipApplicationsBySchool(ctx context.Context, schoolID string) ([]types.InternshipApplication, error) {
	return s.collectInternshipApplications(ctx, "schoolId", schoolID)
}

func (s *FirestoreStore) ListInternshipApplicationsByStudent(ctx context.Context, studentID string) ([]types.InternshipApplication, error) {
	return s.collectInternshipApplications(ctx, "studentId", studentID)
}

func (s *FirestoreStore) collectInternshipApplications(ctx context.Context, field, value string) ([]types.InternshipApplication, error) {
	iter := s.client.Collection(CollectionInternshipApplications).
		Where(field, "==", value).
		Documents(ctx)
	apps := []types.InternshipApplication{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapFirestoreError(err, "internship applications", value)
		}
		var app types.InternshipApplication
		if err := doc.DataTo(&app); err != nil {
			return nil, mapFirestoreError(err, "internship applications", doc.Ref.ID)
		}
		app.ID = doc.Ref.ID
		apps = append(apps, app)
	}
	return apps, nil
}

func (s *FirestoreStore) UpdateInternshipApplicationStatus(ctx context.Context, id string, newStatus types.InternshipApplicationStatus) (*types.InternshipApplication, error) {
	app, err := s.GetInternshipApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if !app.Status.CanTransition(newStatus) {
		return nil, invalidTransition("internship application", id, string(app.Status), string(newStatus))
	}
	ts := now()
	_, uerr := s.client.Collection(CollectionInternshipApplications).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(newStatus)},
		{Path: "updatedAt", Value: ts},
	})
	if uerr != nil {
		return nil, mapFirestoreError(uerr, "internship application", id)
	}
	app.Status = newStatus
	app.UpdatedAt = ts
	return app, nil
}

func (s *FirestoreStore) SaveResume(ctx context.Context, resume *types.Resume) error {
	resume.UpdatedAt = now()
	_, err := s.client.Collection(CollectionResumes).Doc(resume.StudentID).Set(ctx, resume)
	if err != nil {
		return mapFirestoreError(err, "resume", resume.StudentID)
	}
	return nil
}

func (s *FirestoreStore) GetResume(ctx context.Context, studentID string) (*types.Resume, error) {
	snap, err := s.client.Collection(CollectionResumes).Doc(studentID).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(err, "resume", studentID)
	}
	var resume types.Resume
	if err := snap.DataTo(&resume); err != nil {
		return nil, mapFirestoreError(err, "resume", studentID)
	}
	return &resume, nil
}

// Ping issues a cheap read against a fixed document to confirm connectivity.
// A NotFound answer still proves the backend responded.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	_, err := s.client.Collection(CollectionUserProfiles).Doc("__health__").Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return errors.NewStoreError(errors.ErrCodeStoreUnavailable,
			"Firestore ping failed", err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func invalidTransition(resource, id, from, to string) *errors.AppError {
	return errors.NewValidationError(errors.ErrCodeInvalidTransition,
		fmt.Sprintf("Cannot move %s from %s to %s", resource, from, to), nil).
		WithContext("resource", resource).
		WithContext("id", id).
		WithContext("from", from).
		WithContext("to", to)
}

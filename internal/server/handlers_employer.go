package server

import (
	"net/http"
	"strings"

	"careerhub/internal/errors"
	"careerhub/internal/observability"
	"careerhub/internal/types"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
)

// orgProfileRequest is the body for the school and employer profile upserts.
type orgProfileRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

// postingRequest is the body for creating and editing job postings.
type postingRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Type         string `json:"type"`
	Location     string `json:"location"`
	Status       string `json:"status,omitempty"`
}

// statusUpdateRequest is the body for all lifecycle PATCH endpoints.
type statusUpdateRequest struct {
	Status string `json:"status"`
}

func validEmploymentType(t string) bool {
	switch types.EmploymentType(t) {
	case types.EmploymentFullTime, types.EmploymentPartTime, types.EmploymentIntern,
		types.EmploymentContract, types.EmploymentTemporary:
		return true
	}
	return false
}

// writeProfileIncomplete reports the 409 returned when an employer or school
// admin tries to manage postings before saving their organization profile.
func writeProfileIncomplete(w http.ResponseWriter, role types.Role) {
	writeJSON(w, http.StatusConflict, ErrorResponse{
		Error:   "Profile incomplete",
		Code:    errors.ErrCodeProfileIncomplete,
		Message: "save your " + string(role) + " organization profile before using this endpoint",
	})
}

// employerID returns the caller's linked employer document id, or writes the
// profile-incomplete conflict and reports false.
func (s *Server) employerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	profile, ok := profileFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, "Missing session token", "Authorization Bearer token required", http.StatusUnauthorized)
		return "", false
	}
	if profile.EmployerID == nil || *profile.EmployerID == "" {
		writeProfileIncomplete(w, types.RoleEmployer)
		return "", false
	}
	return *profile.EmployerID, true
}

// saveEmployerProfileHandler upserts the caller's company document and links
// it to the user profile on first save
func (s *Server) saveEmployerProfileHandler(w http.ResponseWriter, r *http.Request) {
	profile, _ := profileFromContext(r.Context())

	var req orgProfileRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeErrorResponse(w, "Missing company name", "name field is required", http.StatusBadRequest)
		return
	}

	// Reuse the linked document if one exists, otherwise key the company
	// document by the owner's UID.
	id := profile.UID
	firstSave := profile.EmployerID == nil || *profile.EmployerID == ""
	if !firstSave {
		id = *profile.EmployerID
	}

	employer := &types.Employer{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
	}
	savedID, err := s.Store.SaveEmployer(r.Context(), employer)
	if err != nil {
		s.Logger.LogError(err, "Failed to save employer profile", "uid", profile.UID)
		writeAppError(w, "Failed to save employer profile", err)
		return
	}

	if firstSave {
		if err := s.Store.SetProfileEmployer(r.Context(), profile.UID, savedID); err != nil {
			s.Logger.LogError(err, "Failed to link employer profile", "uid", profile.UID)
			writeAppError(w, "Failed to link employer profile", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, employer)
}

// getEmployerProfileHandler returns the caller's company document
func (s *Server) getEmployerProfileHandler(w http.ResponseWriter, r *http.Request) {
	employerID, ok := s.employerID(w, r)
	if !ok {
		return
	}

	employer, err := s.Store.GetEmployer(r.Context(), employerID)
	if err != nil {
		writeAppError(w, "Employer profile not found", err)
		return
	}

	writeJSON(w, http.StatusOK, employer)
}

// createJobPostingHandler creates a posting owned by the caller's company.
// New postings start in draft unless the request explicitly asks for open.
func (s *Server) createJobPostingHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerhub.api")
		ctx, span := tracer.Start(ctx, "api.employer.create_posting")
		defer span.End()

		profile, _ := profileFromContext(ctx)
		employerID, ok := s.employerID(w, r)
		if !ok {
			return
		}

		var req postingRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			writeErrorResponse(w, "Missing title", "title field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Description) == "" {
			writeErrorResponse(w, "Missing description", "description field is required", http.StatusBadRequest)
			return
		}
		if !validEmploymentType(req.Type) {
			writeErrorResponse(w, "Invalid employment type", "type must be one of Full-time, Part-time, Internship, Contract, Temporary", http.StatusBadRequest)
			return
		}

		status := types.PostingDraft
		if req.Status != "" {
			parsed, valid := types.ParsePostingStatus(req.Status)
			if !valid || parsed == types.PostingClosed {
				writeErrorResponse(w, "Invalid status", "new postings may only be draft or open", http.StatusBadRequest)
				return
			}
			status = parsed
		}

		employer, err := s.Store.GetEmployer(ctx, employerID)
		if err != nil {
			span.RecordError(err)
			writeAppError(w, "Employer profile not found", err)
			return
		}

		posting := &types.JobPosting{
			Title:        req.Title,
			Description:  req.Description,
			Requirements: req.Requirements,
			EmployerID:   employerID,
			CompanyName:  employer.Name,
			Type:         types.EmploymentType(req.Type),
			Location:     req.Location,
			Status:       status,
			CreatedBy:    profile.UID,
		}
		id, err := s.Store.CreateJobPosting(ctx, posting)
		if err != nil {
			span.RecordError(err)
			metrics := om.GetMetrics()
			metrics.RecordBusinessMetric(ctx, "posting_created", false, om)
			writeAppError(w, "Failed to create job posting", err)
			return
		}
		posting.ID = id

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "posting_created", true, om,
			attribute.String("posting.type", req.Type),
			attribute.String("posting.status", string(status)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("posting.id", id),
		)
		writeJSON(w, http.StatusCreated, posting)
	}
}

// listEmployerJobsHandler lists every posting owned by the caller's company,
// drafts and closed postings included
func (s *Server) listEmployerJobsHandler(w http.ResponseWriter, r *http.Request) {
	employerID, ok := s.employerID(w, r)
	if !ok {
		return
	}

	postings, err := s.Store.ListJobPostingsByEmployer(r.Context(), employerID)
	if err != nil {
		writeAppError(w, "Failed to list job postings", err)
		return
	}

	writeJSON(w, http.StatusOK, postings)
}

// ownedJobPosting loads a posting and verifies the caller's company owns it.
// Foreign postings read as not found so ownership cannot be probed.
func (s *Server) ownedJobPosting(w http.ResponseWriter, r *http.Request, employerID string) (*types.JobPosting, bool) {
	id := mux.Vars(r)["id"]

	posting, err := s.Store.GetJobPosting(r.Context(), id)
	if err != nil {
		writeAppError(w, "Job posting not found", err)
		return nil, false
	}
	if posting.EmployerID != employerID {
		writeErrorResponse(w, "Job posting not found", "no posting with that id", http.StatusNotFound)
		return nil, false
	}
	return posting, true
}

func (s *Server) getEmployerJobHandler(w http.ResponseWriter, r *http.Request) {
	employerID, ok := s.employerID(w, r)
	if !ok {
		return
	}

	posting, ok := s.ownedJobPosting(w, r, employerID)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, posting)
}

// updateJobPostingHandler edits the content fields of a posting. Status moves
// through the dedicated status endpoint only.
func (s *Server) updateJobPostingHandler(w http.ResponseWriter, r *http.Request) {
	employerID, ok := s.employerID(w, r)
	if !ok {
		return
	}

	posting, ok := s.ownedJobPosting(w, r, employerID)
	if !ok {
		return
	}

	var req postingRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeErrorResponse(w, "Missing title", "title field is required", http.StatusBadRequest)
		return
	}
	if !validEmploymentType(req.Type) {
		writeErrorResponse(w, "Invalid employment type", "type must be one of Full-time, Part-time, Internship, Contract, Temporary", http.StatusBadRequest)
		return
	}

	posting.Title = req.Title
	posting.Description = req.Description
	posting.Requirements = req.Requirements
	posting.Type = types.EmploymentType(req.Type)
	posting.Location = req.Location

	if err := s.Store.UpdateJobPosting(r.Context(), posting); err != nil {
		writeAppError(w, "Failed to update job posting", err)
		return
	}

	writeJSON(w, http.StatusOK, posting)
}

// updateJobPostingStatusHandler moves a posting through its lifecycle
func (s *Server) updateJobPostingStatusHandler(w http.ResponseWriter, r *http.Request) {
	employerID, ok := s.employerID(w, r)
	if !ok {
		return
	}

	posting, ok := s.ownedJobPosting(w, r, employerID)
	if !ok {
		return
	}

	var req statusUpdateRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	status, valid := types.ParsePostingStatus(req.Status)
	if !valid {
		writeErrorResponse(w, "Invalid status", "status must be one of draft, open, closed", http.StatusBadRequest)
		return
	}

	if err := s.Store.UpdateJobPostingStatus(r.Context(), posting.ID, status); err != nil {
		writeAppError(w, "Failed to update posting status", err)
		return
	}

	posting.Status = status
	writeJSON(w, http.StatusOK, posting)
}

// listPostingApplicationsHandler lists applications for one owned posting
func (s *Server) listPostingApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	employerID, ok := s.employerID(w, r)
	if !ok {
		return
	}

	posting, ok := s.ownedJobPosting(w, r, employerID)
	if !ok {
		return
	}

	apps, err := s.Store.ListJobApplicationsByPosting(r.Context(), posting.ID)
	if err != nil {
		writeAppError(w, "Failed to list applications", err)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

// listEmployerApplicationsHandler lists every application across the
// company's postings
func (s *Server) listEmployerApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	employerID, ok := s.employerID(w, r)
	if !ok {
		return
	}

	apps, err := s.Store.ListJobApplicationsByEmployer(r.Context(), employerID)
	if err != nil {
		writeAppError(w, "Failed to list applications", err)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

// createJobApplicationStatusHandler moves a job application through its
// lifecycle. The store validates the transition against the lifecycle table.
func (s *Server) createJobApplicationStatusHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerhub.api")
		ctx, span := tracer.Start(ctx, "api.employer.update_application_status")
		defer span.End()

		employerID, ok := s.employerID(w, r)
		if !ok {
			return
		}

		id := mux.Vars(r)["id"]
		app, err := s.Store.GetJobApplication(ctx, id)
		if err != nil {
			span.RecordError(err)
			writeAppError(w, "Application not found", err)
			return
		}
		if app.EmployerID != employerID {
			writeErrorResponse(w, "Application not found", "no application with that id", http.StatusNotFound)
			return
		}

		var req statusUpdateRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		status, valid := types.ParseJobApplicationStatus(req.Status)
		if !valid {
			writeErrorResponse(w, "Invalid status", "unknown job application status", http.StatusBadRequest)
			return
		}

		updated, err := s.Store.UpdateJobApplicationStatus(ctx, id, status)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "transition"))
			metrics := om.GetMetrics()
			metrics.RecordBusinessMetric(ctx, "status_update", false, om,
				attribute.String("application.kind", "job"))
			writeAppError(w, "Failed to update application status", err)
			return
		}

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "status_update", true, om,
			attribute.String("application.kind", "job"),
			attribute.String("application.status", string(status)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("application.status", string(status)),
		)
		writeJSON(w, http.StatusOK, updated)
	}
}

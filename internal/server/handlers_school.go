package server

import (
	"net/http"
	"strings"

	"careerhub/internal/observability"
	"careerhub/internal/types"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
)

// programRequest is the body for creating and editing internship programs.
type programRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Status       string `json:"status,omitempty"`
}

// schoolID returns the caller's linked school document id, or writes the
// profile-incomplete conflict and reports false.
func (s *Server) schoolID(w http.ResponseWriter, r *http.Request) (string, bool) {
	profile, ok := profileFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, "Missing session token", "Authorization Bearer token required", http.StatusUnauthorized)
		return "", false
	}
	if profile.SchoolID == nil || *profile.SchoolID == "" {
		writeProfileIncomplete(w, types.RoleSchoolAdmin)
		return "", false
	}
	return *profile.SchoolID, true
}

// saveSchoolProfileHandler upserts the caller's school document and links it
// to the user profile on first save
func (s *Server) saveSchoolProfileHandler(w http.ResponseWriter, r *http.Request) {
	profile, _ := profileFromContext(r.Context())

	var req orgProfileRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeErrorResponse(w, "Missing school name", "name field is required", http.StatusBadRequest)
		return
	}

	id := profile.UID
	firstSave := profile.SchoolID == nil || *profile.SchoolID == ""
	if !firstSave {
		id = *profile.SchoolID
	}

	school := &types.School{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
	}
	savedID, err := s.Store.SaveSchool(r.Context(), school)
	if err != nil {
		s.Logger.LogError(err, "Failed to save school profile", "uid", profile.UID)
		writeAppError(w, "Failed to save school profile", err)
		return
	}

	if firstSave {
		if err := s.Store.SetProfileSchool(r.Context(), profile.UID, savedID); err != nil {
			s.Logger.LogError(err, "Failed to link school profile", "uid", profile.UID)
			writeAppError(w, "Failed to link school profile", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, school)
}

// getSchoolProfileHandler returns the caller's school document
func (s *Server) getSchoolProfileHandler(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := s.schoolID(w, r)
	if !ok {
		return
	}

	school, err := s.Store.GetSchool(r.Context(), schoolID)
	if err != nil {
		writeAppError(w, "School profile not found", err)
		return
	}

	writeJSON(w, http.StatusOK, school)
}

// createInternshipProgramHandler creates a program owned by the caller's
// school. New programs start in draft unless the request asks for open.
func (s *Server) createInternshipProgramHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerhub.api")
		ctx, span := tracer.Start(ctx, "api.school.create_program")
		defer span.End()

		profile, _ := profileFromContext(ctx)
		schoolID, ok := s.schoolID(w, r)
		if !ok {
			return
		}

		var req programRequest
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

		status := types.PostingDraft
		if req.Status != "" {
			parsed, valid := types.ParsePostingStatus(req.Status)
			if !valid || parsed == types.PostingClosed {
				writeErrorResponse(w, "Invalid status", "new programs may only be draft or open", http.StatusBadRequest)
				return
			}
			status = parsed
		}

		school, err := s.Store.GetSchool(ctx, schoolID)
		if err != nil {
			span.RecordError(err)
			writeAppError(w, "School profile not found", err)
			return
		}

		program := &types.InternshipProgram{
			Title:        req.Title,
			Description:  req.Description,
			Requirements: req.Requirements,
			SchoolID:     schoolID,
			SchoolName:   school.Name,
			Status:       status,
			CreatedBy:    profile.UID,
		}
		id, err := s.Store.CreateInternshipProgram(ctx, program)
		if err != nil {
			span.RecordError(err)
			metrics := om.GetMetrics()
			metrics.RecordBusinessMetric(ctx, "posting_created", false, om)
			writeAppError(w, "Failed to create internship program", err)
			return
		}
		program.ID = id

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "posting_created", true, om,
			attribute.String("posting.kind", "internship"),
			attribute.String("posting.status", string(status)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("program.id", id),
		)
		writeJSON(w, http.StatusCreated, program)
	}
}

// listSchoolInternshipsHandler lists every program owned by the caller's
// school, drafts and closed programs included
func (s *Server) listSchoolInternshipsHandler(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := s.schoolID(w, r)
	if !ok {
		return
	}

	programs, err := s.Store.ListInternshipProgramsBySchool(r.Context(), schoolID)
	if err != nil {
		writeAppError(w, "Failed to list internship programs", err)
		return
	}

	writeJSON(w, http.StatusOK, programs)
}

// ownedProgram loads a program and verifies the caller's school owns it.
func (s *Server) ownedProgram(w http.ResponseWriter, r *http.Request, schoolID string) (*types.InternshipProgram, bool) {
	id := mux.Vars(r)["id"]

	program, err := s.Store.GetInternshipProgram(r.Context(), id)
	if err != nil {
		writeAppError(w, "Internship program not found", err)
		return nil, false
	}
	if program.SchoolID != schoolID {
		writeErrorResponse(w, "Internship program not found", "no program with that id", http.StatusNotFound)
		return nil, false
	}
	return program, true
}

func (s *Server) getSchoolInternshipHandler(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := s.schoolID(w, r)
	if !ok {
		return
	}

	program, ok := s.ownedProgram(w, r, schoolID)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, program)
}

// updateInternshipProgramHandler edits the content fields of a program
func (s *Server) updateInternshipProgramHandler(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := s.schoolID(w, r)
	if !ok {
		return
	}

	program, ok := s.ownedProgram(w, r, schoolID)
	if !ok {
		return
	}

	var req programRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeErrorResponse(w, "Missing title", "title field is required", http.StatusBadRequest)
		return
	}

	program.Title = req.Title
	program.Description = req.Description
	program.Requirements = req.Requirements

	if err := s.Store.UpdateInternshipProgram(r.Context(), program); err != nil {
		writeAppError(w, "Failed to update internship program", err)
		return
	}

	writeJSON(w, http.StatusOK, program)
}

// updateInternshipProgramStatusHandler moves a program through its lifecycle
func (s *Server) updateInternshipProgramStatusHandler(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := s.schoolID(w, r)
	if !ok {
		return
	}

	program, ok := s.ownedProgram(w, r, schoolID)
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

	if err := s.Store.UpdateInternshipProgramStatus(r.Context(), program.ID, status); err != nil {
		writeAppError(w, "Failed to update program status", err)
		return
	}

	program.Status = status
	writeJSON(w, http.StatusOK, program)
}

// listProgramApplicationsHandler lists applications for one owned program
func (s *Server) listProgramApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := s.schoolID(w, r)
	if !ok {
		return
	}

	program, ok := s.ownedProgram(w, r, schoolID)
	if !ok {
		return
	}

	apps, err := s.Store.ListInternshipApplicationsByProgram(r.Context(), program.ID)
	if err != nil {
		writeAppError(w, "Failed to list applications", err)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

// listSchoolApplicationsHandler lists every application across the school's
// programs
func (s *Server) listSchoolApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := s.schoolID(w, r)
	if !ok {
		return
	}

	apps, err := s.Store.ListInternshipApplicationsBySchool(r.Context(), schoolID)
	if err != nil {
		writeAppError(w, "Failed to list applications", err)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

// createInternshipApplicationStatusHandler moves an internship application
// through its lifecycle
func (s *Server) createInternshipApplicationStatusHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerhub.api")
		ctx, span := tracer.Start(ctx, "api.school.update_application_status")
		defer span.End()

		schoolID, ok := s.schoolID(w, r)
		if !ok {
			return
		}

		id := mux.Vars(r)["id"]
		app, err := s.Store.GetInternshipApplication(ctx, id)
		if err != nil {
			span.RecordError(err)
			writeAppError(w, "Application not found", err)
			return
		}
		if app.SchoolID != schoolID {
			writeErrorResponse(w, "Application not found", "no application with that id", http.StatusNotFound)
			return
		}

		var req statusUpdateRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		status, valid := types.ParseInternshipApplicationStatus(req.Status)
		if !valid {
			writeErrorResponse(w, "Invalid status", "unknown internship application status", http.StatusBadRequest)
			return
		}

		updated, err := s.Store.UpdateInternshipApplicationStatus(ctx, id, status)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "transition"))
			metrics := om.GetMetrics()
			metrics.RecordBusinessMetric(ctx, "status_update", false, om,
				attribute.String("application.kind", "internship"))
			writeAppError(w, "Failed to update application status", err)
			return
		}

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "status_update", true, om,
			attribute.String("application.kind", "internship"),
			attribute.String("application.status", string(status)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("application.status", string(status)),
		)
		writeJSON(w, http.StatusOK, updated)
	}
}

package server

import (
	"net/http"
	"strings"

	"careerhub/internal/observability"
	"careerhub/internal/resume"
	"careerhub/internal/store"
	"careerhub/internal/types"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
)

// applyJobRequest is the body a student submits against a job posting.
type applyJobRequest struct {
	JobPostingID string `json:"jobPostingId"`
	CoverLetter  string `json:"coverLetter"`
	ResumeLink   string `json:"resumeLink"`
}

// applyInternshipRequest is the internship counterpart.
type applyInternshipRequest struct {
	InternshipProgramID string `json:"internshipProgramId"`
	CoverLetter         string `json:"coverLetter"`
}

// createApplyForJobHandler submits a job application. The store rejects
// postings that are not open and snapshots the student identity and posting
// title onto the application document.
func (s *Server) createApplyForJobHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerhub.api")
		ctx, span := tracer.Start(ctx, "api.student.apply_job")
		defer span.End()

		profile, ok := profileFromContext(ctx)
		if !ok {
			writeErrorResponse(w, "Missing session token", "Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		var req applyJobRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobPostingID) == "" {
			writeErrorResponse(w, "Missing posting id", "jobPostingId field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(attribute.String("posting.id", req.JobPostingID))

		app, err := s.Store.ApplyForJob(ctx, store.JobApplicationRequest{
			StudentID:    profile.UID,
			StudentName:  profile.DisplayName,
			StudentEmail: profile.Email,
			JobPostingID: req.JobPostingID,
			CoverLetter:  req.CoverLetter,
			ResumeLink:   req.ResumeLink,
		})
		if err != nil {
			span.RecordError(err)
			metrics := om.GetMetrics()
			metrics.RecordBusinessMetric(ctx, "application_submitted", false, om,
				attribute.String("application.kind", "job"))
			writeAppError(w, "Failed to submit application", err)
			return
		}

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "application_submitted", true, om,
			attribute.String("application.kind", "job"))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("application.id", app.ID),
		)
		writeJSON(w, http.StatusCreated, app)
	}
}

// createApplyForInternshipHandler submits an internship application
func (s *Server) createApplyForInternshipHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerhub.api")
		ctx, span := tracer.Start(ctx, "api.student.apply_internship")
		defer span.End()

		profile, ok := profileFromContext(ctx)
		if !ok {
			writeErrorResponse(w, "Missing session token", "Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		var req applyInternshipRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.InternshipProgramID) == "" {
			writeErrorResponse(w, "Missing program id", "internshipProgramId field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(attribute.String("program.id", req.InternshipProgramID))

		app, err := s.Store.ApplyForInternship(ctx, store.InternshipApplicationRequest{
			StudentID:           profile.UID,
			StudentName:         profile.DisplayName,
			StudentEmail:        profile.Email,
			InternshipProgramID: req.InternshipProgramID,
			CoverLetter:         req.CoverLetter,
		})
		if err != nil {
			span.RecordError(err)
			metrics := om.GetMetrics()
			metrics.RecordBusinessMetric(ctx, "application_submitted", false, om,
				attribute.String("application.kind", "internship"))
			writeAppError(w, "Failed to submit application", err)
			return
		}

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "application_submitted", true, om,
			attribute.String("application.kind", "internship"))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("application.id", app.ID),
		)
		writeJSON(w, http.StatusCreated, app)
	}
}

// listMyJobApplicationsHandler lists the caller's own job applications
func (s *Server) listMyJobApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	profile, _ := profileFromContext(r.Context())

	apps, err := s.Store.ListJobApplicationsByStudent(r.Context(), profile.UID)
	if err != nil {
		writeAppError(w, "Failed to list applications", err)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

// listMyInternshipApplicationsHandler lists the caller's own internship
// applications
func (s *Server) listMyInternshipApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	profile, _ := profileFromContext(r.Context())

	apps, err := s.Store.ListInternshipApplicationsByStudent(r.Context(), profile.UID)
	if err != nil {
		writeAppError(w, "Failed to list applications", err)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

// declineJobOfferHandler lets a student decline their own application. The
// lifecycle table limits which states can move to declined, so a pending or
// offered application declines cleanly while a rejected one conflicts.
func (s *Server) declineJobOfferHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerhub.api")
		ctx, span := tracer.Start(ctx, "api.student.decline_offer")
		defer span.End()

		profile, _ := profileFromContext(ctx)

		id := mux.Vars(r)["id"]
		app, err := s.Store.GetJobApplication(ctx, id)
		if err != nil {
			span.RecordError(err)
			writeAppError(w, "Application not found", err)
			return
		}
		if app.StudentID != profile.UID {
			writeErrorResponse(w, "Application not found", "no application with that id", http.StatusNotFound)
			return
		}

		updated, err := s.Store.UpdateJobApplicationStatus(ctx, id, types.JobAppDeclined)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "transition"))
			writeAppError(w, "Failed to decline application", err)
			return
		}

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "status_update", true, om,
			attribute.String("application.kind", "job"),
			attribute.String("application.status", string(types.JobAppDeclined)))

		span.SetAttributes(attribute.Bool("success", true))
		writeJSON(w, http.StatusOK, updated)
	}
}

// saveResumeHandler stores the caller's structured resume document
func (s *Server) saveResumeHandler(w http.ResponseWriter, r *http.Request) {
	profile, _ := profileFromContext(r.Context())

	var doc types.Resume
	if err := parseJSONRequest(r, &doc); err != nil {
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	doc.StudentID = profile.UID

	if err := s.Store.SaveResume(r.Context(), &doc); err != nil {
		s.Logger.LogError(err, "Failed to save resume", "uid", profile.UID)
		writeAppError(w, "Failed to save resume", err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// getResumeHandler returns the caller's resume document
func (s *Server) getResumeHandler(w http.ResponseWriter, r *http.Request) {
	profile, _ := profileFromContext(r.Context())

	doc, err := s.Store.GetResume(r.Context(), profile.UID)
	if err != nil {
		writeAppError(w, "Resume not found", err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// exportResumeHandler renders the caller's resume in the requested format.
// The format defaults to the application-wide default when not given.
func (s *Server) exportResumeHandler(w http.ResponseWriter, r *http.Request) {
	profile, _ := profileFromContext(r.Context())

	format := r.URL.Query().Get("format")
	if format == "" {
		format = s.AppConfig.App.DefaultFormat
	}

	doc, err := s.Store.GetResume(r.Context(), profile.UID)
	if err != nil {
		writeAppError(w, "Resume not found", err)
		return
	}

	rendered, err := resume.GlobalRegistry.Format(*doc, format)
	if err != nil {
		writeErrorResponse(w, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	contentType := "text/plain; charset=utf-8"
	switch format {
	case "json":
		contentType = "application/json"
	case "markdown":
		contentType = "text/markdown; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write([]byte(rendered)); err != nil {
		s.Logger.LogError(err, "Failed to write resume export", "uid", profile.UID)
	}
}

package server

import (
	"net/http"

	"careerhub/internal/observability"
	"careerhub/internal/types"

	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes(om *observability.ObservabilityManager) *mux.Router {
	r := mux.NewRouter()

	// Add middleware layers with observability
	rateLimit := s.createRateLimitMiddleware(om)
	sizeLimit := s.requestSizeLimitMiddleware()

	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.statsHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Session lifecycle
	api.HandleFunc("/auth/signup",
		rateLimit(sizeLimit(s.createSignUpHandler(om))),
	).Methods(http.MethodPost)
	api.HandleFunc("/auth/signout",
		s.authMiddleware(s.signOutHandler),
	).Methods(http.MethodPost)
	api.HandleFunc("/me",
		s.authMiddleware(s.meHandler),
	).Methods(http.MethodGet)

	// Public opportunity listings. Only open postings are visible here.
	api.HandleFunc("/opportunities", s.listOpportunitiesHandler).Methods(http.MethodGet)
	api.HandleFunc("/jobs", s.listOpenJobsHandler).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}", s.getOpenJobHandler).Methods(http.MethodGet)
	api.HandleFunc("/internships", s.listOpenInternshipsHandler).Methods(http.MethodGet)
	api.HandleFunc("/internships/{id}", s.getOpenInternshipHandler).Methods(http.MethodGet)

	// Employer dashboard
	employer := func(h http.HandlerFunc) http.HandlerFunc {
		return s.requireRole(types.RoleEmployer, h)
	}
	api.HandleFunc("/employer/profile", employer(sizeLimit(s.saveEmployerProfileHandler))).Methods(http.MethodPut)
	api.HandleFunc("/employer/profile", employer(s.getEmployerProfileHandler)).Methods(http.MethodGet)
	api.HandleFunc("/employer/jobs", employer(sizeLimit(s.createJobPostingHandler(om)))).Methods(http.MethodPost)
	api.HandleFunc("/employer/jobs", employer(s.listEmployerJobsHandler)).Methods(http.MethodGet)
	api.HandleFunc("/employer/jobs/{id}", employer(s.getEmployerJobHandler)).Methods(http.MethodGet)
	api.HandleFunc("/employer/jobs/{id}", employer(sizeLimit(s.updateJobPostingHandler))).Methods(http.MethodPut)
	api.HandleFunc("/employer/jobs/{id}/status", employer(sizeLimit(s.updateJobPostingStatusHandler))).Methods(http.MethodPatch)
	api.HandleFunc("/employer/jobs/{id}/applications", employer(s.listPostingApplicationsHandler)).Methods(http.MethodGet)
	api.HandleFunc("/employer/applications", employer(s.listEmployerApplicationsHandler)).Methods(http.MethodGet)
	api.HandleFunc("/employer/applications/{id}/status", employer(sizeLimit(s.createJobApplicationStatusHandler(om)))).Methods(http.MethodPatch)

	// School admin dashboard
	school := func(h http.HandlerFunc) http.HandlerFunc {
		return s.requireRole(types.RoleSchoolAdmin, h)
	}
	api.HandleFunc("/school/profile", school(sizeLimit(s.saveSchoolProfileHandler))).Methods(http.MethodPut)
	api.HandleFunc("/school/profile", school(s.getSchoolProfileHandler)).Methods(http.MethodGet)
	api.HandleFunc("/school/internships", school(sizeLimit(s.createInternshipProgramHandler(om)))).Methods(http.MethodPost)
	api.HandleFunc("/school/internships", school(s.listSchoolInternshipsHandler)).Methods(http.MethodGet)
	api.HandleFunc("/school/internships/{id}", school(s.getSchoolInternshipHandler)).Methods(http.MethodGet)
	api.HandleFunc("/school/internships/{id}", school(sizeLimit(s.updateInternshipProgramHandler))).Methods(http.MethodPut)
	api.HandleFunc("/school/internships/{id}/status", school(sizeLimit(s.updateInternshipProgramStatusHandler))).Methods(http.MethodPatch)
	api.HandleFunc("/school/internships/{id}/applications", school(s.listProgramApplicationsHandler)).Methods(http.MethodGet)
	api.HandleFunc("/school/applications", school(s.listSchoolApplicationsHandler)).Methods(http.MethodGet)
	api.HandleFunc("/school/applications/{id}/status", school(sizeLimit(s.createInternshipApplicationStatusHandler(om)))).Methods(http.MethodPatch)

	// Student dashboard
	student := func(h http.HandlerFunc) http.HandlerFunc {
		return s.requireRole(types.RoleStudent, h)
	}
	api.HandleFunc("/student/applications/jobs", student(sizeLimit(s.createApplyForJobHandler(om)))).Methods(http.MethodPost)
	api.HandleFunc("/student/applications/jobs", student(s.listMyJobApplicationsHandler)).Methods(http.MethodGet)
	api.HandleFunc("/student/applications/jobs/{id}/decline", student(s.declineJobOfferHandler(om))).Methods(http.MethodPost)
	api.HandleFunc("/student/applications/internships", student(sizeLimit(s.createApplyForInternshipHandler(om)))).Methods(http.MethodPost)
	api.HandleFunc("/student/applications/internships", student(s.listMyInternshipApplicationsHandler)).Methods(http.MethodGet)

	// Resume builder
	api.HandleFunc("/student/resume", student(sizeLimit(s.saveResumeHandler))).Methods(http.MethodPut)
	api.HandleFunc("/student/resume", student(s.getResumeHandler)).Methods(http.MethodGet)
	api.HandleFunc("/student/resume/export", student(s.exportResumeHandler)).Methods(http.MethodGet)

	// AI flows. Any signed-in user may run them.
	api.HandleFunc("/ai/assessment",
		rateLimit(s.authMiddleware(sizeLimit(s.createAssessmentHandler(om)))),
	).Methods(http.MethodPost)
	api.HandleFunc("/ai/interview",
		rateLimit(s.authMiddleware(sizeLimit(s.createInterviewHandler(om)))),
	).Methods(http.MethodPost)

	return r
}

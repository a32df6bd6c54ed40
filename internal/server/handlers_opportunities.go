package server

import (
	"net/http"
	"sort"
	"time"

	"careerhub/internal/types"

	"github.com/gorilla/mux"
)

// opportunity is one row on the combined public board. Kind distinguishes
// job postings from internship programs; OrgName carries the company or
// school name snapshot.
type opportunity struct {
	Kind        string               `json:"kind"`
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	OrgName     string               `json:"orgName"`
	Type        types.EmploymentType `json:"type,omitempty"`
	Location    string               `json:"location,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// listOpportunitiesHandler serves the combined board of open job postings
// and open internship programs, newest first.
func (s *Server) listOpportunitiesHandler(w http.ResponseWriter, r *http.Request) {
	postings, err := s.Store.ListOpenJobPostings(r.Context())
	if err != nil {
		s.Logger.LogError(err, "Failed to list open job postings")
		writeAppError(w, "Failed to list opportunities", err)
		return
	}

	programs, err := s.Store.ListOpenInternshipPrograms(r.Context())
	if err != nil {
		s.Logger.LogError(err, "Failed to list open internship programs")
		writeAppError(w, "Failed to list opportunities", err)
		return
	}

	board := make([]opportunity, 0, len(postings)+len(programs))
	for _, p := range postings {
		board = append(board, opportunity{
			Kind:        "job",
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			OrgName:     p.CompanyName,
			Type:        p.Type,
			Location:    p.Location,
			CreatedAt:   p.CreatedAt,
		})
	}
	for _, p := range programs {
		board = append(board, opportunity{
			Kind:        "internship",
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			OrgName:     p.SchoolName,
			CreatedAt:   p.CreatedAt,
		})
	}

	sort.Slice(board, func(i, j int) bool {
		return board[i].CreatedAt.After(board[j].CreatedAt)
	})

	writeJSON(w, http.StatusOK, board)
}

// listOpenJobsHandler serves the public job board. Draft and closed postings
// never appear here regardless of who asks.
func (s *Server) listOpenJobsHandler(w http.ResponseWriter, r *http.Request) {
	postings, err := s.Store.ListOpenJobPostings(r.Context())
	if err != nil {
		s.Logger.LogError(err, "Failed to list open job postings")
		writeAppError(w, "Failed to list job postings", err)
		return
	}

	writeJSON(w, http.StatusOK, postings)
}

// getOpenJobHandler returns a single posting from the public board. Postings
// that are not open are indistinguishable from missing ones to keep drafts
// private.
func (s *Server) getOpenJobHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	posting, err := s.Store.GetJobPosting(r.Context(), id)
	if err != nil {
		writeAppError(w, "Job posting not found", err)
		return
	}
	if posting.Status != types.PostingOpen {
		writeErrorResponse(w, "Job posting not found", "no open posting with that id", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, posting)
}

// listOpenInternshipsHandler serves the public internship board.
func (s *Server) listOpenInternshipsHandler(w http.ResponseWriter, r *http.Request) {
	programs, err := s.Store.ListOpenInternshipPrograms(r.Context())
	if err != nil {
		s.Logger.LogError(err, "Failed to list open internship programs")
		writeAppError(w, "Failed to list internship programs", err)
		return
	}

	writeJSON(w, http.StatusOK, programs)
}

// getOpenInternshipHandler returns a single open program from the public board.
func (s *Server) getOpenInternshipHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	program, err := s.Store.GetInternshipProgram(r.Context(), id)
	if err != nil {
		writeAppError(w, "Internship program not found", err)
		return
	}
	if program.Status != types.PostingOpen {
		writeErrorResponse(w, "Internship program not found", "no open program with that id", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, program)
}

package types

import "testing"

func TestPostingStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    PostingStatus
		to      PostingStatus
		allowed bool
	}{
		{"draft to open", PostingDraft, PostingOpen, true},
		{"draft to closed", PostingDraft, PostingClosed, true},
		{"open to closed", PostingOpen, PostingClosed, true},
		{"closed reopened", PostingClosed, PostingOpen, true},
		{"open back to draft", PostingOpen, PostingDraft, false},
		{"closed back to draft", PostingClosed, PostingDraft, false},
		{"same status idempotent", PostingOpen, PostingOpen, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.allowed {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestJobApplicationStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    JobApplicationStatus
		to      JobApplicationStatus
		allowed bool
	}{
		{"pending to shortlisted", JobAppPending, JobAppShortlisted, true},
		{"pending to interviewing", JobAppPending, JobAppInterviewing, true},
		{"pending straight to offered", JobAppPending, JobAppOffered, false},
		{"shortlisted to interviewing", JobAppShortlisted, JobAppInterviewing, true},
		{"interviewing to offered", JobAppInterviewing, JobAppOffered, true},
		{"offered declined by student", JobAppOffered, JobAppDeclined, true},
		{"rejected is terminal", JobAppRejected, JobAppPending, false},
		{"declined is terminal", JobAppDeclined, JobAppShortlisted, false},
		{"same status idempotent", JobAppShortlisted, JobAppShortlisted, true},
		{"terminal same status idempotent", JobAppRejected, JobAppRejected, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.allowed {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestJobApplicationStatusIsFinal(t *testing.T) {
	finals := map[JobApplicationStatus]bool{
		JobAppPending:      false,
		JobAppShortlisted:  false,
		JobAppInterviewing: false,
		JobAppOffered:      false,
		JobAppRejected:     true,
		JobAppDeclined:     true,
	}
	for status, want := range finals {
		if got := status.IsFinal(); got != want {
			t.Errorf("IsFinal(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestInternshipApplicationStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    InternshipApplicationStatus
		to      InternshipApplicationStatus
		allowed bool
	}{
		{"pending to reviewed", InternAppPending, InternAppReviewed, true},
		{"pending straight to accepted", InternAppPending, InternAppAccepted, true},
		{"reviewed to accepted", InternAppReviewed, InternAppAccepted, true},
		{"reviewed to rejected", InternAppReviewed, InternAppRejected, true},
		{"accepted is terminal", InternAppAccepted, InternAppRejected, false},
		{"rejected is terminal", InternAppRejected, InternAppPending, false},
		{"same status idempotent", InternAppReviewed, InternAppReviewed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.allowed {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in    string
		want  Role
		valid bool
	}{
		{"student", RoleStudent, true},
		{"school_admin", RoleSchoolAdmin, true},
		{"employer", RoleEmployer, true},
		{"admin", "", false},
		{"", "", false},
		{"Student", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		if ok != tt.valid || got != tt.want {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.valid)
		}
	}
}

func TestParsePostingStatus(t *testing.T) {
	for _, valid := range []string{"draft", "open", "closed"} {
		if _, ok := ParsePostingStatus(valid); !ok {
			t.Errorf("ParsePostingStatus(%q) rejected a valid status", valid)
		}
	}
	for _, invalid := range []string{"", "OPEN", "archived"} {
		if _, ok := ParsePostingStatus(invalid); ok {
			t.Errorf("ParsePostingStatus(%q) accepted an invalid status", invalid)
		}
	}
}

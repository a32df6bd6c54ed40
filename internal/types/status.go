package types

// PostingStatus is the lifecycle state shared by job postings and
// internship programs. Only open postings appear in the public listing.
type PostingStatus string

const (
	PostingDraft  PostingStatus = "draft"
	PostingOpen   PostingStatus = "open"
	PostingClosed PostingStatus = "closed"
)

// ParsePostingStatus validates a posting status string from a request.
func ParsePostingStatus(s string) (PostingStatus, bool) {
	switch PostingStatus(s) {
	case PostingDraft, PostingOpen, PostingClosed:
		return PostingStatus(s), true
	}
	return "", false
}

// postingTransitions encodes which status changes an owner may make.
// Closed postings can be reopened; nothing goes back to draft.
var postingTransitions = map[PostingStatus][]PostingStatus{
	PostingDraft:  {PostingOpen, PostingClosed},
	PostingOpen:   {PostingClosed},
	PostingClosed: {PostingOpen},
}

// CanTransition reports whether a posting may move from its current status
// to next. Repeating the current status is always allowed (idempotent
// updates still bump updatedAt).
func (s PostingStatus) CanTransition(next PostingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range postingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// JobApplicationStatus is the employer-driven pipeline state of a job
// application. declined is the student turning down an offer.
type JobApplicationStatus string

const (
	JobAppPending      JobApplicationStatus = "pending"
	JobAppShortlisted  JobApplicationStatus = "shortlisted"
	JobAppInterviewing JobApplicationStatus = "interviewing"
	JobAppOffered      JobApplicationStatus = "offered"
	JobAppRejected     JobApplicationStatus = "rejected"
	JobAppDeclined     JobApplicationStatus = "declined"
)

// ParseJobApplicationStatus validates a job application status string.
func ParseJobApplicationStatus(s string) (JobApplicationStatus, bool) {
	switch JobApplicationStatus(s) {
	case JobAppPending, JobAppShortlisted, JobAppInterviewing, JobAppOffered, JobAppRejected, JobAppDeclined:
		return JobApplicationStatus(s), true
	}
	return "", false
}

// jobAppTransitions is the forward pipeline. rejected and declined are
// terminal: they have no outgoing edges.
var jobAppTransitions = map[JobApplicationStatus][]JobApplicationStatus{
	JobAppPending:      {JobAppShortlisted, JobAppInterviewing, JobAppRejected, JobAppDeclined},
	JobAppShortlisted:  {JobAppInterviewing, JobAppRejected, JobAppDeclined},
	JobAppInterviewing: {JobAppOffered, JobAppRejected, JobAppDeclined},
	JobAppOffered:      {JobAppDeclined, JobAppRejected},
}

// CanTransition reports whether the application may move to next.
// Same-status updates are permitted and idempotent.
func (s JobApplicationStatus) CanTransition(next JobApplicationStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range jobAppTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsFinal reports whether no further status change is possible.
func (s JobApplicationStatus) IsFinal() bool {
	return len(jobAppTransitions[s]) == 0
}

// InternshipApplicationStatus is the school-admin-driven state of an
// internship application.
type InternshipApplicationStatus string

const (
	InternAppPending  InternshipApplicationStatus = "pending"
	InternAppReviewed InternshipApplicationStatus = "reviewed"
	InternAppAccepted InternshipApplicationStatus = "accepted"
	InternAppRejected InternshipApplicationStatus = "rejected"
)

// ParseInternshipApplicationStatus validates an internship application status string.
func ParseInternshipApplicationStatus(s string) (InternshipApplicationStatus, bool) {
	switch InternshipApplicationStatus(s) {
	case InternAppPending, InternAppReviewed, InternAppAccepted, InternAppRejected:
		return InternshipApplicationStatus(s), true
	}
	return "", false
}

var internAppTransitions = map[InternshipApplicationStatus][]InternshipApplicationStatus{
	InternAppPending:  {InternAppReviewed, InternAppAccepted, InternAppRejected},
	InternAppReviewed: {InternAppAccepted, InternAppRejected},
}

// CanTransition reports whether the application may move to next.
// Same-status updates are permitted and idempotent.
func (s InternshipApplicationStatus) CanTransition(next InternshipApplicationStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range internAppTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsFinal reports whether no further status change is possible.
func (s InternshipApplicationStatus) IsFinal() bool {
	return len(internAppTransitions[s]) == 0
}

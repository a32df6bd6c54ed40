package types

import "time"

// Role identifies which dashboard and operations a user is entitled to.
type Role string

const (
	RoleStudent     Role = "student"
	RoleSchoolAdmin Role = "school_admin"
	RoleEmployer    Role = "employer"
)

// ParseRole validates a role string coming from an API request.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleSchoolAdmin, RoleEmployer:
		return Role(s), true
	}
	return "", false
}

// UserProfile is the per-account document in the userProfiles collection.
// SchoolID and EmployerID are nullable foreign keys filled in once the
// organization profile has been saved.
type UserProfile struct {
	UID         string    `json:"uid" firestore:"uid"`
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"displayName" firestore:"displayName"`
	Role        Role      `json:"role" firestore:"role"`
	SchoolID    *string   `json:"schoolId" firestore:"schoolId"`
	EmployerID  *string   `json:"employerId" firestore:"employerId"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
}

// School is an organization document owned by a school_admin user.
type School struct {
	ID          string    `json:"id" firestore:"-"`
	Name        string    `json:"name" firestore:"name"`
	Description string    `json:"description" firestore:"description"`
	Website     string    `json:"website" firestore:"website"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Employer is an organization document owned by an employer user.
type Employer struct {
	ID          string    `json:"id" firestore:"-"`
	Name        string    `json:"name" firestore:"name"`
	Description string    `json:"description" firestore:"description"`
	Website     string    `json:"website" firestore:"website"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// EmploymentType mirrors the selectable posting types on the employer form.
type EmploymentType string

const (
	EmploymentFullTime  EmploymentType = "Full-time"
	EmploymentPartTime  EmploymentType = "Part-time"
	EmploymentIntern    EmploymentType = "Internship"
	EmploymentContract  EmploymentType = "Contract"
	EmploymentTemporary EmploymentType = "Temporary"
)

// JobPosting lives in the jobPostings collection. CompanyName is denormalized
// from the employer document at creation time and never retro-updated.
type JobPosting struct {
	ID           string         `json:"id" firestore:"-"`
	Title        string         `json:"title" firestore:"title"`
	Description  string         `json:"description" firestore:"description"`
	Requirements string         `json:"requirements" firestore:"requirements"`
	EmployerID   string         `json:"employerId" firestore:"employerId"`
	CompanyName  string         `json:"companyName" firestore:"companyName"`
	Type         EmploymentType `json:"type" firestore:"type"`
	Location     string         `json:"location" firestore:"location"`
	Status       PostingStatus  `json:"status" firestore:"status"`
	CreatedBy    string         `json:"createdBy" firestore:"createdBy"`
	CreatedAt    time.Time      `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt" firestore:"updatedAt"`
}

// InternshipProgram lives in the internshipPrograms collection.
type InternshipProgram struct {
	ID           string        `json:"id" firestore:"-"`
	Title        string        `json:"title" firestore:"title"`
	Description  string        `json:"description" firestore:"description"`
	Requirements string        `json:"requirements" firestore:"requirements"`
	SchoolID     string        `json:"schoolId" firestore:"schoolId"`
	SchoolName   string        `json:"schoolName" firestore:"schoolName"`
	Status       PostingStatus `json:"status" firestore:"status"`
	CreatedBy    string        `json:"createdBy" firestore:"createdBy"`
	CreatedAt    time.Time     `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt" firestore:"updatedAt"`
}

// JobApplication lives in the jobApplications collection. Student identity
// and the posting title are denormalized snapshots taken when the student
// applies; ApplicationDate is set exactly once at creation.
type JobApplication struct {
	ID              string               `json:"id" firestore:"-"`
	StudentID       string               `json:"studentId" firestore:"studentId"`
	StudentName     string               `json:"studentName" firestore:"studentName"`
	StudentEmail    string               `json:"studentEmail" firestore:"studentEmail"`
	JobPostingID    string               `json:"jobPostingId" firestore:"jobPostingId"`
	PostingTitle    string               `json:"postingTitle" firestore:"postingTitle"`
	EmployerID      string               `json:"employerId" firestore:"employerId"`
	CoverLetter     string               `json:"coverLetter" firestore:"coverLetter"`
	ResumeLink      string               `json:"resumeLink" firestore:"resumeLink"`
	Status          JobApplicationStatus `json:"status" firestore:"status"`
	ApplicationDate time.Time            `json:"applicationDate" firestore:"applicationDate"`
	UpdatedAt       time.Time            `json:"updatedAt" firestore:"updatedAt"`
}

// InternshipApplication lives in the internshipApplications collection.
// SchoolID is denormalized from the program so school admins can query
// their applications with a single equality filter.
type InternshipApplication struct {
	ID                  string                      `json:"id" firestore:"-"`
	StudentID           string                      `json:"studentId" firestore:"studentId"`
	StudentName         string                      `json:"studentName" firestore:"studentName"`
	StudentEmail        string                      `json:"studentEmail" firestore:"studentEmail"`
	InternshipProgramID string                      `json:"internshipProgramId" firestore:"internshipProgramId"`
	ProgramTitle        string                      `json:"programTitle" firestore:"programTitle"`
	SchoolID            string                      `json:"schoolId" firestore:"schoolId"`
	CoverLetter         string                      `json:"coverLetter" firestore:"coverLetter"`
	Status              InternshipApplicationStatus `json:"status" firestore:"status"`
	ApplicationDate     time.Time                   `json:"applicationDate" firestore:"applicationDate"`
	UpdatedAt           time.Time                   `json:"updatedAt" firestore:"updatedAt"`
}

// Resume is the structured resume document a student edits in the builder.
// One document per student, keyed by the student's UID.
type Resume struct {
	StudentID  string       `json:"studentId" firestore:"studentId"`
	Personal   PersonalInfo `json:"personal" firestore:"personal"`
	Summary    string       `json:"summary" firestore:"summary"`
	Experience []Experience `json:"experience" firestore:"experience"`
	Education  []Education  `json:"education" firestore:"education"`
	Skills     []string     `json:"skills" firestore:"skills"`
	UpdatedAt  time.Time    `json:"updatedAt" firestore:"updatedAt"`
}

// PersonalInfo is the contact block of a resume.
type PersonalInfo struct {
	FullName string `json:"fullName" firestore:"fullName"`
	Email    string `json:"email" firestore:"email"`
	Phone    string `json:"phone" firestore:"phone"`
	Location string `json:"location" firestore:"location"`
	Website  string `json:"website" firestore:"website"`
}

// Experience is one work history entry on a resume.
type Experience struct {
	Title       string `json:"title" firestore:"title"`
	Company     string `json:"company" firestore:"company"`
	Location    string `json:"location" firestore:"location"`
	StartDate   string `json:"startDate" firestore:"startDate"`
	EndDate     string `json:"endDate" firestore:"endDate"`
	Description string `json:"description" firestore:"description"`
}

// Education is one education entry on a resume.
type Education struct {
	School    string `json:"school" firestore:"school"`
	Degree    string `json:"degree" firestore:"degree"`
	Field     string `json:"field" firestore:"field"`
	StartYear int    `json:"startYear" firestore:"startYear"`
	EndYear   int    `json:"endYear" firestore:"endYear"`
}

// CareerAssessmentInput represents the input for the career assessment flow
type CareerAssessmentInput struct {
	Skills    string `json:"skills"`
	Interests string `json:"interests"`
}

// CareerAssessmentOutput represents the output from the career assessment flow
type CareerAssessmentOutput struct {
	CareerRecommendations string `json:"careerRecommendations"`
	SkillDevelopmentAreas string `json:"skillDevelopmentAreas"`
}

// InterviewPreparationInput represents one turn of the interview practice
// loop. The flow is stateless: the caller resends the job description,
// skills and question number on every turn, plus the answer to the previous
// question when there is one.
type InterviewPreparationInput struct {
	JobDescription string   `json:"jobDescription"`
	UserSkills     []string `json:"userSkills"`
	UserAnswer     string   `json:"userAnswer,omitempty"`
	QuestionNumber int      `json:"questionNumber"`
}

// InterviewPreparationOutput represents the output for one interview turn.
// Feedback is only present when the input carried an answer.
type InterviewPreparationOutput struct {
	Question string `json:"question"`
	Feedback string `json:"feedback,omitempty"`
}

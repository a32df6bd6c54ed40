package ai

import (
	"fmt"
	"strings"

	"careerhub/internal/types"
)

// SystemPrompts contains the system-level instructions per operation
type SystemPrompts struct {
	Assessment string
	Interview  string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	Assessment: `You are a career counselor working with students. A student will provide a list of their skills and interests. Use this information to recommend potential careers and the skill development areas to focus on to pursue them.

Your principles:
- Ground every recommendation in the skills and interests actually provided
- Recommend realistic entry paths for a student, not senior positions
- Be specific about which skills to develop and why they matter for each recommended career`,

	Interview: `You are an expert career coach helping a candidate prepare for a job interview. You run a mock interview one question at a time.

Your principles:
- Ask questions that evaluate the candidate's skills and experience in relation to the job description
- When the candidate has answered the previous question, give specific feedback with concrete suggestions for improvement before moving on
- Keep each question focused; never ask several things at once`,
}

// assessmentUserPromptTemplate formats the career assessment request.
// Placeholders: skills, interests.
const assessmentUserPromptTemplate = `A student has provided their skills and interests.

Skills: %s
Interests: %s

Provide a list of career recommendations based on these skills and interests, and a list of skill development areas to focus on to pursue those careers. Write each as a single paragraph.`

// BuildAssessmentPrompt formats the user prompt for a career assessment request
func BuildAssessmentPrompt(input types.CareerAssessmentInput) string {
	return fmt.Sprintf(assessmentUserPromptTemplate, input.Skills, input.Interests)
}

// BuildInterviewPrompt formats the user prompt for one interview practice
// turn. The flow is stateless, so the full context is restated every call:
// job description, skills, question number and the previous answer if any.
func BuildInterviewPrompt(input types.InterviewPreparationInput) string {
	var b strings.Builder

	b.WriteString("The job the candidate is interviewing for has the following description:\n\n")
	b.WriteString(input.JobDescription)
	b.WriteString("\n\n")

	if len(input.UserSkills) > 0 {
		b.WriteString("The candidate has the following skills:\n")
		for _, skill := range input.UserSkills {
			b.WriteString(" - ")
			b.WriteString(skill)
			b.WriteString("\n")
		}
	} else {
		b.WriteString("The candidate has not listed any skills.\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "You are now on question number %d of the interview.\n\n", input.QuestionNumber)

	if input.UserAnswer != "" {
		b.WriteString("The candidate answered the previous question with the following:\n\n")
		b.WriteString(input.UserAnswer)
		b.WriteString("\n\nProvide feedback on their answer. Be specific, and give concrete suggestions for improvement.\n\n")
	}

	b.WriteString("Generate the next interview question. Focus on questions that are relevant to the job description and the candidate's skills.")

	return b.String()
}

package ai

import (
	"strings"
	"testing"

	"careerhub/internal/types"
)

func TestBuildAssessmentPrompt(t *testing.T) {
	input := types.CareerAssessmentInput{
		Skills:    "Go, SQL, public speaking",
		Interests: "infrastructure, teaching",
	}

	prompt := BuildAssessmentPrompt(input)

	if !strings.Contains(prompt, "Go, SQL, public speaking") {
		t.Error("Prompt should contain the provided skills")
	}
	if !strings.Contains(prompt, "infrastructure, teaching") {
		t.Error("Prompt should contain the provided interests")
	}
	if !strings.Contains(prompt, "career recommendations") {
		t.Error("Prompt should ask for career recommendations")
	}
	if !strings.Contains(prompt, "skill development areas") {
		t.Error("Prompt should ask for skill development areas")
	}
}

func TestBuildInterviewPromptFirstQuestion(t *testing.T) {
	input := types.InterviewPreparationInput{
		JobDescription: "Backend engineer building payment systems",
		UserSkills:     []string{"Go", "PostgreSQL"},
		QuestionNumber: 1,
	}

	prompt := BuildInterviewPrompt(input)

	if !strings.Contains(prompt, "Backend engineer building payment systems") {
		t.Error("Prompt should contain the job description")
	}
	if !strings.Contains(prompt, " - Go\n") || !strings.Contains(prompt, " - PostgreSQL\n") {
		t.Error("Prompt should list each skill")
	}
	if !strings.Contains(prompt, "question number 1") {
		t.Error("Prompt should state the question number")
	}
	if strings.Contains(prompt, "answered the previous question") {
		t.Error("First question prompt should not reference a previous answer")
	}
}

func TestBuildInterviewPromptWithAnswer(t *testing.T) {
	input := types.InterviewPreparationInput{
		JobDescription: "Frontend role",
		UserSkills:     []string{"TypeScript"},
		UserAnswer:     "I would start by profiling the bundle size.",
		QuestionNumber: 3,
	}

	prompt := BuildInterviewPrompt(input)

	if !strings.Contains(prompt, "I would start by profiling the bundle size.") {
		t.Error("Prompt should contain the candidate's answer")
	}
	if !strings.Contains(prompt, "Provide feedback on their answer") {
		t.Error("Prompt should request feedback when an answer is present")
	}
	if !strings.Contains(prompt, "question number 3") {
		t.Error("Prompt should state the question number")
	}
}

func TestBuildInterviewPromptNoSkills(t *testing.T) {
	input := types.InterviewPreparationInput{
		JobDescription: "Data analyst position",
		QuestionNumber: 1,
	}

	prompt := BuildInterviewPrompt(input)

	if !strings.Contains(prompt, "has not listed any skills") {
		t.Error("Prompt should note when no skills are listed")
	}
}

func TestResolvePrompt(t *testing.T) {
	tests := []struct {
		name     string
		loaded   string
		config   string
		fallback string
		want     string
	}{
		{"file wins", "from-file", "from-config", "default", "from-file"},
		{"config wins over default", "", "from-config", "default", "from-config"},
		{"default when nothing set", "", "", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolvePrompt(tt.loaded, tt.config, tt.fallback); got != tt.want {
				t.Errorf("resolvePrompt() = %q, want %q", got, tt.want)
			}
		})
	}
}

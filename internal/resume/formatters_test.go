package resume

import (
	"encoding/json"
	"strings"
	"testing"

	"careerhub/internal/types"
)

func sampleResume() types.Resume {
	return types.Resume{
		StudentID: "stu-1",
		Personal: types.PersonalInfo{
			FullName: "Jordan Lee",
			Email:    "jordan@example.com",
			Location: "Nairobi",
		},
		Summary: "Final-year CS student focused on backend systems.",
		Experience: []types.Experience{
			{
				Title:       "Intern",
				Company:     "Acme",
				StartDate:   "2025-06",
				EndDate:     "",
				Description: "Built internal tooling in Go.",
			},
		},
		Education: []types.Education{
			{School: "Tech University", Degree: "BSc", Field: "Computer Science", StartYear: 2022, EndYear: 2026},
		},
		Skills: []string{"Go", "SQL", "Docker"},
	}
}

func TestRegistrySupportedFormats(t *testing.T) {
	registry := NewFormatterRegistry()
	formats := registry.GetSupportedFormats()

	want := map[string]bool{"json": false, "text": false, "markdown": false}
	for _, f := range formats {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for f, seen := range want {
		if !seen {
			t.Errorf("Expected format %q to be supported", f)
		}
	}
}

func TestJSONFormatterRoundTrip(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(sampleResume(), "json")
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	var decoded types.Resume
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.Personal.FullName != "Jordan Lee" {
		t.Errorf("Expected full name to survive, got %q", decoded.Personal.FullName)
	}
}

func TestResumeTextFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(sampleResume(), "text")
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	for _, want := range []string{
		"Jordan Lee",
		"=== EXPERIENCE ===",
		"Intern, Acme",
		"2025-06 to Present",
		"=== SKILLS ===",
		"Go, SQL, Docker",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Text output missing %q", want)
		}
	}
}

func TestResumeMarkdownFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(sampleResume(), "markdown")
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	for _, want := range []string{
		"# Jordan Lee",
		"## Experience",
		"### Intern, Acme",
		"## Skills",
		"- Go\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Markdown output missing %q", want)
		}
	}
}

func TestAssessmentFormatters(t *testing.T) {
	registry := NewFormatterRegistry()
	assessment := types.CareerAssessmentOutput{
		CareerRecommendations: "Consider site reliability engineering.",
		SkillDevelopmentAreas: "Deepen distributed systems knowledge.",
	}

	text, err := registry.Format(assessment, "text")
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	if !strings.Contains(text, "=== CAREER RECOMMENDATIONS ===") {
		t.Error("Text output missing recommendations header")
	}

	md, err := registry.Format(assessment, "markdown")
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	if !strings.Contains(md, "## Skill Development Areas") {
		t.Error("Markdown output missing skill development header")
	}
}

func TestInterviewFormatterOmitsEmptyFeedback(t *testing.T) {
	registry := NewFormatterRegistry()

	first := types.InterviewPreparationOutput{Question: "Tell me about yourself."}
	out, err := registry.Format(first, "text")
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	if strings.Contains(out, "FEEDBACK") {
		t.Error("Output should not contain a feedback section without feedback")
	}
	if !strings.Contains(out, "Tell me about yourself.") {
		t.Error("Output missing the question")
	}

	withFeedback := types.InterviewPreparationOutput{
		Question: "What is your biggest strength?",
		Feedback: "Good structure, add a concrete example.",
	}
	out, err = registry.Format(withFeedback, "text")
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	if !strings.Contains(out, "=== FEEDBACK ===") {
		t.Error("Output missing feedback section")
	}
}

func TestUnknownFormatRejected(t *testing.T) {
	registry := NewFormatterRegistry()

	if _, err := registry.Format(sampleResume(), "pdf"); err == nil {
		t.Error("Expected an error for an unsupported format")
	}
}

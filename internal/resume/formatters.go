// Package resume renders resume documents and AI flow results for the CLI
// and for export endpoints.
package resume

import (
	"encoding/json"
	"fmt"
	"strings"

	"careerhub/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "Resume", &ResumeTextFormatter{})
	registry.RegisterFormatter("markdown", "Resume", &ResumeMarkdownFormatter{})
	registry.RegisterFormatter("text", "CareerAssessmentOutput", &AssessmentTextFormatter{})
	registry.RegisterFormatter("markdown", "CareerAssessmentOutput", &AssessmentMarkdownFormatter{})
	registry.RegisterFormatter("text", "InterviewPreparationOutput", &InterviewTextFormatter{})
	registry.RegisterFormatter("markdown", "InterviewPreparationOutput", &InterviewMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.Resume:
		return "Resume"
	case types.CareerAssessmentOutput:
		return "CareerAssessmentOutput"
	case types.InterviewPreparationOutput:
		return "InterviewPreparationOutput"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ResumeTextFormatter renders a resume as plain text
type ResumeTextFormatter struct{}

func (rtf *ResumeTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.Resume)
	if !ok {
		return "", fmt.Errorf("expected Resume, got %T", data)
	}

	var output strings.Builder

	output.WriteString(result.Personal.FullName)
	output.WriteString("\n")
	writeContactLine(&output, result.Personal, " | ")
	output.WriteString("\n")

	if result.Summary != "" {
		output.WriteString("=== SUMMARY ===\n")
		output.WriteString(result.Summary)
		output.WriteString("\n\n")
	}

	if len(result.Experience) > 0 {
		output.WriteString("=== EXPERIENCE ===\n\n")
		for _, exp := range result.Experience {
			output.WriteString(fmt.Sprintf("%s, %s", exp.Title, exp.Company))
			if exp.Location != "" {
				output.WriteString(fmt.Sprintf(" (%s)", exp.Location))
			}
			output.WriteString("\n")
			output.WriteString(fmt.Sprintf("%s to %s\n", exp.StartDate, endDateOrPresent(exp.EndDate)))
			if exp.Description != "" {
				output.WriteString(exp.Description)
				output.WriteString("\n")
			}
			output.WriteString("\n")
		}
	}

	if len(result.Education) > 0 {
		output.WriteString("=== EDUCATION ===\n\n")
		for _, edu := range result.Education {
			output.WriteString(fmt.Sprintf("%s, %s", edu.Degree, edu.School))
			if edu.Field != "" {
				output.WriteString(fmt.Sprintf(" (%s)", edu.Field))
			}
			output.WriteString("\n")
			if edu.StartYear > 0 {
				output.WriteString(fmt.Sprintf("%d", edu.StartYear))
				if edu.EndYear > 0 {
					output.WriteString(fmt.Sprintf(" to %d", edu.EndYear))
				}
				output.WriteString("\n")
			}
			output.WriteString("\n")
		}
	}

	if len(result.Skills) > 0 {
		output.WriteString("=== SKILLS ===\n")
		output.WriteString(strings.Join(result.Skills, ", "))
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (rtf *ResumeTextFormatter) SupportedType() string {
	return "Resume"
}

// ResumeMarkdownFormatter renders a resume as markdown
type ResumeMarkdownFormatter struct{}

func (rmf *ResumeMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.Resume)
	if !ok {
		return "", fmt.Errorf("expected Resume, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("# %s\n\n", result.Personal.FullName))
	writeContactLine(&output, result.Personal, " · ")
	output.WriteString("\n")

	if result.Summary != "" {
		output.WriteString("## Summary\n\n")
		output.WriteString(result.Summary)
		output.WriteString("\n\n")
	}

	if len(result.Experience) > 0 {
		output.WriteString("## Experience\n\n")
		for _, exp := range result.Experience {
			output.WriteString(fmt.Sprintf("### %s, %s\n\n", exp.Title, exp.Company))
			output.WriteString(fmt.Sprintf("*%s to %s*", exp.StartDate, endDateOrPresent(exp.EndDate)))
			if exp.Location != "" {
				output.WriteString(fmt.Sprintf(" · %s", exp.Location))
			}
			output.WriteString("\n\n")
			if exp.Description != "" {
				output.WriteString(exp.Description)
				output.WriteString("\n\n")
			}
		}
	}

	if len(result.Education) > 0 {
		output.WriteString("## Education\n\n")
		for _, edu := range result.Education {
			output.WriteString(fmt.Sprintf("### %s, %s\n\n", edu.Degree, edu.School))
			if edu.Field != "" {
				output.WriteString(edu.Field)
				if edu.EndYear > 0 {
					output.WriteString(fmt.Sprintf(", %d", edu.EndYear))
				}
				output.WriteString("\n\n")
			}
		}
	}

	if len(result.Skills) > 0 {
		output.WriteString("## Skills\n\n")
		for _, skill := range result.Skills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	}

	return output.String(), nil
}

func (rmf *ResumeMarkdownFormatter) SupportedType() string {
	return "Resume"
}

func writeContactLine(output *strings.Builder, p types.PersonalInfo, sep string) {
	parts := []string{}
	for _, part := range []string{p.Email, p.Phone, p.Location, p.Website} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) > 0 {
		output.WriteString(strings.Join(parts, sep))
		output.WriteString("\n")
	}
}

func endDateOrPresent(endDate string) string {
	if endDate == "" {
		return "Present"
	}
	return endDate
}

// AssessmentTextFormatter handles text formatting for career assessments
type AssessmentTextFormatter struct{}

func (atf *AssessmentTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CareerAssessmentOutput)
	if !ok {
		return "", fmt.Errorf("expected CareerAssessmentOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== CAREER RECOMMENDATIONS ===\n\n")
	output.WriteString(result.CareerRecommendations)
	output.WriteString("\n\n")

	output.WriteString("=== SKILL DEVELOPMENT AREAS ===\n\n")
	output.WriteString(result.SkillDevelopmentAreas)
	output.WriteString("\n")

	return output.String(), nil
}

func (atf *AssessmentTextFormatter) SupportedType() string {
	return "CareerAssessmentOutput"
}

// AssessmentMarkdownFormatter handles markdown formatting for career assessments
type AssessmentMarkdownFormatter struct{}

func (amf *AssessmentMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CareerAssessmentOutput)
	if !ok {
		return "", fmt.Errorf("expected CareerAssessmentOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Career Assessment\n\n")
	output.WriteString("## Career Recommendations\n\n")
	output.WriteString(result.CareerRecommendations)
	output.WriteString("\n\n")
	output.WriteString("## Skill Development Areas\n\n")
	output.WriteString(result.SkillDevelopmentAreas)
	output.WriteString("\n")

	return output.String(), nil
}

func (amf *AssessmentMarkdownFormatter) SupportedType() string {
	return "CareerAssessmentOutput"
}

// InterviewTextFormatter handles text formatting for interview turns
type InterviewTextFormatter struct{}

func (itf *InterviewTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.InterviewPreparationOutput)
	if !ok {
		return "", fmt.Errorf("expected InterviewPreparationOutput, got %T", data)
	}

	var output strings.Builder

	if result.Feedback != "" {
		output.WriteString("=== FEEDBACK ===\n\n")
		output.WriteString(result.Feedback)
		output.WriteString("\n\n")
	}

	output.WriteString("=== NEXT QUESTION ===\n\n")
	output.WriteString(result.Question)
	output.WriteString("\n")

	return output.String(), nil
}

func (itf *InterviewTextFormatter) SupportedType() string {
	return "InterviewPreparationOutput"
}

// InterviewMarkdownFormatter handles markdown formatting for interview turns
type InterviewMarkdownFormatter struct{}

func (imf *InterviewMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.InterviewPreparationOutput)
	if !ok {
		return "", fmt.Errorf("expected InterviewPreparationOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Interview Practice\n\n")
	if result.Feedback != "" {
		output.WriteString("## Feedback\n\n")
		output.WriteString(result.Feedback)
		output.WriteString("\n\n")
	}
	output.WriteString("## Next Question\n\n")
	output.WriteString(result.Question)
	output.WriteString("\n")

	return output.String(), nil
}

func (imf *InterviewMarkdownFormatter) SupportedType() string {
	return "InterviewPreparationOutput"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()

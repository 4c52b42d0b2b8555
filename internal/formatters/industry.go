package formatters

import (
	"fmt"
	"strings"

	"resumescan/internal/taxonomy"
	"resumescan/internal/types"
)

// DetectIndustryTextFormatter prints the detected industry on its own line
type DetectIndustryTextFormatter struct{}

func (f *DetectIndustryTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.DetectIndustryOutput)
	if !ok {
		return "", fmt.Errorf("expected DetectIndustryOutput, got %T", data)
	}
	return result.Industry + "\n", nil
}

func (f *DetectIndustryTextFormatter) SupportedType() string {
	return TypeDetectIndustry
}

// IndustrySkillsTextFormatter handles text formatting for an industry's skills
type IndustrySkillsTextFormatter struct{}

func (f *IndustrySkillsTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.IndustrySkillsOutput)
	if !ok {
		return "", fmt.Errorf("expected IndustrySkillsOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("=== %s SKILLS ===\n", strings.ToUpper(result.Industry)))
	if !result.Known {
		output.WriteString("Unknown industry\n")
		return output.String(), nil
	}
	for _, c := range taxonomy.Categories {
		output.WriteString(fmt.Sprintf("\n%s:\n", categoryTitle(c)))
		for _, skill := range result.Skills.Get(c) {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	}
	return output.String(), nil
}

func (f *IndustrySkillsTextFormatter) SupportedType() string {
	return TypeIndustrySkills
}

// IndustrySkillsMarkdownFormatter handles markdown formatting for an industry's skills
type IndustrySkillsMarkdownFormatter struct{}

func (f *IndustrySkillsMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.IndustrySkillsOutput)
	if !ok {
		return "", fmt.Errorf("expected IndustrySkillsOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("# %s\n\n", result.Industry))
	if !result.Known {
		output.WriteString("_Unknown industry_\n")
		return output.String(), nil
	}
	for _, c := range taxonomy.Categories {
		output.WriteString(fmt.Sprintf("## %s\n\n", categoryTitle(c)))
		for _, skill := range result.Skills.Get(c) {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}
	return output.String(), nil
}

func (f *IndustrySkillsMarkdownFormatter) SupportedType() string {
	return TypeIndustrySkills
}

// IndustryListTextFormatter prints one industry per line
type IndustryListTextFormatter struct{}

func (f *IndustryListTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.IndustryListOutput)
	if !ok {
		return "", fmt.Errorf("expected IndustryListOutput, got %T", data)
	}
	if len(result.Industries) == 0 {
		return "", nil
	}
	return strings.Join(result.Industries, "\n") + "\n", nil
}

func (f *IndustryListTextFormatter) SupportedType() string {
	return TypeIndustryList
}

// IndustryListMarkdownFormatter renders the industries as a bullet list
type IndustryListMarkdownFormatter struct{}

func (f *IndustryListMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.IndustryListOutput)
	if !ok {
		return "", fmt.Errorf("expected IndustryListOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Industries\n\n")
	for _, name := range result.Industries {
		output.WriteString(fmt.Sprintf("- %s\n", name))
	}
	return output.String(), nil
}

func (f *IndustryListMarkdownFormatter) SupportedType() string {
	return TypeIndustryList
}

func categoryTitle(c taxonomy.Category) string {
	switch c {
	case taxonomy.Technical:
		return "Technical"
	case taxonomy.Soft:
		return "Soft"
	case taxonomy.Certifications:
		return "Certifications"
	}
	return c.String()
}

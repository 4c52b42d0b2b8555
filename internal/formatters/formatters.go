package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"resumescan/internal/analyzer"
	"resumescan/internal/types"
)

// Output formats
const (
	FormatJSON     = "json"
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatXLSX     = "xlsx"
)

// Data types the registry dispatches on
const (
	TypeAny            = "any"
	TypeBatchReport    = "BatchReport"
	TypeDetectIndustry = "DetectIndustryOutput"
	TypeIndustrySkills = "IndustrySkillsOutput"
	TypeIndustryList   = "IndustryListOutput"
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

	registry.RegisterFormatter(FormatJSON, TypeAny, &JSONFormatter{})
	registry.RegisterFormatter(FormatText, TypeBatchReport, &ReportTextFormatter{})
	registry.RegisterFormatter(FormatMarkdown, TypeBatchReport, &ReportMarkdownFormatter{})
	registry.RegisterFormatter(FormatCSV, TypeBatchReport, &CSVFormatter{})
	registry.RegisterFormatter(FormatXLSX, TypeBatchReport, &XLSXFormatter{})
	registry.RegisterFormatter(FormatText, TypeDetectIndustry, &DetectIndustryTextFormatter{})
	registry.RegisterFormatter(FormatMarkdown, TypeDetectIndustry, &DetectIndustryTextFormatter{})
	registry.RegisterFormatter(FormatText, TypeIndustrySkills, &IndustrySkillsTextFormatter{})
	registry.RegisterFormatter(FormatMarkdown, TypeIndustrySkills, &IndustrySkillsMarkdownFormatter{})
	registry.RegisterFormatter(FormatText, TypeIndustryList, &IndustryListTextFormatter{})
	registry.RegisterFormatter(FormatMarkdown, TypeIndustryList, &IndustryListMarkdownFormatter{})

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

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters[TypeAny]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// Supports reports whether data can be rendered in format.
func (fr *FormatterRegistry) Supports(data any, format string) bool {
	formatters, exists := fr.formatters[format]
	if !exists {
		return false
	}
	_, specific := formatters[getDataType(data)]
	_, generic := formatters[TypeAny]
	return specific || generic
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case *analyzer.BatchReport, types.AnalyzeOutput, *types.AnalyzeOutput:
		return TypeBatchReport
	case types.DetectIndustryOutput:
		return TypeDetectIndustry
	case types.IndustrySkillsOutput:
		return TypeIndustrySkills
	case types.IndustryListOutput:
		return TypeIndustryList
	default:
		return TypeAny
	}
}

// IsBinary reports whether a format produces bytes unfit for a terminal.
func IsBinary(format string) bool {
	return format == FormatXLSX
}

// ContentType is the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// FileExtension is the file name extension of a format, with the dot.
func FileExtension(format string) string {
	switch format {
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return "." + format
	}
}

// reportOf unwraps the batch report carried by data.
func reportOf(data any) (*analyzer.BatchReport, string, error) {
	switch v := data.(type) {
	case *analyzer.BatchReport:
		if v != nil {
			return v, "", nil
		}
	case types.AnalyzeOutput:
		if v.BatchReport != nil {
			return v.BatchReport, v.JobDescription, nil
		}
	case *types.AnalyzeOutput:
		if v != nil && v.BatchReport != nil {
			return v.BatchReport, v.JobDescription, nil
		}
	}
	return nil, "", fmt.Errorf("expected a batch report, got %T", data)
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
	return TypeAny
}

// notAvailable renders optional estimates.
func notAvailable(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

func joinSkills(skills []string, sep string) string {
	if len(skills) == 0 {
		return "None"
	}
	return strings.Join(skills, sep)
}

// GlobalRegistry is the global formatter registry instance
var GlobalRegistry = NewFormatterRegistry()

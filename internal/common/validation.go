package common

import (
	"fmt"
	"slices"

	"resumescan/internal/analyzer"
	"resumescan/internal/errors"
)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// GetSupportedFormats returns the list of supported formats
func GetSupportedFormats(supportedFormats []string) []string {
	return supportedFormats
}

// FilterParams are the raw result filter values of a request or command line
type FilterParams struct {
	Score      string
	Relevance  string
	Experience int
	Skills     string
}

// ParseFilter validates filter parameters.
func ParseFilter(p FilterParams) (analyzer.Filter, error) {
	var f analyzer.Filter
	var err error
	if f.Score, err = analyzer.ParseBand(p.Score); err != nil {
		return analyzer.Filter{}, invalidFilter("score", err)
	}
	if f.Relevance, err = analyzer.ParseBand(p.Relevance); err != nil {
		return analyzer.Filter{}, invalidFilter("relevance", err)
	}
	if f.Skills, err = analyzer.ParseSkillFilter(p.Skills); err != nil {
		return analyzer.Filter{}, invalidFilter("skill", err)
	}
	if p.Experience < 0 {
		return analyzer.Filter{}, invalidFilter("experience",
			fmt.Errorf("experience level %d is negative", p.Experience))
	}
	f.ExperienceLevel = p.Experience
	return f, nil
}

func invalidFilter(name string, err error) error {
	return errors.NewValidationError(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("Invalid %s filter: %v", name, err), err).WithContext("filter", name)
}

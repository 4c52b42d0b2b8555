package common

import (
	"fmt"
	"io"
	"os"

	"resumescan/internal/errors"
	"resumescan/internal/formatters"
)

// CommandConfig holds common configuration for commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// OutputHandler handles formatting and writing output
type OutputHandler struct {
	fileProcessor *FileProcessor
	registry      *formatters.FormatterRegistry
	logger        *errors.Logger
	stdout        io.Writer
}

// NewOutputHandler creates a new output handler
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger),
		registry:      formatters.GlobalRegistry,
		logger:        logger,
		stdout:        os.Stdout,
	}
}

// WithWriter redirects output that has no file to w.
func (oh *OutputHandler) WithWriter(w io.Writer) *OutputHandler {
	oh.stdout = w
	return oh
}

// CheckDestination rejects configurations that cannot be written, before any
// work is done.
func (oh *OutputHandler) CheckDestination(config CommandConfig) error {
	if err := oh.fileProcessor.ValidateOutputFile(config.OutputFile); err != nil {
		return err
	}
	if config.OutputFile == "" && formatters.IsBinary(config.OutputFormat) {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("%s output must be written to a file; use --output", config.OutputFormat), nil)
	}
	return nil
}

// HandleOutput formats data and writes it to the specified output
func (oh *OutputHandler) HandleOutput(data any, config CommandConfig) error {
	if err := oh.CheckDestination(config); err != nil {
		return err
	}

	output, err := oh.registry.Format(data, config.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", config.OutputFormat), err)
	}

	if config.OutputFile != "" {
		err = oh.fileProcessor.WriteFile(config.OutputFile, output)
		if err != nil {
			return err // Error already wrapped by WriteFile
		}

		oh.logger.Info("Output written successfully",
			"file", config.OutputFile, "format", config.OutputFormat)
		return nil
	}

	if _, err := io.WriteString(oh.stdout, output); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED", "Cannot write output", err)
	}
	if len(output) > 0 && output[len(output)-1] != '\n' {
		_, _ = io.WriteString(oh.stdout, "\n")
	}
	return nil
}

// GetSupportedFormats returns all supported output formats
func (oh *OutputHandler) GetSupportedFormats() []string {
	return oh.registry.GetSupportedFormats()
}

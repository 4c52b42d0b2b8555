package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewValidationError(ErrCodeJobDescriptionTooShort, "too short", nil),
			want: "JOB_DESCRIPTION_TOO_SHORT: too short",
		},
		{
			name: "with cause",
			err:  NewIOError(ErrCodeFileNotFound, "missing", io.EOF),
			want: "FILE_NOT_FOUND: missing (caused by: EOF)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestHasCode(t *testing.T) {
	inner := NewConfigError(ErrCodeTaxonomyMalformed, "bad taxonomy", nil)
	outer := NewConfigError(ErrCodeTaxonomyUnavailable, "cannot load", inner)
	wrapped := fmt.Errorf("startup: %w", outer)

	assert.True(t, HasCode(wrapped, ErrCodeTaxonomyUnavailable))
	assert.True(t, HasCode(wrapped, ErrCodeTaxonomyMalformed))
	assert.False(t, HasCode(wrapped, ErrCodeNoValidResumes))
	assert.False(t, HasCode(io.EOF, ErrCodeNoValidResumes))
	assert.False(t, HasCode(nil, ErrCodeNoValidResumes))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeAnalysis, TypeOf(NewAnalysisError(ErrCodeNoValidResumes, "none", nil)))
	assert.Equal(t, ErrorTypeValidation, TypeOf(fmt.Errorf("x: %w", NewValidationError("X", "y", nil))))
	assert.Equal(t, ErrorTypeInternal, TypeOf(io.EOF))
}

func TestLogErrorUnpacksAppError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug)

	err := NewAnalysisError(ErrCodeNoValidResumes, "No valid resumes could be processed", nil).
		WithContext("documents", 3)
	logger.LogError(err, "batch failed", "batch_id", "abc")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "batch failed", record["msg"])
	assert.Equal(t, "analysis", record["error_type"])
	assert.Equal(t, ErrCodeNoValidResumes, record["error_code"])
	assert.Equal(t, float64(3), record["documents"])
	assert.Equal(t, "abc", record["batch_id"])
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("verbose")
	assert.Error(t, err)

	logger, err := New("warn")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

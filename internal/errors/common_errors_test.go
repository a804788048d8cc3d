package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "ingestion error type", errType: ErrTypeIngestion, expected: "INGESTION"},
		{name: "schema error type", errType: ErrTypeSchema, expected: "SCHEMA"},
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "render error type", errType: ErrTypeRender, expected: "RENDER"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
		{name: "internal error type", errType: ErrTypeInternal, expected: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeIngestion,
				Message: "no input files found",
			},
			wantMessage: "[INGESTION] no input files found",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeStorage,
				Message: "failed to write report",
				Cause:   fmt.Errorf("disk full"),
			},
			wantMessage: "[STORAGE] failed to write report: disk full",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeValidation,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("original error")
	err := NewIngestionError("failed to decode", cause)

	assert.Same(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, NewAppValidationError("bad").Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeRender, Message: "render failed"}
	err.WithContext("variant", "deep").WithContext("section", 2)

	assert.Equal(t, "deep", err.Context["variant"])
	assert.Equal(t, 2, err.Context["section"])
}

func TestNewSchemaError(t *testing.T) {
	err := NewSchemaError("2024.csv", "금액")

	assert.Equal(t, ErrTypeSchema, err.Type)
	assert.Contains(t, err.Error(), "금액")
	assert.Contains(t, err.Error(), "2024.csv")
	assert.Equal(t, "금액", err.Context["column"])
	assert.Equal(t, "2024.csv", err.Context["file"])
}

func TestTypePredicates(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		check  func(error) bool
		expect bool
	}{
		{name: "ingestion", err: NewIngestionError("x", nil), check: IsIngestion, expect: true},
		{name: "wrapped schema", err: fmt.Errorf("load: %w", NewSchemaError("a.csv", "일자")), check: IsSchema, expect: true},
		{name: "config", err: NewConfigError("bad", nil), check: IsConfig, expect: true},
		{name: "storage", err: NewStorageError("bad", nil), check: IsStorage, expect: true},
		{name: "plain error", err: errors.New("plain"), check: IsIngestion, expect: false},
		{name: "nil error", err: nil, check: IsSchema, expect: false},
		{name: "mismatched type", err: NewRenderError("x", nil), check: IsConfig, expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.check(tt.err))
		})
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("input file 2024.csv")
	require.NotNil(t, err)
	assert.Equal(t, "[NOT_FOUND] input file 2024.csv not found", err.Error())
}

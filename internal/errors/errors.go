package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies where in the pipeline a run failed. Every
// failure is fatal; the type tells the operator which stage to look at.
type ErrorType string

const (
	ErrTypeSchema            ErrorType = "SCHEMA"
	ErrTypeFormat            ErrorType = "FORMAT"
	ErrTypeUnmappedAccount   ErrorType = "UNMAPPED_ACCOUNT"
	ErrTypeAggregationConfig ErrorType = "AGGREGATION_CONFIG"
	ErrTypeExport            ErrorType = "EXPORT"
	ErrTypeValidation        ErrorType = "VALIDATION"
	ErrTypeConfig            ErrorType = "CONFIG"
)

// ReportError is the application error for the merge pipeline. Context
// carries the offending file/row/column so the message is actionable.
type ReportError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *ReportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with ReportError
func (e *ReportError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *ReportError) WithContext(key string, value interface{}) *ReportError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new pipeline error
func New(errType ErrorType, message string, cause error) *ReportError {
	return &ReportError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err is (or wraps) a ReportError of the given type.
func IsType(err error, errType ErrorType) bool {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Type == errType
	}
	return false
}

// Helper constructors for the pipeline stages

// NewSchemaError reports a required column missing from an input file.
func NewSchemaError(file string, missing, available []string) *ReportError {
	return New(ErrTypeSchema,
		fmt.Sprintf("%s is missing required columns %v (available: %v)", file, missing, available), nil).
		WithContext("file", file).
		WithContext("missing_columns", missing)
}

// NewFormatError reports a file that cannot be read as tabular data.
func NewFormatError(message string, cause error) *ReportError {
	return New(ErrTypeFormat, message, cause)
}

// NewUnmappedAccountError reports an account code with no
// classification rule. The run must abort rather than default the row
// to a neutral category.
func NewUnmappedAccountError(code string, row int) *ReportError {
	return New(ErrTypeUnmappedAccount,
		fmt.Sprintf("no classification rule for account code %q (row %d)", code, row), nil).
		WithContext("account_code", code).
		WithContext("row", row)
}

// NewAggregationConfigError reports a column with no declared
// aggregation treatment.
func NewAggregationConfigError(column, detail string) *ReportError {
	return New(ErrTypeAggregationConfig,
		fmt.Sprintf("column %q: %s", column, detail), nil).
		WithContext("column", column)
}

// NewExportError reports a failure writing the output file.
func NewExportError(path string, cause error) *ReportError {
	return New(ErrTypeExport, fmt.Sprintf("cannot write output file %s", path), cause).
		WithContext("path", path)
}

// NewValidationError reports an invalid invocation path.
func NewValidationError(message string, cause error) *ReportError {
	return New(ErrTypeValidation, message, cause)
}

// NewConfigError reports invalid run configuration.
func NewConfigError(message string, cause error) *ReportError {
	return New(ErrTypeConfig, message, cause)
}

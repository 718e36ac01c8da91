// Package errors provides a lightweight structured error type (RunError)
// for category-based classification of run failures and CLI exit codes.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a run error for classification.
type ErrorCategory string

const (
	// User-facing input errors
	CategoryInput      ErrorCategory = "input"
	CategoryValidation ErrorCategory = "validation"

	// A remote reference whose URL carries no usable filename
	CategoryParse ErrorCategory = "parse"

	// External system errors
	CategoryNetwork    ErrorCategory = "network"
	CategoryFileSystem ErrorCategory = "filesystem"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// RunError is a structured error with category, severity and context.
type RunError struct {
	Category ErrorCategory `json:"category" yaml:"category"`
	Severity ErrorSeverity `json:"severity" yaml:"severity"`
	Message  string        `json:"message" yaml:"message"`
	Cause    error         `json:"-" yaml:"-"`
	Context  ContextFields `json:"context,omitempty" yaml:"context,omitempty"`
}

// ContextFields carries structured context for RunError
type ContextFields map[string]any

// Error implements the error interface
func (e *RunError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *RunError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *RunError) WithContext(key string, value any) *RunError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new RunError
func New(category ErrorCategory, severity ErrorSeverity, message string) *RunError {
	return &RunError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new RunError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *RunError {
	return &RunError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As returns the first RunError in err's chain.
func As(err error) (*RunError, bool) {
	var re *RunError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if re, ok := As(err); ok {
		return re.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a RunError
func GetCategory(err error) ErrorCategory {
	if re, ok := As(err); ok {
		return re.Category
	}
	return CategoryInternal
}

// Package errors provides a lightweight structured error type (AppForgeError)
// for category-based classification and retry semantics across the pipeline
// and its HTTP surface.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of an AppForge error for classification.
type ErrorCategory string

const (
	// User-facing input and authorization errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"

	// Pipeline stage errors
	CategoryGeneration   ErrorCategory = "generation"
	CategoryPublish      ErrorCategory = "publish"
	CategoryNotification ErrorCategory = "notification"

	// External system integration errors
	CategoryNetwork ErrorCategory = "network"
	CategoryForge   ErrorCategory = "forge"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// ContextFields carries structured context for AppForgeError.
type ContextFields map[string]any

// AppForgeError is a structured error with category, retryability, and context.
type AppForgeError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *AppForgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling.
func (e *AppForgeError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *AppForgeError) WithContext(key string, value any) *AppForgeError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// WithTask attaches the task identifier that the error occurred in.
func (e *AppForgeError) WithTask(taskID string) *AppForgeError {
	return e.WithContext("task_id", taskID)
}

// WithStage attaches the pipeline stage that the error occurred in.
func (e *AppForgeError) WithStage(stage string) *AppForgeError {
	return e.WithContext("stage", stage)
}

// New creates a new AppForgeError.
func New(category ErrorCategory, severity ErrorSeverity, message string) *AppForgeError {
	return &AppForgeError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: false,
	}
}

// Wrap creates a new AppForgeError that wraps an existing error.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *AppForgeError {
	return &AppForgeError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}

// WrapRetryable creates a new retryable AppForgeError that wraps an existing error.
func WrapRetryable(err error, category ErrorCategory, severity ErrorSeverity, message string) *AppForgeError {
	return &AppForgeError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: true,
	}
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category ErrorCategory) bool {
	if afe, ok := err.(*AppForgeError); ok {
		return afe.Category == category
	}
	return false
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if afe, ok := err.(*AppForgeError); ok {
		return afe.Retryable
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if it is not an AppForgeError.
func GetCategory(err error) ErrorCategory {
	if afe, ok := err.(*AppForgeError); ok {
		return afe.Category
	}
	return CategoryInternal
}

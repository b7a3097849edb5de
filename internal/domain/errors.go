package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrValidation       = errors.New("validation failed")
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateInactive = errors.New("template inactive")
	ErrExtractionFailed = errors.New("extraction failed")
)

// Domain error types
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// TemplateStateError indicates a template exists but is not usable
	// as a verification baseline (archived, superseded)
	TemplateStateError struct {
		TemplateName string
		Status       string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }

func (e *TemplateStateError) Error() string {
	return fmt.Sprintf("template %q is %s", e.TemplateName, e.Status)
}

// Is allows errors.Is() to match against the sentinels
func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *TemplateStateError) Is(target error) bool {
	return target == ErrTemplateInactive
}

// ExtractionError indicates the document bytes could not be turned into
// a normalized context set. The input is deterministic, so the failure
// is permanent: callers must not retry.
type ExtractionError struct {
	DocumentName string
	Cause        error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract contexts from %q: %v", e.DocumentName, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// Is allows errors.Is() to match against ErrExtractionFailed
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtractionFailed
}

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (template, verification_result)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

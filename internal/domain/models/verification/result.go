package verification

import (
	"time"
)

// RunStatus is the state of a verification run.
// Pending -> Running -> {Completed | Failed}; terminal states are
// immutable once written.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// IsTerminal reports whether the status may no longer change.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// Severity ranks a mismatch. Reports order High before Medium before Low.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank maps severity to a sortable weight; higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// MismatchCategory classifies what kind of discrepancy was detected.
type MismatchCategory string

const (
	// CategoryMissingInDocument: a template context has no counterpart
	// in the document.
	CategoryMissingInDocument MismatchCategory = "missing_in_document"
	// CategoryUnexpectedInDocument: a document context has no
	// counterpart in the template.
	CategoryUnexpectedInDocument MismatchCategory = "unexpected_in_document"
	// CategoryFieldMismatch: a matched pair differs in one or more
	// formatting fields.
	CategoryFieldMismatch MismatchCategory = "field_mismatch"
)

// Mismatch is one detected discrepancy between template and document
// formatting. Immutable once created; belongs to exactly one
// verification result and is cascade-deleted with it.
type Mismatch struct {
	ID       string           `json:"id" db:"id"`
	ResultID string           `json:"result_id" db:"result_id"`
	Category MismatchCategory `json:"category" db:"category"`

	ContextKey     string `json:"context_key" db:"context_key"`
	Location       string `json:"location" db:"location"`
	StructuralRole string `json:"structural_role" db:"structural_role"`

	// MismatchFields is the sorted, comma-joined list of field names
	// that differ, e.g. "alignment,color".
	MismatchFields string `json:"mismatch_fields" db:"mismatch_fields"`

	Severity   Severity  `json:"severity" db:"severity"`
	DetectedAt time.Time `json:"detected_at" db:"detected_at"`
}

// VerificationResult is one verification run of one document against
// one template. Templates with historical results cannot be deleted
// (Restrict); mismatches are owned and ordered.
type VerificationResult struct {
	ID              string    `json:"id" db:"id"`
	TemplateID      string    `json:"template_id" db:"template_id"`
	TemplateVersion int       `json:"template_version" db:"template_version"`
	DocumentName    string    `json:"document_name" db:"document_name"`
	DocumentHash    string    `json:"document_hash" db:"document_hash"`
	Status          RunStatus `json:"status" db:"status"`

	// Warnings carries non-fatal notices attached to the run, e.g.
	// signature truncation on individual styles.
	Warnings []string `json:"warnings,omitempty" db:"warnings"`

	// Mismatches in report order: severity descending, context key
	// ascending. The order is a hard contract for reproducible reports.
	Mismatches []Mismatch `json:"mismatches,omitempty"`

	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

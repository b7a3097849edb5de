package verification

import (
	"context"

	"stylecheck/internal/domain/models/verification"
)

// ResultRepository defines data access operations for verification
// results and their owned mismatches.
type ResultRepository interface {
	// Save persists a terminal result and its ordered mismatches in one
	// transaction. Mismatch order is preserved by an explicit ordinal so
	// reports read back byte-identical.
	Save(ctx context.Context, result *verification.VerificationResult) error

	// GetByID retrieves a result with its mismatches in stored report
	// order. Returns domain.ErrNotFound when the ID is unknown.
	GetByID(ctx context.Context, id string) (*verification.VerificationResult, error)

	// ListByTemplate lists result headers (no mismatches) for a template,
	// newest first.
	ListByTemplate(ctx context.Context, templateID string, limit int) ([]verification.VerificationResult, error)
}

package verification

import (
	"context"

	"stylecheck/internal/domain/models/verification"
)

// TemplateRepository defines data access operations for templates and
// their owned styles, patterns and tab stops.
type TemplateRepository interface {
	// Create persists a new template aggregate (template, styles,
	// patterns, tab stops)
	Create(ctx context.Context, tpl *verification.Template) error

	// GetActiveByName loads the active version of a named template with
	// its full aggregate: styles, each with its formatting context,
	// direct-format patterns and ordered tab stops.
	// Returns domain.ErrTemplateNotFound when no template has the name,
	// domain.ErrTemplateInactive when only archived versions exist.
	GetActiveByName(ctx context.Context, name string) (*verification.Template, error)

	// GetByID loads one template aggregate by ID regardless of status
	GetByID(ctx context.Context, id string) (*verification.Template, error)

	// UpsertVersion re-parses a template whose file hash changed: marks
	// the current active row archived and inserts the aggregate as a new
	// active version. Returns the stored template with the bumped version.
	UpsertVersion(ctx context.Context, tpl *verification.Template) (*verification.Template, error)

	// ArchiveByName marks the active version of a named template archived
	ArchiveByName(ctx context.Context, name string) error

	// Delete removes a template that has no verification results.
	// Templates referenced by historical results are Restrict-protected;
	// deleting one returns a domain.ConflictError.
	Delete(ctx context.Context, id string) error
}

package verification

import (
	"context"

	"stylecheck/internal/domain/models/verification"
)

// TemplateIngestService loads reference template definitions into
// storage. Styles get their canonical signature derived at ingest time;
// a changed file hash produces a new active version, an unchanged hash
// is a no-op.
type TemplateIngestService interface {
	IngestTemplate(ctx context.Context, req *IngestTemplateRequest) (*verification.Template, error)
}

// IngestTemplateRequest represents one template definition upload
type IngestTemplateRequest struct {
	Name     string `json:"name"`
	FilePath string `json:"file_path"`
	// Payload is the extracted template definition: styles with their
	// formatting contexts, direct-format patterns and tab stops.
	Payload []byte `json:"-"`
}

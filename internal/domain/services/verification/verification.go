package verification

import (
	"context"

	"stylecheck/internal/domain/models/verification"
)

// Verifier is the comparison engine: one document's extracted contexts
// against one template snapshot. A Verify call is a pure function of its
// two inputs and is safe to re-run; concurrent calls against the same
// template are safe (the template is read-only during comparison).
type Verifier interface {
	// Verify matches document contexts against the template's styles,
	// runs every dimension comparator over each matched pair, and
	// aggregates the discrepancies into an ordered mismatch report.
	//
	// The returned result is terminal: Completed when the pipeline
	// finished, Failed when the document context set was empty or the
	// run was cancelled. A Failed result never carries mismatches.
	Verify(ctx context.Context, tpl *verification.Template, docContexts []verification.DocumentContext) (*verification.VerificationResult, error)
}

// ContextExtractor is the extraction collaborator boundary: it turns
// raw document bytes into the normalized context records the engine
// compares. Failure surfaces as a domain.ExtractionError; the input is
// deterministic so extraction is never retried.
type ContextExtractor interface {
	ExtractContexts(ctx context.Context, documentName string, documentBytes []byte) ([]verification.DocumentContext, error)
}

// VerificationService drives a full verification run: template lookup,
// extraction, engine run, persistence.
type VerificationService interface {
	// VerifyDocument verifies one document against the active version of
	// a named template and persists the terminal result. Extraction
	// failures produce a persisted Failed result, not an error; errors
	// are reserved for configuration problems (unknown or inactive
	// template, invalid request) and storage failures.
	VerifyDocument(ctx context.Context, req *VerifyDocumentRequest) (*verification.VerificationResult, error)

	// GetResult retrieves a persisted result with its mismatches in
	// stored report order.
	GetResult(ctx context.Context, id string) (*verification.VerificationResult, error)
}

// VerifyDocumentRequest represents one verification request
type VerifyDocumentRequest struct {
	TemplateName  string `json:"template_name"`
	DocumentName  string `json:"document_name"`
	DocumentBytes []byte `json:"-"`
}

// Package extraction decodes the normalized context dumps produced by
// the upstream document extractor. The engine never parses document
// formats itself; it consumes the extractor's JSON representation.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"stylecheck/internal/config"
	"stylecheck/internal/domain"
	models "stylecheck/internal/domain/models/verification"
	verifSvc "stylecheck/internal/domain/services/verification"
)

// contextDump is the extractor's wire format: a document identity plus
// its formatting contexts in document order.
type contextDump struct {
	Document string                   `json:"document"`
	Contexts []models.DocumentContext `json:"contexts"`
}

// JSONExtractor implements the ContextExtractor interface for the
// normalized JSON dump format.
type JSONExtractor struct {
	logger *slog.Logger
}

// NewJSONExtractor creates a new JSON context extractor
func NewJSONExtractor(logger *slog.Logger) verifSvc.ContextExtractor {
	return &JSONExtractor{logger: logger}
}

// ExtractContexts decodes and validates a context dump. Malformed input
// returns a domain.ExtractionError; the caller maps it to a Failed run.
// Context order is preserved - it is the matcher's tie-break order.
func (e *JSONExtractor) ExtractContexts(ctx context.Context, documentName string, documentBytes []byte) ([]models.DocumentContext, error) {
	if len(documentBytes) == 0 {
		return nil, &domain.ExtractionError{
			DocumentName: documentName,
			Cause:        fmt.Errorf("empty document"),
		}
	}

	var dump contextDump
	if err := json.Unmarshal(documentBytes, &dump); err != nil {
		// Accept a bare context array as well; older extractor builds
		// emitted the list without the envelope
		var bare []models.DocumentContext
		if bareErr := json.Unmarshal(documentBytes, &bare); bareErr != nil {
			return nil, &domain.ExtractionError{
				DocumentName: documentName,
				Cause:        fmt.Errorf("decode context dump: %w", err),
			}
		}
		dump.Contexts = bare
	}

	for i := range dump.Contexts {
		if err := validateContext(&dump.Contexts[i], i); err != nil {
			return nil, &domain.ExtractionError{DocumentName: documentName, Cause: err}
		}
	}

	e.logger.Debug("contexts extracted",
		"document", documentName,
		"contexts", len(dump.Contexts),
	)

	return dump.Contexts, nil
}

func validateContext(c *models.DocumentContext, index int) error {
	if c.ContextKey == "" {
		return fmt.Errorf("context %d: missing context key", index)
	}
	if len(c.ContextKey) > config.MaxContextKeyLength {
		return fmt.Errorf("context %d: context key exceeds %d chars", index, config.MaxContextKeyLength)
	}
	if c.ElementType == "" {
		return fmt.Errorf("context %q: missing element type", c.ContextKey)
	}
	if len(c.Properties) > config.MaxPropertyBagEntries {
		return fmt.Errorf("context %q: property bag exceeds %d entries", c.ContextKey, config.MaxPropertyBagEntries)
	}
	return nil
}

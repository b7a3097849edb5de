package config

const (
	// MaxTemplateNameLength is the maximum length for template names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxTemplateNameLength = 255

	// MaxDocumentNameLength is the maximum length for document identity
	// strings recorded on a verification result.
	MaxDocumentNameLength = 255

	// MaxSignatureLength is the hard cap on a canonical style signature.
	// Property bags that would serialize beyond this are truncated
	// deterministically and the style is flagged as truncated instead
	// of failing the run.
	MaxSignatureLength = 500

	// MaxContextKeyLength is the maximum length for a formatting context
	// key. Context keys are stable tree-slot identifiers; anything longer
	// indicates a broken extractor.
	MaxContextKeyLength = 255

	// MaxPropertyBagEntries bounds the open string-keyed property bag on
	// a formatting context. The bag is for content-control extensibility,
	// not arbitrary payloads.
	MaxPropertyBagEntries = 64
)

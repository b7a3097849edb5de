package verification

import (
	"time"
)

// TemplateStatus is the lifecycle state of a template.
type TemplateStatus string

const (
	TemplateStatusActive   TemplateStatus = "active"
	TemplateStatusArchived TemplateStatus = "archived"
)

// Template is a named, versioned reference document definition used as
// the verification baseline. A template is re-parsed into a new version
// when its file hash changes, and is never hard-deleted while
// verification results reference it.
type Template struct {
	ID       string         `json:"id" db:"id"`
	Name     string         `json:"name" db:"name"`
	FilePath string         `json:"file_path" db:"file_path"`
	FileHash string         `json:"file_hash" db:"file_hash"` // SHA-256 hex, change detection
	Status   TemplateStatus `json:"status" db:"status"`
	Version  int            `json:"version" db:"version"`

	Styles []TextStyle `json:"styles,omitempty"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the template may be used as a baseline.
func (t *Template) IsActive() bool {
	return t.Status == TemplateStatusActive
}

// StyleType distinguishes paragraph, character and table styles.
type StyleType string

const (
	StyleTypeParagraph StyleType = "paragraph"
	StyleTypeCharacter StyleType = "character"
	StyleTypeTable     StyleType = "table"
)

// TextStyle is one named style of a template. It owns its formatting
// context (value data, 1:1), zero or more direct-format patterns, and an
// ordered tab-stop sequence.
//
// The canonical signature is derived from the style's properties; it is
// unique per (template, style type) for matching purposes but versions
// may repeat it while drafting, so it carries no DB uniqueness.
type TextStyle struct {
	// ID orders styles for the matcher's deterministic pass; ascending
	// ID is the fixed processing order.
	ID         int64     `json:"id" db:"id"`
	TemplateID string    `json:"template_id" db:"template_id"`
	Name       string    `json:"name" db:"name"`
	FontFamily string    `json:"font_family" db:"font_family"`
	FontSize   string    `json:"font_size" db:"font_size"` // points, kept textual to avoid float drift
	Color      string    `json:"color" db:"color"`         // #RRGGBB
	Alignment  string    `json:"alignment" db:"alignment"` // left, center, right, justify
	StyleType  StyleType `json:"style_type" db:"style_type"`

	// Signature is the canonical serialization of the style's properties
	// (see the signature builder). SignatureTruncated flags signatures
	// that hit the length cap.
	Signature          string `json:"signature" db:"signature"`
	SignatureTruncated bool   `json:"signature_truncated" db:"signature_truncated"`

	Version int `json:"version" db:"version"`

	Context       FormattingContext     `json:"context"`
	DirectFormats []DirectFormatPattern `json:"direct_formats,omitempty"`
	TabStops      []TabStop             `json:"tab_stops,omitempty"`
}

// PropertyMap flattens the style's formatting fields into a property bag
// for signing and field-level diffing. Zero-valued fields are omitted:
// absent and explicit-default collapse downstream in canonicalization.
func (s *TextStyle) PropertyMap() PropertyBag {
	bag := make(PropertyBag, 5)
	if s.FontFamily != "" {
		bag[PropFontFamily] = s.FontFamily
	}
	if s.FontSize != "" {
		bag[PropFontSize] = s.FontSize
	}
	if s.Color != "" {
		bag[PropColor] = s.Color
	}
	if s.Alignment != "" {
		bag[PropAlignment] = s.Alignment
	}
	if s.StyleType != "" {
		bag[PropStyleType] = string(s.StyleType)
	}
	for k, v := range s.Context.Properties {
		bag[k] = v
	}
	return bag
}

package verification

// Canonical property keys used in style property bags. The extractor
// normalizes upstream representations (OOXML attributes, RTF control
// words) to these keys before handing contexts to the engine.
const (
	PropFontFamily = "font_family"
	PropFontSize   = "font_size"
	PropColor      = "color"
	PropAlignment  = "alignment"
	PropStyleType  = "style_type"
)

// PropertyBag is an open string-keyed property map. Contexts carry one
// for content-control properties and raw style properties; the engine
// never reflects over it, all comparison goes through the canonical
// signature (see the signature builder).
type PropertyBag map[string]string

// Clone returns an independent copy of the bag. A nil bag clones to nil.
func (b PropertyBag) Clone() PropertyBag {
	if b == nil {
		return nil
	}
	out := make(PropertyBag, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// FormattingContext is the structural location descriptor tying a style
// to where it applies. It is owned value data embedded in its TextStyle,
// not a standalone entity.
type FormattingContext struct {
	// ElementType is the document tree element kind: paragraph, run,
	// table-cell.
	ElementType string `json:"element_type" db:"element_type"`
	// ContextKey is the stable identifier for this slot in the document
	// tree. It is the matching join key between template-side and
	// document-side contexts.
	ContextKey string `json:"context_key" db:"context_key"`
	// StructuralRole classifies the slot: Heading1, Heading2, Body,
	// Caption, ...
	StructuralRole string `json:"structural_role" db:"structural_role"`
	// Properties is the open content-control property bag.
	Properties PropertyBag `json:"properties,omitempty" db:"properties"`
}

// DocumentContext is one extracted formatting context of the candidate
// document, as produced by the extraction collaborator: structural
// location plus the raw style properties observed at that location.
type DocumentContext struct {
	ElementType    string      `json:"element_type"`
	ContextKey     string      `json:"context_key"`
	StructuralRole string      `json:"structural_role"`
	StyleName      string      `json:"style_name,omitempty"`
	Properties     PropertyBag `json:"properties"`

	DirectFormats []DirectFormatPattern `json:"direct_formats,omitempty"`
	TabStops      []TabStop             `json:"tab_stops,omitempty"`
}

// Location renders the human-readable position of this context, e.g.
// "paragraph 3, run 1 (Heading1)".
func (c *DocumentContext) Location() string {
	if c.StructuralRole == "" {
		return c.ElementType + " " + c.ContextKey
	}
	return c.ElementType + " " + c.ContextKey + " (" + c.StructuralRole + ")"
}

// DirectFormatPattern is an inline formatting override distinct from
// named-style formatting, tied to the structural context string it was
// observed (template side: allowed) in. A style may carry several, one
// per distinct context.
type DirectFormatPattern struct {
	// Name identifies the pattern, e.g. "bold-emphasis".
	Name string `json:"name" db:"name"`
	// Context is the structural context string the pattern applies to.
	Context string `json:"context" db:"context"`
	// Properties holds the override values.
	Properties PropertyBag `json:"properties,omitempty" db:"properties"`
}

// TabAlignment is the alignment of one tab stop.
type TabAlignment string

const (
	TabAlignLeft    TabAlignment = "left"
	TabAlignCenter  TabAlignment = "center"
	TabAlignRight   TabAlignment = "right"
	TabAlignDecimal TabAlignment = "decimal"
	TabAlignBar     TabAlignment = "bar"
)

// TabLeader is the fill character drawn before a tab stop.
type TabLeader string

const (
	TabLeaderNone       TabLeader = "none"
	TabLeaderDot        TabLeader = "dot"
	TabLeaderDash       TabLeader = "dash"
	TabLeaderUnderscore TabLeader = "underscore"
)

// TabStop is one tab position of a paragraph style. Styles own an
// ordered sequence of these; position order is semantic, so tab stops
// are compared index by index, never as a set.
type TabStop struct {
	// Position in twentieths of a point from the left margin.
	Position int `json:"position" db:"position"`

	Alignment TabAlignment `json:"alignment" db:"alignment"`
	Leader    TabLeader    `json:"leader" db:"leader"`
}

// String renders "alignment+leader" for mismatch reporting.
func (t TabStop) String() string {
	leader := t.Leader
	if leader == "" {
		leader = TabLeaderNone
	}
	return string(t.Alignment) + "+" + string(leader)
}

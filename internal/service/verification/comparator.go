package verification

import (
	"stylecheck/internal/policy"
)

// FieldMismatch is one field-level discrepancy produced by a comparator:
// which field differs, and the expected (template) versus actual
// (document) value. Absent values render as "absent" - absence is a
// comparable state, never an error.
type FieldMismatch struct {
	Field    string
	Expected string
	Actual   string
}

// Comparator inspects one matched pair along a single formatting
// dimension. Implementations are pure: they return zero or more field
// mismatches and never fail for a well-formed pair.
type Comparator interface {
	// Dimension names the comparison axis for severity policy lookup.
	Dimension() policy.Dimension

	// Compare diffs the template style against the document context it
	// was matched to.
	Compare(pair MatchedPair) []FieldMismatch
}

// DefaultComparators is the engine's fixed comparator set.
func DefaultComparators() []Comparator {
	return []Comparator{
		NewSignatureComparator(),
		NewDirectFormatComparator(),
		NewTabStopComparator(),
	}
}

const absentValue = "absent"

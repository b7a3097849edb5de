package verification

import (
	"stylecheck/internal/policy"
)

// directFormatComparator checks that every direct-format pattern the
// template declares has an equivalent pattern in the document for the
// same context string. Mismatches are keyed by pattern name. Document
// patterns the template never declared are not this comparator's
// concern - inline formatting beyond the baseline is reported through
// the signature dimension if it changes observable properties.
type directFormatComparator struct{}

// NewDirectFormatComparator creates the direct-format dimension comparator.
func NewDirectFormatComparator() Comparator {
	return &directFormatComparator{}
}

func (c *directFormatComparator) Dimension() policy.Dimension {
	return policy.DimensionDirectFormat
}

func (c *directFormatComparator) Compare(pair MatchedPair) []FieldMismatch {
	if len(pair.Style.DirectFormats) == 0 {
		return nil
	}

	// Index document patterns by (name, context)
	type patternKey struct {
		name    string
		context string
	}
	docPatterns := make(map[patternKey]string, len(pair.Document.DirectFormats))
	for _, p := range pair.Document.DirectFormats {
		sig, _ := BuildSignature(p.Properties)
		docPatterns[patternKey{p.Name, p.Context}] = sig
	}

	var mismatches []FieldMismatch
	for _, tplPattern := range pair.Style.DirectFormats {
		expectedSig, _ := BuildSignature(tplPattern.Properties)

		actualSig, ok := docPatterns[patternKey{tplPattern.Name, tplPattern.Context}]
		if !ok {
			mismatches = append(mismatches, FieldMismatch{
				Field:    tplPattern.Name,
				Expected: expectedSig,
				Actual:   absentValue,
			})
			continue
		}
		if actualSig != expectedSig {
			mismatches = append(mismatches, FieldMismatch{
				Field:    tplPattern.Name,
				Expected: expectedSig,
				Actual:   actualSig,
			})
		}
	}

	return mismatches
}

package verification

import (
	"sort"

	"stylecheck/internal/policy"
)

// signatureComparator compares the canonical style signatures of a
// matched pair. Signatures decide equality; when they differ, the
// comparator re-derives both canonical property maps and diffs them so
// the report names the actual fields (font, color, alignment, ...)
// instead of "signatures differ".
type signatureComparator struct{}

// NewSignatureComparator creates the signature dimension comparator.
func NewSignatureComparator() Comparator {
	return &signatureComparator{}
}

func (c *signatureComparator) Dimension() policy.Dimension {
	return policy.DimensionSignature
}

func (c *signatureComparator) Compare(pair MatchedPair) []FieldMismatch {
	tplBag := pair.Style.PropertyMap()
	docBag := pair.Document.Properties

	tplSig, _ := BuildSignature(tplBag)
	docSig, _ := BuildSignature(docBag)
	if tplSig == docSig {
		return nil
	}

	tplCanon := CanonicalProperties(tplBag)
	docCanon := CanonicalProperties(docBag)

	// Union of keys, sorted, so the diff order is deterministic
	keys := make(map[string]struct{}, len(tplCanon)+len(docCanon))
	for k := range tplCanon {
		keys[k] = struct{}{}
	}
	for k := range docCanon {
		keys[k] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	var mismatches []FieldMismatch
	for _, k := range sorted {
		expected, inTpl := tplCanon[k]
		actual, inDoc := docCanon[k]
		if inTpl && inDoc && expected == actual {
			continue
		}
		if !inTpl {
			expected = absentValue
		}
		if !inDoc {
			actual = absentValue
		}
		mismatches = append(mismatches, FieldMismatch{
			Field:    k,
			Expected: expected,
			Actual:   actual,
		})
	}

	return mismatches
}

package verification

import (
	"fmt"
	"strconv"

	models "stylecheck/internal/domain/models/verification"
	"stylecheck/internal/policy"
)

// Tab-stop mismatch field names. The count field has no index;
// element-level fields carry the position index so distinct indexes
// stay distinct through aggregation.
const (
	FieldTabStopCount = "TabStopCountMismatch"
	fieldTabStopAt    = "TabStopMismatch[%d]"
)

// tabStopComparator compares the ordered tab-stop sequences of a
// matched pair index by index. Order is semantic: the same stops in a
// different order are a mismatch, so the sequences are never treated as
// sets.
type tabStopComparator struct{}

// NewTabStopComparator creates the tab-stop dimension comparator.
func NewTabStopComparator() Comparator {
	return &tabStopComparator{}
}

func (c *tabStopComparator) Dimension() policy.Dimension {
	return policy.DimensionTabStop
}

func (c *tabStopComparator) Compare(pair MatchedPair) []FieldMismatch {
	tpl := pair.Style.TabStops
	doc := pair.Document.TabStops

	var mismatches []FieldMismatch
	if len(tpl) != len(doc) {
		mismatches = append(mismatches, FieldMismatch{
			Field:    FieldTabStopCount,
			Expected: strconv.Itoa(len(tpl)),
			Actual:   strconv.Itoa(len(doc)),
		})
	}

	n := len(tpl)
	if len(doc) < n {
		n = len(doc)
	}
	for i := 0; i < n; i++ {
		if tpl[i] == doc[i] {
			continue
		}
		mismatches = append(mismatches, FieldMismatch{
			Field:    fmt.Sprintf(fieldTabStopAt, i),
			Expected: renderTabStop(tpl[i]),
			Actual:   renderTabStop(doc[i]),
		})
	}

	return mismatches
}

// renderTabStop shows alignment+leader, plus the position when it is
// set, so a moved stop reads "left+dot@720".
func renderTabStop(t models.TabStop) string {
	if t.Position == 0 {
		return t.String()
	}
	return fmt.Sprintf("%s@%d", t.String(), t.Position)
}

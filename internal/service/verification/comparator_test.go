package verification

import (
	"testing"

	models "stylecheck/internal/domain/models/verification"
)

func headingPair(tplColor, docColor string) MatchedPair {
	style := &models.TextStyle{
		ID:         1,
		Name:       "Heading1",
		FontFamily: "Calibri",
		FontSize:   "16",
		Color:      tplColor,
		Alignment:  "left",
		StyleType:  models.StyleTypeParagraph,
		Context: models.FormattingContext{
			ElementType:    "paragraph",
			ContextKey:     "p1",
			StructuralRole: "Heading1",
		},
	}
	doc := &models.DocumentContext{
		ElementType:    "paragraph",
		ContextKey:     "p1",
		StructuralRole: "Heading1",
		Properties: models.PropertyBag{
			"font_family": "Calibri",
			"font_size":   "16",
			"color":       docColor,
			"alignment":   "left",
			"style_type":  "paragraph",
		},
	}
	return MatchedPair{Style: style, Document: doc}
}

func TestSignatureComparatorEqualPair(t *testing.T) {
	pair := headingPair("#000000", "#000000")
	if got := NewSignatureComparator().Compare(pair); len(got) != 0 {
		t.Errorf("identical formatting must produce no mismatches, got %+v", got)
	}
}

func TestSignatureComparatorReportsDifferingFields(t *testing.T) {
	pair := headingPair("#000000", "#FF0000")

	got := NewSignatureComparator().Compare(pair)
	if len(got) != 1 {
		t.Fatalf("expected exactly one field mismatch, got %+v", got)
	}
	if got[0].Field != "color" {
		t.Errorf("expected field %q, got %q", "color", got[0].Field)
	}
	if got[0].Expected != "#000000" || got[0].Actual != "#FF0000" {
		t.Errorf("expected #000000/#FF0000, got %q/%q", got[0].Expected, got[0].Actual)
	}
}

func TestSignatureComparatorAbsentProperty(t *testing.T) {
	pair := headingPair("#000000", "#000000")
	delete(pair.Document.Properties, "font_family")

	got := NewSignatureComparator().Compare(pair)
	if len(got) != 1 {
		t.Fatalf("expected one mismatch for absent property, got %+v", got)
	}
	if got[0].Field != "font_family" || got[0].Actual != "absent" {
		t.Errorf("expected font_family absent, got %+v", got[0])
	}
}

func TestDirectFormatComparator(t *testing.T) {
	bold := models.DirectFormatPattern{
		Name:       "bold-emphasis",
		Context:    "paragraph/run[2]",
		Properties: models.PropertyBag{"weight": "bold"},
	}
	italic := models.DirectFormatPattern{
		Name:       "italic-note",
		Context:    "paragraph/run[4]",
		Properties: models.PropertyBag{"slant": "italic"},
	}

	tests := []struct {
		name       string
		docFormats []models.DirectFormatPattern
		wantFields []string
	}{
		{
			name:       "all patterns present",
			docFormats: []models.DirectFormatPattern{bold, italic},
			wantFields: nil,
		},
		{
			name:       "pattern absent",
			docFormats: []models.DirectFormatPattern{bold},
			wantFields: []string{"italic-note"},
		},
		{
			name: "pattern differs",
			docFormats: []models.DirectFormatPattern{
				bold,
				{Name: "italic-note", Context: "paragraph/run[4]", Properties: models.PropertyBag{"slant": "oblique"}},
			},
			wantFields: []string{"italic-note"},
		},
		{
			name:       "no document patterns",
			docFormats: nil,
			wantFields: []string{"bold-emphasis", "italic-note"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair := MatchedPair{
				Style: &models.TextStyle{
					Name:          "Body",
					DirectFormats: []models.DirectFormatPattern{bold, italic},
				},
				Document: &models.DocumentContext{
					ContextKey:    "p3",
					DirectFormats: tt.docFormats,
				},
			}

			got := NewDirectFormatComparator().Compare(pair)
			if len(got) != len(tt.wantFields) {
				t.Fatalf("expected %d mismatches, got %+v", len(tt.wantFields), got)
			}
			for i, want := range tt.wantFields {
				if got[i].Field != want {
					t.Errorf("mismatch %d: expected field %q, got %q", i, want, got[i].Field)
				}
			}
		})
	}
}

func TestTabStopComparatorCountMismatch(t *testing.T) {
	pair := MatchedPair{
		Style: &models.TextStyle{
			Name: "Body",
			TabStops: []models.TabStop{
				{Position: 720, Alignment: models.TabAlignLeft, Leader: models.TabLeaderNone},
				{Position: 8640, Alignment: models.TabAlignRight, Leader: models.TabLeaderDot},
			},
		},
		Document: &models.DocumentContext{
			ContextKey: "p2",
			TabStops: []models.TabStop{
				{Position: 720, Alignment: models.TabAlignLeft, Leader: models.TabLeaderNone},
			},
		},
	}

	got := NewTabStopComparator().Compare(pair)
	if len(got) != 1 {
		t.Fatalf("expected exactly one mismatch, got %+v", got)
	}
	if got[0].Field != FieldTabStopCount {
		t.Errorf("expected %s, got %q", FieldTabStopCount, got[0].Field)
	}
	if got[0].Expected != "2" || got[0].Actual != "1" {
		t.Errorf("expected counts 2/1, got %q/%q", got[0].Expected, got[0].Actual)
	}
}

func TestTabStopComparatorPositionWise(t *testing.T) {
	pair := MatchedPair{
		Style: &models.TextStyle{
			Name: "Body",
			TabStops: []models.TabStop{
				{Position: 720, Alignment: models.TabAlignLeft, Leader: models.TabLeaderNone},
				{Position: 8640, Alignment: models.TabAlignRight, Leader: models.TabLeaderDot},
			},
		},
		Document: &models.DocumentContext{
			ContextKey: "p2",
			TabStops: []models.TabStop{
				{Position: 720, Alignment: models.TabAlignLeft, Leader: models.TabLeaderNone},
				{Position: 8640, Alignment: models.TabAlignCenter, Leader: models.TabLeaderNone},
			},
		},
	}

	got := NewTabStopComparator().Compare(pair)
	if len(got) != 1 {
		t.Fatalf("expected one element mismatch, got %+v", got)
	}
	if got[0].Field != "TabStopMismatch[1]" {
		t.Errorf("expected TabStopMismatch[1], got %q", got[0].Field)
	}
	if got[0].Expected != "right+dot@8640" {
		t.Errorf("unexpected expected rendering %q", got[0].Expected)
	}
	if got[0].Actual != "center+none@8640" {
		t.Errorf("unexpected actual rendering %q", got[0].Actual)
	}
}

func TestTabStopComparatorOrderIsSemantic(t *testing.T) {
	// Same stops, different order: two element mismatches, not zero
	a := models.TabStop{Position: 720, Alignment: models.TabAlignLeft, Leader: models.TabLeaderNone}
	b := models.TabStop{Position: 8640, Alignment: models.TabAlignRight, Leader: models.TabLeaderDot}

	pair := MatchedPair{
		Style:    &models.TextStyle{Name: "Body", TabStops: []models.TabStop{a, b}},
		Document: &models.DocumentContext{ContextKey: "p2", TabStops: []models.TabStop{b, a}},
	}

	got := NewTabStopComparator().Compare(pair)
	if len(got) != 2 {
		t.Fatalf("reordered stops must mismatch position-wise, got %+v", got)
	}
}

func TestTabStopComparatorBothEmpty(t *testing.T) {
	pair := MatchedPair{
		Style:    &models.TextStyle{Name: "Body"},
		Document: &models.DocumentContext{ContextKey: "p2"},
	}
	if got := NewTabStopComparator().Compare(pair); len(got) != 0 {
		t.Errorf("absent tab stops on both sides are equal, got %+v", got)
	}
}

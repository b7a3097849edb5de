package verification

import (
	"fmt"
	"strings"
	"testing"

	"stylecheck/internal/config"
	models "stylecheck/internal/domain/models/verification"
)

func TestBuildSignatureOrderIndependence(t *testing.T) {
	// Two bags with identical content built in different insertion
	// orders must sign identically
	a := models.PropertyBag{}
	a["font_family"] = "Calibri"
	a["font_size"] = "12"
	a["color"] = "#FF0000"
	a["alignment"] = "left"

	b := models.PropertyBag{}
	b["alignment"] = "left"
	b["color"] = "#FF0000"
	b["font_size"] = "12"
	b["font_family"] = "Calibri"

	sigA, truncA := BuildSignature(a)
	sigB, truncB := BuildSignature(b)

	if sigA != sigB {
		t.Errorf("signatures differ for identical bags:\n  a: %s\n  b: %s", sigA, sigB)
	}
	if truncA || truncB {
		t.Errorf("unexpected truncation for small bags")
	}
}

func TestBuildSignatureDefaultCollapse(t *testing.T) {
	tests := []struct {
		name string
		a    models.PropertyBag
		b    models.PropertyBag
	}{
		{
			name: "explicit auto color collapses to omitted",
			a:    models.PropertyBag{"font_family": "Arial", "color": "auto"},
			b:    models.PropertyBag{"font_family": "Arial"},
		},
		{
			name: "empty value collapses to omitted",
			a:    models.PropertyBag{"font_family": "Arial", "alignment": ""},
			b:    models.PropertyBag{"font_family": "Arial"},
		},
		{
			name: "default keyword collapses to omitted",
			a:    models.PropertyBag{"font_family": "Arial", "shading": "default"},
			b:    models.PropertyBag{"font_family": "Arial"},
		},
		{
			name: "font size unit and precision normalize",
			a:    models.PropertyBag{"font_size": "12.0pt"},
			b:    models.PropertyBag{"font_size": "12"},
		},
		{
			name: "short hex color expands",
			a:    models.PropertyBag{"color": "#f00"},
			b:    models.PropertyBag{"color": "#FF0000"},
		},
		{
			name: "color case is insignificant",
			a:    models.PropertyBag{"color": "#ff00aa"},
			b:    models.PropertyBag{"color": "#FF00AA"},
		},
		{
			name: "alignment synonyms normalize",
			a:    models.PropertyBag{"alignment": "start"},
			b:    models.PropertyBag{"alignment": "left"},
		},
		{
			name: "key case is insignificant",
			a:    models.PropertyBag{"Font_Family": "Arial"},
			b:    models.PropertyBag{"font_family": "Arial"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sigA, _ := BuildSignature(tt.a)
			sigB, _ := BuildSignature(tt.b)
			if sigA != sigB {
				t.Errorf("expected equal signatures:\n  a: %s\n  b: %s", sigA, sigB)
			}
		})
	}
}

func TestBuildSignatureDistinguishesValues(t *testing.T) {
	a := models.PropertyBag{"color": "#000000"}
	b := models.PropertyBag{"color": "#FF0000"}

	sigA, _ := BuildSignature(a)
	sigB, _ := BuildSignature(b)
	if sigA == sigB {
		t.Errorf("different colors must not sign identically: %s", sigA)
	}
}

func TestBuildSignatureTruncation(t *testing.T) {
	bag := models.PropertyBag{}
	for i := 0; i < 40; i++ {
		bag[fmt.Sprintf("custom_prop_%02d", i)] = strings.Repeat("x", 30)
	}

	sig, truncated := BuildSignature(bag)
	if !truncated {
		t.Fatalf("expected truncation flag for oversized bag")
	}
	if len(sig) != config.MaxSignatureLength {
		t.Errorf("expected signature capped at %d bytes, got %d", config.MaxSignatureLength, len(sig))
	}

	// Truncation must be deterministic
	sig2, _ := BuildSignature(bag)
	if sig != sig2 {
		t.Errorf("truncated signature not deterministic")
	}
}

func TestBuildSignatureEscapesSeparators(t *testing.T) {
	a := models.PropertyBag{"border": "a=b", "pad": "c"}
	b := models.PropertyBag{"border": "a", "bpad": "c", "x": "=b"}

	sigA, _ := BuildSignature(a)
	sigB, _ := BuildSignature(b)
	if sigA == sigB {
		t.Errorf("separator characters in values must not collide: %s", sigA)
	}
}

func TestBuildSignatureEmptyBag(t *testing.T) {
	sig, truncated := BuildSignature(nil)
	if sig != "" || truncated {
		t.Errorf("nil bag: got %q truncated=%v, want empty", sig, truncated)
	}
}

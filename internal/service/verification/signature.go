package verification

import (
	"sort"
	"strconv"
	"strings"

	"stylecheck/internal/config"
	models "stylecheck/internal/domain/models/verification"
)

// BuildSignature serializes a property bag into its canonical signature.
// The signature is the basis for every equality comparison downstream:
// two bags are semantically equivalent iff their signatures are
// byte-equal. Key order never affects the output, and properties whose
// value normalizes to the default collapse to the same form as omitted
// ones.
//
// The signature is capped at config.MaxSignatureLength bytes. Bags that
// would serialize beyond the cap are truncated deterministically and
// flagged; truncation is the only non-identity outcome - the function
// is pure and never fails.
func BuildSignature(bag models.PropertyBag) (string, bool) {
	canonical := CanonicalProperties(bag)

	keys := make([]string, 0, len(canonical))
	for k := range canonical {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(escape(k))
		b.WriteByte('=')
		b.WriteString(escape(canonical[k]))
	}

	sig := b.String()
	if len(sig) > config.MaxSignatureLength {
		return sig[:config.MaxSignatureLength], true
	}
	return sig, false
}

// CanonicalProperties normalizes a bag into its canonical form: keys
// lowercased, values trimmed and normalized per key, default-valued
// entries dropped so that explicit defaults and omissions compare equal.
func CanonicalProperties(bag models.PropertyBag) models.PropertyBag {
	canonical := make(models.PropertyBag, len(bag))
	for k, v := range bag {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		value, present := normalizeValue(key, v)
		if !present {
			continue
		}
		canonical[key] = value
	}
	return canonical
}

// normalizeValue canonicalizes one property value. The second return is
// false when the value means "use the default", in which case the entry
// is dropped from the canonical form.
func normalizeValue(key, raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}
	switch strings.ToLower(v) {
	case "default", "inherit", "initial":
		return "", false
	}

	switch key {
	case models.PropColor:
		return normalizeColor(v)
	case models.PropAlignment:
		return normalizeAlignment(v), true
	case models.PropFontSize:
		return normalizeNumber(v), true
	case models.PropFontFamily, models.PropStyleType:
		return strings.ToLower(v), true
	default:
		return v, true
	}
}

// normalizeColor canonicalizes colors to uppercase #RRGGBB. "auto" is
// the theme-default color and collapses to absent; short #RGB forms
// expand. Unrecognized values pass through uppercased so they still
// compare deterministically.
func normalizeColor(v string) (string, bool) {
	if strings.EqualFold(v, "auto") {
		return "", false
	}
	hex := strings.TrimPrefix(v, "#")
	if len(hex) == 3 && isHex(hex) {
		expanded := make([]byte, 6)
		for i := 0; i < 3; i++ {
			expanded[2*i] = hex[i]
			expanded[2*i+1] = hex[i]
		}
		hex = string(expanded)
	}
	if len(hex) == 6 && isHex(hex) {
		return "#" + strings.ToUpper(hex), true
	}
	return strings.ToUpper(v), true
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// normalizeAlignment maps upstream alignment spellings onto one
// vocabulary: left, center, right, justify.
func normalizeAlignment(v string) string {
	switch strings.ToLower(v) {
	case "start":
		return "left"
	case "end":
		return "right"
	case "centre":
		return "center"
	case "both", "justified":
		return "justify"
	default:
		return strings.ToLower(v)
	}
}

// normalizeNumber strips unit suffixes and trailing zeros so "12",
// "12.0" and "12pt" canonicalize identically. Non-numeric values pass
// through unchanged.
func normalizeNumber(v string) string {
	trimmed := strings.TrimSuffix(strings.ToLower(v), "pt")
	trimmed = strings.TrimSpace(trimmed)
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return v
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// escape protects the signature's separators inside keys and values.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `;`, `\;`)
	s = strings.ReplaceAll(s, `=`, `\=`)
	return s
}

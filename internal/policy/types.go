package policy

import (
	"stylecheck/internal/domain/models/verification"
)

// Dimension names one comparison axis of the engine. Every raw
// discrepancy is produced under exactly one dimension; the policy maps
// dimensions (plus structural role) to severities.
type Dimension string

const (
	// DimensionStructure covers contexts missing from or unexpected in
	// the document.
	DimensionStructure Dimension = "structure"
	// DimensionSignature covers font/size/color/alignment field
	// mismatches detected through signature comparison.
	DimensionSignature Dimension = "signature"
	// DimensionDirectFormat covers direct-format pattern mismatches.
	DimensionDirectFormat Dimension = "direct_format"
	// DimensionTabStop covers tab-stop count and element mismatches.
	DimensionTabStop Dimension = "tab_stop"
)

// EscalationRule raises the severity of listed dimensions when the
// affected style's structural role starts with RolePrefix.
type EscalationRule struct {
	RolePrefix string      `yaml:"role_prefix"`
	Dimensions []Dimension `yaml:"dimensions"`
	Severity   string      `yaml:"severity"`
}

// Policy is the severity assignment table. The embedded default
// reproduces the standard rules: structural absence and tab-stop /
// direct-format differences are medium, signature field differences are
// high, and heading roles escalate tab-stop and direct-format
// differences to high.
type Policy struct {
	// BaseSeverities maps dimension -> severity name (low/medium/high).
	BaseSeverities map[Dimension]string `yaml:"base_severities"`
	Escalations    []EscalationRule     `yaml:"escalations"`
}

func parseSeverity(name string) (verification.Severity, bool) {
	switch name {
	case "low":
		return verification.SeverityLow, true
	case "medium":
		return verification.SeverityMedium, true
	case "high":
		return verification.SeverityHigh, true
	default:
		return "", false
	}
}

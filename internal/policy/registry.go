package policy

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"stylecheck/internal/domain/models/verification"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry resolves mismatch severities from the loaded policy.
// Lookups are safe for concurrent use; verification runs share one
// registry.
type Registry struct {
	policy *Policy
	mu     sync.RWMutex
}

// NewRegistry creates a registry loaded with the embedded default policy.
func NewRegistry() (*Registry, error) {
	r := &Registry{}
	data, err := configFiles.ReadFile("config/severity.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded severity policy: %w", err)
	}
	if err := r.load(data); err != nil {
		return nil, fmt.Errorf("failed to load default severity policy: %w", err)
	}
	return r, nil
}

// LoadFile replaces the policy with the contents of a YAML override file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read severity policy %s: %w", path, err)
	}
	if err := r.load(data); err != nil {
		return fmt.Errorf("failed to load severity policy %s: %w", path, err)
	}
	return nil
}

func (r *Registry) load(data []byte) error {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to unmarshal policy: %w", err)
	}

	// Reject unknown severity names up front so lookups stay total
	for dim, name := range p.BaseSeverities {
		if _, ok := parseSeverity(name); !ok {
			return fmt.Errorf("unknown severity %q for dimension %q", name, dim)
		}
	}
	for _, esc := range p.Escalations {
		if _, ok := parseSeverity(esc.Severity); !ok {
			return fmt.Errorf("unknown severity %q for role prefix %q", esc.Severity, esc.RolePrefix)
		}
	}

	r.mu.Lock()
	r.policy = &p
	r.mu.Unlock()

	return nil
}

// Severity resolves the severity for a discrepancy on the given
// dimension, affecting a style with the given structural role.
// Escalation rules win over base severities when their role prefix
// matches; unknown dimensions default to medium.
func (r *Registry) Severity(dim Dimension, structuralRole string) verification.Severity {
	r.mu.RLock()
	p := r.policy
	r.mu.RUnlock()

	for _, esc := range p.Escalations {
		if esc.RolePrefix == "" || !hasPrefixFold(structuralRole, esc.RolePrefix) {
			continue
		}
		for _, d := range esc.Dimensions {
			if d == dim {
				sev, _ := parseSeverity(esc.Severity)
				return sev
			}
		}
	}

	if name, ok := p.BaseSeverities[dim]; ok {
		sev, _ := parseSeverity(name)
		return sev
	}
	return verification.SeverityMedium
}

// hasPrefixFold is a case-insensitive strings.HasPrefix. Extractors
// disagree on role casing ("Heading1" vs "heading1"); escalation must
// not depend on it.
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

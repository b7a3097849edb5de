package verification

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	models "stylecheck/internal/domain/models/verification"
	"stylecheck/internal/policy"
)

// RawDiscrepancy is one undeduplicated finding from the matcher or a
// comparator, before severity assignment and ordering.
type RawDiscrepancy struct {
	Category       models.MismatchCategory
	Dimension      policy.Dimension
	ContextKey     string
	Location       string
	StructuralRole string
	Fields         []string
}

// Aggregator turns raw discrepancies into the final mismatch report:
// severity from the policy registry, deduplication on (context key,
// field set), and the stable report order - severity descending, then
// context key ascending. The order is a hard contract; re-running a
// verification must reproduce it byte for byte.
type Aggregator struct {
	policy *policy.Registry
}

// NewAggregator creates a new aggregator backed by the given policy.
func NewAggregator(registry *policy.Registry) *Aggregator {
	return &Aggregator{policy: registry}
}

// Aggregate produces the ordered mismatch list for one result. All
// mismatches of a run share one detection timestamp so identical runs
// differ only in IDs.
func (a *Aggregator) Aggregate(resultID string, raws []RawDiscrepancy, detectedAt time.Time) []models.Mismatch {
	type dedupKey struct {
		contextKey string
		fields     string
	}

	merged := make(map[dedupKey]*models.Mismatch)
	order := make([]dedupKey, 0, len(raws))

	for _, raw := range raws {
		fields := append([]string(nil), raw.Fields...)
		sort.Strings(fields)
		joined := strings.Join(fields, ",")

		key := dedupKey{contextKey: raw.ContextKey, fields: joined}
		severity := a.policy.Severity(raw.Dimension, raw.StructuralRole)

		if existing, ok := merged[key]; ok {
			// Same context and field set from another dimension: keep
			// the most severe assessment
			if severity.Rank() > existing.Severity.Rank() {
				existing.Severity = severity
			}
			continue
		}

		merged[key] = &models.Mismatch{
			ID:             uuid.New().String(),
			ResultID:       resultID,
			Category:       raw.Category,
			ContextKey:     raw.ContextKey,
			Location:       raw.Location,
			StructuralRole: raw.StructuralRole,
			MismatchFields: joined,
			Severity:       severity,
			DetectedAt:     detectedAt,
		}
		order = append(order, key)
	}

	mismatches := make([]models.Mismatch, 0, len(merged))
	for _, key := range order {
		mismatches = append(mismatches, *merged[key])
	}

	sort.SliceStable(mismatches, func(i, j int) bool {
		if mismatches[i].Severity.Rank() != mismatches[j].Severity.Rank() {
			return mismatches[i].Severity.Rank() > mismatches[j].Severity.Rank()
		}
		if mismatches[i].ContextKey != mismatches[j].ContextKey {
			return mismatches[i].ContextKey < mismatches[j].ContextKey
		}
		// Full determinism within one context key
		return mismatches[i].MismatchFields < mismatches[j].MismatchFields
	})

	return mismatches
}

package verification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"stylecheck/internal/domain"
	models "stylecheck/internal/domain/models/verification"
	verifSvc "stylecheck/internal/domain/services/verification"
	"stylecheck/internal/metrics"
	"stylecheck/internal/policy"
)

// verifier implements the Verifier interface: the end-to-end pipeline
// for one document against one template snapshot.
//
// The matcher runs sequentially (its greedy pairing is order-sensitive),
// then every matched pair's comparators run concurrently with an
// index-stable fan-out and a join barrier, so the aggregator always sees
// a complete input set. Cancellation is checked cooperatively at each
// pair boundary; a cancelled run is Failed with no partial mismatches.
type verifier struct {
	matcher     *ContextMatcher
	comparators []Comparator
	aggregator  *Aggregator
	metrics     *metrics.Metrics
	logger      *slog.Logger

	// workers caps concurrent pair comparisons; 0 means one goroutine
	// per pair.
	workers int
}

// NewVerifier creates the verification engine.
func NewVerifier(
	matcher *ContextMatcher,
	comparators []Comparator,
	aggregator *Aggregator,
	m *metrics.Metrics,
	logger *slog.Logger,
	workers int,
) verifSvc.Verifier {
	return &verifier{
		matcher:     matcher,
		comparators: comparators,
		aggregator:  aggregator,
		metrics:     m,
		logger:      logger,
		workers:     workers,
	}
}

// pairFindings is the comparator output for one matched pair.
type pairFindings struct {
	raws []RawDiscrepancy
}

// Verify runs the pipeline and returns a terminal result. The result is
// a pure function of the template snapshot and the document contexts;
// only IDs and timestamps vary between identical runs.
func (v *verifier) Verify(ctx context.Context, tpl *models.Template, docContexts []models.DocumentContext) (*models.VerificationResult, error) {
	if tpl == nil {
		return nil, fmt.Errorf("%w: template is required", domain.ErrValidation)
	}
	if !tpl.IsActive() {
		return nil, &domain.TemplateStateError{TemplateName: tpl.Name, Status: string(tpl.Status)}
	}

	started := time.Now().UTC()
	result := &models.VerificationResult{
		ID:              uuid.New().String(),
		TemplateID:      tpl.ID,
		TemplateVersion: tpl.Version,
		Status:          models.RunStatusPending,
		StartedAt:       started,
		CreatedAt:       started,
	}

	// An empty context set means the document could not be parsed into
	// anything comparable - terminal failure, no partial report
	if len(docContexts) == 0 {
		v.finish(result, models.RunStatusFailed, started)
		result.Warnings = append(result.Warnings, "document produced no formatting contexts")
		return result, nil
	}

	result.Status = models.RunStatusRunning

	// Phase 1: sequential greedy matching
	match := v.matcher.Match(tpl.Styles, docContexts)
	if v.metrics != nil {
		v.metrics.ContextsMatched.Add(float64(len(match.Pairs)))
		v.metrics.ContextsMissing.Add(float64(len(match.MissingInDocument)))
		v.metrics.ContextsUnexpected.Add(float64(len(match.UnexpectedInDocument)))
	}

	// Truncation warnings are collected sequentially in match order so
	// the warning list is reproducible
	result.Warnings = append(result.Warnings, v.truncationWarnings(match.Pairs)...)

	// Phase 2: parallel comparator fan-out with a join barrier. Results
	// land at their pair's index, so the merged order is stable no
	// matter which goroutine finishes first.
	findings := make([]pairFindings, len(match.Pairs))
	var wg sync.WaitGroup

	var sem chan struct{}
	if v.workers > 0 {
		sem = make(chan struct{}, v.workers)
	}

	for i, pair := range match.Pairs {
		wg.Add(1)
		go func(index int, p MatchedPair) {
			defer wg.Done()

			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			// Cooperative cancellation check at the pair boundary
			select {
			case <-ctx.Done():
				return
			default:
			}

			findings[index] = v.comparePair(p)
		}(i, pair)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		v.finish(result, models.RunStatusFailed, started)
		result.Mismatches = nil
		return result, err
	}

	// Phase 3: aggregate. Unmatched contexts first, then pair findings
	// in pair order; the aggregator owns the final sort.
	raws := make([]RawDiscrepancy, 0, len(match.MissingInDocument)+len(match.UnexpectedInDocument))
	for _, style := range match.MissingInDocument {
		raws = append(raws, RawDiscrepancy{
			Category:       models.CategoryMissingInDocument,
			Dimension:      policy.DimensionStructure,
			ContextKey:     style.Context.ContextKey,
			Location:       fmt.Sprintf("%s %s (%s)", style.Context.ElementType, style.Context.ContextKey, style.Name),
			StructuralRole: style.Context.StructuralRole,
		})
	}
	for _, doc := range match.UnexpectedInDocument {
		raws = append(raws, RawDiscrepancy{
			Category:       models.CategoryUnexpectedInDocument,
			Dimension:      policy.DimensionStructure,
			ContextKey:     doc.ContextKey,
			Location:       doc.Location(),
			StructuralRole: doc.StructuralRole,
		})
	}
	for _, f := range findings {
		raws = append(raws, f.raws...)
	}

	completedAt := time.Now().UTC()
	result.Mismatches = v.aggregator.Aggregate(result.ID, raws, completedAt)
	v.finish(result, models.RunStatusCompleted, started)

	if v.metrics != nil {
		for _, m := range result.Mismatches {
			v.metrics.MismatchesTotal.WithLabelValues(string(m.Severity)).Inc()
		}
	}

	v.logger.Info("verification completed",
		"template", tpl.Name,
		"template_version", tpl.Version,
		"pairs", len(match.Pairs),
		"mismatches", len(result.Mismatches),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return result, nil
}

// comparePair runs every comparator over one matched pair and tags the
// findings with the pair's context identity.
func (v *verifier) comparePair(pair MatchedPair) pairFindings {
	var out pairFindings
	for _, comparator := range v.comparators {
		fieldMismatches := comparator.Compare(pair)
		if len(fieldMismatches) == 0 {
			continue
		}

		fields := make([]string, 0, len(fieldMismatches))
		for _, fm := range fieldMismatches {
			fields = append(fields, fm.Field)
		}

		// Severity escalation keys on the template style's role: a
		// key-matched document context may carry a different (or
		// mislabeled) role, and the policy protects the style's slot.
		out.raws = append(out.raws, RawDiscrepancy{
			Category:       models.CategoryFieldMismatch,
			Dimension:      comparator.Dimension(),
			ContextKey:     pair.Document.ContextKey,
			Location:       pair.Document.Location(),
			StructuralRole: pair.Style.Context.StructuralRole,
			Fields:         fields,
		})
	}
	return out
}

// truncationWarnings flags styles whose signature hit the length cap on
// either side of a pair. Truncation is non-fatal: the comparison result
// stands, the warning travels with the run.
func (v *verifier) truncationWarnings(pairs []MatchedPair) []string {
	var warnings []string
	for _, pair := range pairs {
		if _, truncated := BuildSignature(pair.Style.PropertyMap()); truncated {
			warnings = append(warnings, fmt.Sprintf("signature truncated for template style %q", pair.Style.Name))
			if v.metrics != nil {
				v.metrics.SignaturesTruncated.Inc()
			}
		}
		if _, truncated := BuildSignature(pair.Document.Properties); truncated {
			warnings = append(warnings, fmt.Sprintf("signature truncated for document context %q", pair.Document.ContextKey))
			if v.metrics != nil {
				v.metrics.SignaturesTruncated.Inc()
			}
		}
	}
	return warnings
}

// finish stamps the terminal status, completion time and run metrics.
func (v *verifier) finish(result *models.VerificationResult, status models.RunStatus, started time.Time) {
	now := time.Now().UTC()
	result.Status = status
	result.CompletedAt = &now

	if v.metrics != nil {
		v.metrics.RunsTotal.WithLabelValues(string(status)).Inc()
		v.metrics.RunDuration.Observe(now.Sub(started).Seconds())
	}
}


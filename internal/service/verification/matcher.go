package verification

import (
	"log/slog"
	"sort"

	models "stylecheck/internal/domain/models/verification"
)

// Match scores, highest priority first. A context-key hit always beats
// a structural (element type + role) hit.
const (
	scoreNone       = 0
	scoreStructural = 1
	scoreContextKey = 2
)

// MatchedPair is one template style paired with the document context it
// verifies against.
type MatchedPair struct {
	Style    *models.TextStyle
	Document *models.DocumentContext
}

// MatchResult partitions both context sets: every template style lands
// in exactly one of {Pairs, MissingInDocument} and every document
// context in exactly one of {Pairs, UnexpectedInDocument}.
type MatchResult struct {
	Pairs                []MatchedPair
	MissingInDocument    []*models.TextStyle
	UnexpectedInDocument []*models.DocumentContext
}

// ContextMatcher pairs document contexts with template styles. The
// pairing is greedy and order-sensitive, so it always runs sequentially
// before the comparator fan-out.
type ContextMatcher struct {
	logger *slog.Logger
}

// NewContextMatcher creates a new context matcher
func NewContextMatcher(logger *slog.Logger) *ContextMatcher {
	return &ContextMatcher{logger: logger}
}

// Match pairs each template style's formatting context with the best
// unclaimed document context. Template styles are processed in ID
// ascending order; for each, the best-scoring unclaimed document
// context wins, ties broken by document insertion order. The result is
// fully deterministic for identical inputs.
func (m *ContextMatcher) Match(styles []models.TextStyle, docs []models.DocumentContext) *MatchResult {
	ordered := make([]*models.TextStyle, len(styles))
	for i := range styles {
		ordered[i] = &styles[i]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ID < ordered[j].ID
	})

	claimed := make([]bool, len(docs))
	result := &MatchResult{}

	for _, style := range ordered {
		best := -1
		bestScore := scoreNone
		for i := range docs {
			if claimed[i] {
				continue
			}
			score := matchScore(&style.Context, &docs[i])
			if score > bestScore {
				best = i
				bestScore = score
			}
		}

		if best < 0 {
			result.MissingInDocument = append(result.MissingInDocument, style)
			continue
		}

		claimed[best] = true
		result.Pairs = append(result.Pairs, MatchedPair{
			Style:    style,
			Document: &docs[best],
		})
	}

	for i := range docs {
		if !claimed[i] {
			result.UnexpectedInDocument = append(result.UnexpectedInDocument, &docs[i])
		}
	}

	m.logger.Debug("contexts matched",
		"pairs", len(result.Pairs),
		"missing_in_document", len(result.MissingInDocument),
		"unexpected_in_document", len(result.UnexpectedInDocument),
	)

	return result
}

// matchScore rates a candidate pairing. Exact context-key equality is
// the primary join; element type plus structural role is the fallback.
func matchScore(tpl *models.FormattingContext, doc *models.DocumentContext) int {
	if tpl.ContextKey != "" && tpl.ContextKey == doc.ContextKey {
		return scoreContextKey
	}
	if tpl.ElementType == doc.ElementType && tpl.StructuralRole == doc.StructuralRole {
		return scoreStructural
	}
	return scoreNone
}

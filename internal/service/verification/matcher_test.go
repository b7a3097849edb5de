package verification

import (
	"io"
	"log/slog"
	"testing"

	models "stylecheck/internal/domain/models/verification"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tplStyle(id int64, name, elementType, contextKey, role string) models.TextStyle {
	return models.TextStyle{
		ID:   id,
		Name: name,
		Context: models.FormattingContext{
			ElementType:    elementType,
			ContextKey:     contextKey,
			StructuralRole: role,
		},
	}
}

func docContext(elementType, contextKey, role string) models.DocumentContext {
	return models.DocumentContext{
		ElementType:    elementType,
		ContextKey:     contextKey,
		StructuralRole: role,
	}
}

func TestMatchExactContextKeyWins(t *testing.T) {
	styles := []models.TextStyle{
		tplStyle(1, "Heading1", "paragraph", "p1", "Heading1"),
	}
	docs := []models.DocumentContext{
		docContext("paragraph", "p9", "Heading1"), // structural hit only
		docContext("paragraph", "p1", "Body"),     // exact key hit
	}

	result := NewContextMatcher(testLogger()).Match(styles, docs)

	if len(result.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(result.Pairs))
	}
	if result.Pairs[0].Document.ContextKey != "p1" {
		t.Errorf("exact key match should win, paired with %q", result.Pairs[0].Document.ContextKey)
	}
	if len(result.UnexpectedInDocument) != 1 || result.UnexpectedInDocument[0].ContextKey != "p9" {
		t.Errorf("expected p9 unexpected, got %+v", result.UnexpectedInDocument)
	}
}

func TestMatchStructuralFallback(t *testing.T) {
	styles := []models.TextStyle{
		tplStyle(1, "Caption", "paragraph", "tpl-c1", "Caption"),
	}
	docs := []models.DocumentContext{
		docContext("paragraph", "doc-x", "Caption"),
	}

	result := NewContextMatcher(testLogger()).Match(styles, docs)

	if len(result.Pairs) != 1 {
		t.Fatalf("expected structural fallback pair, got %d pairs", len(result.Pairs))
	}
	if len(result.MissingInDocument) != 0 || len(result.UnexpectedInDocument) != 0 {
		t.Errorf("expected no unmatched contexts")
	}
}

func TestMatchTieBreakByInsertionOrder(t *testing.T) {
	styles := []models.TextStyle{
		tplStyle(1, "Body", "paragraph", "", "Body"),
	}
	// Two equally good structural candidates: first declared wins
	docs := []models.DocumentContext{
		docContext("paragraph", "first", "Body"),
		docContext("paragraph", "second", "Body"),
	}

	result := NewContextMatcher(testLogger()).Match(styles, docs)

	if len(result.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(result.Pairs))
	}
	if got := result.Pairs[0].Document.ContextKey; got != "first" {
		t.Errorf("tie must break by insertion order, paired with %q", got)
	}
}

func TestMatchProcessesStylesByIDAscending(t *testing.T) {
	// Both styles can structurally claim the single doc context; the
	// lower style ID claims it regardless of slice order
	styles := []models.TextStyle{
		tplStyle(7, "Later", "paragraph", "", "Body"),
		tplStyle(2, "Earlier", "paragraph", "", "Body"),
	}
	docs := []models.DocumentContext{
		docContext("paragraph", "only", "Body"),
	}

	result := NewContextMatcher(testLogger()).Match(styles, docs)

	if len(result.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(result.Pairs))
	}
	if result.Pairs[0].Style.Name != "Earlier" {
		t.Errorf("style ID 2 must claim first, got %q", result.Pairs[0].Style.Name)
	}
	if len(result.MissingInDocument) != 1 || result.MissingInDocument[0].Name != "Later" {
		t.Errorf("expected style 7 missing, got %+v", result.MissingInDocument)
	}
}

func TestMatchTotality(t *testing.T) {
	styles := []models.TextStyle{
		tplStyle(1, "H1", "paragraph", "p1", "Heading1"),
		tplStyle(2, "Body", "paragraph", "p2", "Body"),
		tplStyle(3, "Caption", "paragraph", "p9", "Caption"),
	}
	docs := []models.DocumentContext{
		docContext("paragraph", "p1", "Heading1"),
		docContext("paragraph", "p2", "Body"),
		docContext("run", "r5", "Emphasis"),
	}

	result := NewContextMatcher(testLogger()).Match(styles, docs)

	// Every template context in exactly one of {matched, missing}
	if got := len(result.Pairs) + len(result.MissingInDocument); got != len(styles) {
		t.Errorf("template totality violated: %d pairs + %d missing != %d styles",
			len(result.Pairs), len(result.MissingInDocument), len(styles))
	}
	// Every document context in exactly one of {matched, unexpected}
	if got := len(result.Pairs) + len(result.UnexpectedInDocument); got != len(docs) {
		t.Errorf("document totality violated: %d pairs + %d unexpected != %d docs",
			len(result.Pairs), len(result.UnexpectedInDocument), len(docs))
	}

	seen := map[string]bool{}
	for _, p := range result.Pairs {
		if seen[p.Document.ContextKey] {
			t.Errorf("document context %q claimed twice", p.Document.ContextKey)
		}
		seen[p.Document.ContextKey] = true
	}
}

func TestMatchDeterminism(t *testing.T) {
	styles := []models.TextStyle{
		tplStyle(3, "C", "paragraph", "", "Body"),
		tplStyle(1, "A", "paragraph", "pa", "Heading1"),
		tplStyle(2, "B", "run", "", "Emphasis"),
	}
	docs := []models.DocumentContext{
		docContext("run", "r1", "Emphasis"),
		docContext("paragraph", "pa", "Heading1"),
		docContext("paragraph", "pb", "Body"),
	}

	matcher := NewContextMatcher(testLogger())
	first := matcher.Match(styles, docs)
	second := matcher.Match(styles, docs)

	if len(first.Pairs) != len(second.Pairs) {
		t.Fatalf("pair counts differ between runs")
	}
	for i := range first.Pairs {
		if first.Pairs[i].Style.ID != second.Pairs[i].Style.ID ||
			first.Pairs[i].Document.ContextKey != second.Pairs[i].Document.ContextKey {
			t.Errorf("pair %d differs between identical runs", i)
		}
	}
}

package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"stylecheck/internal/domain"
	models "stylecheck/internal/domain/models/verification"
	"stylecheck/internal/domain/repositories"
	verifSvc "stylecheck/internal/domain/services/verification"
)

// fakeTemplateRepo serves templates from memory keyed by name.
type fakeTemplateRepo struct {
	templates map[string]*models.Template
}

func (f *fakeTemplateRepo) Create(ctx context.Context, tpl *models.Template) error {
	if f.templates == nil {
		f.templates = make(map[string]*models.Template)
	}
	f.templates[tpl.Name] = tpl
	return nil
}

func (f *fakeTemplateRepo) GetActiveByName(ctx context.Context, name string) (*models.Template, error) {
	tpl, ok := f.templates[name]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	if !tpl.IsActive() {
		return nil, &domain.TemplateStateError{TemplateName: name, Status: string(tpl.Status)}
	}
	return tpl, nil
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, id string) (*models.Template, error) {
	for _, tpl := range f.templates {
		if tpl.ID == id {
			return tpl, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTemplateRepo) UpsertVersion(ctx context.Context, tpl *models.Template) (*models.Template, error) {
	prev := f.templates[tpl.Name]
	next := *tpl
	next.Version = prev.Version + 1
	next.Status = models.TemplateStatusActive
	f.templates[tpl.Name] = &next
	return &next, nil
}

func (f *fakeTemplateRepo) ArchiveByName(ctx context.Context, name string) error {
	tpl, ok := f.templates[name]
	if !ok {
		return domain.ErrTemplateNotFound
	}
	tpl.Status = models.TemplateStatusArchived
	return nil
}

func (f *fakeTemplateRepo) Delete(ctx context.Context, id string) error { return nil }

// fakeResultRepo records saved results in memory.
type fakeResultRepo struct {
	saved   []*models.VerificationResult
	saveErr error
}

func (f *fakeResultRepo) Save(ctx context.Context, result *models.VerificationResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if !result.Status.IsTerminal() {
		return fmt.Errorf("%w: non-terminal result", domain.ErrValidation)
	}
	f.saved = append(f.saved, result)
	return nil
}

func (f *fakeResultRepo) GetByID(ctx context.Context, id string) (*models.VerificationResult, error) {
	for _, r := range f.saved {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeResultRepo) ListByTemplate(ctx context.Context, templateID string, limit int) ([]models.VerificationResult, error) {
	var out []models.VerificationResult
	for _, r := range f.saved {
		if r.TemplateID == templateID {
			out = append(out, *r)
		}
	}
	return out, nil
}

// fakeTxManager runs the function directly; the fakes have no real
// transactions to join.
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	f.calls++
	return fn(ctx)
}

type fakeExtractor struct {
	contexts []models.DocumentContext
	err      error
}

func (f *fakeExtractor) ExtractContexts(ctx context.Context, documentName string, documentBytes []byte) ([]models.DocumentContext, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.contexts, nil
}

type serviceFixture struct {
	svc       verifSvc.VerificationService
	templates *fakeTemplateRepo
	results   *fakeResultRepo
	tx        *fakeTxManager
	extractor *fakeExtractor
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	templates := &fakeTemplateRepo{templates: map[string]*models.Template{
		"corporate-report": testTemplate(),
	}}
	results := &fakeResultRepo{}
	tx := &fakeTxManager{}
	extractor := &fakeExtractor{contexts: conformingContexts()}

	svc := NewVerificationService(
		templates,
		results,
		tx,
		extractor,
		newTestVerifier(t, 0),
		testLogger(),
	)
	return &serviceFixture{svc: svc, templates: templates, results: results, tx: tx, extractor: extractor}
}

func verifyRequest() *verifSvc.VerifyDocumentRequest {
	payload, _ := json.Marshal(map[string]any{"document": "q3.docx"})
	return &verifSvc.VerifyDocumentRequest{
		TemplateName:  "corporate-report",
		DocumentName:  "q3.docx",
		DocumentBytes: payload,
	}
}

func TestVerifyDocumentPersistsResult(t *testing.T) {
	fx := newServiceFixture(t)

	result, err := fx.svc.VerifyDocument(context.Background(), verifyRequest())
	if err != nil {
		t.Fatalf("VerifyDocument: %v", err)
	}
	if result.Status != models.RunStatusCompleted {
		t.Errorf("expected Completed, got %s", result.Status)
	}
	if result.DocumentName != "q3.docx" {
		t.Errorf("result must carry the document name, got %q", result.DocumentName)
	}
	if len(result.DocumentHash) != 64 {
		t.Errorf("expected hex sha256 document hash, got %q", result.DocumentHash)
	}

	if len(fx.results.saved) != 1 {
		t.Fatalf("expected 1 persisted result, got %d", len(fx.results.saved))
	}
	if fx.tx.calls != 1 {
		t.Errorf("result must be saved inside a transaction, got %d tx calls", fx.tx.calls)
	}

	fetched, err := fx.svc.GetResult(context.Background(), result.ID)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if fetched.ID != result.ID {
		t.Errorf("GetResult returned %s, want %s", fetched.ID, result.ID)
	}
}

func TestVerifyDocumentMismatchReport(t *testing.T) {
	fx := newServiceFixture(t)
	fx.extractor.contexts = conformingContexts()
	fx.extractor.contexts[0].Properties["color"] = "#FF0000"

	result, err := fx.svc.VerifyDocument(context.Background(), verifyRequest())
	if err != nil {
		t.Fatalf("VerifyDocument: %v", err)
	}
	if len(result.Mismatches) != 1 {
		t.Fatalf("expected 1 mismatch, got %+v", result.Mismatches)
	}
	if result.Mismatches[0].ResultID != result.ID {
		t.Errorf("mismatch must reference its result")
	}
}

func TestVerifyDocumentUnknownTemplate(t *testing.T) {
	fx := newServiceFixture(t)
	req := verifyRequest()
	req.TemplateName = "no-such-template"

	_, err := fx.svc.VerifyDocument(context.Background(), req)
	if !errors.Is(err, domain.ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
	if len(fx.results.saved) != 0 {
		t.Errorf("nothing must be persisted for a failed lookup")
	}
}

func TestVerifyDocumentArchivedTemplate(t *testing.T) {
	fx := newServiceFixture(t)
	fx.templates.templates["corporate-report"].Status = models.TemplateStatusArchived

	_, err := fx.svc.VerifyDocument(context.Background(), verifyRequest())
	if !errors.Is(err, domain.ErrTemplateInactive) {
		t.Errorf("expected ErrTemplateInactive, got %v", err)
	}
}

func TestVerifyDocumentExtractionFailure(t *testing.T) {
	fx := newServiceFixture(t)
	fx.extractor.err = &domain.ExtractionError{
		DocumentName: "q3.docx",
		Cause:        errors.New("decode context dump: unexpected end of input"),
	}

	result, err := fx.svc.VerifyDocument(context.Background(), verifyRequest())
	if err != nil {
		t.Fatalf("extraction failure is a Failed result, not an error: %v", err)
	}
	if result.Status != models.RunStatusFailed {
		t.Errorf("expected Failed, got %s", result.Status)
	}
	if len(result.Mismatches) != 0 {
		t.Errorf("failed run must carry no mismatches")
	}

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "q3.docx") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings must mention the document, got %v", result.Warnings)
	}

	// The failed run is the report - it must be persisted
	if len(fx.results.saved) != 1 {
		t.Errorf("expected the Failed result to be persisted, got %d saved", len(fx.results.saved))
	}
}

func TestVerifyDocumentValidation(t *testing.T) {
	fx := newServiceFixture(t)

	tests := []struct {
		name   string
		mutate func(*verifSvc.VerifyDocumentRequest)
	}{
		{"missing template name", func(r *verifSvc.VerifyDocumentRequest) { r.TemplateName = "" }},
		{"missing document name", func(r *verifSvc.VerifyDocumentRequest) { r.DocumentName = "" }},
		{"missing document bytes", func(r *verifSvc.VerifyDocumentRequest) { r.DocumentBytes = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := verifyRequest()
			tt.mutate(req)
			_, err := fx.svc.VerifyDocument(context.Background(), req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestVerifyDocumentSaveFailure(t *testing.T) {
	fx := newServiceFixture(t)
	fx.results.saveErr = errors.New("connection reset")

	_, err := fx.svc.VerifyDocument(context.Background(), verifyRequest())
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("storage failure must propagate, got %v", err)
	}
}

func TestGetResultValidation(t *testing.T) {
	fx := newServiceFixture(t)
	if _, err := fx.svc.GetResult(context.Background(), ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for empty id, got %v", err)
	}
	if _, err := fx.svc.GetResult(context.Background(), "unknown"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

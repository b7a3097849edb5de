package verification

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"stylecheck/internal/domain"
	models "stylecheck/internal/domain/models/verification"
	"stylecheck/internal/domain/repositories"
	verifRepo "stylecheck/internal/domain/repositories/verification"
	verifSvc "stylecheck/internal/domain/services/verification"
)

// verificationService implements the VerificationService interface
type verificationService struct {
	templateRepo verifRepo.TemplateRepository
	resultRepo   verifRepo.ResultRepository
	txManager    repositories.TransactionManager
	extractor    verifSvc.ContextExtractor
	verifier     verifSvc.Verifier
	logger       *slog.Logger
}

// NewVerificationService creates a new verification service
func NewVerificationService(
	templateRepo verifRepo.TemplateRepository,
	resultRepo verifRepo.ResultRepository,
	txManager repositories.TransactionManager,
	extractor verifSvc.ContextExtractor,
	verifier verifSvc.Verifier,
	logger *slog.Logger,
) verifSvc.VerificationService {
	return &verificationService{
		templateRepo: templateRepo,
		resultRepo:   resultRepo,
		txManager:    txManager,
		extractor:    extractor,
		verifier:     verifier,
		logger:       logger,
	}
}

// VerifyDocument verifies one document against the active version of a
// named template and persists the terminal result.
//
// Template lookup problems (unknown or archived template) surface as
// errors before a run starts. Extraction failure marks the run Failed
// and persists it - the input is deterministic, so there is nothing to
// retry and the Failed result is the report.
func (s *verificationService) VerifyDocument(ctx context.Context, req *verifSvc.VerifyDocumentRequest) (*models.VerificationResult, error) {
	if err := validateVerifyDocumentRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	tpl, err := s.templateRepo.GetActiveByName(ctx, req.TemplateName)
	if err != nil {
		return nil, err
	}

	docHash := sha256.Sum256(req.DocumentBytes)

	docContexts, err := s.extractor.ExtractContexts(ctx, req.DocumentName, req.DocumentBytes)
	if err != nil {
		extractErr := &domain.ExtractionError{DocumentName: req.DocumentName, Cause: err}
		s.logger.Warn("context extraction failed",
			"document", req.DocumentName,
			"template", req.TemplateName,
			"error", err,
		)
		// Run with no contexts: the verifier stamps a terminal Failed
		// result with no partial mismatch list
		result, verifyErr := s.verifier.Verify(ctx, tpl, nil)
		if verifyErr != nil {
			return nil, verifyErr
		}
		result.Warnings = append(result.Warnings, extractErr.Error())
		s.stampDocument(result, req.DocumentName, docHash[:])
		if err := s.saveResult(ctx, result); err != nil {
			return nil, err
		}
		return result, nil
	}

	result, err := s.verifier.Verify(ctx, tpl, docContexts)
	if err != nil {
		// Cancelled runs still wrote a terminal Failed result; nothing
		// is persisted for them (all-or-nothing visibility)
		return nil, err
	}
	s.stampDocument(result, req.DocumentName, docHash[:])

	if err := s.saveResult(ctx, result); err != nil {
		return nil, err
	}

	s.logger.Info("verification result persisted",
		"result_id", result.ID,
		"document", req.DocumentName,
		"status", result.Status,
		"mismatches", len(result.Mismatches),
	)

	return result, nil
}

// GetResult retrieves a persisted result with its ordered mismatches
func (s *verificationService) GetResult(ctx context.Context, id string) (*models.VerificationResult, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: result id is required", domain.ErrValidation)
	}
	return s.resultRepo.GetByID(ctx, id)
}

func (s *verificationService) stampDocument(result *models.VerificationResult, name string, hash []byte) {
	result.DocumentName = name
	result.DocumentHash = hex.EncodeToString(hash)
}

// saveResult persists the result and its mismatches atomically
func (s *verificationService) saveResult(ctx context.Context, result *models.VerificationResult) error {
	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.resultRepo.Save(txCtx, result)
	})
}

package verification

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"stylecheck/internal/config"
	"stylecheck/internal/domain"
	models "stylecheck/internal/domain/models/verification"
	"stylecheck/internal/domain/repositories"
	verifRepo "stylecheck/internal/domain/repositories/verification"
	verifSvc "stylecheck/internal/domain/services/verification"
)

// templateIngestService implements the TemplateIngestService interface
type templateIngestService struct {
	templateRepo verifRepo.TemplateRepository
	txManager    repositories.TransactionManager
	logger       *slog.Logger
}

// NewTemplateIngestService creates a new template ingest service
func NewTemplateIngestService(
	templateRepo verifRepo.TemplateRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) verifSvc.TemplateIngestService {
	return &templateIngestService{
		templateRepo: templateRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// templateDefinition is the upload format: the style set of a parsed
// reference document.
type templateDefinition struct {
	Styles []models.TextStyle `json:"styles"`
}

// IngestTemplate decodes a template definition, derives each style's
// canonical signature, and stores the aggregate. The file hash decides
// the lifecycle: unknown name creates version 1, changed hash archives
// the active version and stores a new one, unchanged hash returns the
// stored template untouched.
func (s *templateIngestService) IngestTemplate(ctx context.Context, req *verifSvc.IngestTemplateRequest) (*models.Template, error) {
	if err := validateIngestTemplateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var def templateDefinition
	if err := json.Unmarshal(req.Payload, &def); err != nil {
		return nil, fmt.Errorf("%w: decode template definition: %v", domain.ErrValidation, err)
	}
	if len(def.Styles) == 0 {
		return nil, fmt.Errorf("%w: template defines no styles", domain.ErrValidation)
	}

	hash := sha256.Sum256(req.Payload)
	fileHash := hex.EncodeToString(hash[:])

	tpl := &models.Template{
		Name:     req.Name,
		FilePath: req.FilePath,
		FileHash: fileHash,
		Status:   models.TemplateStatusActive,
		Version:  1,
		Styles:   def.Styles,
	}
	for i := range tpl.Styles {
		sig, truncated := BuildSignature(tpl.Styles[i].PropertyMap())
		tpl.Styles[i].Signature = sig
		tpl.Styles[i].SignatureTruncated = truncated
		if truncated {
			s.logger.Warn("style signature truncated at ingest",
				"template", req.Name,
				"style", tpl.Styles[i].Name,
			)
		}
	}

	existing, err := s.templateRepo.GetActiveByName(ctx, req.Name)
	switch {
	case err == nil:
		if existing.FileHash == fileHash {
			s.logger.Debug("template unchanged, skipping ingest",
				"template", req.Name,
				"version", existing.Version,
			)
			return existing, nil
		}
		// Hash changed: archive and re-version inside one transaction
		return s.upsertVersion(ctx, tpl)

	case errors.Is(err, domain.ErrTemplateInactive):
		// Only archived versions exist; a fresh ingest reactivates the
		// name as a new version
		return s.upsertVersion(ctx, tpl)

	case errors.Is(err, domain.ErrTemplateNotFound):
		err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			return s.templateRepo.Create(txCtx, tpl)
		})
		if err != nil {
			return nil, err
		}
		s.logger.Info("template created",
			"template", req.Name,
			"styles", len(tpl.Styles),
		)
		return tpl, nil

	default:
		return nil, err
	}
}

// upsertVersion stores the aggregate as a new active version and returns
// the stored template with its bumped version number.
func (s *templateIngestService) upsertVersion(ctx context.Context, tpl *models.Template) (*models.Template, error) {
	var stored *models.Template
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var upsertErr error
		stored, upsertErr = s.templateRepo.UpsertVersion(txCtx, tpl)
		return upsertErr
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("template re-versioned",
		"template", stored.Name,
		"version", stored.Version,
	)
	return stored, nil
}

func validateIngestTemplateRequest(req *verifSvc.IngestTemplateRequest) error {
	if req == nil {
		return validation.NewError("validation_required", "request is required")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxTemplateNameLength),
		),
		validation.Field(&req.Payload, validation.Required),
	)
}

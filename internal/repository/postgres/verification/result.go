package verification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"stylecheck/internal/domain"
	models "stylecheck/internal/domain/models/verification"
	verifRepo "stylecheck/internal/domain/repositories/verification"
	"stylecheck/internal/repository/postgres"
)

// PostgresResultRepository implements the ResultRepository interface
type PostgresResultRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewResultRepository creates a new verification result repository
func NewResultRepository(config *postgres.RepositoryConfig) verifRepo.ResultRepository {
	return &PostgresResultRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Save persists a terminal result and its ordered mismatches. Callers
// wrap Save in a transaction so the result and its mismatches commit
// together.
func (r *PostgresResultRepository) Save(ctx context.Context, result *models.VerificationResult) error {
	if !result.Status.IsTerminal() {
		return fmt.Errorf("%w: only terminal results are persisted, got status %q", domain.ErrValidation, result.Status)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, template_id, template_version, document_name, document_hash,
		                status, warnings, started_at, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`, r.tables.VerificationResults)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		result.ID,
		result.TemplateID,
		result.TemplateVersion,
		result.DocumentName,
		result.DocumentHash,
		result.Status,
		result.Warnings,
		result.StartedAt,
		result.CompletedAt,
	).Scan(&result.CreatedAt)
	if err != nil {
		return fmt.Errorf("save verification result: %w", err)
	}

	// Ordinal preserves report order on read-back; the aggregator's
	// ordering is a hard contract
	mismatchQuery := fmt.Sprintf(`
		INSERT INTO %s (id, result_id, ordinal, category, context_key, location,
		                structural_role, mismatch_fields, severity, detected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.tables.Mismatches)

	for i, m := range result.Mismatches {
		if _, err := executor.Exec(ctx, mismatchQuery,
			m.ID,
			result.ID,
			i,
			m.Category,
			m.ContextKey,
			m.Location,
			m.StructuralRole,
			m.MismatchFields,
			m.Severity,
			m.DetectedAt,
		); err != nil {
			return fmt.Errorf("save mismatch %d: %w", i, err)
		}
	}

	return nil
}

// GetByID retrieves a result with its mismatches in stored report order
func (r *PostgresResultRepository) GetByID(ctx context.Context, id string) (*models.VerificationResult, error) {
	query := fmt.Sprintf(`
		SELECT id, template_id, template_version, document_name, document_hash,
		       status, warnings, started_at, completed_at, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.VerificationResults)

	executor := postgres.GetExecutor(ctx, r.pool)
	var result models.VerificationResult
	err := executor.QueryRow(ctx, query, id).Scan(
		&result.ID,
		&result.TemplateID,
		&result.TemplateVersion,
		&result.DocumentName,
		&result.DocumentHash,
		&result.Status,
		&result.Warnings,
		&result.StartedAt,
		&result.CompletedAt,
		&result.CreatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("%w: verification result %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get verification result %s: %w", id, err)
	}

	mismatchQuery := fmt.Sprintf(`
		SELECT id, result_id, category, context_key, location,
		       structural_role, mismatch_fields, severity, detected_at
		FROM %s
		WHERE result_id = $1
		ORDER BY ordinal ASC
	`, r.tables.Mismatches)

	rows, err := executor.Query(ctx, mismatchQuery, id)
	if err != nil {
		return nil, fmt.Errorf("load mismatches for result %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Mismatch
		if err := rows.Scan(
			&m.ID,
			&m.ResultID,
			&m.Category,
			&m.ContextKey,
			&m.Location,
			&m.StructuralRole,
			&m.MismatchFields,
			&m.Severity,
			&m.DetectedAt,
		); err != nil {
			return nil, fmt.Errorf("scan mismatch: %w", err)
		}
		result.Mismatches = append(result.Mismatches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mismatches: %w", err)
	}

	return &result, nil
}

// ListByTemplate lists result headers (no mismatches) for a template,
// newest first
func (r *PostgresResultRepository) ListByTemplate(ctx context.Context, templateID string, limit int) ([]models.VerificationResult, error) {
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`
		SELECT id, template_id, template_version, document_name, document_hash,
		       status, warnings, started_at, completed_at, created_at
		FROM %s
		WHERE template_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, r.tables.VerificationResults)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, templateID, limit)
	if err != nil {
		return nil, fmt.Errorf("list results for template %s: %w", templateID, err)
	}
	defer rows.Close()

	var results []models.VerificationResult
	for rows.Next() {
		var result models.VerificationResult
		if err := rows.Scan(
			&result.ID,
			&result.TemplateID,
			&result.TemplateVersion,
			&result.DocumentName,
			&result.DocumentHash,
			&result.Status,
			&result.Warnings,
			&result.StartedAt,
			&result.CompletedAt,
			&result.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan verification result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verification results: %w", err)
	}

	return results, nil
}

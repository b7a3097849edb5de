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

// PostgresTemplateRepository implements the TemplateRepository interface
type PostgresTemplateRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(config *postgres.RepositoryConfig) verifRepo.TemplateRepository {
	return &PostgresTemplateRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create persists a new template aggregate
func (r *PostgresTemplateRepository) Create(ctx context.Context, tpl *models.Template) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, file_path, file_hash, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, r.tables.Templates)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		tpl.Name,
		tpl.FilePath,
		tpl.FileHash,
		tpl.Status,
		tpl.Version,
	).Scan(&tpl.ID, &tpl.CreatedAt, &tpl.UpdatedAt)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("template %q already has an active version", tpl.Name),
				ResourceType: "template",
				ResourceID:   tpl.Name,
			}
		}
		return fmt.Errorf("create template: %w", err)
	}

	for i := range tpl.Styles {
		tpl.Styles[i].TemplateID = tpl.ID
		if err := r.createStyle(ctx, &tpl.Styles[i]); err != nil {
			return err
		}
	}

	return nil
}

// createStyle persists one style with its embedded formatting context,
// direct-format patterns and ordered tab stops
func (r *PostgresTemplateRepository) createStyle(ctx context.Context, style *models.TextStyle) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (template_id, name, font_family, font_size, color, alignment, style_type,
		                signature, signature_truncated, version,
		                element_type, context_key, structural_role, context_properties)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`, r.tables.TextStyles)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		style.TemplateID,
		style.Name,
		style.FontFamily,
		style.FontSize,
		style.Color,
		style.Alignment,
		style.StyleType,
		style.Signature,
		style.SignatureTruncated,
		style.Version,
		style.Context.ElementType,
		style.Context.ContextKey,
		style.Context.StructuralRole,
		style.Context.Properties,
	).Scan(&style.ID)
	if err != nil {
		return fmt.Errorf("create text style %q: %w", style.Name, err)
	}

	for i, pattern := range style.DirectFormats {
		patternQuery := fmt.Sprintf(`
			INSERT INTO %s (style_id, ordinal, name, context, properties)
			VALUES ($1, $2, $3, $4, $5)
		`, r.tables.DirectFormats)
		if _, err := executor.Exec(ctx, patternQuery, style.ID, i, pattern.Name, pattern.Context, pattern.Properties); err != nil {
			return fmt.Errorf("create direct format pattern %q: %w", pattern.Name, err)
		}
	}

	for i, ts := range style.TabStops {
		tabQuery := fmt.Sprintf(`
			INSERT INTO %s (style_id, ordinal, position, alignment, leader)
			VALUES ($1, $2, $3, $4, $5)
		`, r.tables.TabStops)
		if _, err := executor.Exec(ctx, tabQuery, style.ID, i, ts.Position, ts.Alignment, ts.Leader); err != nil {
			return fmt.Errorf("create tab stop %d: %w", i, err)
		}
	}

	return nil
}

// GetActiveByName loads the active version of a named template with its
// full aggregate
func (r *PostgresTemplateRepository) GetActiveByName(ctx context.Context, name string) (*models.Template, error) {
	query := fmt.Sprintf(`
		SELECT id, name, file_path, file_hash, status, version, created_at, updated_at
		FROM %s
		WHERE name = $1 AND status = $2
	`, r.tables.Templates)

	executor := postgres.GetExecutor(ctx, r.pool)
	var tpl models.Template
	err := executor.QueryRow(ctx, query, name, models.TemplateStatusActive).Scan(
		&tpl.ID,
		&tpl.Name,
		&tpl.FilePath,
		&tpl.FileHash,
		&tpl.Status,
		&tpl.Version,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			// Distinguish unknown from archived-only: the caller's error
			// taxonomy treats them differently
			if exists, existsErr := r.nameExists(ctx, name); existsErr == nil && exists {
				return nil, &domain.TemplateStateError{TemplateName: name, Status: string(models.TemplateStatusArchived)}
			}
			return nil, fmt.Errorf("%w: %q", domain.ErrTemplateNotFound, name)
		}
		return nil, fmt.Errorf("get active template %q: %w", name, err)
	}

	if err := r.loadStyles(ctx, &tpl); err != nil {
		return nil, err
	}

	return &tpl, nil
}

// GetByID loads one template aggregate by ID regardless of status
func (r *PostgresTemplateRepository) GetByID(ctx context.Context, id string) (*models.Template, error) {
	query := fmt.Sprintf(`
		SELECT id, name, file_path, file_hash, status, version, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Templates)

	executor := postgres.GetExecutor(ctx, r.pool)
	var tpl models.Template
	err := executor.QueryRow(ctx, query, id).Scan(
		&tpl.ID,
		&tpl.Name,
		&tpl.FilePath,
		&tpl.FileHash,
		&tpl.Status,
		&tpl.Version,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("%w: template %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get template %s: %w", id, err)
	}

	if err := r.loadStyles(ctx, &tpl); err != nil {
		return nil, err
	}

	return &tpl, nil
}

func (r *PostgresTemplateRepository) nameExists(ctx context.Context, name string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE name = $1)`, r.tables.Templates)
	executor := postgres.GetExecutor(ctx, r.pool)
	var exists bool
	if err := executor.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// loadStyles populates the template's styles with their patterns and
// ordered tab stops
func (r *PostgresTemplateRepository) loadStyles(ctx context.Context, tpl *models.Template) error {
	query := fmt.Sprintf(`
		SELECT id, template_id, name, font_family, font_size, color, alignment, style_type,
		       signature, signature_truncated, version,
		       element_type, context_key, structural_role, context_properties
		FROM %s
		WHERE template_id = $1
		ORDER BY id ASC
	`, r.tables.TextStyles)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, tpl.ID)
	if err != nil {
		return fmt.Errorf("load styles for template %s: %w", tpl.ID, err)
	}
	defer rows.Close()

	var styles []models.TextStyle
	for rows.Next() {
		var style models.TextStyle
		if err := rows.Scan(
			&style.ID,
			&style.TemplateID,
			&style.Name,
			&style.FontFamily,
			&style.FontSize,
			&style.Color,
			&style.Alignment,
			&style.StyleType,
			&style.Signature,
			&style.SignatureTruncated,
			&style.Version,
			&style.Context.ElementType,
			&style.Context.ContextKey,
			&style.Context.StructuralRole,
			&style.Context.Properties,
		); err != nil {
			return fmt.Errorf("scan text style: %w", err)
		}
		styles = append(styles, style)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate text styles: %w", err)
	}

	for i := range styles {
		if err := r.loadStyleChildren(ctx, &styles[i]); err != nil {
			return err
		}
	}

	tpl.Styles = styles
	return nil
}

func (r *PostgresTemplateRepository) loadStyleChildren(ctx context.Context, style *models.TextStyle) error {
	executor := postgres.GetExecutor(ctx, r.pool)

	patternQuery := fmt.Sprintf(`
		SELECT name, context, properties
		FROM %s
		WHERE style_id = $1
		ORDER BY ordinal ASC
	`, r.tables.DirectFormats)

	rows, err := executor.Query(ctx, patternQuery, style.ID)
	if err != nil {
		return fmt.Errorf("load direct formats for style %d: %w", style.ID, err)
	}
	for rows.Next() {
		var p models.DirectFormatPattern
		if err := rows.Scan(&p.Name, &p.Context, &p.Properties); err != nil {
			rows.Close()
			return fmt.Errorf("scan direct format pattern: %w", err)
		}
		style.DirectFormats = append(style.DirectFormats, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate direct format patterns: %w", err)
	}

	tabQuery := fmt.Sprintf(`
		SELECT position, alignment, leader
		FROM %s
		WHERE style_id = $1
		ORDER BY ordinal ASC
	`, r.tables.TabStops)

	rows, err = executor.Query(ctx, tabQuery, style.ID)
	if err != nil {
		return fmt.Errorf("load tab stops for style %d: %w", style.ID, err)
	}
	for rows.Next() {
		var ts models.TabStop
		if err := rows.Scan(&ts.Position, &ts.Alignment, &ts.Leader); err != nil {
			rows.Close()
			return fmt.Errorf("scan tab stop: %w", err)
		}
		style.TabStops = append(style.TabStops, ts)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate tab stops: %w", err)
	}

	return nil
}

// UpsertVersion archives the current active version and inserts the
// aggregate as the new active version with a bumped version number
func (r *PostgresTemplateRepository) UpsertVersion(ctx context.Context, tpl *models.Template) (*models.Template, error) {
	executor := postgres.GetExecutor(ctx, r.pool)

	versionQuery := fmt.Sprintf(`
		SELECT COALESCE(MAX(version), 0) FROM %s WHERE name = $1
	`, r.tables.Templates)

	var maxVersion int
	if err := executor.QueryRow(ctx, versionQuery, tpl.Name).Scan(&maxVersion); err != nil {
		return nil, fmt.Errorf("resolve current version of %q: %w", tpl.Name, err)
	}

	archiveQuery := fmt.Sprintf(`
		UPDATE %s SET status = $1, updated_at = NOW() WHERE name = $2 AND status = $3
	`, r.tables.Templates)
	if _, err := executor.Exec(ctx, archiveQuery, models.TemplateStatusArchived, tpl.Name, models.TemplateStatusActive); err != nil {
		return nil, fmt.Errorf("archive previous version of %q: %w", tpl.Name, err)
	}

	tpl.Status = models.TemplateStatusActive
	tpl.Version = maxVersion + 1
	if err := r.Create(ctx, tpl); err != nil {
		return nil, err
	}

	r.logger.Info("template version bumped",
		"template", tpl.Name,
		"version", tpl.Version,
	)

	return tpl, nil
}

// ArchiveByName marks the active version of a named template archived
func (r *PostgresTemplateRepository) ArchiveByName(ctx context.Context, name string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET status = $1, updated_at = NOW() WHERE name = $2 AND status = $3
	`, r.tables.Templates)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, models.TemplateStatusArchived, name, models.TemplateStatusActive)
	if err != nil {
		return fmt.Errorf("archive template %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %q", domain.ErrTemplateNotFound, name)
	}
	return nil
}

// Delete removes a template without verification results. The results
// FK is ON DELETE RESTRICT, so historical results block deletion.
func (r *PostgresTemplateRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Templates)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return &domain.ConflictError{
				Message:      "template has verification results and cannot be deleted",
				ResourceType: "template",
				ResourceID:   id,
			}
		}
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: template %s", domain.ErrNotFound, id)
	}
	return nil
}

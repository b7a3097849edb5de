package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"stylecheck/internal/config"
	verifSvc "stylecheck/internal/domain/services/verification"
	"stylecheck/internal/repository/postgres"
	postgresVerif "stylecheck/internal/repository/postgres/verification"
	serviceVerif "stylecheck/internal/service/verification"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before migrating (fresh start)")
	templateFile := flag.String("template-file", "", "Template definition JSON to ingest after migrating")
	templateName := flag.String("template-name", "", "Name for the ingested template (defaults to file basename)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *templateFile == "" {
		return
	}

	// Ingest a template definition
	payload, err := os.ReadFile(*templateFile)
	if err != nil {
		log.Fatalf("Failed to read template file: %v", err)
	}

	name := *templateName
	if name == "" {
		name = filepath.Base(*templateFile)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	templateRepo := postgresVerif.NewTemplateRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)
	ingest := serviceVerif.NewTemplateIngestService(templateRepo, txManager, logger)

	tpl, err := ingest.IngestTemplate(ctx, &verifSvc.IngestTemplateRequest{
		Name:     name,
		FilePath: *templateFile,
		Payload:  payload,
	})
	if err != nil {
		log.Fatalf("Failed to ingest template: %v", err)
	}

	log.Printf("Template %q ready (version %d, %d styles)", tpl.Name, tpl.Version, len(tpl.Styles))
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"")
	if err != nil {
		return err
	}

	// Create templates table. One active row per name; archived versions
	// keep the history.
	createTemplates := `
		CREATE TABLE IF NOT EXISTS ` + tables.Templates + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name TEXT NOT NULL,
			file_path TEXT NOT NULL,
			file_hash TEXT NOT NULL,
			status TEXT NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createTemplates); err != nil {
		return err
	}

	// Create text styles table. The formatting context is embedded value
	// data (element_type, context_key, structural_role, properties), not
	// a separate entity.
	createStyles := `
		CREATE TABLE IF NOT EXISTS ` + tables.TextStyles + ` (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			template_id UUID NOT NULL REFERENCES ` + tables.Templates + `(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			font_family TEXT NOT NULL DEFAULT '',
			font_size TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			alignment TEXT NOT NULL DEFAULT '',
			style_type TEXT NOT NULL,
			signature TEXT NOT NULL,
			signature_truncated BOOLEAN NOT NULL DEFAULT FALSE,
			version INTEGER NOT NULL DEFAULT 1,
			element_type TEXT NOT NULL,
			context_key TEXT NOT NULL,
			structural_role TEXT NOT NULL DEFAULT '',
			context_properties JSONB,
			UNIQUE(template_id, context_key)
		)
	`
	if _, err := pool.Exec(ctx, createStyles); err != nil {
		return err
	}

	// Create direct format patterns table
	createPatterns := `
		CREATE TABLE IF NOT EXISTS ` + tables.DirectFormats + ` (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			style_id BIGINT NOT NULL REFERENCES ` + tables.TextStyles + `(id) ON DELETE CASCADE,
			ordinal INTEGER NOT NULL,
			name TEXT NOT NULL,
			context TEXT NOT NULL,
			properties JSONB,
			UNIQUE(style_id, name, context)
		)
	`
	if _, err := pool.Exec(ctx, createPatterns); err != nil {
		return err
	}

	// Create tab stops table. Ordinal keeps the sequence; position alone
	// is not a key.
	createTabStops := `
		CREATE TABLE IF NOT EXISTS ` + tables.TabStops + ` (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			style_id BIGINT NOT NULL REFERENCES ` + tables.TextStyles + `(id) ON DELETE CASCADE,
			ordinal INTEGER NOT NULL,
			position INTEGER NOT NULL,
			alignment TEXT NOT NULL,
			leader TEXT NOT NULL DEFAULT 'none',
			UNIQUE(style_id, ordinal)
		)
	`
	if _, err := pool.Exec(ctx, createTabStops); err != nil {
		return err
	}

	// Create verification results table. RESTRICT keeps templates with
	// history undeletable.
	createResults := `
		CREATE TABLE IF NOT EXISTS ` + tables.VerificationResults + ` (
			id UUID PRIMARY KEY,
			template_id UUID NOT NULL REFERENCES ` + tables.Templates + `(id) ON DELETE RESTRICT,
			template_version INTEGER NOT NULL,
			document_name TEXT NOT NULL,
			document_hash TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			warnings TEXT[],
			started_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createResults); err != nil {
		return err
	}

	// Create mismatches table, cascade-deleted with their result
	createMismatches := `
		CREATE TABLE IF NOT EXISTS ` + tables.Mismatches + ` (
			id UUID PRIMARY KEY,
			result_id UUID NOT NULL REFERENCES ` + tables.VerificationResults + `(id) ON DELETE CASCADE,
			ordinal INTEGER NOT NULL,
			category TEXT NOT NULL,
			context_key TEXT NOT NULL,
			location TEXT NOT NULL,
			structural_role TEXT NOT NULL DEFAULT '',
			mismatch_fields TEXT NOT NULL DEFAULT '',
			severity TEXT NOT NULL,
			detected_at TIMESTAMPTZ NOT NULL,
			UNIQUE(result_id, ordinal)
		)
	`
	if _, err := pool.Exec(ctx, createMismatches); err != nil {
		return err
	}

	// Create indexes
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `templates_active_name ON ` + tables.Templates + `(name) WHERE status = 'active'`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `text_styles_template ON ` + tables.TextStyles + `(template_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `results_template ON ` + tables.VerificationResults + `(template_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `mismatches_result ON ` + tables.Mismatches + `(result_id, ordinal)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Mismatches,
		tables.VerificationResults,
		tables.TabStops,
		tables.DirectFormats,
		tables.TextStyles,
		tables.Templates,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  dropped %s", table)
	}

	return nil
}

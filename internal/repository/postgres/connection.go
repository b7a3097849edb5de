package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stylecheck/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Templates           string
	TextStyles          string
	DirectFormats       string
	TabStops            string
	VerificationResults string
	Mismatches          string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Templates:           fmt.Sprintf("%stemplates", prefix),
		TextStyles:          fmt.Sprintf("%stext_styles", prefix),
		DirectFormats:       fmt.Sprintf("%sdirect_format_patterns", prefix),
		TabStops:            fmt.Sprintf("%stab_stops", prefix),
		VerificationResults: fmt.Sprintf("%sverification_results", prefix),
		Mismatches:          fmt.Sprintf("%smismatches", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// When the connection goes through a transaction pooler (port 6543),
// prepared statements break with "prepared statement already exists";
// QueryExecModeCacheDescribe keeps the extended protocol (needed for
// JSONB property bags) without creating prepared statements. An
// explicit default_query_exec_mode in the connection string takes
// precedence over this auto-detection.
//
// The fmt.Sprintf table-prefix interpolation used by the repositories
// is safe with statement caching: the SQL text is fixed before it
// reaches the server, each prefix gets its own statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// Configure pool size
	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for transaction pooler compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction.
// Otherwise, it returns the provided pool.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"stylecheck/internal/config"
	models "stylecheck/internal/domain/models/verification"
	domainVerif "stylecheck/internal/domain/services/verification"
	"stylecheck/internal/extraction"
	"stylecheck/internal/metrics"
	"stylecheck/internal/policy"
	"stylecheck/internal/repository/postgres"
	postgresVerif "stylecheck/internal/repository/postgres/verification"
	serviceVerif "stylecheck/internal/service/verification"
)

func main() {
	templateName := flag.String("template", "", "Template name to verify against")
	documentPath := flag.String("document", "", "Path to the extracted context dump of the document")
	resultID := flag.String("result", "", "Fetch a stored verification result by ID instead of running")
	flag.Parse()

	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" || cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stderr
	if cfg.Debug {
		logFile, err := config.SetupLogFile("logs", 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stderr, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("verifier starting",
		"environment", cfg.Environment,
		"table_prefix", cfg.TablePrefix,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	templateRepo := postgresVerif.NewTemplateRepository(repoConfig)
	resultRepo := postgresVerif.NewResultRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Severity policy: embedded defaults plus optional override file
	policyRegistry, err := policy.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load severity policy: %v", err)
	}
	if cfg.SeverityPolicyPath != "" {
		if err := policyRegistry.LoadFile(cfg.SeverityPolicyPath); err != nil {
			log.Fatalf("Failed to load severity policy override: %v", err)
		}
		logger.Info("severity policy override loaded", "path", cfg.SeverityPolicyPath)
	}

	engineMetrics := metrics.New(prometheus.DefaultRegisterer)

	// Assemble the engine
	matcher := serviceVerif.NewContextMatcher(logger)
	aggregator := serviceVerif.NewAggregator(policyRegistry)
	verifier := serviceVerif.NewVerifier(
		matcher,
		serviceVerif.DefaultComparators(),
		aggregator,
		engineMetrics,
		logger,
		cfg.CompareWorkers,
	)
	extractor := extraction.NewJSONExtractor(logger)

	svc := serviceVerif.NewVerificationService(
		templateRepo,
		resultRepo,
		txManager,
		extractor,
		verifier,
		logger,
	)

	if *resultID != "" {
		result, err := svc.GetResult(ctx, *resultID)
		if err != nil {
			log.Fatalf("Failed to fetch result: %v", err)
		}
		printReport(result.DocumentName, result)
		return
	}

	if *templateName == "" || *documentPath == "" {
		fmt.Fprintln(os.Stderr, "usage: verifier -template <name> -document <context-dump.json> | -result <id>")
		os.Exit(2)
	}

	documentBytes, err := os.ReadFile(*documentPath)
	if err != nil {
		log.Fatalf("Failed to read document: %v", err)
	}

	result, err := svc.VerifyDocument(ctx, &domainVerif.VerifyDocumentRequest{
		TemplateName:  *templateName,
		DocumentName:  *documentPath,
		DocumentBytes: documentBytes,
	})
	if err != nil {
		log.Fatalf("Verification failed: %v", err)
	}

	printReport(*documentPath, result)
	if result.Status != models.RunStatusCompleted {
		os.Exit(1)
	}
}

// printReport renders the ordered mismatch report to stdout.
func printReport(document string, result *models.VerificationResult) {
	fmt.Printf("document: %s\n", document)
	fmt.Printf("result:   %s\n", result.ID)
	fmt.Printf("status:   %s\n", result.Status)
	for _, w := range result.Warnings {
		fmt.Printf("warning:  %s\n", w)
	}
	if len(result.Mismatches) == 0 {
		fmt.Println("no mismatches")
		return
	}
	fmt.Printf("%d mismatch(es):\n", len(result.Mismatches))
	for _, m := range result.Mismatches {
		fields := m.MismatchFields
		if fields == "" {
			fields = string(m.Category)
		}
		fmt.Printf("  [%s] %s: %s\n", m.Severity, m.Location, fields)
	}
}

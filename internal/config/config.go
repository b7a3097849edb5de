package config

import (
	"os"
	"strconv"
)

type Config struct {
	Environment string
	DatabaseURL string
	TablePrefix string
	// Path to a severity policy override file. Empty means the embedded
	// default policy is used.
	SeverityPolicyPath string
	// Number of concurrent comparator workers per verification run.
	// 0 means one goroutine per matched pair.
	CompareWorkers int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)

	return &Config{
		Environment:        env,
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		TablePrefix:        tablePrefix,
		SeverityPolicyPath: getEnv("SEVERITY_POLICY_PATH", ""),
		CompareWorkers:     getEnvInt("COMPARE_WORKERS", 0),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	case "dev":
		return "dev_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	// Scan
	ExcludedNamespacePrefixes []string
	ScanTimeout               time.Duration

	// Storage
	StorageEnabled bool
	DatabaseURL    string

	// Reporting
	GeneratePDF bool
	ReportsDir  string

	Verbose bool
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	return &Config{
		ExcludedNamespacePrefixes: getEnvList("EXCLUDED_NAMESPACE_PREFIXES", []string{"kube-", "system-"}),
		ScanTimeout:               getEnvDuration("SCAN_TIMEOUT", 2*time.Minute),
		StorageEnabled:            getEnvBool("STORAGE_ENABLED", false),
		DatabaseURL:               getEnv("DATABASE_URL", "host=localhost port=5432 user=hpauser password=devpassword dbname=hpascanner sslmode=disable"),
		GeneratePDF:               getEnvBool("GENERATE_PDF", false),
		ReportsDir:                getEnv("REPORTS_DIR", "reports"),
		Verbose:                   getEnvBool("VERBOSE", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.EqualFold(value, "true") || value == "1"
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.StorageEnabled && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when storage is enabled")
	}
	if c.ScanTimeout < time.Second {
		return fmt.Errorf("scan timeout must be at least 1s")
	}
	if c.ReportsDir == "" {
		return fmt.Errorf("reports directory must not be empty")
	}
	return nil
}

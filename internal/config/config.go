// Package config loads service configuration from the environment. A .env
// file in the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Port string

	// BigQuery
	ProjectID string
	DatasetID string

	// GCS bucket for receipt images; empty disables uploads
	ImageBucket string

	// Identity to sign in at startup; empty starts in the guest view
	DefaultUserID string
}

// Load reads configuration from the environment, after loading .env if one
// exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		ProjectID:     getEnv("GCP_PROJECT", ""),
		DatasetID:     getEnv("BQ_DATASET", "ledger"),
		ImageBucket:   getEnv("GCS_BUCKET", ""),
		DefaultUserID: getEnv("DEFAULT_USER_ID", ""),
	}
}

// Validate returns an error describing every invalid field at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.ProjectID == "" {
		problems = append(problems, "GCP_PROJECT is required")
	}
	if c.DatasetID == "" {
		problems = append(problems, "BQ_DATASET cannot be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

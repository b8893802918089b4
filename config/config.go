package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every configuration parameter of the process.
//
// DatabaseURL and the admin secret are deliberately optional: a missing
// value degrades the endpoints that depend on it to per-request 500s
// instead of preventing startup, so health checks stay reachable.
type Config struct {
	DatabaseURL string
	ServerPort  int

	// Admin credential: plaintext secret, or its bcrypt hash. The hash
	// wins when both are set.
	AdminSecret       string
	AdminPasswordHash string

	// Optional roster archival bucket.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
}

// Load reads configuration from the environment, optionally seeded from
// a .env file for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		ServerPort:        port,
		AdminSecret:       os.Getenv("ADMIN_SECRET"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
	}

	return cfg, nil
}

// ArchiveConfigured reports whether every R2 field is present.
func (c *Config) ArchiveConfigured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != ""
}

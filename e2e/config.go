//go:build e2e

package e2e

import (
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for E2E tests
type Config struct {
	Section  string
	SpaceKey string
	Timeout  time.Duration
	Cleanup  bool
	Scan     bool
}

// LoadConfig loads E2E test configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Section:  getEnvOrDefault("CONFLUENCE_E2E_SECTION", "default"),
		SpaceKey: os.Getenv("CONFLUENCE_E2E_SPACE"),
		Timeout:  getTimeoutFromEnv("CONFLUENCE_E2E_TIMEOUT", 120*time.Second),
		Cleanup:  getBoolFromEnv("CONFLUENCE_E2E_CLEANUP", true),
		// the scan endpoint only exists on Data Center
		Scan: getBoolFromEnv("CONFLUENCE_E2E_SCAN", false),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getTimeoutFromEnv parses timeout from environment variable
func getTimeoutFromEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getBoolFromEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	result, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return result
}

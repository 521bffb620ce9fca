package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// SQLite database file holding the task store
	DatabasePath string

	// Address the HTTP server listens on
	ListenAddr string

	// Default YouTrack custom field used for issue state
	StateField string

	// State value considered "open"
	OpenValue string

	// Log level
	LogLevel string // Required: Log level
}

var (
	// instance holds the singleton config instance
	instance *Config
)

// Get returns the singleton config instance
func Get() *Config {
	if instance == nil {
		panic("config not initialized")
	}
	return instance
}

// Load creates a new Config instance from environment variables.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr: getEnvWithDefault("LISTEN_ADDR", ":8080"),
		StateField: getEnvWithDefault("YOUTRACK_STATE_FIELD", "State"),
		OpenValue:  getEnvWithDefault("YOUTRACK_OPEN_VALUE", "Open"),
		LogLevel:   getEnvWithDefault("LOG_LEVEL", "info"),
	}

	// Load required values
	requiredVars := map[string]*string{
		"DATABASE_PATH": &cfg.DatabasePath,
	}

	var missingVars []string
	for env, ptr := range requiredVars {
		*ptr = os.Getenv(env)
		if *ptr == "" {
			missingVars = append(missingVars, env)
		}
	}

	if len(missingVars) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	// Store the instance
	instance = cfg

	return cfg, nil
}

func getEnvWithDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

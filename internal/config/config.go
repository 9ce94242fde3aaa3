// ABOUTME: Configuration loader for the defectctl client
// ABOUTME: Loads settings from environment variables with defaults, with optional .env support

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sloobman/ControlSystem/internal/session"
)

type Config struct {
	APIURL         string // base URL of the ControlSystem backend
	RequestTimeout int    // seconds, per-request HTTP timeout
	ConfigDir      string // where the session file lives
	Debug          bool   // write a TUI debug log under the config dir
}

const defaultAPIURL = "http://localhost:8080"

// Load builds the configuration from the environment. A .env file in the
// working directory is picked up first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:         getEnv("DEFECTCTL_API_URL", defaultAPIURL),
		RequestTimeout: getEnvInt("DEFECTCTL_TIMEOUT", 30),
		ConfigDir:      getEnv("DEFECTCTL_CONFIG_DIR", session.DefaultConfigDir()),
		Debug:          getEnvBool("DEFECTCTL_DEBUG", false),
	}

	if cfg.RequestTimeout < 1 || cfg.RequestTimeout > 600 {
		return nil, fmt.Errorf("DEFECTCTL_TIMEOUT must be between 1 and 600, got %d", cfg.RequestTimeout)
	}
	if cfg.ConfigDir == "" {
		return nil, fmt.Errorf("no config directory available; set DEFECTCTL_CONFIG_DIR")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

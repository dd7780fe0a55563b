package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL      = "http://localhost:5000/api/"
	DefaultHTTPTimeout = 30 * time.Second
)

// Config holds all configuration for the CLI process
type Config struct {
	// API Configuration
	API APIConfig

	// Session storage Configuration
	Session SessionConfig

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig holds backend connection settings
type APIConfig struct {
	URL     string // used when no project file lists a server
	Timeout time.Duration
}

// SessionConfig selects where the session record is persisted
type SessionConfig struct {
	Backend string // file, keyring, sqlite, memory
	Dir     string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	apiURL := os.Getenv("HOMESERV_API_URL")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	timeout := DefaultHTTPTimeout
	if raw := os.Getenv("HOMESERV_HTTP_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			timeout = d
		}
	}

	backend := strings.ToLower(os.Getenv("HOMESERV_SESSION_BACKEND"))
	if backend == "" {
		backend = "file"
	}

	sessionDir := os.Getenv("HOMESERV_SESSION_DIR")
	if sessionDir == "" {
		dir, err := DefaultStateDir()
		if err != nil {
			return nil, err
		}
		sessionDir = dir
	}

	// CLI users only want to see problems by default
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "warn"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "console"
	}

	return &Config{
		API: APIConfig{
			URL:     apiURL,
			Timeout: timeout,
		},
		Session: SessionConfig{
			Backend: backend,
			Dir:     sessionDir,
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}, nil
}

// DefaultStateDir returns ~/.config/homeserv
func DefaultStateDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "homeserv"), nil
}

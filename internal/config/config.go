package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultArchiveURL   = "https://archive.sensor.community"
	defaultOutputDir    = "data"
	defaultDriver       = "sqlite"
	defaultFetchTimeout = 30 * time.Second
	defaultPort         = 8080
)

// Config holds environment-driven settings shared by the fetcher pipeline
// and the REST API. All paths and origins are explicit; nothing is derived
// from the process's own location.
type Config struct {
	ArchiveBaseURL string
	OutputDir      string
	DBDriver       string
	DBDSN          string
	FetchTimeout   time.Duration
	Port           int
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		ArchiveBaseURL: defaultArchiveURL,
		OutputDir:      defaultOutputDir,
		DBDriver:       defaultDriver,
		FetchTimeout:   defaultFetchTimeout,
		Port:           defaultPort,
	}

	if v := strings.TrimSpace(os.Getenv("ARCHIVE_BASE_URL")); v != "" {
		cfg.ArchiveBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("OUTPUT_DIR")); v != "" {
		cfg.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv("DB_DRIVER")); v != "" {
		cfg.DBDriver = v
	}

	cfg.DBDSN = strings.TrimSpace(os.Getenv("DB_DSN"))
	if cfg.DBDSN == "" {
		if strings.EqualFold(cfg.DBDriver, defaultDriver) {
			cfg.DBDSN = filepath.Join(cfg.OutputDir, "sensor.db")
		} else {
			return cfg, fmt.Errorf("DB_DSN is required for driver %q", cfg.DBDriver)
		}
	}

	if v := strings.TrimSpace(os.Getenv("FETCH_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_TIMEOUT: %w", err)
		}
		cfg.FetchTimeout = d
	}

	if portStr := strings.TrimSpace(os.Getenv("PORT")); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
		cfg.Port = port
	} else if portStr := strings.TrimSpace(os.Getenv("API_PORT")); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
		cfg.Port = port
	}

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

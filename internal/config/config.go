package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all report settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Report layout and output.
	RowsPerHalfPage int
	OutputDir       string

	// Rendered documents kept in memory by the HTTP surface; 0 disables.
	ReportCacheSize int

	// Optional artwork. A missing file is logged and skipped.
	LogoPath string
	FontPath string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	rows, err := parseIntEnv("ROWS_PER_HALF_PAGE", 70, 1)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseIntEnv("REPORT_CACHE_SIZE", 16, 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		RowsPerHalfPage: rows,
		ReportCacheSize: cacheSize,
		OutputDir:       sharedcfg.EnvOrDefault("OUTPUT_DIR", "."),
		LogoPath:        sharedcfg.EnvOrDefault("LOGO_PATH", "logo.png"),
		FontPath:        os.Getenv("FONT_PATH"),
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, errors.New("LOG_FORMAT must be json or text")
	}

	return cfg, nil
}

// parseIntEnv reads an integer variable, returning def when unset and an
// error when the value is not an integer of at least lowest.
func parseIntEnv(name string, def, lowest int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lowest {
		return 0, fmt.Errorf("invalid %s: %q", name, s)
	}
	return n, nil
}

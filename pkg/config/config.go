package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Log     LogConfig
	Convert ConvertConfig
	Watch   WatchConfig
	Metrics MetricsConfig
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

type ConvertConfig struct {
	LayoutFile         string // optional YAML layout, empty for the built-in one
	OutputFormat       string // xlsx or csv
	Workers            int    // documents converted at once in folder mode
	PageWorkers        int    // pages parsed at once per document
	CombinedOutputName string
}

type WatchConfig struct {
	Inbox      string
	Schedule   string // 5-field cron spec
	LedgerPath string
}

type MetricsConfig struct {
	TextfilePath string // node-exporter textfile; empty disables the dump
}

// Load reads configuration from environment variables. Each envFiles entry is
// loaded first with godotenv; variables already set in the environment win.
// Missing env files are an error only when named explicitly.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Convert: ConvertConfig{
			LayoutFile:         getEnv("STATEMENT_LAYOUT_FILE", ""),
			OutputFormat:       getEnv("OUTPUT_FORMAT", "xlsx"),
			Workers:            getEnvAsInt("CONVERT_WORKERS", 4),
			PageWorkers:        getEnvAsInt("PAGE_WORKERS", 4),
			CombinedOutputName: getEnv("COMBINED_OUTPUT_NAME", "combined_all_statements.xlsx"),
		},
		Watch: WatchConfig{
			Inbox:      getEnv("WATCH_INBOX", "inbox"),
			Schedule:   getEnv("WATCH_SCHEDULE", "*/5 * * * *"),
			LedgerPath: getEnv("WATCH_LEDGER_PATH", "statements.db"),
		},
		Metrics: MetricsConfig{
			TextfilePath: getEnv("METRICS_TEXTFILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later in a less obvious way.
func (c *Config) Validate() error {
	var errs []error

	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format))
	}
	switch strings.ToLower(c.Convert.OutputFormat) {
	case "xlsx", "csv":
	default:
		errs = append(errs, fmt.Errorf("OUTPUT_FORMAT must be xlsx or csv, got %q", c.Convert.OutputFormat))
	}
	if c.Convert.Workers < 1 {
		errs = append(errs, errors.New("CONVERT_WORKERS must be at least 1"))
	}
	if c.Convert.PageWorkers < 1 {
		errs = append(errs, errors.New("PAGE_WORKERS must be at least 1"))
	}
	if c.Convert.CombinedOutputName == "" {
		errs = append(errs, errors.New("COMBINED_OUTPUT_NAME is required"))
	}

	return errors.Join(errs...)
}

// ParseLevel maps a LOG_LEVEL value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

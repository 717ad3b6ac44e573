package logger

import (
	"os"
	"strconv"
	"strings"
)

// NewFromEnv creates a logger based on environment variables.
func NewFromEnv() (Logger, error) {
	return NewZapLogger(configFromEnv())
}

// NewComponent creates a logger with a component field pre-set.
func NewComponent(component string) (Logger, error) {
	l, err := NewZapLogger(configFromEnv())
	if err != nil {
		return nil, err
	}
	return l.With(Field{Key: "component", Value: component}), nil
}

// configFromEnv builds Config from environment variables. Anything unset
// falls back to development defaults unless WARVR_ENV=production.
func configFromEnv() Config {
	cfg := DefaultConfig()
	if strings.ToLower(os.Getenv("WARVR_ENV")) != "production" {
		cfg = DevelopmentConfig()
	}

	if level := os.Getenv("WARVR_LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
	if format := os.Getenv("WARVR_LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
	if path := os.Getenv("WARVR_LOG_FILE"); path != "" {
		cfg.OutputPath = path
	}
	if sampling := os.Getenv("WARVR_LOG_SAMPLING"); sampling != "" {
		cfg.EnableSampling = strings.ToLower(sampling) == "true"
	}
	if initial := os.Getenv("WARVR_LOG_SAMPLE_INITIAL"); initial != "" {
		if val, err := strconv.Atoi(initial); err == nil {
			cfg.SampleInitial = val
		}
	}
	if thereafter := os.Getenv("WARVR_LOG_SAMPLE_THEREAFTER"); thereafter != "" {
		if val, err := strconv.Atoi(thereafter); err == nil {
			cfg.SampleThereafter = val
		}
	}
	if dev := os.Getenv("WARVR_LOG_DEVELOPMENT"); dev != "" {
		cfg.Development = strings.ToLower(dev) == "true"
	}

	return cfg
}

// Package config loads the Pushover application token and recipients.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultTimeout = 10 * time.Second

// Config defines the *single*, authoritative configuration.
type Config struct {
	Token   string
	Users   []string
	Devices []string
	Timeout time.Duration
}

// UpdateConfigWithEnvOverrides applies environment variables and final validation.
func UpdateConfigWithEnvOverrides(cfg *Config, logger *slog.Logger) (*Config, error) {
	logger.Debug("Applying environment variable overrides...")

	if val := os.Getenv("PUSHOVER_TOKEN"); val != "" {
		logger.Debug("Overriding config value", "key", "PUSHOVER_TOKEN", "source", "env")
		cfg.Token = val
	}
	if val := os.Getenv("PUSHOVER_USERS"); val != "" {
		logger.Debug("Overriding config value", "key", "PUSHOVER_USERS", "source", "env")
		cfg.Users = splitList(val)
	}
	if val := os.Getenv("PUSHOVER_DEVICES"); val != "" {
		logger.Debug("Overriding config value", "key", "PUSHOVER_DEVICES", "source", "env")
		cfg.Devices = splitList(val)
	}
	if val := os.Getenv("PUSHOVER_TIMEOUT_SECONDS"); val != "" {
		if secs, err := strconv.Atoi(val); err == nil && secs > 0 {
			logger.Debug("Overriding config value", "key", "PUSHOVER_TIMEOUT_SECONDS", "source", "env")
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}

	// Final Validation
	if cfg.Token == "" {
		return nil, fmt.Errorf("pushover token is required (set via YAML or PUSHOVER_TOKEN env var)")
	}
	if len(cfg.Users) == 0 {
		return nil, fmt.Errorf("at least one pushover user key is required (set via YAML or PUSHOVER_USERS env var)")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	logger.Debug("Configuration finalized and validated successfully")
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

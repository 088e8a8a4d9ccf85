package config

import (
	"log/slog"
	"time"
)

type YamlPushoverConfig struct {
	Token          string   `yaml:"token"`
	Users          []string `yaml:"users"`
	Devices        []string `yaml:"devices"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// YamlConfig is the structure that mirrors the raw config.yaml file.
type YamlConfig struct {
	Pushover YamlPushoverConfig `yaml:"pushover"`
}

// NewConfigFromYaml converts the YamlConfig into a clean, base Config struct.
func NewConfigFromYaml(baseCfg *YamlConfig, logger *slog.Logger) (*Config, error) {
	logger.Debug("Mapping YAML config to base config struct")

	cfg := &Config{
		Token:   baseCfg.Pushover.Token,
		Users:   baseCfg.Pushover.Users,
		Devices: baseCfg.Pushover.Devices,
	}
	if baseCfg.Pushover.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(baseCfg.Pushover.TimeoutSeconds) * time.Second
	}

	logger.Debug("YAML config mapping complete",
		"users", len(cfg.Users),
		"devices", len(cfg.Devices),
		"timeout", cfg.Timeout,
	)

	return cfg, nil
}

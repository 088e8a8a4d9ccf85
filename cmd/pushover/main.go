package main

import (
	"context"
	_ "embed"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/tinywideclouds/go-platform/pkg/notification/v1"
	"github.com/tinywideclouds/go-pushover/config"
	platform "github.com/tinywideclouds/go-pushover/internal/platform/pushover"
	"github.com/tinywideclouds/go-pushover/pkg/dispatch"
	"github.com/tinywideclouds/go-pushover/pkg/pushover"
	"gopkg.in/yaml.v3"
)

//go:embed local.yaml
var configFile []byte

func main() {
	var (
		text      = flag.String("m", "", "message body (required)")
		title     = flag.String("title", "", "message title")
		url       = flag.String("url", "", "supplementary URL")
		urlTitle  = flag.String("url-title", "", "title for the supplementary URL")
		emergency = flag.Bool("emergency", false, "send at emergency priority")
	)
	flag.Parse()

	var logLevel slog.Level
	switch os.Getenv("LOG_LEVEL") {
	case "debug", "DEBUG":
		logLevel = slog.LevelDebug
	case "warn", "WARN":
		logLevel = slog.LevelWarn
	case "error", "ERROR":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})).With("service", "go-pushover")
	slog.SetDefault(logger)

	if *text == "" {
		logger.Error("Missing message body, pass -m")
		flag.Usage()
		os.Exit(2)
	}

	// --- Config Loading ---
	var yamlCfg config.YamlConfig
	if err := yaml.Unmarshal(configFile, &yamlCfg); err != nil {
		logger.Error("Failed to unmarshal embedded yaml config", "err", err)
		os.Exit(1)
	}
	baseCfg, _ := config.NewConfigFromYaml(&yamlCfg, logger)
	cfg, err := config.UpdateConfigWithEnvOverrides(baseCfg, logger)
	if err != nil {
		logger.Error("Config failed", "err", err)
		os.Exit(1)
	}

	client := pushover.NewClient(cfg.Token,
		pushover.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		pushover.WithLogger(logger),
	)
	var dispatcher dispatch.Dispatcher = platform.NewDispatcher(client, cfg.Devices, logger)

	data := map[string]string{}
	if *emergency {
		data[platform.DataPriority] = platform.PriorityEmergency
	}
	if *url != "" {
		data[platform.DataURL] = *url
		data[platform.DataURLTitle] = *urlTitle
	}

	content := notification.NotificationContent{Title: *title, Body: *text}
	receipt, invalid, err := dispatcher.Dispatch(context.Background(), cfg.Users, content, data)
	if err != nil {
		logger.Error("Dispatch failed", "err", err)
		os.Exit(1)
	}
	if len(invalid) > 0 {
		logger.Warn("Pushover does not recognise some user keys", "keys", invalid)
	}
	logger.Info("Pushover dispatched", "receipt", receipt)
}

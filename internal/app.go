// Package internal provides the App struct that wires all LogicLens
// services together with explicit dependency injection; there is no hidden
// global state.
package internal

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/valter-silva-au/logiclens/internal/cli"
	"github.com/valter-silva-au/logiclens/internal/core"
	"github.com/valter-silva-au/logiclens/internal/logging"
	"github.com/valter-silva-au/logiclens/internal/monitoring"
	"github.com/valter-silva-au/logiclens/internal/observability"
	"github.com/valter-silva-au/logiclens/internal/ollama"
	"github.com/valter-silva-au/logiclens/internal/storage"
	"github.com/valter-silva-au/logiclens/internal/tracker"
)

// App holds all service dependencies for LogicLens.
type App struct {
	Config *core.Config
	Log    *logrus.Logger

	Store    storage.EventStore
	Logs     logging.Collector
	Tracker  tracker.Tracker
	Monitor  monitoring.Monitor
	Ollama   *ollama.Client
	Notifier observability.Notifier
}

// NewApp loads configuration relative to basePath and wires all services.
func NewApp(basePath string) (*App, error) {
	cfg, err := core.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig wires all services from an already-loaded configuration.
func NewAppWithConfig(cfg *core.Config) (*App, error) {
	log := newLogger(cfg.LogLevel)

	store := storage.NewJSONLStore(cfg.DataDir,
		storage.WithCategoryDir(storage.CategoryTests, cfg.TestResultsDir))

	logs := logging.NewCollector(cfg.AppName, store, log)
	trk := tracker.NewTracker(store, logs, cfg.PersistTestResults)
	mon := monitoring.NewMonitor(store, logs, cfg.DiskPath, cfg.AlertCooldown)
	ai := ollama.NewClient(cfg.OllamaHost, cfg.OllamaModel, cfg.OllamaTimeout)

	var notifier observability.Notifier
	if cfg.AlertWebhookURL != "" {
		notifier = observability.NewWebhookNotifier(cfg.AlertWebhookURL)
	}

	cli.Config = cfg
	cli.Log = log
	cli.Logs = logs
	cli.Tracker = trk
	cli.Monitor = mon
	cli.Ollama = ai
	cli.Notifier = notifier

	return &App{
		Config:   cfg,
		Log:      log,
		Store:    store,
		Logs:     logs,
		Tracker:  trk,
		Monitor:  mon,
		Ollama:   ai,
		Notifier: notifier,
	}, nil
}

// Close releases resources held by the app.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// ResolveBasePath returns the directory configuration is loaded from:
// LOGICLENS_HOME when set, otherwise the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("LOGICLENS_HOME"); home != "" {
		return home
	}
	return "."
}

// newLogger builds the operational logger with the configured level.
// Unknown levels fall back to info.
func newLogger(level string) *logrus.Logger {
	log := logrus.New()

	normalized := strings.ToLower(level)
	if normalized == "critical" {
		normalized = "error"
	}
	parsed, err := logrus.ParseLevel(normalized)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

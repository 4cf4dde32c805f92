// Package core handles configuration loading for LogicLens. A .env file is
// loaded first (if present), then .logiclens.yaml, then environment
// variables; the environment wins on conflict.
package core

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/valter-silva-au/logiclens/pkg/models"
)

// Config holds the full application configuration with documented defaults.
type Config struct {
	AppName  string `yaml:"app_name" json:"app_name"`
	LogLevel string `yaml:"log_level" json:"log_level"`

	DataDir        string `yaml:"data_dir" json:"data_dir"`
	TestResultsDir string `yaml:"test_results_dir" json:"test_results_dir"`

	ServerHost string `yaml:"server_host" json:"server_host"`
	ServerPort int    `yaml:"server_port" json:"server_port"`
	APIKey     string `yaml:"api_key" json:"api_key"`

	OllamaHost    string        `yaml:"ollama_host" json:"ollama_host"`
	OllamaModel   string        `yaml:"ollama_model" json:"ollama_model"`
	OllamaTimeout time.Duration `yaml:"ollama_timeout" json:"ollama_timeout"`

	PersistTestResults bool          `yaml:"persist_test_results" json:"persist_test_results"`
	PersistMetrics     bool          `yaml:"persist_metrics" json:"persist_metrics"`
	MetricsInterval    time.Duration `yaml:"metrics_interval" json:"metrics_interval"`
	DiskPath           string        `yaml:"disk_path" json:"disk_path"`

	AlertThresholds models.AlertThresholds `yaml:"alert_thresholds" json:"alert_thresholds"`
	AlertCooldown   time.Duration          `yaml:"alert_cooldown" json:"alert_cooldown"`
	AlertWebhookURL string                 `yaml:"alert_webhook_url" json:"alert_webhook_url"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		AppName:         "logiclens",
		LogLevel:        "INFO",
		DataDir:         "./logiclens-data",
		ServerHost:      "127.0.0.1",
		ServerPort:      5000,
		OllamaHost:      "http://localhost:11434",
		OllamaModel:     "deepseek-coder:r1",
		OllamaTimeout:   120 * time.Second,
		DiskPath:        "/",
		AlertThresholds: models.DefaultAlertThresholds(),
		AlertCooldown:   300 * time.Second,
	}
}

// envBindings maps viper keys to their environment variable names.
var envBindings = map[string]string{
	"app_name":                        "APP_NAME",
	"log_level":                       "LOG_LEVEL",
	"data_dir":                        "LOGICLENS_DATA_DIR",
	"test_results_dir":                "TEST_RESULTS_DIR",
	"server_host":                     "SERVER_HOST",
	"server_port":                     "SERVER_PORT",
	"api_key":                         "API_KEY",
	"ollama_host":                     "OLLAMA_HOST",
	"ollama_model":                    "OLLAMA_MODEL",
	"ollama_timeout":                  "OLLAMA_TIMEOUT",
	"persist_test_results":            "PERSIST_TEST_RESULTS",
	"persist_metrics":                 "PERSIST_METRICS",
	"metrics_interval":                "METRICS_INTERVAL",
	"disk_path":                       "DISK_PATH",
	"alert_thresholds.cpu_percent":    "CPU_ALERT_THRESHOLD",
	"alert_thresholds.memory_percent": "MEMORY_ALERT_THRESHOLD",
	"alert_thresholds.disk_percent":   "DISK_ALERT_THRESHOLD",
	"alert_cooldown":                  "ALERT_COOLDOWN",
	"alert_webhook_url":               "ALERT_WEBHOOK_URL",
}

// Load reads configuration relative to basePath. A missing .env or
// .logiclens.yaml is not an error; defaults fill the gaps.
func Load(basePath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	defaults := DefaultConfig()

	v := viper.New()
	v.SetConfigName(".logiclens")
	v.SetConfigType("yaml")
	v.AddConfigPath(basePath)
	v.AddConfigPath(".")

	v.SetDefault("app_name", defaults.AppName)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("test_results_dir", "")
	v.SetDefault("server_host", defaults.ServerHost)
	v.SetDefault("server_port", defaults.ServerPort)
	v.SetDefault("api_key", "")
	v.SetDefault("ollama_host", defaults.OllamaHost)
	v.SetDefault("ollama_model", defaults.OllamaModel)
	v.SetDefault("ollama_timeout", defaults.OllamaTimeout)
	v.SetDefault("persist_test_results", false)
	v.SetDefault("persist_metrics", false)
	v.SetDefault("metrics_interval", time.Duration(0))
	v.SetDefault("disk_path", defaults.DiskPath)
	v.SetDefault("alert_thresholds.cpu_percent", defaults.AlertThresholds.CPUPercent)
	v.SetDefault("alert_thresholds.memory_percent", defaults.AlertThresholds.MemoryPercent)
	v.SetDefault("alert_thresholds.disk_percent", defaults.AlertThresholds.DiskPercent)
	v.SetDefault("alert_cooldown", defaults.AlertCooldown)
	v.SetDefault("alert_webhook_url", "")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading .logiclens.yaml: %w", err)
		}
	}

	cfg := &Config{
		AppName:            v.GetString("app_name"),
		LogLevel:           v.GetString("log_level"),
		DataDir:            v.GetString("data_dir"),
		TestResultsDir:     v.GetString("test_results_dir"),
		ServerHost:         v.GetString("server_host"),
		ServerPort:         v.GetInt("server_port"),
		APIKey:             v.GetString("api_key"),
		OllamaHost:         v.GetString("ollama_host"),
		OllamaModel:        v.GetString("ollama_model"),
		OllamaTimeout:      v.GetDuration("ollama_timeout"),
		PersistTestResults: v.GetBool("persist_test_results"),
		PersistMetrics:     v.GetBool("persist_metrics"),
		MetricsInterval:    v.GetDuration("metrics_interval"),
		DiskPath:           v.GetString("disk_path"),
		AlertThresholds: models.AlertThresholds{
			CPUPercent:    v.GetFloat64("alert_thresholds.cpu_percent"),
			MemoryPercent: v.GetFloat64("alert_thresholds.memory_percent"),
			DiskPercent:   v.GetFloat64("alert_thresholds.disk_percent"),
		},
		AlertCooldown:   v.GetDuration("alert_cooldown"),
		AlertWebhookURL: v.GetString("alert_webhook_url"),
	}
	return cfg, nil
}

// ListenAddr returns the host:port pair the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// AuthEnabled reports whether API key authentication is active.
func (c *Config) AuthEnabled() bool {
	return c.APIKey != ""
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the screening client
type Config struct {
	// Remote analysis service configuration
	API APIConfig `mapstructure:"api"`

	// Media capture configuration
	Capture CaptureConfig `mapstructure:"capture"`

	// Patient listing configuration
	Patients PatientsConfig `mapstructure:"patients"`

	// Monitoring configuration
	Monitoring MonitoringConfig `mapstructure:"monitoring"`

	// Logging configuration
	LogLevel string `mapstructure:"log_level"`
}

// APIConfig holds remote service configuration
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	RetryCount     int    `mapstructure:"retry_count"`
	RetryWaitMs    int    `mapstructure:"retry_wait_ms"`
	RetryMaxWaitMs int    `mapstructure:"retry_max_wait_ms"`
}

// CaptureConfig holds media capture configuration
type CaptureConfig struct {
	Quality   float64 `mapstructure:"quality"`
	AspectW   int     `mapstructure:"aspect_w"`
	AspectH   int     `mapstructure:"aspect_h"`
	AllowEdit bool    `mapstructure:"allow_edit"`
	MaxBytes  int64   `mapstructure:"max_bytes"`
	SpoolDir  string  `mapstructure:"spool_dir"`
	ExportDir string  `mapstructure:"export_dir"`
}

// PatientsConfig holds patient listing configuration
type PatientsConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// MonitoringConfig holds monitoring configuration
type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ListenAddr  string `mapstructure:"listen_addr"`
	MetricsPath string `mapstructure:"metrics_path"`
	HealthPath  string `mapstructure:"health_path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/medscan")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvPrefix("medscan")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Override with environment variables
	overrideWithEnv(&config)

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Remote service defaults
	viper.SetDefault("api.base_url", "http://localhost:3000")
	viper.SetDefault("api.timeout_seconds", 30)
	viper.SetDefault("api.retry_count", 2)
	viper.SetDefault("api.retry_wait_ms", 500)
	viper.SetDefault("api.retry_max_wait_ms", 2000)

	// Capture defaults mirror the mobile app's picker options
	viper.SetDefault("capture.quality", 0.8)
	viper.SetDefault("capture.aspect_w", 4)
	viper.SetDefault("capture.aspect_h", 3)
	viper.SetDefault("capture.allow_edit", true)
	viper.SetDefault("capture.max_bytes", 10*1024*1024)
	viper.SetDefault("capture.spool_dir", "./capture-spool")
	viper.SetDefault("capture.export_dir", "./exports")

	// Patient listing defaults
	viper.SetDefault("patients.page_size", 10)

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", false)
	viper.SetDefault("monitoring.listen_addr", "127.0.0.1:9091")
	viper.SetDefault("monitoring.metrics_path", "/metrics")
	viper.SetDefault("monitoring.health_path", "/health")

	// Logging defaults
	viper.SetDefault("log_level", "info")
}

// overrideWithEnv overrides configuration with environment variables
func overrideWithEnv(config *Config) {
	if baseURL := os.Getenv("API_BASE_URL"); baseURL != "" {
		config.API.BaseURL = baseURL
	}

	if timeout := os.Getenv("API_TIMEOUT_SECONDS"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			config.API.TimeoutSeconds = t
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.LogLevel = logLevel
	}
}

// validate validates the configuration
func validate(config *Config) error {
	if config.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}

	if config.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}

	if config.Patients.PageSize <= 0 {
		return fmt.Errorf("patient page size must be positive")
	}

	return nil
}

// Package config provides configuration management for the Hellraiser prediction engine.
package config

import (
	"fmt"

	"github.com/yourusername/hellraiser/internal/ensemble"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Ensemble   ensemble.Config  `mapstructure:"ensemble" validate:"required,ensembleweights"`
	Prediction PredictionConfig `mapstructure:"prediction" validate:"required"`
	DataSource DataSourceConfig `mapstructure:"datasource" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache" validate:"required"`
	Analysis   AnalysisConfig   `mapstructure:"analysis" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Health     HealthConfig     `mapstructure:"health" validate:"required"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Features   FeaturesConfig   `mapstructure:"features"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// PredictionConfig represents prediction service configuration
type PredictionConfig struct {
	RunType             string  `mapstructure:"run_type" validate:"required,runtype"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold" validate:"gte=0,lte=100"`
	MaxPicks            int     `mapstructure:"max_picks" validate:"required,gt=0"`
	ArchiveEnabled      bool    `mapstructure:"archive_enabled"`
	OddsEnabled         bool    `mapstructure:"odds_enabled"`
}

// DataSourceConfig represents the player statistics source configuration.
// The file provider reads a local JSON slate; the synthetic provider
// generates a deterministic roster for demos and tests.
type DataSourceConfig struct {
	Provider       string `mapstructure:"provider" validate:"required,oneof=synthetic file"`
	SlatePath      string `mapstructure:"slate_path" validate:"required_if=Provider file"`
	Seed           int64  `mapstructure:"seed" validate:"gte=0"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// CacheConfig represents prediction cache configuration
type CacheConfig struct {
	Enabled                bool `mapstructure:"enabled"`
	TTLSeconds             int  `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	CleanupIntervalSeconds int  `mapstructure:"cleanup_interval_seconds" validate:"required,gt=0"`
}

// AnalysisConfig represents archive analysis configuration
type AnalysisConfig struct {
	LookbackDays         int     `mapstructure:"lookback_days" validate:"required,gt=0"`
	DistributionBinWidth float64 `mapstructure:"distribution_bin_width" validate:"required,gt=0"`
	ReportPath           string  `mapstructure:"report_path" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents the health check server configuration
type HealthConfig struct {
	Port string `mapstructure:"port" validate:"required"`
}

// TracingConfig represents distributed tracing configuration
type TracingConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	ServiceName   string  `mapstructure:"service_name"`
	DaemonAddress string  `mapstructure:"daemon_address"`
	SamplingRate  float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	SyntheticDataEnabled     bool `mapstructure:"synthetic_data_enabled"`
	AdvancedAnalyticsEnabled bool `mapstructure:"advanced_analytics_enabled"`
}

// Defaults returns a configuration seeded with every production default.
// Loading overlays file and environment values on top of it.
func Defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:        "hellraiser",
			Environment: "development",
			LogLevel:    "info",
		},
		Database: DatabaseConfig{
			Host:               "localhost",
			Port:               5432,
			Name:               "hellraiser",
			User:               "postgres",
			SSLMode:            "disable",
			MaxConnections:     10,
			MaxIdleConnections: 5,
		},
		Ensemble: ensemble.DefaultConfig(),
		Prediction: PredictionConfig{
			RunType:             "adhoc",
			ConfidenceThreshold: 55.0,
			MaxPicks:            10,
			ArchiveEnabled:      true,
		},
		DataSource: DataSourceConfig{
			Provider:       "synthetic",
			Seed:           0,
			TimeoutSeconds: 30,
		},
		Cache: CacheConfig{
			Enabled:                true,
			TTLSeconds:             300,
			CleanupIntervalSeconds: 600,
		},
		Analysis: AnalysisConfig{
			LookbackDays:         30,
			DistributionBinWidth: 5.0,
			ReportPath:           "reports",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Health: HealthConfig{
			Port: "8080",
		},
		Tracing: TracingConfig{
			Enabled:       false,
			ServiceName:   "hellraiser",
			DaemonAddress: "127.0.0.1:2000",
			SamplingRate:  0.05,
		},
		Features: FeaturesConfig{
			SyntheticDataEnabled:     true,
			AdvancedAnalyticsEnabled: true,
		},
	}
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

package config

import (
	"os"
	"strconv"
	"strings"

	"mincerdash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Export    ExportConfig
	Database  DatabaseConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig controls the simulated sample
type DataConfig struct {
	Seed int64
	Size int
}

// ExportConfig holds the base names of downloaded artifacts
type ExportConfig struct {
	ReportName string
	DataName   string
}

// DatabaseConfig holds the optional export ledger connection. An empty URL
// disables the ledger.
type DatabaseConfig struct {
	Driver string
	URL    string
}

// Enabled reports whether exports should be recorded
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Data:      *loadDataConfig(),
		Export:    *loadExportConfig(),
		Database:  *loadDatabaseConfig(),
		Profiling: *loadProfilingConfig(),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Port: "8080", GinMode: "release"},
		Data:      DataConfig{Seed: 123, Size: 1000},
		Export:    ExportConfig{ReportName: "education_return_report", DataName: "education_return_data"},
		Database:  DatabaseConfig{Driver: DriverPostgres},
		Profiling: ProfilingConfig{Port: "6060"},
		LogLevel:  "INFO",
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Seed: getEnvInt64OrDefault("DATA_SEED", 123),
		Size: getEnvIntOrDefault("DATA_SIZE", 1000),
	}
}

func loadExportConfig() *ExportConfig {
	return &ExportConfig{
		ReportName: getEnvOrDefault("REPORT_NAME", "education_return_report"),
		DataName:   getEnvOrDefault("DATA_EXPORT_NAME", "education_return_data"),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Driver: strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", DriverPostgres)),
		URL:    os.Getenv("DATABASE_URL"),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

// Validate checks the values that would break the pipeline at runtime
func (c *Config) Validate() error {
	if c.Data.Size <= 0 {
		return errors.ConfigInvalid("DATA_SIZE must be positive")
	}
	if strings.TrimSpace(c.Export.ReportName) == "" || strings.TrimSpace(c.Export.DataName) == "" {
		return errors.ConfigInvalid("export names must not be empty")
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return errors.ConfigInvalid("DATABASE_DRIVER must be postgres or sqlite, got " + c.Database.Driver)
	}
	if c.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

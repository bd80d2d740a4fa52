package config

import (
	"os"
	"strconv"

	"github.com/Mattkaye3/sjstats/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `validate:"required"`
	Server   ServerConfig   `validate:"required"`
	Models   ModelConfig    `validate:"required"`
	Analysis AnalysisConfig
	Report   ReportConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL      string `validate:"required"`
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port       string `validate:"required"`
	GinMode    string
	ReportPort string
}

// ModelConfig holds the location of stored fitted models
type ModelConfig struct {
	Dir string `validate:"required"`
}

// AnalysisConfig holds defaults for mediation analyses
type AnalysisConfig struct {
	IntervalMass float64
	Typical      string
}

// ReportConfig holds report rendering settings
type ReportConfig struct {
	Digits int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	// Load database configuration
	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	// Load server configuration
	serverConfig := loadServerConfig()
	config.Server = *serverConfig

	// Load model storage configuration
	modelConfig := loadModelConfig()
	config.Models = *modelConfig

	// Load analysis defaults
	analysisConfig := loadAnalysisConfig()
	config.Analysis = *analysisConfig

	// Load report configuration
	reportConfig := loadReportConfig()
	config.Report = *reportConfig

	// Validate required fields
	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{
		URL:      url,
		User:     getEnvOrDefault("DB_USER", ""),
		Password: getEnvOrDefault("DB_PASS", ""),
		Name:     getEnvOrDefault("DB_NAME", ""),
		Host:     getEnvOrDefault("DB_HOST", ""),
		Port:     getEnvIntOrDefault("DB_PORT", 5432),
		SSLMode:  getEnvOrDefault("SSL_MODE", "disable"),
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:       getEnvOrDefault("PORT", "8080"),
		GinMode:    getEnvOrDefault("GIN_MODE", "debug"),
		ReportPort: getEnvOrDefault("REPORT_PORT", "8081"),
	}
}

func loadModelConfig() *ModelConfig {
	return &ModelConfig{
		Dir: getEnvOrDefault("MODELS_DIR", "./models"),
	}
}

func loadAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		IntervalMass: getEnvFloatOrDefault("INTERVAL_MASS", 0.90),
		Typical:      getEnvOrDefault("TYPICAL_FUNCTION", "median"),
	}
}

func loadReportConfig() *ReportConfig {
	return &ReportConfig{
		Digits: getEnvIntOrDefault("REPORT_DIGITS", 2),
	}
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("database URL is required")
	}
	if config.Models.Dir == "" {
		return errors.ConfigInvalid("models directory is required")
	}
	if config.Analysis.IntervalMass <= 0 || config.Analysis.IntervalMass > 1 {
		return errors.ConfigInvalid("interval mass must lie in (0, 1]")
	}
	if config.Report.Digits < 0 {
		return errors.ConfigInvalid("report digits must not be negative")
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}


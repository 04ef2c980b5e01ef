package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Reference data source kinds
const (
	ReferenceSourceCSV      = "csv"
	ReferenceSourcePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// FreshService API configuration
	FreshService FreshServiceConfig

	// Reference data configuration
	ReferenceData ReferenceDataConfig

	// Database configuration (used when reference data lives in Postgres)
	Database DatabaseConfig

	// JWT configuration (optional bearer identity)
	JWT JWTConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// Logging configuration
	Logging LoggingConfig

	// Application metadata
	App AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// FreshServiceConfig holds the ticketing platform connection settings
type FreshServiceConfig struct {
	BaseURL        string
	APIKey         string
	PageSize       int
	MaxPages       int
	RequestTimeout time.Duration
}

// ReferenceDataConfig selects where units, groupings and grants come from
type ReferenceDataConfig struct {
	Source string // csv or postgres
	CSVDir string // directory holding the reference CSV files
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// JWTConfig holds JWT configuration. An empty secret disables bearer
// identity; metrics requests then rely on the username query parameter.
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", ":8080"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		FreshService: FreshServiceConfig{
			BaseURL:        strings.TrimRight(os.Getenv("FRESHSERVICE_URL"), "/"),
			APIKey:         os.Getenv("FRESHSERVICE_API_KEY"),
			PageSize:       getIntOrDefault("FRESHSERVICE_PAGE_SIZE", 100),
			MaxPages:       getIntOrDefault("FRESHSERVICE_MAX_PAGES", 50),
			RequestTimeout: getDurationOrDefault("FRESHSERVICE_REQUEST_TIMEOUT", 30*time.Second),
		},
		ReferenceData: ReferenceDataConfig{
			Source: getEnvOrDefault("REFERENCE_SOURCE", ReferenceSourceCSV),
			CSVDir: getEnvOrDefault("REFERENCE_CSV_DIR", "data"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getIntOrDefault("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntOrDefault("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationOrDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getDurationOrDefault("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv("JWT_SECRET"),
			AccessTokenTTL: getDurationOrDefault("JWT_ACCESS_TOKEN_TTL", 1*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolOrDefault("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatOrDefault("RATE_LIMIT_RPS", 10),
			BurstSize:         getIntOrDefault("RATE_LIMIT_BURST", 20),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "ticket-metrics"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []string

	// Required fields
	if c.FreshService.BaseURL == "" {
		errs = append(errs, "FRESHSERVICE_URL is required")
	}

	if c.FreshService.APIKey == "" {
		errs = append(errs, "FRESHSERVICE_API_KEY is required")
	}

	switch c.ReferenceData.Source {
	case ReferenceSourceCSV:
		if c.ReferenceData.CSVDir == "" {
			errs = append(errs, "REFERENCE_CSV_DIR is required when REFERENCE_SOURCE=csv")
		}
	case ReferenceSourcePostgres:
		if c.Database.URL == "" {
			errs = append(errs, "DATABASE_URL is required when REFERENCE_SOURCE=postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("REFERENCE_SOURCE must be %q or %q", ReferenceSourceCSV, ReferenceSourcePostgres))
	}

	// Security validations
	if c.App.Environment == "production" {
		if c.JWT.Secret != "" && len(c.JWT.Secret) < 32 {
			errs = append(errs, "JWT_SECRET must be at least 32 characters in production")
		}
	}

	// Logical validations
	if c.FreshService.PageSize < 1 || c.FreshService.PageSize > 100 {
		errs = append(errs, "FRESHSERVICE_PAGE_SIZE must be between 1 and 100")
	}

	if c.FreshService.MaxPages < 1 {
		errs = append(errs, "FRESHSERVICE_MAX_PAGES must be at least 1")
	}

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = append(errs, "DB_MAX_IDLE_CONNS cannot be greater than DB_MAX_OPEN_CONNS")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// String returns a redacted string representation of the config (safe for logging)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Server: %s, FreshService: %s, ReferenceSource: %s, RateLimit: %v, Environment: %s}",
		c.Server.Port,
		c.FreshService.BaseURL,
		c.ReferenceData.Source,
		c.RateLimit.Enabled,
		c.App.Environment,
	)
}

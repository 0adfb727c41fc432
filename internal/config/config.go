package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Store       StoreConfig
	Embedding   EmbeddingConfig
	Retrieval   RetrievalConfig
	Audit       AuditConfig
	Logging     LoggingConfig
}

type ServerConfig struct {
	Port           string
	Production     bool
	AllowedOrigins string
}

// StoreConfig configures the Postgres/Supabase-backed Store (pkg/store).
type StoreConfig struct {
	SupabaseURL           string
	SupabaseServiceRoleKey string
	DatabaseURL           string
	MaxOpenConns          int
	MaxIdleConns          int
	ConnMaxLifetime       time.Duration
}

// EmbeddingConfig configures the optional embedding provider used by the
// retrieval orchestrator (§4.K). When APIKey is empty, retrieval degrades
// to lexical-only.
type EmbeddingConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// RetrievalConfig holds §4.K's tunables.
type RetrievalConfig struct {
	TopKDefault       int
	EnableVectorSearch bool
}

// AuditConfig sizes the best-effort audit writer (pkg/audit).
type AuditConfig struct {
	Workers   int
	QueueSize int
}

type LoggingConfig struct {
	Level              string
	Format             string
	EnableRequestLog   bool
	EnableErrorDetails bool
}

func Load() (*Config, error) {
	environment := getEnv("ENVIRONMENT", "local")
	if getEnvBool("PRODUCTION", false) {
		environment = "production"
	}

	var defaultOrigins string
	if environment == "local" {
		defaultOrigins = "http://localhost:3000,http://localhost:5173"
	}

	retrievalTopK, err := parseEnvInt("RETRIEVAL_TOP_K", 6)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: environment,
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Production:     environment == "production",
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", defaultOrigins),
		},
		Store: StoreConfig{
			SupabaseURL:            getEnv("SUPABASE_URL", ""),
			SupabaseServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
			DatabaseURL:            getEnv("DATABASE_URL", ""),
			MaxOpenConns:           getEnvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:           getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:        getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Embedding: EmbeddingConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			Timeout: getEnvDuration("OPENAI_EMBEDDING_TIMEOUT", 10*time.Second),
		},
		Retrieval: RetrievalConfig{
			TopKDefault:        retrievalTopK,
			EnableVectorSearch: getEnvBool("ENABLE_VECTOR_SEARCH", true),
		},
		Audit: AuditConfig{
			Workers:   getEnvInt("AUDIT_WORKERS", 2),
			QueueSize: getEnvInt("AUDIT_QUEUE_SIZE", 256),
		},
		Logging: LoggingConfig{
			Level:              getEnv("LOG_LEVEL", "info"),
			Format:             getEnv("LOG_FORMAT", "text"),
			EnableRequestLog:   getEnvBool("ENABLE_REQUEST_LOGGING", true),
			EnableErrorDetails: getEnvBool("ENABLE_ERROR_DETAILS", environment == "local"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate fails fast on the secrets §6 marks as required, mirroring the
// rest of this service's startup checks.
func (c *Config) validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number")
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	return nil
}

func (c *Config) validateStore() error {
	if c.Store.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.Store.SupabaseServiceRoleKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is required")
	}
	if c.Store.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseEnvInt parses an environment variable as an integer, failing fast on
// a malformed (not merely absent) value.
func parseEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number", key)
	}
	return intValue, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Server.Production
}

// IsLocal returns true if running in local development environment.
func (c *Config) IsLocal() bool {
	return c.Environment == "local"
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTP       HTTPConfig
	OpenAI     OpenAIConfig
	Literature LiteratureConfig
	Redis      RedisConfig
	Postgres   PostgresConfig
	Logging    LoggingConfig
}

type HTTPConfig struct {
	Addr            string
	JWTSecret       string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type LiteratureConfig struct {
	PubMedBaseURL          string
	SemanticScholarBaseURL string
	SemanticScholarAPIKey  string
	GateInterval           time.Duration
	RequestTimeout         time.Duration
	MaxResults             int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTP: HTTPConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			JWTSecret:       getEnv("JWT_SECRET", ""),
			AllowedOrigins:  parseCommaSeparated(getEnv("CORS_ALLOWED_ORIGINS", "*")),
			ShutdownTimeout: time.Duration(getEnvInt("HTTP_SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-5-mini"),
			Timeout: time.Duration(getEnvInt("OPENAI_TIMEOUT_SECONDS", 20)) * time.Second,
		},
		Literature: LiteratureConfig{
			PubMedBaseURL:          getEnv("PUBMED_BASE_URL", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"),
			SemanticScholarBaseURL: getEnv("SEMANTIC_SCHOLAR_BASE_URL", "https://api.semanticscholar.org/graph/v1"),
			SemanticScholarAPIKey:  getEnv("SEMANTIC_SCHOLAR_API_KEY", ""),
			GateInterval:           time.Duration(getEnvInt("SEMANTIC_SCHOLAR_GATE_MS", 1000)) * time.Millisecond,
			RequestTimeout:         time.Duration(getEnvInt("LITERATURE_TIMEOUT_SECONDS", 15)) * time.Second,
			MaxResults:             getEnvInt("LITERATURE_MAX_RESULTS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "fitcoach"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "fitcoach"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Postgres.Password == "" {
		return fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if c.Literature.GateInterval <= 0 {
		return fmt.Errorf("SEMANTIC_SCHOLAR_GATE_MS must be positive")
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
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

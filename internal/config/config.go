package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the assistant service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"assistant-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"ASSISTANT_API_PORT" envDefault:"8290"`
	LogLevel        string        `env:"ASSISTANT_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"ASSISTANT_LOG_FORMAT" envDefault:"console"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database
	DatabaseDSN    string        `env:"DB_POSTGRESQL_DSN,notEmpty"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Storage Backend Selection
	StorageBackend string `env:"DOCUMENT_STORAGE_BACKEND" envDefault:"s3"` // Options: "s3" or "local"

	// Local Storage Configuration
	LocalStoragePath string `env:"DOCUMENT_LOCAL_STORAGE_PATH"`

	// S3 Storage Configuration
	S3Endpoint     string `env:"DOCUMENT_S3_ENDPOINT"`
	S3Region       string `env:"DOCUMENT_S3_REGION" envDefault:"us-east-1"`
	S3Bucket       string `env:"DOCUMENT_S3_BUCKET"`
	S3AccessKeyID  string `env:"DOCUMENT_S3_ACCESS_KEY_ID"`
	S3SecretKey    string `env:"DOCUMENT_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle bool   `env:"DOCUMENT_S3_USE_PATH_STYLE" envDefault:"true"`

	// Document Configuration
	MaxDocumentBytes int64 `env:"DOCUMENT_MAX_BYTES" envDefault:"10485760"`

	// Retrieval Configuration
	ContextMaxChars int `env:"CONTEXT_MAX_CHARS" envDefault:"4000"`

	// Chat Configuration
	ChatHistoryLimit int           `env:"CHAT_HISTORY_LIMIT" envDefault:"15"`
	SettingsCacheTTL time.Duration `env:"SETTINGS_CACHE_TTL" envDefault:"60s"`

	// OpenRouter fallback configuration (used until settings are stored)
	OpenRouterBaseURL  string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	OpenRouterAPIKey   string `env:"OPENROUTER_API_KEY"`
	OpenRouterProvider string `env:"OPENROUTER_DEFAULT_PROVIDER" envDefault:"gpt-4"`
	OpenRouterModel    string `env:"OPENROUTER_DEFAULT_MODEL" envDefault:"gpt-4.1-mini"`
	SystemPrompt       string `env:"SYSTEM_PROMPT" envDefault:"You are an AI assistant that answers based on the most recently configured instructions."`

	// Evolution messaging provider fallback configuration
	EvolutionAPIURL       string `env:"EVOLUTION_API_URL" envDefault:"https://evodevs.cordex.ai"`
	EvolutionAPIKey       string `env:"EVOLUTION_API_KEY"`
	DefaultPhoneNumberID  string `env:"WHATSAPP_DEFAULT_PHONE_NUMBER_ID"`
	WhatsAppWebhookSecret string `env:"WHATSAPP_WEBHOOK_SECRET"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	if cfg.MaxDocumentBytes <= 0 {
		cfg.MaxDocumentBytes = 10 * 1024 * 1024
	}
	if cfg.ContextMaxChars <= 0 {
		cfg.ContextMaxChars = 4000
	}
	if cfg.ChatHistoryLimit <= 0 {
		cfg.ChatHistoryLimit = 15
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsLocalStorage returns true if local storage backend is configured.
func (c *Config) IsLocalStorage() bool {
	return strings.ToLower(strings.TrimSpace(c.StorageBackend)) == "local"
}

// IsS3Storage returns true if S3 storage backend is configured.
func (c *Config) IsS3Storage() bool {
	backend := strings.ToLower(strings.TrimSpace(c.StorageBackend))
	return backend == "" || backend == "s3"
}

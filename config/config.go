// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config carries every tunable the service reads at startup. Values come
// from COMPETIQ_-prefixed environment variables, with a .env file loaded
// first if present. The OpenAI key is also honored under its
// conventional unprefixed name.
type Config struct {
	DBPath   string `envconfig:"DB_PATH" default:"data/competiq"`
	InMemory bool   `envconfig:"IN_MEMORY" default:"false"`

	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	EmbeddingHost   string `envconfig:"EMBEDDING_HOST" default:"https://api.openai.com/v1"`
	CompletionHost  string `envconfig:"COMPLETION_HOST" default:"https://api.openai.com/v1"`
	EmbeddingModel  string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	CompletionModel string `envconfig:"COMPLETION_MODEL" default:"gpt-4-turbo-preview"`

	Temperature float64 `envconfig:"TEMPERATURE" default:"0.7"`
	MaxTokens   int     `envconfig:"MAX_TOKENS" default:"4000"`

	RequestsPerMinute int           `envconfig:"REQUESTS_PER_MINUTE" default:"60"`
	MaxRetries        int           `envconfig:"MAX_RETRIES" default:"5"`
	RequestTimeout    time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s"`

	Workers  int    `envconfig:"WORKERS" default:"5"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from the environment, preceded by a best-effort
// .env load.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("COMPETIQ", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// HasAPIKey reports whether an OpenAI API key was configured.
func (c *Config) HasAPIKey() bool {
	return c.OpenAIAPIKey != ""
}

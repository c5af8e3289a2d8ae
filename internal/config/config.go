package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the configuration for the recommendation service
type Config struct {
	Data      DataConfig
	Embedding EmbeddingConfig
	Server    ServerConfig
	Log       LogConfig
}

// DataConfig points at the directory of career category files
type DataConfig struct {
	Dir string
}

// EmbeddingConfig selects and configures the embedding provider
type EmbeddingConfig struct {
	Provider    string
	BaseURL     string
	Model       string
	APIKey      string
	Dimension   int // 0 lets the provider choose
	Timeout     time.Duration
	Concurrency int
	RateLimit   float64 // requests per second to a remote provider, 0 disables
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Addr        string
	RateLimit   float64 // requests per second, 0 disables limiting
	RateBurst   int
	DefaultTopK int
	MaxTopK     int
}

type LogConfig struct {
	Level        string
	Format       string
	ReportCaller bool
}

// Embedding provider names understood by provider.New
const (
	ProviderLocal  = "local"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		Data: DataConfig{
			Dir: "./data",
		},
		Embedding: EmbeddingConfig{
			Provider:    ProviderLocal,
			Timeout:     30 * time.Second,
			Concurrency: 4,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			RateLimit:   0,
			RateBurst:   10,
			DefaultTopK: 6,
			MaxTopK:     100,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	cfg := Defaults()
	ApplyEnv(cfg)
	return cfg
}

// ApplyEnv overrides cfg with any environment variables that are set
func ApplyEnv(cfg *Config) {
	cfg.Data.Dir = GetStringEnv("PATHPILOT_DATA_DIR", cfg.Data.Dir)

	cfg.Embedding.Provider = strings.ToLower(GetStringEnv("EMBEDDING_PROVIDER", cfg.Embedding.Provider))
	cfg.Embedding.BaseURL = GetStringEnv("EMBEDDING_BASE_URL", cfg.Embedding.BaseURL)
	cfg.Embedding.Model = GetStringEnv("EMBEDDING_MODEL", cfg.Embedding.Model)
	cfg.Embedding.APIKey = GetStringEnv("EMBEDDING_API_KEY", cfg.Embedding.APIKey)
	cfg.Embedding.Dimension = GetIntEnv("EMBEDDING_DIMENSION", cfg.Embedding.Dimension)
	cfg.Embedding.Timeout = GetDurationEnv("EMBEDDING_TIMEOUT", cfg.Embedding.Timeout)
	cfg.Embedding.Concurrency = GetIntEnv("EMBEDDING_CONCURRENCY", cfg.Embedding.Concurrency)
	cfg.Embedding.RateLimit = GetFloatEnv("EMBEDDING_RATE_LIMIT", cfg.Embedding.RateLimit)

	cfg.Server.Addr = GetStringEnv("SERVER_ADDR", cfg.Server.Addr)
	cfg.Server.RateLimit = GetFloatEnv("SERVER_RATE_LIMIT", cfg.Server.RateLimit)
	cfg.Server.RateBurst = GetIntEnv("SERVER_RATE_BURST", cfg.Server.RateBurst)
	cfg.Server.DefaultTopK = GetIntEnv("RECOMMEND_DEFAULT_TOP_K", cfg.Server.DefaultTopK)
	cfg.Server.MaxTopK = GetIntEnv("RECOMMEND_MAX_TOP_K", cfg.Server.MaxTopK)

	cfg.Log.Level = GetStringEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = GetStringEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.ReportCaller = GetBoolEnv("LOG_REPORT_CALLER", cfg.Log.ReportCaller)
}

// Validate checks that values are usable before anything is built from them
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data directory is required")
	}

	switch c.Embedding.Provider {
	case ProviderLocal, ProviderOllama, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	if c.Embedding.Dimension < 0 {
		return fmt.Errorf("embedding dimension cannot be negative: %d", c.Embedding.Dimension)
	}
	if c.Embedding.Concurrency < 1 {
		return fmt.Errorf("embedding concurrency must be at least 1: %d", c.Embedding.Concurrency)
	}
	if c.Embedding.Timeout <= 0 {
		return fmt.Errorf("embedding timeout must be positive: %s", c.Embedding.Timeout)
	}
	if c.Embedding.RateLimit < 0 {
		return fmt.Errorf("embedding rate limit cannot be negative: %v", c.Embedding.RateLimit)
	}

	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative: %v", c.Server.RateLimit)
	}
	if c.Server.DefaultTopK < 1 {
		return fmt.Errorf("default top_k must be positive: %d", c.Server.DefaultTopK)
	}
	if c.Server.MaxTopK < c.Server.DefaultTopK {
		return fmt.Errorf("max top_k (%d) is below default top_k (%d)", c.Server.MaxTopK, c.Server.DefaultTopK)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	return nil
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

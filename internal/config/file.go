package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config as it appears in a TOML file. Durations are
// written as strings ("30s") and parsed on merge.
type fileConfig struct {
	Data struct {
		Dir string `toml:"dir"`
	} `toml:"data"`

	Embedding struct {
		Provider    string  `toml:"provider"`
		BaseURL     string  `toml:"base_url"`
		Model       string  `toml:"model"`
		APIKey      string  `toml:"api_key"`
		Dimension   int     `toml:"dimension"`
		Timeout     string  `toml:"timeout"`
		Concurrency int     `toml:"concurrency"`
		RateLimit   float64 `toml:"rate_limit"`
	} `toml:"embedding"`

	Server struct {
		Addr        string  `toml:"addr"`
		RateLimit   float64 `toml:"rate_limit"`
		RateBurst   int     `toml:"rate_burst"`
		DefaultTopK int     `toml:"default_top_k"`
		MaxTopK     int     `toml:"max_top_k"`
	} `toml:"server"`

	Log struct {
		Level        string `toml:"level"`
		Format       string `toml:"format"`
		ReportCaller bool   `toml:"report_caller"`
	} `toml:"log"`
}

// LoadFile reads a TOML config file on top of the defaults, then applies
// environment overrides. An empty path behaves like Load.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		var fc fileConfig
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}

		if err := fc.merge(cfg); err != nil {
			return nil, err
		}
	}

	ApplyEnv(cfg)
	return cfg, nil
}

// merge copies every non-zero field onto cfg
func (fc *fileConfig) merge(cfg *Config) error {
	setString(&cfg.Data.Dir, fc.Data.Dir)

	setString(&cfg.Embedding.Provider, fc.Embedding.Provider)
	setString(&cfg.Embedding.BaseURL, fc.Embedding.BaseURL)
	setString(&cfg.Embedding.Model, fc.Embedding.Model)
	setString(&cfg.Embedding.APIKey, fc.Embedding.APIKey)
	setInt(&cfg.Embedding.Dimension, fc.Embedding.Dimension)
	setInt(&cfg.Embedding.Concurrency, fc.Embedding.Concurrency)
	if fc.Embedding.RateLimit != 0 {
		cfg.Embedding.RateLimit = fc.Embedding.RateLimit
	}
	if fc.Embedding.Timeout != "" {
		d, err := time.ParseDuration(fc.Embedding.Timeout)
		if err != nil {
			return fmt.Errorf("invalid embedding timeout %q: %w", fc.Embedding.Timeout, err)
		}
		cfg.Embedding.Timeout = d
	}

	setString(&cfg.Server.Addr, fc.Server.Addr)
	if fc.Server.RateLimit != 0 {
		cfg.Server.RateLimit = fc.Server.RateLimit
	}
	setInt(&cfg.Server.RateBurst, fc.Server.RateBurst)
	setInt(&cfg.Server.DefaultTopK, fc.Server.DefaultTopK)
	setInt(&cfg.Server.MaxTopK, fc.Server.MaxTopK)

	setString(&cfg.Log.Level, fc.Log.Level)
	setString(&cfg.Log.Format, fc.Log.Format)
	if fc.Log.ReportCaller {
		cfg.Log.ReportCaller = true
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

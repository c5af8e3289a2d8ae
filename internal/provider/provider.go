package provider

import (
	"context"
	"fmt"

	"github.com/pathpilot/backend/internal/config"
	"github.com/pathpilot/backend/internal/search"
)

// Provider is an embedding backend usable by the search index
type Provider interface {
	search.Embedder
	Name() string
}

// New builds the provider selected by cfg.Provider. Remote providers are
// paced by cfg.RateLimit. Providers holding network clients also implement
// io.Closer.
func New(ctx context.Context, cfg config.EmbeddingConfig) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case config.ProviderLocal, "":
		p, err = NewHashingEmbedder(cfg.Dimension)
	case config.ProviderOllama:
		p = NewOllamaEmbedder(OllamaConfig{
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Timeout:     cfg.Timeout,
			Concurrency: cfg.Concurrency,
		})
	case config.ProviderOpenAI:
		p, err = NewOpenAIEmbedder(OpenAIConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimension,
			Timeout:    cfg.Timeout,
		})
	case config.ProviderGemini:
		p, err = NewGeminiEmbedder(ctx, GeminiConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Provider != config.ProviderLocal && cfg.Provider != "" {
		p = NewThrottled(p, cfg.RateLimit, cfg.Concurrency)
	}
	return p, nil
}

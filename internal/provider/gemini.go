package provider

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini caps batch embedding requests at 100 contents
const geminiBatchSize = 100

// GeminiConfig configures the Gemini embedder
type GeminiConfig struct {
	APIKey  string
	BaseURL string // optional endpoint override
	Model   string // default: text-embedding-004
}

// GeminiEmbedder embeds text with a Gemini embedding model. Corpus and
// queries use the semantic-similarity task type so both share one space.
type GeminiEmbedder struct {
	client *genai.Client
	model  *genai.EmbeddingModel
}

func NewGeminiEmbedder(ctx context.Context, cfg GeminiConfig) (*GeminiEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required for gemini embeddings")
	}
	model := cfg.Model
	if model == "" {
		model = "text-embedding-004"
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	em := client.EmbeddingModel(model)
	em.TaskType = genai.TaskTypeSemanticSimilarity

	return &GeminiEmbedder{
		client: client,
		model:  em,
	}, nil
}

func (p *GeminiEmbedder) Name() string {
	return "gemini"
}

// Embed generates embeddings for texts in batches
func (p *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += geminiBatchSize {
		end := min(start+geminiBatchSize, len(texts))

		batch := p.model.NewBatch()
		for _, text := range texts[start:end] {
			batch.AddContent(genai.Text(text))
		}

		resp, err := p.model.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("gemini embedding request failed: %w", err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("gemini returned %d embeddings for %d inputs", len(resp.Embeddings), end-start)
		}
		for _, e := range resp.Embeddings {
			out = append(out, e.Values)
		}
	}
	return out, nil
}

// Close releases the underlying client
func (p *GeminiEmbedder) Close() error {
	return p.client.Close()
}

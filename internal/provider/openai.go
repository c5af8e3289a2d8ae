package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openAIBatchSize = 512

// OpenAIConfig configures the OpenAI embedder
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string // optional, for compatible endpoints
	Model      string // default: text-embedding-3-small
	Dimensions int    // optional output size for text-embedding-3 models
	Timeout    time.Duration
	HTTPClient *http.Client
}

// OpenAIEmbedder uses the embeddings endpoint of the official SDK
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
}

func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required for openai embeddings")
	}
	model := cfg.Model
	if model == "" {
		model = "text-embedding-3-small"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	client := openai.NewClient(opts...)
	return &OpenAIEmbedder{
		client:     &client,
		model:      model,
		dimensions: cfg.Dimensions,
	}, nil
}

func (p *OpenAIEmbedder) Name() string {
	return "openai"
}

// Embed generates embeddings for texts, keeping input order
func (p *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for start := 0; start < len(texts); start += openAIBatchSize {
		end := min(start+openAIBatchSize, len(texts))
		if err := p.embedBatch(ctx, texts[start:end], out[start:end]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (p *OpenAIEmbedder) embedBatch(ctx context.Context, batch []string, out [][]float32) error {
	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: batch},
		Model: openai.EmbeddingModel(p.model),
	}
	if p.dimensions > 0 {
		params.Dimensions = openai.Int(int64(p.dimensions))
	}

	resp, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		return fmt.Errorf("openai embedding request failed: %w", err)
	}
	if len(resp.Data) != len(batch) {
		return fmt.Errorf("openai returned %d embeddings for %d inputs", len(resp.Data), len(batch))
	}

	// Data is ordered by Index, not necessarily by position
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(out) {
			return fmt.Errorf("openai returned embedding index %d out of range", d.Index)
		}
		vec := make([]float32, len(d.Embedding))
		for i, x := range d.Embedding {
			vec[i] = float32(x)
		}
		out[d.Index] = vec
	}
	return nil
}

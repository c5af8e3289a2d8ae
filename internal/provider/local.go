package provider

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/pathpilot/backend/internal/search"
)

const (
	// DefaultHashingDimension is the vector size of the local embedder
	DefaultHashingDimension = 4096
	// subwordWeight scales character n-gram features relative to whole words
	subwordWeight = 0.5
)

// HashingEmbedder is an offline embedder based on signed feature hashing.
// Each word and each character n-gram of a word is hashed into one of
// dim buckets with a hash-derived sign, weighted by 1+ln(tf). N-grams let
// related word forms ("analyst", "analysis") share features. The output is
// deterministic and needs no model download.
type HashingEmbedder struct {
	dim   int
	ngram int
}

// NewHashingEmbedder creates a local embedder with dim buckets. A dim of 0
// selects DefaultHashingDimension.
func NewHashingEmbedder(dim int) (*HashingEmbedder, error) {
	if dim == 0 {
		dim = DefaultHashingDimension
	}
	if dim < 0 {
		return nil, fmt.Errorf("hashing dimension must be positive, got %d", dim)
	}
	return &HashingEmbedder{dim: dim, ngram: 3}, nil
}

func (h *HashingEmbedder) Name() string {
	return "local"
}

// Dimension returns the vector size
func (h *HashingEmbedder) Dimension() int {
	return h.dim
}

// Embed generates one vector per text
func (h *HashingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.vector(text)
	}
	return out, nil
}

func (h *HashingEmbedder) vector(text string) []float32 {
	vec := make([]float32, h.dim)

	counts := make(map[string]int)
	for _, token := range search.Tokenize(text) {
		counts["w:"+token]++
		for _, gram := range charNGrams(token, h.ngram) {
			counts["g:"+gram]++
		}
	}

	// Fixed feature order keeps float sums identical between calls
	features := make([]string, 0, len(counts))
	for f := range counts {
		features = append(features, f)
	}
	sort.Strings(features)

	for _, f := range features {
		weight := 1 + math.Log(float64(counts[f]))
		if f[0] == 'g' {
			weight *= subwordWeight
		}

		sum := xxhash.Sum64String(f)
		bucket := sum % uint64(h.dim)
		if sum>>63 == 1 {
			weight = -weight
		}
		vec[bucket] += float32(weight)
	}

	return vec
}

// charNGrams returns the n-grams of word padded with boundary markers
func charNGrams(word string, n int) []string {
	if n <= 0 {
		return nil
	}
	runes := []rune("<" + word + ">")
	if len(runes) <= n {
		return []string{string(runes)}
	}
	grams := make([]string, 0, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		grams = append(grams, string(runes[i:i+n]))
	}
	return grams
}

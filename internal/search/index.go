package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	// ErrInvalidQuery is returned for an empty or whitespace-only query
	ErrInvalidQuery = errors.New("search: query must not be empty")
	// ErrInvalidArgument is returned for a non-positive top_k
	ErrInvalidArgument = errors.New("search: invalid argument")
	// ErrEmbedding wraps failures of the embedder and malformed embeddings
	ErrEmbedding = errors.New("search: embedding failed")
)

// Embedder turns texts into vectors, one per text and in the same order.
// Every call must use the same model so vectors are comparable.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Hit is one scored corpus row
type Hit struct {
	Index int
	Score float64
}

// Index holds one unit-normalized embedding per corpus text. It is built
// once by NewIndex and never changes afterwards, so concurrent searches only
// read shared state.
type Index struct {
	embedder Embedder
	rows     [][]float32
	dim      int
}

// NewIndex embeds all texts in a single batch. Row i of the index belongs to
// texts[i]. An empty texts slice gives an empty but usable index.
func NewIndex(ctx context.Context, embedder Embedder, texts []string) (*Index, error) {
	if embedder == nil {
		return nil, errors.New("search: nil embedder")
	}

	idx := &Index{embedder: embedder}
	if len(texts) == 0 {
		return idx, nil
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: corpus: %w", ErrEmbedding, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbedding, len(vectors), len(texts))
	}

	idx.dim = len(vectors[0])
	if idx.dim == 0 {
		return nil, fmt.Errorf("%w: empty vector for text 0", ErrEmbedding)
	}

	idx.rows = make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != idx.dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d", ErrEmbedding, i, len(v), idx.dim)
		}
		if !finite(v) {
			return nil, fmt.Errorf("%w: vector %d has non-finite components", ErrEmbedding, i)
		}
		idx.rows[i] = Normalize(v)
	}

	return idx, nil
}

// Len returns the number of rows
func (ix *Index) Len() int {
	return len(ix.rows)
}

// Dim returns the embedding dimension, 0 for an empty index
func (ix *Index) Dim() int {
	return ix.dim
}

// Vector returns a copy of row i
func (ix *Index) Vector(i int) []float32 {
	out := make([]float32, len(ix.rows[i]))
	copy(out, ix.rows[i])
	return out
}

// Search embeds query and returns the topK most similar rows, best first.
// Rows with equal scores keep ascending index order. topK larger than the
// index returns every row.
func (ix *Index) Search(ctx context.Context, query string, topK int) ([]Hit, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidArgument, topK)
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidQuery
	}
	if len(ix.rows) == 0 {
		return []Hit{}, nil
	}

	queryVector, err := ix.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]Hit, len(ix.rows))
	for i, row := range ix.rows {
		results[i] = Hit{Index: i, Score: Dot(queryVector, row)}
	}

	// Sort by descending score
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		return results[:topK], nil
	}
	return results, nil
}

func (ix *Index) embedQuery(ctx context.Context, query string) ([]float32, error) {
	vectors, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", ErrEmbedding, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: got %d vectors for query", ErrEmbedding, len(vectors))
	}
	if len(vectors[0]) != ix.dim {
		return nil, fmt.Errorf("%w: query dimension %d, index dimension %d", ErrEmbedding, len(vectors[0]), ix.dim)
	}
	if !finite(vectors[0]) {
		return nil, fmt.Errorf("%w: query vector has non-finite components", ErrEmbedding)
	}
	return Normalize(vectors[0]), nil
}

// finite reports whether v holds no NaN or infinite component
func finite(v []float32) bool {
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

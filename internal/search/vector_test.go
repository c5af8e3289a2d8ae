package search_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pathpilot/backend/internal/search"
)

func TestTokenize(t *testing.T) {
	text := "Hello, World! This is a test of AI and Go."
	tokens := search.Tokenize(text)

	expected := []string{"hello", "world", "this", "test", "ai", "go"}
	assert.Equal(t, expected, tokens)
}

func TestTokenizeEmpty(t *testing.T) {
	assert.Empty(t, search.Tokenize(""))
	assert.Empty(t, search.Tokenize("a, I & the"))
}

func TestCosineSimilarity(t *testing.T) {
	vecA := []float32{1, 0, 1}
	vecB := []float32{0, 1, 1}

	// Dot product: 1*0 + 0*1 + 1*1 = 1
	// NormA: sqrt(2), NormB: sqrt(2)
	// Cosine: 1 / (sqrt(2)*sqrt(2)) = 0.5
	score := search.CosineSimilarity(vecA, vecB)
	assert.InDelta(t, 0.5, score, 0.0001)

	assert.Equal(t, 0.0, search.CosineSimilarity(vecA, []float32{1, 0}))
	assert.Equal(t, 0.0, search.CosineSimilarity(vecA, []float32{0, 0, 0}))
}

func TestNormalize(t *testing.T) {
	v := search.Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	zero := search.Normalize([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, zero)

	in := []float32{2, 0}
	_ = search.Normalize(in)
	assert.Equal(t, []float32{2, 0}, in, "input must not be modified")
}

func TestDotMatchesCosineForUnitVectors(t *testing.T) {
	a := search.Normalize([]float32{1, 2, 3})
	b := search.Normalize([]float32{-2, 0.5, 4})

	assert.InDelta(t, search.CosineSimilarity(a, b), search.Dot(a, b), 1e-6)
	assert.InDelta(t, 1.0, search.Dot(a, a), 1e-6)
	assert.False(t, math.IsNaN(search.Dot(a, b)))
}

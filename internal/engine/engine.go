package engine

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pathpilot/backend/internal/corpus"
	"github.com/pathpilot/backend/internal/search"
)

// Recommendation is a scored copy of a corpus career
type Recommendation struct {
	corpus.Career
	Score float64 `json:"score"`
}

// Match returns the score clipped to [0, 1], for display as a fraction
func (r Recommendation) Match() float64 {
	return min(max(r.Score, 0), 1)
}

// Engine answers recommendation queries against a fixed corpus
type Engine struct {
	Logger *logrus.Entry

	corpus corpus.Corpus
	index  *search.Index

	mu    sync.RWMutex
	stats Stats
}

// Stats describes the loaded corpus and the queries served so far
type Stats struct {
	CorpusSize    int
	Dimension     int
	Embedder      string
	QueriesServed int64
	LastError     string
	StartTime     time.Time
}

// New embeds every career of c and returns a ready engine. The corpus is
// not copied; callers must not modify it afterwards.
func New(ctx context.Context, c corpus.Corpus, embedder search.Embedder, logger *logrus.Entry) (*Engine, error) {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	logger = logger.WithField("component", "engine")

	start := time.Now()
	index, err := search.NewIndex(ctx, embedder, c.Texts())
	if err != nil {
		return nil, err
	}

	name := "custom"
	if n, ok := embedder.(interface{ Name() string }); ok {
		name = n.Name()
	}

	logger.WithFields(logrus.Fields{
		"careers":   index.Len(),
		"dimension": index.Dim(),
		"embedder":  name,
		"took":      time.Since(start).Round(time.Millisecond),
	}).Info("Career index ready")

	return &Engine{
		Logger: logger,
		corpus: c,
		index:  index,
		stats: Stats{
			CorpusSize: index.Len(),
			Dimension:  index.Dim(),
			Embedder:   name,
			StartTime:  time.Now(),
		},
	}, nil
}

// Recommend returns up to topK careers most similar to query, best first.
// Scores are cosine similarities rounded to three decimals.
func (e *Engine) Recommend(ctx context.Context, query string, topK int) ([]Recommendation, error) {
	hits, err := e.index.Search(ctx, query, topK)
	if err != nil {
		e.recordError(err)
		return nil, err
	}

	results := make([]Recommendation, len(hits))
	for i, hit := range hits {
		results[i] = Recommendation{
			Career: e.corpus[hit.Index].Clone(),
			Score:  RoundScore(hit.Score),
		}
	}

	e.mu.Lock()
	e.stats.QueriesServed++
	e.mu.Unlock()

	e.Logger.WithFields(logrus.Fields{
		"top_k":   topK,
		"results": len(results),
	}).Debug("Recommendation served")

	return results, nil
}

// RecommendAll ranks the whole corpus against query
func (e *Engine) RecommendAll(ctx context.Context, query string) ([]Recommendation, error) {
	return e.Recommend(ctx, query, max(e.index.Len(), 1))
}

func (e *Engine) recordError(err error) {
	// caller mistakes are not engine failures
	if errors.Is(err, search.ErrInvalidQuery) || errors.Is(err, search.ErrInvalidArgument) {
		return
	}
	e.mu.Lock()
	e.stats.LastError = err.Error()
	e.mu.Unlock()
	e.Logger.WithError(err).Error("Recommendation failed")
}

// Careers returns copies of the loaded careers, optionally limited to one
// category. An empty category returns all of them.
func (e *Engine) Careers(category string) corpus.Corpus {
	src := e.corpus
	if category != "" {
		src = src.Filter(category)
	}
	out := make(corpus.Corpus, len(src))
	for i, c := range src {
		out[i] = c.Clone()
	}
	return out
}

// Categories lists the loaded categories with their career counts
func (e *Engine) Categories() []corpus.CategoryCount {
	return e.corpus.Categories()
}

// Stats returns a snapshot of the engine statistics
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

// RoundScore rounds a similarity score to three decimals
func RoundScore(s float64) float64 {
	return math.Round(s*1000) / 1000
}

// ComposeQuery builds a free-text query from the interest, skills and job
// name fields of a search form. Blank fields are skipped.
func ComposeQuery(interest, skills, jobName string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{interest, skills, jobName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

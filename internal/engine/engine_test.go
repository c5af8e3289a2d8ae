package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathpilot/backend/internal/corpus"
	"github.com/pathpilot/backend/internal/engine"
	"github.com/pathpilot/backend/internal/provider"
	"github.com/pathpilot/backend/internal/search"
)

func career(category, name, overview string, skills ...string) corpus.Career {
	c := corpus.Career{
		Name:           name,
		Category:       category,
		Overview:       overview,
		Demand:         "High",
		Advantages:     []string{"Growth"},
		Disadvantages:  []string{"Stress"},
		RequiredSkills: corpus.RequiredSkills{Basic: skills, Intermediate: []string{}, Advanced: []string{}, Professional: []string{}},
		RelatedSkills:  []string{},
	}
	c.CombinedText = c.BuildText()
	return c
}

func scenarioCorpus() corpus.Corpus {
	return corpus.Corpus{
		career("Technology", "Software Engineer", "Builds and maintains software applications.", "Python", "Java"),
		career("Healthcare", "Nurse", "Provides patient care in hospitals and clinics.", "patient care", "empathy"),
		career("Technology", "Data Analyst", "Analyzes data to find trends.", "Python", "SQL", "statistics"),
	}
}

func newEngine(t *testing.T, c corpus.Corpus) *engine.Engine {
	t.Helper()
	embedder, err := provider.NewHashingEmbedder(0)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	eng, err := engine.New(context.Background(), c, embedder, logger.WithField("test", "engine"))
	require.NoError(t, err)
	return eng
}

func names(recs []engine.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Name
	}
	return out
}

func TestRecommendScenario(t *testing.T) {
	eng := newEngine(t, scenarioCorpus())

	recs, err := eng.Recommend(context.Background(), "I enjoy Python and data analysis", 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, []string{"Data Analyst", "Software Engineer", "Nurse"}, names(recs))
	assert.Greater(t, recs[0].Score, recs[1].Score)
	assert.Greater(t, recs[1].Score, recs[2].Score)
	assert.Equal(t, 0.0, recs[2].Score)

	// scores come back already rounded
	for _, r := range recs {
		assert.Equal(t, engine.RoundScore(r.Score), r.Score)
	}
}

func TestRecommendTopK(t *testing.T) {
	eng := newEngine(t, scenarioCorpus())
	ctx := context.Background()

	recs, err := eng.Recommend(ctx, "Python", 2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = eng.Recommend(ctx, "Python", 50)
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	all, err := eng.RecommendAll(ctx, "Python")
	require.NoError(t, err)
	assert.Equal(t, recs, all)
}

func TestSelfSimilarity(t *testing.T) {
	c := scenarioCorpus()
	eng := newEngine(t, c)

	for _, career := range c {
		recs, err := eng.Recommend(context.Background(), career.CombinedText, 1)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, career.Name, recs[0].Name)
		assert.InDelta(t, 1.0, recs[0].Score, 1e-3)
	}
}

func TestRecommendDoesNotMutateCorpus(t *testing.T) {
	c := scenarioCorpus()
	eng := newEngine(t, c)

	recs, err := eng.Recommend(context.Background(), "python", 3)
	require.NoError(t, err)

	recs[0].Name = "changed"
	recs[0].RequiredSkills.Basic[0] = "changed"
	recs[0].Advantages[0] = "changed"

	again, err := eng.Recommend(context.Background(), "python", 3)
	require.NoError(t, err)
	assert.NotContains(t, names(again), "changed")
	for _, career := range c {
		assert.NotContains(t, career.RequiredSkills.Basic, "changed")
	}
}

func TestRecommendErrors(t *testing.T) {
	eng := newEngine(t, scenarioCorpus())
	ctx := context.Background()

	_, err := eng.Recommend(ctx, "   ", 3)
	assert.ErrorIs(t, err, search.ErrInvalidQuery)

	_, err = eng.Recommend(ctx, "python", 0)
	assert.ErrorIs(t, err, search.ErrInvalidArgument)

	// caller errors leave no trace in the stats
	stats := eng.Stats()
	assert.Empty(t, stats.LastError)
	assert.Zero(t, stats.QueriesServed)
}

type failingEmbedder struct {
	calls int
}

func (f *failingEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.calls > 1 {
		return nil, errors.New("backend unavailable")
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, float32(i)}
	}
	return out, nil
}

func TestEmbeddingFailureIsRecorded(t *testing.T) {
	eng, err := engine.New(context.Background(), scenarioCorpus(), &failingEmbedder{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "custom", eng.Stats().Embedder)

	_, err = eng.Recommend(context.Background(), "python", 1)
	assert.ErrorIs(t, err, search.ErrEmbedding)
	assert.Contains(t, eng.Stats().LastError, "backend unavailable")
}

func TestStats(t *testing.T) {
	eng := newEngine(t, scenarioCorpus())

	for i := 0; i < 3; i++ {
		_, err := eng.Recommend(context.Background(), "nurse", 1)
		require.NoError(t, err)
	}

	stats := eng.Stats()
	assert.Equal(t, 3, stats.CorpusSize)
	assert.Equal(t, provider.DefaultHashingDimension, stats.Dimension)
	assert.Equal(t, "local", stats.Embedder)
	assert.Equal(t, int64(3), stats.QueriesServed)
	assert.False(t, stats.StartTime.IsZero())
}

func TestEmptyCorpus(t *testing.T) {
	eng := newEngine(t, corpus.Corpus{})

	recs, err := eng.RecommendAll(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Empty(t, eng.Categories())
}

func TestCareersAndCategories(t *testing.T) {
	eng := newEngine(t, scenarioCorpus())

	assert.Len(t, eng.Careers(""), 3)
	tech := eng.Careers("technology")
	assert.Equal(t, []string{"Software Engineer", "Data Analyst"}, []string{tech[0].Name, tech[1].Name})
	assert.Empty(t, eng.Careers("Arts"))

	assert.Equal(t, []corpus.CategoryCount{
		{Name: "Technology", Count: 2},
		{Name: "Healthcare", Count: 1},
	}, eng.Categories())
}

func TestMatch(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{0.42, 0.42},
		{1.0000001, 1},
		{-0.2, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, engine.Recommendation{Score: tt.score}.Match())
	}
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 0.469, engine.RoundScore(0.46931))
	assert.Equal(t, 0.147, engine.RoundScore(0.14666))
	assert.Equal(t, -0.5, engine.RoundScore(-0.5004))
}

func TestComposeQuery(t *testing.T) {
	tests := []struct {
		name                      string
		interest, skills, jobName string
		want                      string
	}{
		{"all fields", "data", "python sql", "analyst", "data python sql analyst"},
		{"blank fields skipped", "  ", "python", "", "python"},
		{"nothing", "", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.ComposeQuery(tt.interest, tt.skills, tt.jobName))
		})
	}
}

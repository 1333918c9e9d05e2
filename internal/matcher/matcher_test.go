package matcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursemap/internal/domain"
	"coursemap/internal/vectorstore/memory"
)

// stubEmbedder returns canned vectors per text; unknown texts get the
// fallback vector. Identical text always yields an identical vector.
type stubEmbedder struct {
	dim      int
	vectors  map[string][]float32
	fallback []float32
	err      error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return s.fallback, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) Dimension() int { return s.dim }

func seedStore(t *testing.T, points []domain.Point, dim int) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, "uv", dim, domain.DistanceCosine))
	require.NoError(t, store.Upsert(ctx, "uv", points))
	return store
}

func TestMatch_RanksByDescendingScore(t *testing.T) {
	store := seedStore(t, []domain.Point{
		{ID: 0, Vector: []float32{0, 1}, Payload: domain.CourseRecord{Code: "AA01"}},
		{ID: 1, Vector: []float32{1, 0}, Payload: domain.CourseRecord{Code: "BB02"}},
		{ID: 2, Vector: []float32{1, 1}, Payload: domain.CourseRecord{Code: "CC03"}},
	}, 2)
	emb := &stubEmbedder{dim: 2, fallback: []float32{1, 0}}
	m := New(emb, store, "uv")

	candidates, err := m.Match(context.Background(), "Réseaux", "", 2)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, 1, candidates[0].Rank)
	assert.Equal(t, "BB02", candidates[0].Code)
	assert.Equal(t, 2, candidates[1].Rank)
	assert.GreaterOrEqual(t, candidates[0].Score, candidates[1].Score)
	for _, c := range candidates {
		assert.GreaterOrEqual(t, c.Score, -1.0)
		assert.LessOrEqual(t, c.Score, 1.0)
	}
}

func TestMatch_TopKMustBePositive(t *testing.T) {
	emb := &stubEmbedder{dim: 2, fallback: []float32{1, 0}}
	m := New(emb, memory.NewStore(), "uv")
	_, err := m.Match(context.Background(), "Réseaux", "", 0)
	assert.Error(t, err)
}

func TestMatch_FailsClosedOnEmbedError(t *testing.T) {
	store := seedStore(t, []domain.Point{
		{ID: 0, Vector: []float32{1, 0}, Payload: domain.CourseRecord{Code: "AA01"}},
	}, 2)
	emb := &stubEmbedder{dim: 2, err: errors.New("credential rejected")}
	m := New(emb, store, "uv")

	candidates, err := m.Match(context.Background(), "Réseaux", "", 5)
	assert.Error(t, err)
	assert.Nil(t, candidates)
}

func TestMatch_AppendsDescriptionToQuery(t *testing.T) {
	store := seedStore(t, []domain.Point{
		{ID: 0, Vector: []float32{1, 0}, Payload: domain.CourseRecord{Code: "AA01"}},
		{ID: 1, Vector: []float32{0, 1}, Payload: domain.CourseRecord{Code: "BB02"}},
	}, 2)
	emb := &stubEmbedder{
		dim: 2,
		vectors: map[string][]float32{
			"Réseaux":                {1, 0},
			"Réseaux couches et OSI": {0, 1},
		},
	}
	m := New(emb, store, "uv")

	candidates, err := m.Match(context.Background(), "Réseaux", "couches et OSI", 1)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "BB02", candidates[0].Code)
}

func TestMatch_SinglePointCatalogue(t *testing.T) {
	record := domain.CourseRecord{
		Code:        "DB01",
		Name:        "Databases",
		Kind:        "CS",
		Credits:     6,
		Term:        domain.TermAutumn,
		Description: "intro to databases",
		Keywords:    "sql relational",
	}
	vec := []float32{0.3, 0.5, 0.8}
	store := seedStore(t, []domain.Point{{ID: 0, Vector: vec, Payload: record}}, 3)
	emb := &stubEmbedder{dim: 3, fallback: vec}
	m := New(emb, store, "uv")

	candidates, err := m.Match(context.Background(), "Databases", "intro course", 1)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "DB01", candidates[0].Code)
	assert.Equal(t, record, candidates[0].CourseRecord)
	assert.InDelta(t, 1.0, candidates[0].Score, 1e-6)
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursemap/internal/domain"
	"coursemap/internal/vectorstore/memory"
)

type fakeEmbedder struct {
	dim        int
	batchSizes []int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, f.dim)
	for _, r := range text {
		v[int(r)%f.dim]++
	}
	return v, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.batchSizes = append(f.batchSizes, len(texts))
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimension() int { return f.dim }

type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) Complete(context.Context, string, float32, int) (string, error) {
	return f.response, f.err
}

func newTestPipeline(t *testing.T, completer domain.Completer, batchSize int) (*Pipeline, *fakeEmbedder) {
	t.Helper()
	emb := &fakeEmbedder{dim: 8}
	return NewPipeline(Options{
		Embedder:   emb,
		Completer:  completer,
		Store:      memory.NewStore(),
		Collection: "uv_utc",
		BatchSize:  batchSize,
	}), emb
}

func buildSmallIndex(t *testing.T, p *Pipeline) {
	t.Helper()
	ctx := context.Background()
	records := []domain.CourseRecord{
		{Code: "IF05", Name: "Bases de données", Kind: "TM", Credits: 5, Term: domain.TermAutumn,
			Description: "Conception de bases relationnelles", Keywords: "sql, modèle relationnel"},
		{Code: "MT12", Name: "Techniques mathématiques", Kind: "CS", Credits: 6, Term: domain.TermAutumn},
		{Code: "SP01", Name: "Activités sportives", Kind: "SP", Credits: 4, Term: domain.TermSpring},
	}
	embedded, err := p.EmbedRecords(ctx, records)
	require.NoError(t, err)
	require.NoError(t, p.BuildIndex(ctx, embedded))
}

func TestEmbedRecords_ChunksPreserveOrder(t *testing.T) {
	p, emb := newTestPipeline(t, nil, 2)
	records := []domain.CourseRecord{
		{Code: "AA01", Name: "Alpha"},
		{Code: "BB02", Name: "Beta"},
		{Code: "CC03", Name: "Gamma"},
		{Code: "DD04", Name: "Delta"},
		{Code: "EE05", Name: "Epsilon"},
	}
	embedded, err := p.EmbedRecords(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, embedded, 5)
	assert.Equal(t, []int{2, 2, 1}, emb.batchSizes)
	for i, e := range embedded {
		assert.Equal(t, records[i], e.CourseRecord)
		assert.Len(t, e.Embedding, 8)
	}
}

func TestMatch_NilCompleterDegradesToCandidates(t *testing.T) {
	p, _ := newTestPipeline(t, nil, 0)
	buildSmallIndex(t, p)

	res, err := p.Match(context.Background(), "Databases", "relational sql course", 6, 3)
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 3)
	assert.Nil(t, res.Verdict)
	assert.ErrorIs(t, res.AdjudicationErr, domain.ErrCompleterUnavailable)
}

func TestMatch_VerdictReturnedOnSuccess(t *testing.T) {
	completer := &fakeCompleter{
		response: `{"is_match": true, "code": "IF05", "nom": "Bases de données", "justification": "même contenu"}`,
	}
	p, _ := newTestPipeline(t, completer, 0)
	buildSmallIndex(t, p)

	res, err := p.Match(context.Background(), "Databases", "relational sql course", 6, 2)
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 2)
	assert.NoError(t, res.AdjudicationErr)
	require.NotNil(t, res.Verdict)
	assert.True(t, res.Verdict.IsMatch)
	assert.Equal(t, "IF05", res.Verdict.Code)
}

func TestMatch_AdjudicationFailureKeepsCandidates(t *testing.T) {
	completer := &fakeCompleter{response: "pas de JSON ici"}
	p, _ := newTestPipeline(t, completer, 0)
	buildSmallIndex(t, p)

	res, err := p.Match(context.Background(), "Databases", "", 6, 2)
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 2)
	assert.Nil(t, res.Verdict)

	var parseErr *domain.VerdictParseError
	assert.ErrorAs(t, res.AdjudicationErr, &parseErr)
}

func TestMatch_CompleterTransportFailureKeepsCandidates(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("upstream down")}
	p, _ := newTestPipeline(t, completer, 0)
	buildSmallIndex(t, p)

	res, err := p.Match(context.Background(), "Databases", "", 6, 1)
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 1)
	assert.Nil(t, res.Verdict)
	assert.Error(t, res.AdjudicationErr)
}

func TestExtractCatalogue(t *testing.T) {
	p, _ := newTestPipeline(t, nil, 0)
	text := "Automne\nTM\nCrédits 5\nIF05 Bases de données\nDescription brève : Conception de bases relationnelles.\nDiplômant\n"
	records := p.ExtractCatalogue(text)
	require.Len(t, records, 1)
	assert.Equal(t, "IF05", records[0].Code)
	assert.Equal(t, "Bases de données", records[0].Name)
	assert.Equal(t, 5, records[0].Credits)
	assert.Equal(t, domain.TermAutumn, records[0].Term)
}

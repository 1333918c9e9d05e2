package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"coursemap/internal/adjudicator"
	"coursemap/internal/catalogue"
	"coursemap/internal/domain"
	"coursemap/internal/indexer"
	"coursemap/internal/matcher"
	"coursemap/internal/progress"
)

// Pipeline composes the extraction, embedding, indexing and matching stages.
// Capabilities are injected by the caller; a nil completer means adjudication
// is unavailable and Match degrades to raw candidates.
type Pipeline struct {
	embedder  domain.Embedder
	completer domain.Completer
	store     domain.VectorStore

	collection string
	dimension  int
	batchSize  int
	reporter   progress.Reporter
	logger     *zap.Logger
}

// Options carries the pipeline dependencies and settings.
type Options struct {
	Embedder   domain.Embedder
	Completer  domain.Completer
	Store      domain.VectorStore
	Collection string
	// Dimension is the collection dimensionality; defaults to the
	// embedder's when unset.
	Dimension int
	BatchSize int
	Reporter  progress.Reporter
	Logger    *zap.Logger
}

func NewPipeline(opts Options) *Pipeline {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.Dimension <= 0 && opts.Embedder != nil {
		opts.Dimension = opts.Embedder.Dimension()
	}
	if opts.Reporter == nil {
		opts.Reporter = progress.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Pipeline{
		embedder:   opts.Embedder,
		completer:  opts.Completer,
		store:      opts.Store,
		collection: opts.Collection,
		dimension:  opts.Dimension,
		batchSize:  opts.BatchSize,
		reporter:   opts.Reporter,
		logger:     opts.Logger,
	}
}

// ExtractCatalogue parses the catalogue text into records and logs the
// skipped-block count, the only signal the best-effort extractor emits.
func (p *Pipeline) ExtractCatalogue(text string) []domain.CourseRecord {
	records, skipped := catalogue.Extract(text)
	p.logger.Info("catalogue extracted",
		zap.Int("records", len(records)),
		zap.Int("skipped_blocks", skipped))
	return records
}

// EmbedRecords embeds every record's embedding text in order-preserving
// chunks and pairs each record with its vector.
func (p *Pipeline) EmbedRecords(ctx context.Context, records []domain.CourseRecord) ([]domain.EmbeddedRecord, error) {
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.EmbeddingText()
	}
	p.reporter.Start("embedding", len(texts))
	defer p.reporter.Finish()

	embedded := make([]domain.EmbeddedRecord, 0, len(records))
	for start := 0; start < len(texts); start += p.batchSize {
		end := min(start+p.batchSize, len(texts))
		vectors, err := p.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed records %d..%d: %w", start, end-1, err)
		}
		for i, v := range vectors {
			embedded = append(embedded, domain.EmbeddedRecord{
				CourseRecord: records[start+i],
				Embedding:    v,
			})
		}
		p.reporter.Add(end - start)
	}
	p.logger.Info("records embedded",
		zap.Int("records", len(embedded)),
		zap.Int("dimension", p.embedder.Dimension()))
	return embedded, nil
}

// BuildIndex replaces the vector collection with the given records.
func (p *Pipeline) BuildIndex(ctx context.Context, records []domain.EmbeddedRecord) error {
	b := indexer.NewBuilder(p.store, p.collection, p.dimension, p.logger)
	return b.Build(ctx, records)
}

// MatchResult bundles the ranked candidates with the adjudication outcome.
// Candidates are always present on success; Verdict is nil when adjudication
// failed or was unavailable, with the cause in AdjudicationErr.
type MatchResult struct {
	Candidates      []domain.MatchCandidate
	Verdict         *domain.Verdict
	AdjudicationErr error
}

// Match retrieves the topK closest course units and, when a completer is
// configured, asks it to adjudicate. Adjudication failures never discard the
// candidates: a human can still make the final call.
func (p *Pipeline) Match(ctx context.Context, name, description string, credits, topK int) (MatchResult, error) {
	m := matcher.New(p.embedder, p.store, p.collection)
	candidates, err := m.Match(ctx, name, description, topK)
	if err != nil {
		return MatchResult{}, err
	}
	res := MatchResult{Candidates: candidates}
	if p.completer == nil {
		res.AdjudicationErr = domain.ErrCompleterUnavailable
		return res, nil
	}
	verdict, err := adjudicator.New(p.completer).Adjudicate(ctx, name, description, credits, candidates)
	if err != nil {
		p.logger.Warn("adjudication failed", zap.Error(err))
		res.AdjudicationErr = err
		return res, nil
	}
	res.Verdict = &verdict
	return res, nil
}

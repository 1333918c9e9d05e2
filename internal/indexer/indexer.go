package indexer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"coursemap/internal/domain"
)

// Upserts are chunked so a large catalogue does not end up in one request.
const upsertBatchSize = 256

// Builder replaces a vector collection wholesale from embedded records.
// There is no merge: an existing collection is dropped and recreated.
type Builder struct {
	store      domain.VectorStore
	collection string
	dimension  int
	logger     *zap.Logger
}

func NewBuilder(store domain.VectorStore, collection string, dimension int, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{store: store, collection: collection, dimension: dimension, logger: logger}
}

// Build drops any existing collection, creates a fresh cosine collection and
// upserts every record with its ordinal position as point id. A vector whose
// length differs from the configured dimension is a configuration error and
// aborts before the store is touched. After the upsert the point count is
// verified against the input.
func (b *Builder) Build(ctx context.Context, records []domain.EmbeddedRecord) error {
	for _, r := range records {
		if len(r.Embedding) != b.dimension {
			return fmt.Errorf("record %s has %d dimensions, expected %d: %w",
				r.Code, len(r.Embedding), b.dimension, domain.ErrDimensionMismatch)
		}
	}

	exists, err := b.store.CollectionExists(ctx, b.collection)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", b.collection, err)
	}
	if exists {
		if err := b.store.DeleteCollection(ctx, b.collection); err != nil {
			return fmt.Errorf("delete collection %s: %w", b.collection, err)
		}
		b.logger.Info("collection dropped", zap.String("collection", b.collection))
	}
	if err := b.store.CreateCollection(ctx, b.collection, b.dimension, domain.DistanceCosine); err != nil {
		return fmt.Errorf("create collection %s: %w", b.collection, err)
	}

	points := make([]domain.Point, len(records))
	for i, r := range records {
		points[i] = domain.Point{
			ID:      uint64(i),
			Vector:  r.Embedding,
			Payload: r.CourseRecord,
		}
	}
	for start := 0; start < len(points); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(points))
		if err := b.store.Upsert(ctx, b.collection, points[start:end]); err != nil {
			return fmt.Errorf("upsert points %d..%d: %w", start, end-1, err)
		}
	}

	count, err := b.store.Count(ctx, b.collection)
	if err != nil {
		return fmt.Errorf("count collection %s: %w", b.collection, err)
	}
	if count != len(records) {
		return fmt.Errorf("collection %s has %d points, expected %d", b.collection, count, len(records))
	}
	b.logger.Info("collection built",
		zap.String("collection", b.collection),
		zap.Int("points", count),
		zap.Int("dimension", b.dimension))
	return nil
}

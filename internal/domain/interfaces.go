package domain

import "context"

// Distance is the similarity metric of a vector collection.
type Distance string

// DistanceCosine is the only metric the pipeline uses.
const DistanceCosine Distance = "Cosine"

// Embedder converts free text into a fixed-dimensionality vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch embeds texts preserving input order: the i-th vector
	// corresponds to the i-th text.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// Completer produces a text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error)
}

// Point is one indexed vector with its record payload. IDs are ordinals
// assigned at index-build time and are only stable within one build.
type Point struct {
	ID      uint64
	Vector  []float32
	Payload CourseRecord
}

// QueryResult is one nearest neighbour returned by a vector store.
type QueryResult struct {
	ID      uint64
	Score   float64
	Payload CourseRecord
}

// VectorStore persists vectors and supports similarity search over named
// collections.
type VectorStore interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	DeleteCollection(ctx context.Context, name string) error
	CreateCollection(ctx context.Context, name string, dimension int, distance Distance) error
	Upsert(ctx context.Context, name string, points []Point) error
	// Query returns up to topK points ordered by descending similarity.
	Query(ctx context.Context, name string, vector []float32, topK int) ([]QueryResult, error)
	Count(ctx context.Context, name string) (int, error)
}

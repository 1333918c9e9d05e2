package matcher

import (
	"context"
	"fmt"

	"coursemap/internal/domain"
)

// Matcher retrieves the course units closest to a free-text query.
type Matcher struct {
	embedder   domain.Embedder
	store      domain.VectorStore
	collection string
}

func New(embedder domain.Embedder, store domain.VectorStore, collection string) *Matcher {
	return &Matcher{embedder: embedder, store: store, collection: collection}
}

// Match embeds the query and returns up to topK candidates ranked by
// descending cosine similarity. The query text is the course name, extended
// with the description when one is supplied. Fails closed: an embedding
// failure aborts with no partial result.
func (m *Matcher) Match(ctx context.Context, name, description string, topK int) ([]domain.MatchCandidate, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}
	text := name
	if description != "" {
		text += " " + description
	}
	vector, err := m.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	results, err := m.store.Query(ctx, m.collection, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("query collection %s: %w", m.collection, err)
	}
	candidates := make([]domain.MatchCandidate, len(results))
	for i, r := range results {
		candidates[i] = domain.MatchCandidate{
			Rank:         i + 1,
			Score:        r.Score,
			CourseRecord: r.Payload,
		}
	}
	return candidates, nil
}

package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"coursemap/internal/domain"
)

// Store is an in-memory vector store using brute-force cosine similarity.
// It backs local runs and tests; nothing survives the process.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	dimension int
	points    []domain.Point
}

func NewStore() *Store {
	return &Store{collections: make(map[string]*collection)}
}

func (s *Store) CollectionExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[name]
	return ok, nil
}

func (s *Store) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; !ok {
		return fmt.Errorf("%s: %w", name, domain.ErrCollectionNotFound)
	}
	delete(s.collections, name)
	return nil
}

func (s *Store) CreateCollection(_ context.Context, name string, dimension int, _ domain.Distance) error {
	if dimension <= 0 {
		return fmt.Errorf("collection %s: dimension %d: %w", name, dimension, domain.ErrDimensionMismatch)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[name] = &collection{dimension: dimension}
	return nil
}

func (s *Store) Upsert(_ context.Context, name string, points []domain.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, domain.ErrCollectionNotFound)
	}
	for _, p := range points {
		if len(p.Vector) != col.dimension {
			return fmt.Errorf("point %d has %d dimensions, expected %d: %w",
				p.ID, len(p.Vector), col.dimension, domain.ErrDimensionMismatch)
		}
	}
	col.points = append(col.points, points...)
	return nil
}

// Query returns up to topK points by descending cosine similarity. Equal
// scores fall back to ascending point id, so results are deterministic.
func (s *Store) Query(_ context.Context, name string, vector []float32, topK int) ([]domain.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	col, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrCollectionNotFound)
	}
	results := make([]domain.QueryResult, len(col.points))
	for i, p := range col.points {
		results[i] = domain.QueryResult{
			ID:      p.ID,
			Score:   cosine(p.Vector, vector),
			Payload: p.Payload,
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

func (s *Store) Count(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	col, ok := s.collections[name]
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, domain.ErrCollectionNotFound)
	}
	return len(col.points), nil
}

func cosine(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

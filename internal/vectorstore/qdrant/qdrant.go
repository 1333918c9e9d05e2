package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"coursemap/internal/domain"
)

// Store is a minimal REST client to Qdrant implementing domain.VectorStore.
type Store struct {
	url    string
	apiKey string
	client *http.Client
}

// Config contains connection details for a Qdrant instance.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	var resp struct {
		Result struct {
			Exists bool `json:"exists"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/exists", s.url, name)
	if err := s.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return false, err
	}
	return resp.Result.Exists, nil
}

func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	url := fmt.Sprintf("%s/collections/%s", s.url, name)
	return s.do(ctx, http.MethodDelete, url, nil, nil)
}

func (s *Store) CreateCollection(ctx context.Context, name string, dimension int, distance domain.Distance) error {
	if dimension <= 0 {
		return fmt.Errorf("collection %s: dimension %d: %w", name, dimension, domain.ErrDimensionMismatch)
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": string(distance),
		},
	}
	url := fmt.Sprintf("%s/collections/%s", s.url, name)
	return s.do(ctx, http.MethodPut, url, body, nil)
}

func (s *Store) Upsert(ctx context.Context, name string, points []domain.Point) error {
	pts := make([]map[string]any, len(points))
	for i, p := range points {
		pts[i] = map[string]any{
			"id":      p.ID,
			"vector":  p.Vector,
			"payload": p.Payload,
		}
	}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, name)
	return s.do(ctx, http.MethodPut, url, map[string]any{"points": pts}, nil)
}

func (s *Store) Query(ctx context.Context, name string, vector []float32, topK int) ([]domain.QueryResult, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      uint64              `json:"id"`
			Score   float64             `json:"score"`
			Payload domain.CourseRecord `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", s.url, name)
	if err := s.do(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.QueryResult, len(resp.Result))
	for i, r := range resp.Result {
		results[i] = domain.QueryResult{ID: r.ID, Score: r.Score, Payload: r.Payload}
	}
	return results, nil
}

func (s *Store) Count(ctx context.Context, name string) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/count", s.url, name)
	if err := s.do(ctx, http.MethodPost, url, map[string]any{"exact": true}, &resp); err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

func (s *Store) do(ctx context.Context, method, url string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("qdrant %s %s: %w", method, url, domain.ErrCollectionNotFound)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

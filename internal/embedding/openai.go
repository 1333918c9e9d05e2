package embedding

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"coursemap/internal/domain"
)

// Client embeds text through an OpenAI-compatible embeddings API.
type Client struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
	batchSize int
}

// Config configures the embeddings client. The API key is read from the
// environment variable named by APIKeyEnv.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Dimension int
	BatchSize int
}

// NewClient creates an embeddings client. A missing API key is a hard stop
// for the embedding stage.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("env %s not set: %w", cfg.APIKeyEnv, domain.ErrMissingCredential)
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-large"
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = 3072
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     openai.EmbeddingModel(cfg.Model),
		dimension: cfg.Dimension,
		batchSize: cfg.BatchSize,
	}, nil
}

// Dimension returns the fixed output dimensionality of the model.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in provider-sized request chunks, preserving input
// order: the i-th vector corresponds to the i-th text.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))
		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input:          texts[start:end],
			Model:          c.model,
			EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		})
		if err != nil {
			return nil, fmt.Errorf("create embeddings: %w", err)
		}
		if len(resp.Data) != end-start {
			return nil, fmt.Errorf("embedding response has %d vectors for %d inputs", len(resp.Data), end-start)
		}
		// The API reports each vector's position explicitly; order by it
		// rather than trusting response order.
		batch := make([][]float32, end-start)
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(batch) {
				return nil, fmt.Errorf("embedding response index %d out of range", d.Index)
			}
			batch[d.Index] = d.Embedding
		}
		for i, v := range batch {
			if len(v) != c.dimension {
				return nil, fmt.Errorf("vector %d has %d dimensions, expected %d: %w",
					start+i, len(v), c.dimension, domain.ErrDimensionMismatch)
			}
		}
		out = append(out, batch...)
	}
	return out, nil
}

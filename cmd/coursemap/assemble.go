package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"coursemap/internal/catalogue"
	"coursemap/internal/completion"
	"coursemap/internal/config"
	"coursemap/internal/domain"
	"coursemap/internal/embedding"
	"coursemap/internal/progress"
	"coursemap/internal/service"
	"coursemap/internal/vectorstore/memory"
	"coursemap/internal/vectorstore/qdrant"
)

func newStore() domain.VectorStore {
	switch cfg.VectorStore.Type {
	case "qdrant":
		var qc config.QdrantConfig
		if cfg.VectorStore.Qdrant != nil {
			qc = *cfg.VectorStore.Qdrant
		}
		if qc.URL == "" {
			qc.URL = "http://localhost:6333"
		}
		return qdrant.NewStore(qdrant.Config{
			URL:     qc.URL,
			APIKey:  qc.APIKey,
			Timeout: time.Duration(qc.TimeoutSecs) * time.Second,
		})
	default:
		return memory.NewStore()
	}
}

func newEmbedder() (domain.Embedder, error) {
	return embedding.NewClient(embedding.Config{
		BaseURL:   cfg.Embedding.BaseURL,
		APIKeyEnv: cfg.Embedding.APIKeyEnv,
		Model:     cfg.Embedding.Model,
		Dimension: cfg.Embedding.Dimension,
		BatchSize: cfg.Embedding.BatchSize,
	})
}

// newCompleter returns nil when the completion credential is absent; the
// pipeline then degrades to raw candidates instead of failing the match.
func newCompleter() domain.Completer {
	c, err := completion.NewClient(completion.Config{
		BaseURL:   cfg.Completion.BaseURL,
		APIKeyEnv: cfg.Completion.APIKeyEnv,
		Model:     cfg.Completion.Model,
	})
	if err != nil {
		log.Warn("adjudication disabled", zap.Error(err))
		return nil
	}
	return c
}

func newPipeline(embedder domain.Embedder, completer domain.Completer, store domain.VectorStore, reporter progress.Reporter) *service.Pipeline {
	return service.NewPipeline(service.Options{
		Embedder:   embedder,
		Completer:  completer,
		Store:      store,
		Collection: cfg.VectorStore.Collection,
		Dimension:  cfg.Embedding.Dimension,
		BatchSize:  cfg.Embedding.BatchSize,
		Reporter:   reporter,
		Logger:     log,
	})
}

// ensureIndex rebuilds the in-memory collection from the embedded-records
// artifact. A qdrant collection persists between runs and is left alone.
func ensureIndex(ctx context.Context, p *service.Pipeline) error {
	if cfg.VectorStore.Type == "qdrant" {
		return nil
	}
	records, err := catalogue.LoadEmbedded(cfg.Paths.EmbeddedRecords)
	if err != nil {
		return fmt.Errorf("load %s (run `coursemap embed` first): %w", cfg.Paths.EmbeddedRecords, err)
	}
	return p.BuildIndex(ctx, records)
}

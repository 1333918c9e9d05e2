package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// CompletionConfig configures the adjudication completion provider.
type CompletionConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// VectorStoreConfig selects and configures the vector store implementation.
// The memory store rebuilds the collection from the embedded-records file on
// every run; qdrant keeps it between runs.
type VectorStoreConfig struct {
	Type       string        `yaml:"type"`
	Collection string        `yaml:"collection"`
	Qdrant     *QdrantConfig `yaml:"qdrant,omitempty"`
}

// PathsConfig names the persisted pipeline artifacts.
type PathsConfig struct {
	ParsedRecords   string `yaml:"parsed_records"`
	EmbeddedRecords string `yaml:"embedded_records"`
}

// MatchConfig configures query-time retrieval.
type MatchConfig struct {
	TopK int `yaml:"top_k"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Env   string `yaml:"env"`   // prod or dev
	Level string `yaml:"level"` // debug, info, warn, error
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Completion  CompletionConfig  `yaml:"completion"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Paths       PathsConfig       `yaml:"paths"`
	Match       MatchConfig       `yaml:"match"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/coursemap/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "coursemap", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-large"
	}
	if cfg.Embedding.Dimension == 0 {
		cfg.Embedding.Dimension = 3072
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 100
	}
	if cfg.Completion.APIKeyEnv == "" {
		cfg.Completion.APIKeyEnv = "GROQ_API_KEY"
	}
	if cfg.Completion.Model == "" {
		cfg.Completion.Model = "llama-3.3-70b-versatile"
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.VectorStore.Collection == "" {
		cfg.VectorStore.Collection = "uv_utc"
	}
	if cfg.Paths.ParsedRecords == "" {
		cfg.Paths.ParsedRecords = filepath.Join("data", "uv_parsed.json")
	}
	if cfg.Paths.EmbeddedRecords == "" {
		cfg.Paths.EmbeddedRecords = filepath.Join("data", "uv_embeddings.json")
	}
	if cfg.Match.TopK == 0 {
		cfg.Match.TopK = 5
	}
	if cfg.Logging.Env == "" {
		cfg.Logging.Env = "dev"
	}
}

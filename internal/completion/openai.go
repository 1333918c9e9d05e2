package completion

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"coursemap/internal/domain"
)

// Groq speaks the OpenAI chat protocol; any compatible endpoint works.
const defaultBaseURL = "https://api.groq.com/openai/v1"

// Client produces chat completions through an OpenAI-compatible API.
type Client struct {
	client *openai.Client
	model  string
}

// Config configures the completion client. The API key is read from the
// environment variable named by APIKeyEnv.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
}

// NewClient creates a completion client. A missing API key makes the
// adjudicator unavailable, which callers handle by showing raw candidates.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "GROQ_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("env %s not set: %w", cfg.APIKeyEnv, domain.ErrCompleterUnavailable)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "llama-3.3-70b-versatile"
	}
	clientCfg := openai.DefaultConfig(key)
	clientCfg.BaseURL = cfg.BaseURL
	return &Client{client: openai.NewClientWithConfig(clientCfg), model: cfg.Model}, nil
}

// Complete sends the prompt as a single user message and returns the raw
// completion text.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

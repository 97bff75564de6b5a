// Package ai wraps an OpenAI-compatible chat endpoint behind the small
// surface the answer pipeline needs: a single Chat call with retry.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/coralbricks/mailsight/internal/profile"
)

// Config holds the AI provider configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	ChatModel  string
	MaxRetries int
	Timeout    time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.openai.com/v1",
		APIKey:     "",
		ChatModel:  "gpt-4o-mini",
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	}
}

// NewConfigFromProfile builds a Config from the server profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := DefaultConfig()
	cfg.APIKey = p.AIAPIKey
	if p.AIBaseURL != "" {
		cfg.BaseURL = p.AIBaseURL
	}
	if p.AIChatModel != "" {
		cfg.ChatModel = p.AIChatModel
	}
	return cfg
}

// Provider provides chat completion against any OpenAI-compatible API.
type Provider struct {
	client *openai.Client
	config *Config
}

// Message represents a chat message.
type Message struct {
	Role    string
	Content string
}

// NewProvider creates a new AI provider.
func NewProvider(cfg *Config) (*Provider, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-4o-mini"
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// ChatModel returns the configured completion model name.
func (p *Provider) ChatModel() string {
	return p.config.ChatModel
}

// Chat performs a chat completion.
func (p *Provider) Chat(ctx context.Context, messages []Message) (string, error) {
	return p.chat(ctx, messages, nil)
}

// ChatJSON performs a chat completion constrained to a JSON object response.
func (p *Provider) ChatJSON(ctx context.Context, messages []Message) (string, error) {
	format := &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}
	return p.chat(ctx, messages, format)
}

func (p *Provider) chat(ctx context.Context, messages []Message, format *openai.ChatCompletionResponseFormat) (string, error) {
	var result string
	err := p.doWithRetry(ctx, func() error {
		llmMessages := make([]openai.ChatCompletionMessage, len(messages))
		for i, msg := range messages {
			llmMessages[i] = openai.ChatCompletionMessage{
				Role:    msg.Role,
				Content: msg.Content,
			}
		}

		req := openai.ChatCompletionRequest{
			Model:          p.config.ChatModel,
			Messages:       llmMessages,
			Temperature:    0,
			ResponseFormat: format,
		}

		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty chat response")
		}
		result = resp.Choices[0].Message.Content
		return nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to complete chat: %w", err)
	}
	return result, nil
}

// doWithRetry executes a function with exponential backoff retry.
func (p *Provider) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < p.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("AI request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}

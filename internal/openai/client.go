package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/riskibarqy/go-commitdraft/internal/llm"
)

// ErrMissingAPIKey is returned when no API key was configured.
var ErrMissingAPIKey = errors.New("openai api key is not set")

// Client sends instructions as single-message chat completions.
type Client struct {
	api *goopenai.Client
}

// NewClient builds a client for apiKey. An empty baseURL keeps the public API;
// any OpenAI-compatible server can be used otherwise.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{api: goopenai.NewClientWithConfig(cfg)}, nil
}

// Complete implements llm.Client.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion (model %s): %w", req.Model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion (model %s): no choices returned", req.Model)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

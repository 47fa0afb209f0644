package llmservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"docuchat/internal/config"
)

// Client sends prompts to an OpenAI-compatible text-generation endpoint.
type Client struct {
	cfg *config.LLMConfig
}

func NewClient(cfg *config.LLMConfig) *Client {
	return &Client{cfg: cfg}
}

// Generate sends the prompt verbatim using the given model identifier and
// returns the raw response text. No parsing or citation validation happens
// here.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(c.cfg.Key, "Bearer ")),
		openai.WithModel(model),
	}
	if c.cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(c.cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return "", fmt.Errorf("initializing LLM: %w", err)
	}

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	res, err := llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("generation returned no choices")
	}
	return res.Choices[0].Content, nil
}

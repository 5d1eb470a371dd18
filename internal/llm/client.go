package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Completer is the single-shot completion capability consumed by the refiner
// and the report assembler. Implementations may fail or time out; callers
// fall back rather than abort.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Client wraps the Anthropic SDK for both plain completions and the agent
// loop.
type Client struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewClient creates a client for Claude or a compatible provider behind a
// custom base URL.
func NewClient(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = "claude-sonnet-4-5"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		client:    client,
		model:     model,
		maxTokens: 4096,
	}
}

// WithModel returns a shallow copy using a different model, so cheap stages
// (refinement) and expensive stages (analysis) can share one client.
func (c *Client) WithModel(model string) *Client {
	if model == "" {
		return c
	}
	cp := *c
	cp.model = model
	return &cp
}

func (c *Client) Model() string {
	return c.model
}

// Complete issues one completion call and returns the concatenated text
// content.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(c.model)),
		MaxTokens: anthropic.F(int64(c.maxTokens)),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		}),
	}
	if system != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(system),
		})
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("completion call failed: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if b, ok := block.AsUnion().(anthropic.TextBlock); ok {
			text += b.Text
		}
	}
	return text, nil
}

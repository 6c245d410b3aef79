package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

type ClaudeClient struct {
	client *anthropic.Client
	model  string
	opts   Options
}

func NewClaudeClient(apiKey string, apiVersion string, model string, opts Options) *ClaudeClient {
	var clientOpts []anthropic.ClientOption
	if apiVersion != "" {
		clientOpts = append(clientOpts, anthropic.WithAPIVersion(anthropic.APIVersion(apiVersion)))
	}
	client := anthropic.NewClient(apiKey, clientOpts...)
	return &ClaudeClient{
		client: client,
		model:  model,
		opts:   opts,
	}
}

func (c *ClaudeClient) ChatJSON(ctx context.Context, system, user string, maxTokens int) (string, error) {
	// Anthropic has no JSON response mode; the system prompt carries the
	// format requirement and the caller extracts the object from prose.
	temperature := float32(c.opts.Temperature)
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		System:      system,
		Temperature: &temperature,
		MaxTokens:   maxTokens,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(user),
				},
			},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Content) > 0 && resp.Content[0].Text != nil {
		return *resp.Content[0].Text, nil
	}
	return "", fmt.Errorf("no response content")
}

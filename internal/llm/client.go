package llm

import (
	"context"
)

// Client is a chat-completion provider. ChatJSON sends one system+user
// exchange and returns the raw assistant text, which callers parse as JSON.
type Client interface {
	ChatJSON(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// Options carries the generation parameters shared by every provider.
type Options struct {
	Temperature  float64
	ResponseJSON bool
}

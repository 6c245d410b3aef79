package llm

import (
	"context"
	"fmt"
)

const (
	pingSystem    = "You are a test assistant. Always respond in JSON format."
	pingUser      = `Reply with JSON: {"status": "success"}`
	pingMaxTokens = 50
)

// Ping sends a minimal round trip through the provider and checks that the
// reply carries a JSON object. The extracted object is returned for display.
func Ping(ctx context.Context, client Client) (string, error) {
	raw, err := client.ChatJSON(ctx, pingSystem, pingUser, pingMaxTokens)
	if err != nil {
		return "", err
	}

	obj, err := ExtractJSONObject(raw)
	if err != nil {
		return "", fmt.Errorf("provider replied but not with JSON: %w", err)
	}
	return obj, nil
}

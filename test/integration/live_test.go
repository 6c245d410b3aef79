//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aghaapesar/match-url-ai/internal/config"
	"github.com/aghaapesar/match-url-ai/internal/llm"
)

// TestLiveProviderPing talks to a real provider. Configure it through the
// environment and leave MATCHURL_TEST_PROVIDER unset to skip.
func TestLiveProviderPing(t *testing.T) {
	_ = godotenv.Load("../../.env")

	provider := os.Getenv("MATCHURL_TEST_PROVIDER")
	if provider == "" {
		t.Skip("Skipping live test: MATCHURL_TEST_PROVIDER not set")
	}

	cfg := config.Default().AI
	cfg.Provider = provider
	if model := os.Getenv("MATCHURL_TEST_MODEL"); model != "" {
		cfg.Model = model
	}
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if baseURL := os.Getenv("MATCHURL_TEST_BASE_URL"); baseURL != "" {
		cfg.CompatibleBaseURL = baseURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := llm.NewClient(ctx, cfg)
	require.NoError(t, err)

	reply, err := llm.Ping(ctx, client)
	require.NoError(t, err)
	assert.Contains(t, reply, "{")
	t.Logf("provider %s replied: %s", provider, reply)
}

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/aghaapesar/match-url-ai/internal/config"
)

// NewClient builds the chat client selected by cfg.Provider. Missing
// credentials surface as *ConfigError so callers abort instead of retrying.
func NewClient(ctx context.Context, cfg config.AIConfig) (Client, error) {
	provider := strings.ToLower(cfg.Provider)
	opts := Options{
		Temperature:  cfg.Temperature,
		ResponseJSON: cfg.ResponseJSON,
	}

	// Azure selects by deployment name, every other provider needs a model.
	if cfg.Model == "" && provider != "azure" {
		return nil, &ConfigError{Reason: "ai.model is required"}
	}

	switch provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, &ConfigError{Reason: "openai provider requires ai.openai_api_key"}
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model, opts), nil

	case "azure":
		if cfg.AzureEndpoint == "" || cfg.AzureAPIKey == "" || cfg.AzureDeployment == "" {
			return nil, &ConfigError{Reason: "azure provider requires ai.azure_endpoint, ai.azure_api_key and ai.azure_deployment"}
		}
		model := cfg.Model
		if model == "" {
			model = cfg.AzureDeployment
		}
		return NewAzureClient(cfg.AzureEndpoint, cfg.AzureAPIKey, cfg.AzureAPIVersion, cfg.AzureDeployment, model, opts), nil

	case "anthropic", "claude":
		if cfg.AnthropicAPIKey == "" {
			return nil, &ConfigError{Reason: "anthropic provider requires ai.anthropic_api_key"}
		}
		return NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicAPIVersion, cfg.Model, opts), nil

	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, &ConfigError{Reason: "gemini provider requires ai.gemini_api_key"}
		}
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Model, opts)

	case "openai_compatible", "compatible", "local", "liara", "ollama":
		if cfg.CompatibleBaseURL == "" {
			return nil, &ConfigError{Reason: fmt.Sprintf("%s provider requires ai.compatible_base_url", provider)}
		}
		baseURL := strings.TrimRight(cfg.CompatibleBaseURL, "/")
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", baseURL)
		}
		apiKey := cfg.CompatibleAPIKey
		if apiKey == "" {
			// Local servers ignore the key but the client requires one.
			apiKey = "local"
		}
		return NewOpenAIClient(apiKey, baseURL, cfg.Model, opts), nil

	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("unsupported ai provider: %s", cfg.Provider)}
	}
}

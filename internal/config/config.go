package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// AIConfig selects and parameterizes the chat provider used for matching.
// Any secret value may be written as "env:NAME" to be resolved from the
// environment at load time.
type AIConfig struct {
	Provider     string  `toml:"provider"`
	Model        string  `toml:"model"`
	Temperature  float64 `toml:"temperature"`
	ResponseJSON bool    `toml:"response_json"`

	TimeoutSeconds int     `toml:"timeout_seconds"`
	MaxRetries     int     `toml:"max_retries"`
	RetryBaseDelay float64 `toml:"retry_base_delay"`
	QPS            float64 `toml:"qps"`

	OpenAIAPIKey  string `toml:"openai_api_key"`
	OpenAIBaseURL string `toml:"openai_base_url"`

	AzureEndpoint   string `toml:"azure_endpoint"`
	AzureAPIKey     string `toml:"azure_api_key"`
	AzureAPIVersion string `toml:"azure_api_version"`
	AzureDeployment string `toml:"azure_deployment"`

	AnthropicAPIKey     string `toml:"anthropic_api_key"`
	AnthropicAPIVersion string `toml:"anthropic_api_version"`

	GeminiAPIKey string `toml:"gemini_api_key"`

	CompatibleBaseURL string `toml:"compatible_base_url"`
	CompatibleAPIKey  string `toml:"compatible_api_key"`
}

// MatcherConfig holds the run-level matching parameters.
type MatcherConfig struct {
	MaxCandidates int     `toml:"max_candidates"`
	MinConfidence float64 `toml:"min_confidence"`
	Workers       int     `toml:"workers"`
	Mode          string  `toml:"mode"`
}

type SitemapConfig struct {
	Dir string `toml:"dir"`
}

type OutputConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	AI       AIConfig      `toml:"ai"`
	Matcher  MatcherConfig `toml:"matcher"`
	Sitemaps SitemapConfig `toml:"sitemaps"`
	Output   OutputConfig  `toml:"output"`
	Log      LogConfig     `toml:"log"`
}

// Default returns the configuration used when a key is absent from the file:
// 1 QPS, 3 attempts, 1.5s base retry delay, 20 candidates, 0.5 confidence
// floor, test mode.
func Default() Config {
	return Config{
		AI: AIConfig{
			Provider:            "openai",
			Temperature:         0,
			ResponseJSON:        true,
			TimeoutSeconds:      60,
			MaxRetries:          3,
			RetryBaseDelay:      1.5,
			QPS:                 1.0,
			OpenAIBaseURL:       "https://api.openai.com/v1",
			AzureAPIVersion:     "2024-02-15-preview",
			AnthropicAPIVersion: "2023-06-01",
		},
		Matcher: MatcherConfig{
			MaxCandidates: 20,
			MinConfidence: 0.5,
			Workers:       4,
			Mode:          "test",
		},
		Sitemaps: SitemapConfig{Dir: "sitemaps"},
		Output:   OutputConfig{Path: "matched_urls.xlsx"},
		Log:      LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads the TOML file at path on top of Default and resolves env:
// indirections in the secret fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	cfg.resolveSecrets()

	return &cfg, nil
}

func (c *Config) resolveSecrets() {
	for _, field := range []*string{
		&c.AI.OpenAIAPIKey,
		&c.AI.AzureAPIKey,
		&c.AI.AnthropicAPIKey,
		&c.AI.GeminiAPIKey,
		&c.AI.CompatibleAPIKey,
	} {
		*field = resolveSecret(*field)
	}
}

// resolveSecret maps "env:NAME" to the value of the NAME environment
// variable; every other value passes through unchanged.
func resolveSecret(value string) string {
	if name, ok := strings.CutPrefix(value, "env:"); ok {
		return os.Getenv(name)
	}
	return value
}

// Validate checks the matcher parameters. Provider-specific requirements
// (keys, endpoints) are checked by the llm factory so that the error carries
// the fatal configuration class.
func (c *Config) Validate() error {
	if c.Matcher.MaxCandidates <= 0 {
		return fmt.Errorf("matcher.max_candidates must be positive, got %d", c.Matcher.MaxCandidates)
	}
	if c.Matcher.MinConfidence < 0 || c.Matcher.MinConfidence > 1 {
		return fmt.Errorf("matcher.min_confidence must be within [0,1], got %g", c.Matcher.MinConfidence)
	}
	if c.Matcher.Workers <= 0 {
		return fmt.Errorf("matcher.workers must be positive, got %d", c.Matcher.Workers)
	}
	if m := c.Matcher.Mode; m != "test" && m != "full" {
		return fmt.Errorf("matcher.mode must be \"test\" or \"full\", got %q", m)
	}
	if c.AI.MaxRetries <= 0 {
		return fmt.Errorf("ai.max_retries must be positive, got %d", c.AI.MaxRetries)
	}
	if c.AI.QPS < 0 {
		return fmt.Errorf("ai.qps must not be negative, got %g", c.AI.QPS)
	}
	if c.AI.TimeoutSeconds <= 0 {
		return fmt.Errorf("ai.timeout_seconds must be positive, got %d", c.AI.TimeoutSeconds)
	}
	return nil
}

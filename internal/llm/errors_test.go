package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "dial tcp: i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsRetryableBasics(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(&ConfigError{Reason: "missing key"}))
	assert.False(t, IsRetryable(fmt.Errorf("setup: %w", &ConfigError{Reason: "missing key"})))

	// A canceled run stops; a single slow call gets another chance.
	assert.False(t, IsRetryable(context.Canceled))
	assert.True(t, IsRetryable(context.DeadlineExceeded))

	assert.True(t, IsRetryable(timeoutErr{}))
}

func TestIsRetryableOpenAI(t *testing.T) {
	assert.False(t, IsRetryable(&openai.APIError{HTTPStatusCode: 401}))
	assert.False(t, IsRetryable(&openai.APIError{HTTPStatusCode: 404}))
	assert.True(t, IsRetryable(&openai.APIError{HTTPStatusCode: 429}))
	assert.True(t, IsRetryable(&openai.APIError{HTTPStatusCode: 500}))
	assert.True(t, IsRetryable(fmt.Errorf("chat: %w", &openai.APIError{HTTPStatusCode: 503})))

	assert.False(t, IsRetryable(&openai.RequestError{HTTPStatusCode: 400}))
	assert.True(t, IsRetryable(&openai.RequestError{HTTPStatusCode: 502}))
}

func TestIsRetryableAnthropic(t *testing.T) {
	assert.False(t, IsRetryable(&anthropic.APIError{Type: "authentication_error"}))
	assert.False(t, IsRetryable(&anthropic.APIError{Type: "invalid_request_error"}))
	assert.False(t, IsRetryable(&anthropic.APIError{Type: "permission_error"}))
	assert.True(t, IsRetryable(&anthropic.APIError{Type: "rate_limit_error"}))
	assert.True(t, IsRetryable(&anthropic.APIError{Type: "overloaded_error"}))

	assert.False(t, IsRetryable(&anthropic.RequestError{StatusCode: 403}))
	assert.True(t, IsRetryable(&anthropic.RequestError{StatusCode: 529}))
}

func TestIsRetryableGoogle(t *testing.T) {
	assert.False(t, IsRetryable(&googleapi.Error{Code: 403}))
	assert.True(t, IsRetryable(&googleapi.Error{Code: 429}))
	assert.True(t, IsRetryable(&googleapi.Error{Code: 503}))
}

func TestIsRetryableMessageFallback(t *testing.T) {
	// Plain errors from an SDK get classified by message.
	assert.False(t, IsRetryable(errors.New("Unauthorized: check your key")))
	assert.False(t, IsRetryable(errors.New("invalid api key provided")))
	assert.False(t, IsRetryable(errors.New("permission denied for model")))
	assert.False(t, IsRetryable(errors.New("model_not_found")))

	assert.True(t, IsRetryable(errors.New("connection reset by peer")))
	assert.True(t, IsRetryable(errors.New("server overloaded, try again")))
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Reason: "ai.model is required"}
	assert.Equal(t, "ai configuration: ai.model is required", err.Error())
}

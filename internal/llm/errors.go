package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

// ConfigError marks a provider setup problem such as a missing key,
// endpoint or an unsupported provider name. It is never retried and aborts
// the run.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("ai configuration: %s", e.Reason)
}

// IsRetryable reports whether a failed provider call is worth another
// attempt. Rate limits, server errors and timeouts are transient; auth,
// permission and malformed-request failures are final.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	// A per-call deadline firing means a slow provider, not a dead run.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var oaAPIErr *openai.APIError
	if errors.As(err, &oaAPIErr) {
		return retryableStatus(oaAPIErr.HTTPStatusCode)
	}
	var oaReqErr *openai.RequestError
	if errors.As(err, &oaReqErr) {
		return retryableStatus(oaReqErr.HTTPStatusCode)
	}

	var anAPIErr *anthropic.APIError
	if errors.As(err, &anAPIErr) {
		switch {
		case anAPIErr.IsInvalidRequestErr(), anAPIErr.IsAuthenticationErr(),
			anAPIErr.IsPermissionErr(), anAPIErr.IsNotFoundErr():
			return false
		default:
			return true
		}
	}
	var anReqErr *anthropic.RequestError
	if errors.As(err, &anReqErr) {
		return retryableStatus(anReqErr.StatusCode)
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return retryableStatus(gErr.Code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// SDKs occasionally surface plain errors; fall back to message sniffing.
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"unauthorized", "invalid api key", "authentication",
		"permission denied", "model_not_found",
	} {
		if strings.Contains(msg, marker) {
			return false
		}
	}
	return true
}

// retryableStatus treats client errors as final and everything else,
// including rate limits and server trouble, as transient.
func retryableStatus(code int) bool {
	switch code {
	case 400, 401, 403, 404:
		return false
	}
	return true
}

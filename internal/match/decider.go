package match

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aghaapesar/match-url-ai/internal/llm"
)

const (
	decisionMaxTokens = 400
	maxBackoff        = 30 * time.Second
)

// DeciderConfig bounds one decision call chain.
type DeciderConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Timeout     time.Duration
}

// Decider obtains one validated decision per old URL from the provider. It
// retries transient provider failures and rejected answers with exponential
// backoff, always behind the shared rate limiter, and degrades to an
// unresolved decision when the attempt budget runs out. Only fatal
// provider errors and cancellation surface to the caller.
type Decider struct {
	client  llm.Client
	limiter *Limiter
	cfg     DeciderConfig
	logger  *slog.Logger
}

func NewDecider(client llm.Client, limiter *Limiter, cfg DeciderConfig, logger *slog.Logger) *Decider {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Decider{client: client, limiter: limiter, cfg: cfg, logger: logger}
}

// rawDecision mirrors the JSON contract with the provider. Confidence stays
// raw so malformed values are coerced instead of failing the decode.
type rawDecision struct {
	BestNewURL string          `json:"best_new_url"`
	Confidence json.RawMessage `json:"confidence"`
	Rationale  string          `json:"rationale"`
}

// Decide returns a well-formed Decision for old in every case. A non-nil
// error means the run should stop: either a fatal provider error or the
// context ended. Transient trouble never produces an error, only an
// unresolved decision after the budget is spent.
func (d *Decider) Decide(ctx context.Context, old OldURL, candidates []ScoredCandidate) (Decision, error) {
	urls := candidateURLs(candidates)
	if len(urls) == 0 {
		return unresolvedDecision("unresolved: no candidates available", nil), nil
	}
	system, user := BuildPrompt(old, candidates)

	var lastErr error
	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepFor(ctx, backoffDelay(d.cfg.BaseDelay, attempt-1)); err != nil {
				return unresolvedDecision("unresolved: run canceled", urls), err
			}
		}
		if err := d.limiter.Wait(ctx); err != nil {
			return unresolvedDecision("unresolved: run canceled", urls), err
		}

		raw, err := d.chat(ctx, system, user)
		if err != nil {
			if ctx.Err() != nil {
				return unresolvedDecision("unresolved: run canceled", urls), ctx.Err()
			}
			if !llm.IsRetryable(err) {
				return unresolvedDecision(fmt.Sprintf("unresolved: fatal provider error: %v", err), urls), err
			}
			lastErr = err
			d.logger.Warn("provider call failed",
				"row", old.Row, "attempt", attempt, "error", err)
			continue
		}

		decision, err := validateDecision(raw, urls)
		if err != nil {
			lastErr = err
			d.logger.Warn("rejected provider answer",
				"row", old.Row, "attempt", attempt, "error", err)
			continue
		}
		decision.Candidates = urls
		return decision, nil
	}

	return unresolvedDecision(
		fmt.Sprintf("unresolved: %d attempts failed, last error: %v", d.cfg.MaxAttempts, lastErr),
		urls,
	), nil
}

// chat issues one provider call under the per-attempt timeout.
func (d *Decider) chat(ctx context.Context, system, user string) (string, error) {
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}
	return d.client.ChatJSON(ctx, system, user, decisionMaxTokens)
}

// validateDecision enforces the answer contract: a parseable JSON object
// whose best_new_url is exactly one of the presented candidates. Anything
// else is a retryable failure so the provider gets another chance.
func validateDecision(raw string, urls []string) (Decision, error) {
	parsed, err := llm.ParseJSON[rawDecision](raw)
	if err != nil {
		return Decision{}, err
	}
	best := strings.TrimSpace(parsed.BestNewURL)
	if !slices.Contains(urls, best) {
		return Decision{}, fmt.Errorf("best_new_url %q is not among the %d presented candidates", best, len(urls))
	}
	return Decision{
		BestNewURL: best,
		Confidence: coerceConfidence(parsed.Confidence),
		Rationale:  strings.TrimSpace(parsed.Rationale),
	}, nil
}

// coerceConfidence turns whatever the provider sent into a float in [0,1].
// Numbers are clamped, numeric strings are parsed, everything else is 0.
func coerceConfidence(raw json.RawMessage) float64 {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		f = parsed
	}
	return clampConfidence(f)
}

func clampConfidence(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// backoffDelay returns the pause after the n-th consecutive failure,
// growing base*2^(n-1) and capped at 30 seconds.
func backoffDelay(base time.Duration, failures int) time.Duration {
	if base <= 0 || failures <= 0 {
		return 0
	}
	d := base
	for i := 1; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

func unresolvedDecision(rationale string, urls []string) Decision {
	return Decision{Confidence: 0, Rationale: rationale, Candidates: urls}
}

func candidateURLs(candidates []ScoredCandidate) []string {
	if len(candidates) == 0 {
		return nil
	}
	urls := make([]string, len(candidates))
	for i, sc := range candidates {
		urls[i] = sc.Candidate.URL
	}
	return urls
}

package match

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// stubReply is one scripted provider answer.
type stubReply struct {
	Text string
	Err  error
}

// stubClient replays queued replies in order, then falls back to Reply (when
// set) or the fixed Response. Safe for concurrent workers.
type stubClient struct {
	mu       sync.Mutex
	Queue    []stubReply
	Reply    func(user string) (string, error)
	Response string
	Calls    int
}

func (c *stubClient) ChatJSON(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if len(c.Queue) > 0 {
		reply := c.Queue[0]
		c.Queue = c.Queue[1:]
		return reply.Text, reply.Err
	}
	if c.Reply != nil {
		return c.Reply(user)
	}
	return c.Response, nil
}

func decisionJSON(url string, confidence, rationale string) string {
	return fmt.Sprintf(`{"best_new_url": %q, "confidence": %s, "rationale": %q}`, url, confidence, rationale)
}

// pickFirstCandidate answers with the top-ranked URL from the prompt, which
// makes a multi-row run deterministic without scripting every reply.
func pickFirstCandidate(user string) (string, error) {
	for _, line := range strings.Split(user, "\n") {
		if after, ok := strings.CutPrefix(line, "- "); ok {
			return decisionJSON(strings.TrimSpace(after), "0.9", "top candidate"), nil
		}
	}
	return "", fmt.Errorf("no candidate lines in prompt")
}

// scoredFrom wraps raw URLs as an ordered candidate list for decider tests.
func scoredFrom(urls ...string) []ScoredCandidate {
	scored := make([]ScoredCandidate, len(urls))
	for i, u := range urls {
		c := NewCandidate(u)
		scored[i] = ScoredCandidate{Candidate: &c, Score: 1 - float64(i)*0.05}
	}
	return scored
}

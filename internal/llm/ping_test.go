package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeClient struct {
	response string
	err      error
}

func (f *fakeClient) ChatJSON(ctx context.Context, system, user string, maxTokens int) (string, error) {
	return f.response, f.err
}

func TestPing(t *testing.T) {
	reply, err := Ping(context.Background(), &fakeClient{response: `Sure! {"status": "success"}`})
	assert.NoError(t, err)
	assert.Equal(t, `{"status": "success"}`, reply)
}

func TestPingNonJSONReply(t *testing.T) {
	_, err := Ping(context.Background(), &fakeClient{response: "hello, how can I help?"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not with JSON")
}

func TestPingProviderError(t *testing.T) {
	_, err := Ping(context.Background(), &fakeClient{err: errors.New("boom")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

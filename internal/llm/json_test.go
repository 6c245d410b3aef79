package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	// Bare object.
	obj, err := ExtractJSONObject(`{"a": 1}`)
	assert.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, obj)

	// Markdown fences and prose around the payload.
	obj, err = ExtractJSONObject("Sure, here is the answer:\n```json\n{\"a\": 1}\n```\nLet me know!")
	assert.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, obj)

	// Braces inside string values must not end the scan early.
	obj, err = ExtractJSONObject(`{"text": "a {nested} brace }"}`)
	assert.NoError(t, err)
	assert.Equal(t, `{"text": "a {nested} brace }"}`, obj)

	// Escaped quotes inside strings.
	obj, err = ExtractJSONObject(`{"text": "she said \"hi\""}`)
	assert.NoError(t, err)
	assert.Equal(t, `{"text": "she said \"hi\""}`, obj)

	// A balanced but invalid span is skipped in favor of a later valid one.
	obj, err = ExtractJSONObject(`{not json} {"a": 1}`)
	assert.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, obj)

	// Nested objects come back whole.
	obj, err = ExtractJSONObject(`prefix {"a": {"b": 2}} suffix`)
	assert.NoError(t, err)
	assert.Equal(t, `{"a": {"b": 2}}`, obj)
}

func TestExtractJSONObjectNoObject(t *testing.T) {
	_, err := ExtractJSONObject("no object here at all")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no JSON object found")

	_, err = ExtractJSONObject("{unclosed")
	assert.Error(t, err)

	_, err = ExtractJSONObject("")
	assert.Error(t, err)
}

func TestParseJSON(t *testing.T) {
	type answer struct {
		BestNewURL string  `json:"best_new_url"`
		Confidence float64 `json:"confidence"`
	}

	parsed, err := ParseJSON[answer](
		"The best match is:\n" + `{"best_new_url": "https://n.example/shop", "confidence": 0.8}`)
	assert.NoError(t, err)
	assert.Equal(t, "https://n.example/shop", parsed.BestNewURL)
	assert.InDelta(t, 0.8, parsed.Confidence, 1e-9)

	// A JSON object whose shape does not fit T fails the unmarshal.
	_, err = ParseJSON[answer](`{"confidence": "not a number"}`)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal JSON")

	_, err = ParseJSON[answer]("nothing to parse")
	assert.Error(t, err)
}

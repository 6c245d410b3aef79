package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSONObject returns the first balanced JSON object embedded in text.
// Providers often wrap the payload in prose or markdown fences, and a brace
// inside a string literal must not end the scan, so the walk tracks string
// and escape state and validates each balanced span before accepting it.
func ExtractJSONObject(text string) (string, error) {
	for from := 0; from < len(text); {
		start := strings.IndexByte(text[from:], '{')
		if start < 0 {
			break
		}
		start += from

		depth := 0
		inString := false
		escaped := false
		for i := start; i < len(text); i++ {
			c := text[i]
			switch {
			case escaped:
				escaped = false
			case c == '\\' && inString:
				escaped = true
			case c == '"':
				inString = !inString
			case inString:
			case c == '{':
				depth++
			case c == '}':
				depth--
				if depth == 0 {
					candidate := text[start : i+1]
					if json.Valid([]byte(candidate)) {
						return candidate, nil
					}
					// Balanced but malformed; resume from the next '{'.
					i = len(text)
				}
			}
		}
		from = start + 1
	}
	return "", fmt.Errorf("no JSON object found in response")
}

// ParseJSON extracts the first JSON object from a model response and
// unmarshals it into a type T. It tolerates surrounding markdown or extra
// text.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	obj, err := ExtractJSONObject(response)
	if err != nil {
		return zero, err
	}

	var result T
	if err := json.Unmarshal([]byte(obj), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}

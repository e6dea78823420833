// Package parse extracts JSON from free-form model output. Model responses
// routinely wrap JSON in prose or markdown fences, so extraction failure is an
// expected condition reported as a tagged result, never as a panic or error.
package parse

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FailureKind tags why extraction failed.
type FailureKind string

const (
	// FailureNone means extraction succeeded.
	FailureNone FailureKind = ""
	// FailureInvalidJSON means a JSON-looking span was found but did not parse.
	FailureInvalidJSON FailureKind = "invalid_json"
	// FailureNoJSON means the text contains nothing resembling a JSON object.
	FailureNoJSON FailureKind = "no_json"
)

// Result carries either the decoded JSON value or a tagged failure plus the
// raw text it came from.
type Result struct {
	Value any
	Kind  FailureKind
	Raw   string
}

// OK reports whether extraction succeeded.
func (r Result) OK() bool { return r.Kind == FailureNone }

// MarshalJSON renders a successful result as the decoded value and a failed
// one as an error-shaped object, so a Result can sit directly in a response
// slot.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.OK() {
		return json.Marshal(r.Value)
	}
	return json.Marshal(map[string]string{
		"error": string(r.Kind),
		"raw":   r.Raw,
	})
}

// Extract pulls the first JSON value out of text. It tries a direct parse,
// then strips markdown fences and takes the greedy first-{ to last-} span.
func Extract(text string) Result {
	trimmed := strings.TrimSpace(text)

	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
		return Result{Value: v, Raw: text}
	}

	span, found := objectSpan(trimmed)
	if !found {
		return Result{Kind: FailureNoJSON, Raw: text}
	}
	if err := json.Unmarshal([]byte(span), &v); err != nil {
		return Result{Kind: FailureInvalidJSON, Raw: text}
	}
	return Result{Value: v, Raw: text}
}

// ExtractInto decodes the first JSON value in text into target.
func ExtractInto(text string, target any) error {
	r := Extract(text)
	if !r.OK() {
		return fmt.Errorf("extracting json: %s", r.Kind)
	}
	data, err := json.Marshal(r.Value)
	if err != nil {
		return fmt.Errorf("re-encoding extracted json: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decoding extracted json: %w", err)
	}
	return nil
}

// objectSpan returns the greedy first-{ to last-} slice of text after
// removing markdown code fences.
func objectSpan(text string) (string, bool) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return strings.TrimSpace(text[start : end+1]), true
}

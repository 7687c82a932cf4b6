package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")

// Trailing commas before a closing brace or bracket, which some models
// emit despite instructions.
var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// ParseStructured extracts the first JSON object from free-form model
// text and decodes it into T. It tolerates surrounding prose, fenced
// code blocks with or without a language tag, and trailing commas. On
// any failure it returns ErrUnparseable; it never returns a partially
// filled value as valid.
func ParseStructured[T any](raw string) (T, error) {
	var zero T

	candidate := extractJSON(raw)
	if candidate == "" {
		return zero, fmt.Errorf("%w: no JSON object found", ErrUnparseable)
	}

	var out T
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		// Retry once with trailing commas stripped.
		cleaned := trailingCommaRe.ReplaceAllString(candidate, "$1")
		if err2 := json.Unmarshal([]byte(cleaned), &out); err2 != nil {
			return zero, fmt.Errorf("%w: %v", ErrUnparseable, err)
		}
	}
	return out, nil
}

// extractJSON locates the most plausible JSON object in raw text: a
// fenced block first, then the outermost brace pair.
func extractJSON(raw string) string {
	text := strings.TrimSpace(raw)

	if m := fenceRe.FindStringSubmatch(text); m != nil {
		inner := strings.TrimSpace(m[1])
		if strings.HasPrefix(inner, "{") || strings.HasPrefix(inner, "[") {
			return inner
		}
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}
	closer := byte('}')
	if text[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(text, closer)
	if end <= start {
		return ""
	}
	return text[start : end+1]
}

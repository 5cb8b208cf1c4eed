package llm

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var thinkBlock = regexp.MustCompile(`(?is)<think>.*?</think>`)

// Text runs a free-text completion and strips reasoning blocks from the reply.
func Text(ctx context.Context, c Client, prompt string) (string, error) {
	out, err := c.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(thinkBlock.ReplaceAllString(out, "")), nil
}

// Generate asks c for a reply conforming to schema, validates it and decodes it into T.
func Generate[T any](ctx context.Context, c Client, prompt string, schema *Schema) (T, error) {
	var out T

	raw, err := c.CompleteJSON(ctx, prompt, schema)
	if err != nil {
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			return out, err
		}
		return out, &GenerationError{Schema: schema.Name, Op: "complete", Err: err}
	}

	data := ExtractJSON(raw)

	var instance any
	if err := json.Unmarshal([]byte(data), &instance); err != nil {
		return out, &GenerationError{Schema: schema.Name, Op: "decode", Err: err}
	}
	if err := schema.Validate(instance); err != nil {
		return out, &GenerationError{Schema: schema.Name, Op: "validate", Err: err}
	}
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return out, &GenerationError{Schema: schema.Name, Op: "decode", Err: err}
	}
	return out, nil
}

// ExtractJSON pulls the JSON object out of a model reply: reasoning blocks and
// Markdown code fences are removed, and any prose around the outermost
// braces is dropped.
func ExtractJSON(reply string) string {
	s := thinkBlock.ReplaceAllString(reply, "")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

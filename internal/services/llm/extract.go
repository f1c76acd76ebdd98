package llm

import (
	"errors"
	"strings"
)

// ErrNoPayload indicates no JSON value could be located in the content.
var ErrNoPayload = errors.New("no json payload found")

// ExtractObject locates the first JSON object embedded in model output.
// A leading code fence is stripped, then a balanced-brace scan finds the
// matching close of the first '{' so trailing commentary is ignored.
func ExtractObject(content string) (string, error) {
	content = stripCodeFence(content)

	start := strings.IndexByte(content, '{')
	if start < 0 {
		return "", ErrNoPayload
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		ch := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1], nil
			}
		}
	}
	return "", ErrNoPayload
}

// ExtractArray locates a JSON array embedded in model output by taking the
// span from the first '[' to the last ']'. This mirrors the behavior the
// ranking stage depends on; it can misfire when a string value contains a
// literal ']', so callers treat extraction failure as recoverable.
func ExtractArray(content string) (string, error) {
	content = stripCodeFence(content)

	start := strings.IndexByte(content, '[')
	end := strings.LastIndexByte(content, ']')
	if start < 0 || end <= start {
		return "", ErrNoPayload
	}
	return content[start : end+1], nil
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if idx := strings.Index(content, "```json"); idx >= 0 {
		body := content[idx+len("```json"):]
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		return strings.TrimSpace(body)
	}
	if idx := strings.Index(content, "```"); idx >= 0 {
		body := content[idx+3:]
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		return strings.TrimSpace(body)
	}
	return content
}

package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

// ExtractJSON returns the text between the first '{' and the last '}'.
// Models often wrap JSON in prose or markdown fences.
func ExtractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("%w: no JSON object found", domain.ErrMalformedOutput)
	}
	return s[start : end+1], nil
}

// ParseExtraction decodes and schema-checks an extraction reply.
// Every failure wraps domain.ErrMalformedOutput.
func ParseExtraction(reply string) (domain.Extraction, error) {
	raw, err := ExtractJSON(reply)
	if err != nil {
		return domain.Extraction{}, err
	}

	var ext domain.Extraction
	if err := json.Unmarshal([]byte(raw), &ext); err != nil {
		return domain.Extraction{}, fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	}

	ext = ext.Normalized()
	if err := ext.Validate(); err != nil {
		return domain.Extraction{}, err
	}
	return ext, nil
}

// CleanReply trims whitespace and surrounding quotes from a cleaning reply.
// An empty result wraps domain.ErrMalformedOutput.
func CleanReply(reply string) (string, error) {
	out := strings.TrimSpace(reply)
	out = strings.Trim(out, `"`)
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%w: empty cleaning reply", domain.ErrMalformedOutput)
	}
	return out, nil
}

package domain

import (
	"fmt"
	"strings"
)

// Extraction is the structured summary of a cleaned transcript.
type Extraction struct {
	Summary   string    `json:"summary"`
	Blockers  []string  `json:"blockers"`
	Progress  []string  `json:"progress"`
	NextSteps []string  `json:"next_steps"`
	Sentiment Sentiment `json:"sentiment"`
}

// FallbackExtraction is used when the model reply cannot be trusted:
// the cleaned text becomes the summary and every list is empty.
func FallbackExtraction(cleaned string) Extraction {
	return Extraction{
		Summary:   cleaned,
		Blockers:  []string{},
		Progress:  []string{},
		NextSteps: []string{},
		Sentiment: SentimentNeutral,
	}
}

// Validate checks the extraction against its schema. Violations wrap
// ErrMalformedOutput.
func (e Extraction) Validate() error {
	if strings.TrimSpace(e.Summary) == "" {
		return fmt.Errorf("%w: summary is empty", ErrMalformedOutput)
	}
	if !e.Sentiment.IsValid() {
		return fmt.Errorf("%w: sentiment %q", ErrMalformedOutput, e.Sentiment)
	}
	for name, list := range map[string][]string{
		"blockers":   e.Blockers,
		"progress":   e.Progress,
		"next_steps": e.NextSteps,
	} {
		for i, item := range list {
			if strings.TrimSpace(item) == "" {
				return fmt.Errorf("%w: %s[%d] is empty", ErrMalformedOutput, name, i)
			}
		}
	}
	return nil
}

// Normalized trims every field and replaces nil lists with empty ones.
func (e Extraction) Normalized() Extraction {
	return Extraction{
		Summary:   strings.TrimSpace(e.Summary),
		Blockers:  trimAll(e.Blockers),
		Progress:  trimAll(e.Progress),
		NextSteps: trimAll(e.NextSteps),
		Sentiment: Sentiment(strings.ToLower(strings.TrimSpace(string(e.Sentiment)))),
	}
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

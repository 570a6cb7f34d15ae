package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

func (s *Service) transcribe(ctx context.Context, audioPath string) Outcome[string] {
	text, err := s.deps.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return failed[string](err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return failed[string](domain.ErrEmptyTranscript)
	}
	return ok(text)
}

// clean sends the transcript to the model chunk by chunk. A chunk the model
// fails on is kept as is.
func (s *Service) clean(ctx context.Context, raw string) Outcome[string] {
	chunks := ChunkText(raw, s.cfg.ChunkSize)
	cleaned := make([]string, len(chunks))

	var (
		kept     int
		firstErr error
	)
	for i, chunk := range chunks {
		out, err := s.deps.LLM.Clean(ctx, chunk)
		if err != nil {
			if ctx.Err() != nil {
				return failed[string](ctx.Err())
			}
			if firstErr == nil {
				firstErr = err
			}
			kept++
			cleaned[i] = chunk
			continue
		}
		cleaned[i] = out
	}

	text := strings.Join(cleaned, " ")
	if kept > 0 {
		return degraded(text, fmt.Sprintf("%d of %d chunks kept raw: %v", kept, len(chunks), firstErr))
	}
	return ok(text)
}

// extract asks the model for the structured summary. An unusable reply
// falls back to the cleaned text with empty lists; a transport error fails.
func (s *Service) extract(ctx context.Context, cleaned string) Outcome[domain.Extraction] {
	ext, err := s.deps.LLM.Extract(ctx, cleaned)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedOutput) {
			return degraded(domain.FallbackExtraction(cleaned), err.Error())
		}
		return failed[domain.Extraction](err)
	}
	return ok(ext)
}

// classify returns the highest scoring label for the leading part of the
// text. Ties go to the label reported first.
func (s *Service) classify(ctx context.Context, cleaned string) Outcome[domain.Emotion] {
	scores, err := s.deps.Classifier.Scores(ctx, truncateRunes(cleaned, s.cfg.ClassifierMaxChars))
	if err != nil {
		return failed[domain.Emotion](err)
	}

	label, err := Dominant(scores)
	if err != nil {
		return failed[domain.Emotion](err)
	}
	return ok(label)
}

// Dominant returns the label with the strictly highest score, first wins ties.
func Dominant(scores []domain.EmotionScore) (domain.Emotion, error) {
	if len(scores) == 0 {
		return "", fmt.Errorf("%w: no emotion scores", domain.ErrMalformedOutput)
	}
	best := scores[0]
	for _, sc := range scores[1:] {
		if sc.Score > best.Score {
			best = sc
		}
	}
	if !best.Label.IsValid() {
		return "", fmt.Errorf("%w: unknown emotion label %q", domain.ErrMalformedOutput, best.Label)
	}
	return best.Label, nil
}

// ticket files an issue for the first blocker. Returns a nil URL when
// there is nothing to file or no tracker is configured.
func (s *Service) ticket(ctx context.Context, sourceName, cleaned string, ext domain.Extraction) Outcome[*string] {
	if len(ext.Blockers) == 0 || s.deps.Tickets == nil {
		return ok[*string](nil)
	}

	t, err := s.deps.Tickets.CreateTicket(ctx, ext.Blockers[0], TicketDescription(sourceName, cleaned, ext.Summary))
	if err != nil {
		return degraded[*string](nil, fmt.Sprintf("ticket not created: %v", err))
	}
	return ok(&t.URL)
}

// TicketDescription is the body of a blocker ticket.
func TicketDescription(sourceName, transcript, summary string) string {
	return fmt.Sprintf("Audio file: %s\nTranscript: %s\nSummary: %s", sourceName, transcript, summary)
}

func (s *Service) persist(ctx context.Context, rec *domain.VoiceRecord) Outcome[*domain.VoiceRecord] {
	saved, err := s.deps.Records.Create(ctx, rec)
	if err != nil {
		return failed[*domain.VoiceRecord](err)
	}
	return ok(saved)
}

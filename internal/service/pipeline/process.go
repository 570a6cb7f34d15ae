package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

// Process runs every stage for one recording and stores the resulting
// record. The returned error, if any, is a *domain.StageError naming the
// stage that aborted the run; later stages did not run.
func (s *Service) Process(ctx context.Context, jobID uuid.UUID, in domain.ProcessAudioPayload) (domain.ProcessAudioResult, error) {
	start := time.Now()
	r := &run{
		log:            s.log.With(slog.String("job_id", jobID.String())),
		failOnDegraded: s.cfg.FailOnDegraded,
	}

	raw, err := settle(ctx, r, domain.StageTranscribe, s.transcribe(ctx, in.AudioPath))
	if err != nil {
		return domain.ProcessAudioResult{}, err
	}
	r.log.DebugContext(ctx, "transcribed", slog.Int("chars", len(raw)))

	cleaned, err := settle(ctx, r, domain.StageClean, s.clean(ctx, raw))
	if err != nil {
		return domain.ProcessAudioResult{}, err
	}

	ext, err := settle(ctx, r, domain.StageExtract, s.extract(ctx, cleaned))
	if err != nil {
		return domain.ProcessAudioResult{}, err
	}

	emotion, err := settle(ctx, r, domain.StageClassify, s.classify(ctx, cleaned))
	if err != nil {
		return domain.ProcessAudioResult{}, err
	}

	ticketURL, err := settle(ctx, r, domain.StageTicket, s.ticket(ctx, in.DisplayName, cleaned, ext))
	if err != nil {
		return domain.ProcessAudioResult{}, err
	}

	saved, err := settle(ctx, r, domain.StagePersist, s.persist(ctx, &domain.VoiceRecord{
		JobID:      jobID,
		SourceName: in.DisplayName,
		Transcript: cleaned,
		Summary:    ext.Summary,
		Emotion:    emotion,
		Progress:   ext.Progress,
		NextSteps:  ext.NextSteps,
		Blockers:   ext.Blockers,
		TicketURL:  ticketURL,
		CreatedAt:  s.now().UTC(),
	}))
	if err != nil {
		return domain.ProcessAudioResult{}, err
	}

	r.log.InfoContext(ctx, "audio processed",
		slog.Int64("record_id", saved.ID),
		slog.String("emotion", string(emotion)),
		slog.Int("blockers", len(ext.Blockers)),
		slog.Int("degradations", len(r.degradations)),
		slog.Duration("took", time.Since(start)),
	)

	return domain.ProcessAudioResult{RecordID: saved.ID, Degradations: r.degradations}, nil
}

// HandleJob runs a process_audio job and returns its encoded result.
func (s *Service) HandleJob(ctx context.Context, j *domain.Job) (json.RawMessage, error) {
	var in domain.ProcessAudioPayload
	if err := json.Unmarshal(j.Payload, &in); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if in.AudioPath == "" {
		return nil, domain.NewValidationError("audio_path", "required")
	}

	res, err := s.Process(ctx, j.ID, in)
	if err != nil {
		return nil, err
	}

	out, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return out, nil
}

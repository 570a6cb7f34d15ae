package domain

import (
	"time"

	"github.com/google/uuid"
)

// VoiceRecord is a processed standup recording. Records are never updated.
type VoiceRecord struct {
	ID         int64     `json:"id"`
	JobID      uuid.UUID `json:"job_id"`
	SourceName string    `json:"filename"`
	Transcript string    `json:"transcript"`
	Summary    string    `json:"summary"`
	Emotion    Emotion   `json:"emotion"`
	Progress   []string  `json:"progress"`
	NextSteps  []string  `json:"next_steps"`
	Blockers   []string  `json:"blockers"`
	TicketURL  *string   `json:"jira_issue_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

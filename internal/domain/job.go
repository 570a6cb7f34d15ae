package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a queued job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRunning, JobStatusSucceeded, JobStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the job has finished, successfully or not.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed
}

// Task names a kind of job a worker knows how to run.
type Task string

const (
	TaskProcessAudio  Task = "process_audio"
	TaskTrendAnalysis Task = "trend_analysis"
)

func (t Task) IsValid() bool {
	return t == TaskProcessAudio || t == TaskTrendAnalysis
}

// Job is a unit of work owned by the job queue.
type Job struct {
	ID          uuid.UUID
	Task        Task
	Payload     json.RawMessage
	Status      JobStatus
	Result      json.RawMessage
	Error       *string
	ErrorStage  *Stage
	Attempts    int
	MaxAttempts int
	LockedUntil *time.Time
	EnqueuedAt  time.Time
	StartedAt   *time.Time
	FinishedAt  *time.Time
	ExpiresAt   *time.Time
}

// Expired reports whether a finished job has outlived its retention window.
// Jobs that have not finished never expire.
func (j *Job) Expired(now time.Time) bool {
	return j.Status.IsTerminal() && j.ExpiresAt != nil && !now.Before(*j.ExpiresAt)
}

// ProcessAudioPayload is the payload of a process_audio job.
type ProcessAudioPayload struct {
	AudioPath   string `json:"audio_path"`
	DisplayName string `json:"display_name"`
}

// ProcessAudioResult is the result of a successful process_audio job.
type ProcessAudioResult struct {
	RecordID     int64         `json:"record_id"`
	Degradations []Degradation `json:"degradations,omitempty"`
}

// TrendAnalysisPayload is the payload of a trend_analysis job.
// Zero WindowDays scans every record.
type TrendAnalysisPayload struct {
	WindowDays int `json:"window_days,omitempty"`
}

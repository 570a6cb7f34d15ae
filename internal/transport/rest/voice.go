package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
	"github.com/heartmarshall/scrumbot-backend/internal/service/intake"
)

const uploadMessage = "Processing started. This may take a few seconds."

type intakeService interface {
	SubmitAudio(ctx context.Context, in intake.SubmitInput) (*intake.Submitted, error)
	SubmitTrends(ctx context.Context, windowDays int) (uuid.UUID, error)
}

type jobStatusService interface {
	Status(ctx context.Context, id uuid.UUID) (*domain.Job, error)
}

type voicelogService interface {
	List(ctx context.Context) ([]domain.VoiceRecord, error)
	Get(ctx context.Context, id int64) (*domain.VoiceRecord, error)
}

// VoiceHandler serves upload, job polling and record endpoints.
type VoiceHandler struct {
	intake intakeService
	jobs   jobStatusService
	logs   voicelogService
	log    *slog.Logger
}

// NewVoiceHandler creates a VoiceHandler.
func NewVoiceHandler(intake intakeService, jobs jobStatusService, logs voicelogService, logger *slog.Logger) *VoiceHandler {
	return &VoiceHandler{
		intake: intake,
		jobs:   jobs,
		logs:   logs,
		log:    logger.With("handler", "voice"),
	}
}

type uploadResponse struct {
	JobID   string `json:"job_id"`
	File    string `json:"file"`
	Message string `json:"message"`
}

// UploadAudio streams the multipart "file" part to storage and queues it.
// POST /api/upload_audio
func (h *VoiceHandler) UploadAudio(w http.ResponseWriter, r *http.Request) {
	part, err := filePart(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer part.Close()

	sub, err := h.intake.SubmitAudio(r.Context(), intake.SubmitInput{
		FileName: part.FileName(),
		Body:     part,
	})
	if err != nil {
		handleError(h.log, w, r, err, "not found")
		return
	}

	writeJSON(w, http.StatusAccepted, uploadResponse{
		JobID:   sub.JobID.String(),
		File:    sub.StoredName,
		Message: uploadMessage,
	})
}

// filePart returns the first multipart part named "file".
func filePart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, errors.New("expected multipart/form-data body")
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, errors.New(`missing "file" field`)
		}
		if err != nil {
			return nil, fmt.Errorf("read multipart body: %w", err)
		}
		if part.FormName() == "file" {
			return part, nil
		}
		part.Close()
	}
}

type taskStatusResponse struct {
	Status       string          `json:"status"`
	Result       json.RawMessage `json:"result,omitempty"`
	LogURL       string          `json:"log_url,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	FailedStage  string          `json:"failed_stage,omitempty"`
}

// TaskStatus reports a job as pending, success or failure.
// GET /api/task_status/{id}
func (h *VoiceHandler) TaskStatus(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusNotFound, "Job not found: "+raw)
		return
	}

	j, err := h.jobs.Status(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err, "Job not found: "+raw)
		return
	}

	writeJSON(w, http.StatusOK, toTaskStatus(j))
}

func toTaskStatus(j *domain.Job) taskStatusResponse {
	switch j.Status {
	case domain.JobStatusSucceeded:
		resp := taskStatusResponse{Status: "success", Result: j.Result}
		if j.Task == domain.TaskProcessAudio {
			var res domain.ProcessAudioResult
			if err := json.Unmarshal(j.Result, &res); err == nil && res.RecordID > 0 {
				resp.LogURL = "/logs/" + strconv.FormatInt(res.RecordID, 10)
			}
		}
		return resp
	case domain.JobStatusFailed:
		resp := taskStatusResponse{Status: "failure"}
		if j.Error != nil {
			resp.ErrorMessage = *j.Error
		}
		if j.ErrorStage != nil {
			resp.FailedStage = string(*j.ErrorStage)
		}
		return resp
	default:
		return taskStatusResponse{Status: "pending"}
	}
}

// Logs lists every record, newest first.
// GET /api/logs
func (h *VoiceHandler) Logs(w http.ResponseWriter, r *http.Request) {
	records, err := h.logs.List(r.Context())
	if err != nil {
		handleError(h.log, w, r, err, "No logs found")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Log returns a single record.
// GET /api/logs/{id}
func (h *VoiceHandler) Log(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	rec, err := h.logs.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err, "Log not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

package rest

import (
	"context"
	"log/slog"
	"net/http"

	jobsvc "github.com/heartmarshall/scrumbot-backend/internal/service/job"
)

type queueStatsService interface {
	Stats(ctx context.Context) (jobsvc.Stats, error)
}

// AdminHandler serves operator endpoints.
type AdminHandler struct {
	queue queueStatsService
	log   *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(queue queueStatsService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		queue: queue,
		log:   logger.With("handler", "admin"),
	}
}

// QueueStats returns job counts by status.
// GET /admin/queue/stats
func (h *AdminHandler) QueueStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.queue.Stats(r.Context())
	if err != nil {
		handleError(h.log, w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

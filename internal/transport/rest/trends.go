package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

type trendService interface {
	Latest(ctx context.Context) (*domain.TrendsSnapshot, error)
}

type reportService interface {
	Generate(ctx context.Context, days int) (string, error)
}

// InsightsHandler serves trends and the sprint report.
type InsightsHandler struct {
	intake  intakeService
	trends  trendService
	reports reportService
	log     *slog.Logger
}

// NewInsightsHandler creates an InsightsHandler.
func NewInsightsHandler(intake intakeService, trends trendService, reports reportService, logger *slog.Logger) *InsightsHandler {
	return &InsightsHandler{
		intake:  intake,
		trends:  trends,
		reports: reports,
		log:     logger.With("handler", "insights"),
	}
}

type queuedResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// SubmitTrends queues a trend analysis, optionally limited to ?days=N.
// POST /api/trends, GET /api/trends
func (h *InsightsHandler) SubmitTrends(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 0)
	if err != nil {
		handleError(h.log, w, r, err, "")
		return
	}

	id, err := h.intake.SubmitTrends(r.Context(), days)
	if err != nil {
		handleError(h.log, w, r, err, "")
		return
	}
	writeJSON(w, http.StatusAccepted, queuedResponse{JobID: id.String(), Status: "queued"})
}

// LatestTrends returns the cached snapshot.
// GET /api/trends/latest
func (h *InsightsHandler) LatestTrends(w http.ResponseWriter, r *http.Request) {
	snap, err := h.trends.Latest(r.Context())
	if err != nil {
		handleError(h.log, w, r, err, "No trends data available yet.")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Report renders the markdown sprint report for ?days=N (default 7).
// GET /api/report
func (h *InsightsHandler) Report(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 7)
	if err != nil {
		handleError(h.log, w, r, err, "")
		return
	}

	md, err := h.reports.Generate(r.Context(), days)
	if err != nil {
		handleError(h.log, w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"markdown_report": md})
}

package rest

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/scrumbot-backend/internal/config"
	"github.com/heartmarshall/scrumbot-backend/internal/transport/middleware"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Voice    *VoiceHandler
	Insights *InsightsHandler
	Admin    *AdminHandler
	Health   *HealthHandler
}

// NewRouter mounts every route and wraps the mux in the middleware chain
// Recovery, RequestID, Logger, CORS. Uploads are rate limited per client.
func NewRouter(log *slog.Logger, h Handlers, srv config.ServerConfig, cors config.CORSConfig, limiter *middleware.RateLimiter) http.Handler {
	mux := http.NewServeMux()

	upload := limiter.Limit(srv.UploadRatePerMinute)(http.HandlerFunc(h.Voice.UploadAudio))
	mux.Handle("POST /api/upload_audio", upload)
	mux.HandleFunc("GET /api/task_status/{id}", h.Voice.TaskStatus)
	mux.HandleFunc("GET /api/logs", h.Voice.Logs)
	mux.HandleFunc("GET /api/logs/{id}", h.Voice.Log)

	mux.HandleFunc("POST /api/trends", h.Insights.SubmitTrends)
	mux.HandleFunc("GET /api/trends", h.Insights.SubmitTrends)
	mux.HandleFunc("GET /api/trends/latest", h.Insights.LatestTrends)
	mux.HandleFunc("GET /api/report", h.Insights.Report)
	mux.HandleFunc("GET /api/ping", Ping)

	mux.Handle("GET /admin/queue/stats", middleware.AdminToken(srv.AdminToken)(http.HandlerFunc(h.Admin.QueueStats)))

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	return middleware.Chain(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.CORS(cors),
	)(mux)
}

// Ping reports that the API process is up.
// GET /api/ping
func Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "running"})
}

package rest

import (
	"context"
	"net/http"
	"time"
)

const probeTimeout = 3 * time.Second

// Check is a named dependency probe.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// HealthHandler serves liveness, readiness and health endpoints.
type HealthHandler struct {
	checks  []Check
	version string
	now     func() time.Time
}

// NewHealthHandler creates a HealthHandler running checks in order.
func NewHealthHandler(version string, checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks, version: version, now: time.Now}
}

// HealthResponse is the JSON response for /health, /ready and /live.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of a single dependency.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Live always answers 200 while the process serves HTTP.
// GET /live
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: h.now()})
}

// Ready answers 503 as soon as one dependency is down.
// GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	for _, c := range h.checks {
		if err := c.Probe(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "down", Timestamp: h.now()})
			return
		}
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: h.now()})
}

// Health runs every check and reports each with its latency and the build version.
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	components := make(map[string]CompStatus, len(h.checks))
	overall := "ok"

	for _, c := range h.checks {
		start := time.Now()
		err := c.Probe(ctx)
		if err != nil {
			components[c.Name] = CompStatus{Status: "down", Error: err.Error()}
			overall = "down"
			continue
		}
		components[c.Name] = CompStatus{Status: "ok", Latency: time.Since(start).String()}
	}

	status := http.StatusOK
	if overall != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: components,
		Timestamp:  h.now(),
	})
}

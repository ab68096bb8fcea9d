package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/glitchidea/sitebuilder/internal/eventstore"
	"github.com/glitchidea/sitebuilder/internal/server/responses"
	"github.com/glitchidea/sitebuilder/internal/version"
)

// MonitoringHandlers serves health and build history.
type MonitoringHandlers struct {
	start   time.Time
	target  string
	history *eventstore.BuildHistoryProjection
}

// NewMonitoringHandlers creates monitoring handlers. history may be nil.
func NewMonitoringHandlers(target string, history *eventstore.BuildHistoryProjection) *MonitoringHandlers {
	return &MonitoringHandlers{start: time.Now(), target: target, history: history}
}

// HandleHealthCheck reports liveness and the last build, if known.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	resp := responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.start).Seconds(),
		Target:    h.target,
	}
	if h.history != nil {
		if last, ok := h.history.Last(); ok {
			resp.LastBuild = &last
		}
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

// HandleBuilds lists recent builds (?limit=, default 20).
func (h *MonitoringHandlers) HandleBuilds(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			_ = writeJSON(w, http.StatusBadRequest, responses.ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}
	resp := responses.BuildsResponse{Builds: []eventstore.BuildSummary{}}
	if h.history != nil {
		resp.Builds = append(resp.Builds, h.history.History(limit)...)
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

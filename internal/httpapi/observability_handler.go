package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/radekzitek/crudelty/internal/logstore"
	"github.com/radekzitek/crudelty/internal/metrics"
	"github.com/radekzitek/crudelty/internal/storage"
	"github.com/radekzitek/crudelty/internal/utils"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// ObservabilityHandler serves the log query, metrics and health
// endpoints backed by the request logging pipeline.
type ObservabilityHandler struct {
	db    *storage.DB
	store *logstore.Store
	agg   *metrics.Aggregator
}

// NewObservabilityHandler creates a new observability handler
func NewObservabilityHandler(db *storage.DB, store *logstore.Store, agg *metrics.Aggregator) *ObservabilityHandler {
	return &ObservabilityHandler{db: db, store: store, agg: agg}
}

// LogsResponse is the envelope returned by the log query endpoint.
type LogsResponse struct {
	Logs     []*logstore.Entry `json:"logs"`
	Count    int               `json:"count"`
	Degraded bool              `json:"degraded,omitempty"`
}

// HealthResponse reports component availability.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	LogStore  string `json:"log_store"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HandleLogs serves GET /logs
func (h *ObservabilityHandler) HandleLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := r.URL.Query()
	filter := logstore.Filter{
		RequestID: query.Get("request_id"),
		Level:     query.Get("level"),
		Limit:     logstore.DefaultQueryLimit,
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		if limit > logstore.MaxQueryLimit {
			limit = logstore.MaxQueryLimit
		}
		filter.Limit = limit
	}

	if raw := query.Get("start_time"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid start_time parameter")
			return
		}
		filter.StartTime = &start
	}
	if raw := query.Get("end_time"); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid end_time parameter")
			return
		}
		filter.EndTime = &end
	}

	entries, err := h.store.Query(r.Context(), filter)
	if err != nil {
		if errors.Is(err, logstore.ErrUnavailable) {
			utils.RespondWithJSON(w, http.StatusOK, LogsResponse{
				Logs:     []*logstore.Entry{},
				Count:    0,
				Degraded: true,
			})
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to query logs")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, LogsResponse{
		Logs:  entries,
		Count: len(entries),
	})
}

// HandleMetrics serves GET /metrics
func (h *ObservabilityHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, h.agg.Snapshot())
}

// HandleHealth serves GET /health. It always returns 200; component
// failures flip the body's status to "unhealthy", never a 5xx.
func (h *ObservabilityHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	resp := HealthResponse{
		Status:    "healthy",
		Database:  "connected",
		LogStore:  "connected",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
	}

	if err := h.db.Health(r.Context()); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "unavailable"
	}
	if err := h.store.Ping(r.Context()); err != nil {
		resp.Status = "unhealthy"
		resp.LogStore = "unavailable"
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

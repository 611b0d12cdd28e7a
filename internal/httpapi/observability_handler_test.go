package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekzitek/crudelty/internal/logstore"
	"github.com/radekzitek/crudelty/internal/metrics"
)

func setupObservability(t *testing.T) (*ObservabilityHandler, *logstore.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store := logstore.New(logstore.DefaultConfig(mr.Addr()))
	t.Cleanup(func() { store.Close() })

	agg := metrics.New(time.Hour, true)
	return NewObservabilityHandler(nil, store, agg), store, mr
}

func TestHandleLogs(t *testing.T) {
	t.Run("returns stored entries", func(t *testing.T) {
		h, store, _ := setupObservability(t)

		require.NoError(t, store.Append(context.Background(), &logstore.Entry{
			Level:   logstore.LevelInfo,
			Message: "request received",
		}))

		rec := httptest.NewRecorder()
		h.HandleLogs(rec, httptest.NewRequest(http.MethodGet, "/logs", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp LogsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
		assert.False(t, resp.Degraded)
		require.Len(t, resp.Logs, 1)
		assert.Equal(t, "request received", resp.Logs[0].Message)
	})

	t.Run("filters by level", func(t *testing.T) {
		h, store, _ := setupObservability(t)
		ctx := context.Background()

		require.NoError(t, store.Append(ctx, &logstore.Entry{Level: logstore.LevelInfo, Message: "ok"}))
		require.NoError(t, store.Append(ctx, &logstore.Entry{Level: logstore.LevelError, Message: "boom"}))

		rec := httptest.NewRecorder()
		h.HandleLogs(rec, httptest.NewRequest(http.MethodGet, "/logs?level=ERROR", nil))

		var resp LogsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "boom", resp.Logs[0].Message)
	})

	t.Run("filters by request id", func(t *testing.T) {
		h, store, _ := setupObservability(t)
		ctx := context.Background()

		require.NoError(t, store.Append(ctx, &logstore.Entry{Level: logstore.LevelInfo, Message: "mine", RequestID: "req-1"}))
		require.NoError(t, store.Append(ctx, &logstore.Entry{Level: logstore.LevelInfo, Message: "other", RequestID: "req-2"}))

		rec := httptest.NewRecorder()
		h.HandleLogs(rec, httptest.NewRequest(http.MethodGet, "/logs?request_id=req-1", nil))

		var resp LogsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "mine", resp.Logs[0].Message)
	})

	t.Run("oversized limit is clamped, not rejected", func(t *testing.T) {
		h, _, _ := setupObservability(t)

		rec := httptest.NewRecorder()
		h.HandleLogs(rec, httptest.NewRequest(http.MethodGet, "/logs?limit=5000", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid limit is rejected", func(t *testing.T) {
		h, _, _ := setupObservability(t)

		for _, raw := range []string{"0", "-5", "ten"} {
			rec := httptest.NewRecorder()
			h.HandleLogs(rec, httptest.NewRequest(http.MethodGet, "/logs?limit="+raw, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("invalid time bounds are rejected", func(t *testing.T) {
		h, _, _ := setupObservability(t)

		rec := httptest.NewRecorder()
		h.HandleLogs(rec, httptest.NewRequest(http.MethodGet, "/logs?start_time=yesterday", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = httptest.NewRecorder()
		h.HandleLogs(rec, httptest.NewRequest(http.MethodGet, "/logs?end_time=tomorrow", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("time range bounds are honored", func(t *testing.T) {
		h, store, _ := setupObservability(t)
		ctx := context.Background()

		old := time.Now().UTC().Add(-30 * time.Minute)
		require.NoError(t, store.Append(ctx, &logstore.Entry{Timestamp: old, Level: logstore.LevelInfo, Message: "old"}))
		require.NoError(t, store.Append(ctx, &logstore.Entry{Level: logstore.LevelInfo, Message: "new"}))

		start := time.Now().UTC().Add(-10 * time.Minute).Format(time.RFC3339)
		rec := httptest.NewRecorder()
		h.HandleLogs(rec, httptest.NewRequest(http.MethodGet, "/logs?start_time="+start, nil))

		var resp LogsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "new", resp.Logs[0].Message)
	})

	t.Run("unreachable store degrades to an empty page", func(t *testing.T) {
		h, _, mr := setupObservability(t)
		mr.Close()

		rec := httptest.NewRecorder()
		h.HandleLogs(rec, httptest.NewRequest(http.MethodGet, "/logs", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp LogsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Degraded)
		assert.Zero(t, resp.Count)
		assert.Empty(t, resp.Logs)
	})

	t.Run("rejects non-GET methods", func(t *testing.T) {
		h, _, _ := setupObservability(t)

		rec := httptest.NewRecorder()
		h.HandleLogs(rec, httptest.NewRequest(http.MethodPost, "/logs", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandleMetrics(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store := logstore.New(logstore.DefaultConfig(mr.Addr()))
	t.Cleanup(func() { store.Close() })

	agg := metrics.New(time.Hour, true)
	agg.Record(http.MethodGet, "/organizations", http.StatusOK, 12.5)

	h := NewObservabilityHandler(nil, store, agg)

	rec := httptest.NewRecorder()
	h.HandleMetrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var report metrics.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, int64(1), report.RequestsPerEndpoint["GET /organizations"])
	assert.Equal(t, int64(1), report.StatusCodes[200])

	stats := report.ResponseTimes["GET /organizations"]
	assert.Equal(t, 12.5, stats.Min)
	assert.Equal(t, 1, stats.Count)
}

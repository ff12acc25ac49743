package usage

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandalnilabja/goatplan/internal/storage"
	"github.com/mandalnilabja/goatplan/internal/storage/models"
)

func newHandlers(t *testing.T) (*Handlers, storage.Storage) {
	t.Helper()
	store := storage.NewMemoryStorage()
	t.Cleanup(func() { _ = store.Close() })

	h := New(store)
	h.Now = func() time.Time { return time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC) }
	return h, store
}

func seedUsage(t *testing.T, store storage.Storage) {
	t.Helper()
	rows := []*models.DailyUsage{
		{Date: "2026-03-01", Provider: "openai", Model: "gpt-4o", RequestCount: 2, PromptTokens: 100, CompletionTokens: 40, TotalTokens: 140},
		{Date: "2026-03-02", Provider: "anthropic", Model: "claude-3-5-sonnet-20241022", RequestCount: 1, PromptTokens: 50, CompletionTokens: 10, TotalTokens: 60, ErrorCount: 1},
		{Date: "2026-01-15", Provider: "openai", Model: "gpt-4o", RequestCount: 1, PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
	for _, r := range rows {
		require.NoError(t, store.UpdateDailyUsage(r))
	}
}

func TestGetUsageStats(t *testing.T) {
	h, store := newHandlers(t)
	seedUsage(t, store)

	tests := []struct {
		name          string
		query         string
		wantRequests  int
		wantTokens    int
		wantModelKeys []string
	}{
		{name: "all", query: "", wantRequests: 4, wantTokens: 215, wantModelKeys: []string{"gpt-4o", "claude-3-5-sonnet-20241022"}},
		{name: "by provider", query: "?provider=anthropic", wantRequests: 1, wantTokens: 60, wantModelKeys: []string{"claude-3-5-sonnet-20241022"}},
		{name: "by date range", query: "?start_date=2026-03-01&end_date=2026-03-31", wantRequests: 3, wantTokens: 200, wantModelKeys: []string{"gpt-4o", "claude-3-5-sonnet-20241022"}},
		{name: "malformed date ignored", query: "?start_date=yesterday", wantRequests: 4, wantTokens: 215, wantModelKeys: []string{"gpt-4o", "claude-3-5-sonnet-20241022"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.GetUsageStats(rec, httptest.NewRequest(http.MethodGet, "/api/usage"+tt.query, nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var stats models.UsageStats
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
			assert.Equal(t, tt.wantRequests, stats.TotalRequests)
			assert.Equal(t, tt.wantTokens, stats.TotalTokens)
			assert.Len(t, stats.ModelBreakdown, len(tt.wantModelKeys))
			for _, k := range tt.wantModelKeys {
				assert.Contains(t, stats.ModelBreakdown, k)
			}
		})
	}
}

func TestGetDailyUsage(t *testing.T) {
	h, store := newHandlers(t)
	seedUsage(t, store)

	t.Run("defaults to last 30 days", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetDailyUsage(rec, httptest.NewRequest(http.MethodGet, "/api/usage/daily", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			DailyUsage []*models.DailyUsage `json:"daily_usage"`
			StartDate  string               `json:"start_date"`
			EndDate    string               `json:"end_date"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "2026-03-01", body.StartDate)
		assert.Equal(t, "2026-03-31", body.EndDate)
		require.Len(t, body.DailyUsage, 2)
		assert.Equal(t, "2026-03-01", body.DailyUsage[0].Date)
	})

	t.Run("empty range returns empty array", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetDailyUsage(rec, httptest.NewRequest(http.MethodGet, "/api/usage/daily?start_date=2020-01-01&end_date=2020-01-31", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"daily_usage":[]`)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetDailyUsage(rec, httptest.NewRequest(http.MethodGet, "/api/usage/daily?start_date=03/01/2026", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetRequestLogs(t *testing.T) {
	h, store := newHandlers(t)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i, l := range []*models.RequestLog{
		{ChatID: "c1", Provider: "openai", Model: "gpt-4o", StatusCode: 200, CreatedAt: base},
		{ChatID: "c1", Provider: "openai", Model: "gpt-4o", StatusCode: 502, CreatedAt: base.Add(time.Hour)},
		{ChatID: "c2", Provider: "gemini", Model: "gemini-2.5-pro", StatusCode: 200, CreatedAt: base.Add(24 * time.Hour)},
	} {
		l.ID = string(rune('a' + i))
		require.NoError(t, store.LogRequest(l))
	}

	type logsBody struct {
		Logs   []*models.RequestLog `json:"logs"`
		Limit  int                  `json:"limit"`
		Offset int                  `json:"offset"`
	}

	tests := []struct {
		name       string
		query      string
		wantCount  int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", query: "", wantCount: 3, wantLimit: DefaultLogLimit},
		{name: "by chat", query: "?chat_id=c1", wantCount: 2, wantLimit: DefaultLogLimit},
		{name: "by status", query: "?status_code=502", wantCount: 1, wantLimit: DefaultLogLimit},
		{name: "end date covers whole day", query: "?end_date=2026-03-10", wantCount: 2, wantLimit: DefaultLogLimit},
		{name: "paging", query: "?limit=1&offset=1", wantCount: 1, wantLimit: 1, wantOffset: 1},
		{name: "invalid paging ignored", query: "?limit=-4&offset=x", wantCount: 3, wantLimit: DefaultLogLimit},
		{name: "no matches", query: "?provider=anthropic", wantCount: 0, wantLimit: DefaultLogLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.GetRequestLogs(rec, httptest.NewRequest(http.MethodGet, "/api/logs"+tt.query, nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var body logsBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Len(t, body.Logs, tt.wantCount)
			assert.NotNil(t, body.Logs)
			assert.Equal(t, tt.wantLimit, body.Limit)
			assert.Equal(t, tt.wantOffset, body.Offset)
		})
	}
}

func TestClosedStorage(t *testing.T) {
	h, store := newHandlers(t)
	require.NoError(t, store.Close())

	for name, fn := range map[string]http.HandlerFunc{
		"stats": h.GetUsageStats,
		"daily": h.GetDailyUsage,
		"logs":  h.GetRequestLogs,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			fn(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
		})
	}
}

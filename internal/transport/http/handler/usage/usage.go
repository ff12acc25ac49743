// Package usage serves provider usage statistics and request logs.
package usage

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mandalnilabja/goatplan/internal/storage"
	"github.com/mandalnilabja/goatplan/internal/storage/models"
	"github.com/mandalnilabja/goatplan/internal/transport/http/handler/shared"
)

// DefaultLogLimit is the page size used when limit is absent or invalid.
const DefaultLogLimit = 50

// Handlers holds the dependencies for usage HTTP handlers.
type Handlers struct {
	Storage storage.Storage
	Now     func() time.Time
}

// New creates a new instance of usage handlers.
func New(store storage.Storage) *Handlers {
	return &Handlers{
		Storage: store,
		Now:     time.Now,
	}
}

// GetUsageStats handles GET /api/usage.
func (h *Handlers) GetUsageStats(w http.ResponseWriter, r *http.Request) {
	filter := parseStatsFilter(r)

	stats, err := h.Storage.GetUsageStats(filter)
	if err != nil {
		shared.WriteJSONError(w, "Failed to get usage stats", err.Error(), http.StatusInternalServerError)
		return
	}

	shared.WriteJSON(w, stats, http.StatusOK)
}

// GetDailyUsage handles GET /api/usage/daily.
func (h *Handlers) GetDailyUsage(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")

	// Default to last 30 days if not specified
	now := h.Now().UTC()
	if startDate == "" {
		startDate = now.AddDate(0, 0, -30).Format(models.DateLayout)
	}
	if endDate == "" {
		endDate = now.Format(models.DateLayout)
	}

	for _, d := range []string{startDate, endDate} {
		if _, err := time.Parse(models.DateLayout, d); err != nil {
			shared.WriteJSONError(w, "Invalid request", "Invalid date format. Use YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	daily, err := h.Storage.GetDailyUsage(startDate, endDate)
	if err != nil {
		shared.WriteJSONError(w, "Failed to get daily usage", err.Error(), http.StatusInternalServerError)
		return
	}
	if daily == nil {
		daily = []*models.DailyUsage{}
	}

	shared.WriteJSON(w, map[string]any{
		"daily_usage": daily,
		"start_date":  startDate,
		"end_date":    endDate,
	}, http.StatusOK)
}

// GetRequestLogs handles GET /api/logs.
func (h *Handlers) GetRequestLogs(w http.ResponseWriter, r *http.Request) {
	filter := parseLogFilter(r)

	logs, err := h.Storage.GetRequestLogs(filter)
	if err != nil {
		shared.WriteJSONError(w, "Failed to get request logs", err.Error(), http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []*models.RequestLog{}
	}

	shared.WriteJSON(w, map[string]any{
		"logs":   logs,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	}, http.StatusOK)
}

// parseStatsFilter creates a StatsFilter from query parameters.
// Malformed dates are ignored.
func parseStatsFilter(r *http.Request) models.StatsFilter {
	q := r.URL.Query()
	filter := models.StatsFilter{
		Model:    q.Get("model"),
		Provider: q.Get("provider"),
	}
	filter.StartDate = parseDate(q.Get("start_date"))
	filter.EndDate = parseDate(q.Get("end_date"))
	return filter
}

// parseLogFilter creates a LogFilter from query parameters.
func parseLogFilter(r *http.Request) models.LogFilter {
	q := r.URL.Query()
	filter := models.LogFilter{
		ChatID:   q.Get("chat_id"),
		Model:    q.Get("model"),
		Provider: q.Get("provider"),
		Limit:    DefaultLogLimit,
	}

	if v := q.Get("status_code"); v != "" {
		if code, err := strconv.Atoi(v); err == nil {
			filter.StatusCode = &code
		}
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if v := q.Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}
	filter.StartDate = parseDate(q.Get("start_date"))
	if end := parseDate(q.Get("end_date")); end != nil {
		// end_date is inclusive of the whole day
		t := end.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &t
	}

	return filter
}

func parseDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(models.DateLayout, v)
	if err != nil {
		return nil
	}
	return &t
}

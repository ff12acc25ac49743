package memory

import (
	"sort"

	"github.com/google/uuid"

	"github.com/mandalnilabja/goatplan/internal/storage/models"
)

// LogRequest stores a request log entry
func (s *Storage) LogRequest(log *models.RequestLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return models.ErrStorageClosed
	}
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = s.now()
	}
	entry := *log
	s.logs = append(s.logs, &entry)
	return nil
}

// GetRequestLogs retrieves request logs with filtering, newest first.
func (s *Storage) GetRequestLogs(filter models.LogFilter) ([]*models.RequestLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, models.ErrStorageClosed
	}

	var logs []*models.RequestLog
	for i := len(s.logs) - 1; i >= 0; i-- {
		if filter.Matches(s.logs[i]) {
			entry := *s.logs[i]
			logs = append(logs, &entry)
		}
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(logs) {
			return nil, nil
		}
		logs = logs[filter.Offset:]
	}
	if filter.Limit > 0 && len(logs) > filter.Limit {
		logs = logs[:filter.Limit]
	}
	return logs, nil
}

// UpdateDailyUsage upserts daily usage data
func (s *Storage) UpdateDailyUsage(usage *models.DailyUsage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return models.ErrStorageClosed
	}

	key := usageKey{date: usage.Date, provider: usage.Provider, model: usage.Model}
	row, ok := s.usage[key]
	if !ok {
		row = &models.DailyUsage{Date: usage.Date, Provider: usage.Provider, Model: usage.Model}
		s.usage[key] = row
	}
	row.RequestCount += usage.RequestCount
	row.PromptTokens += usage.PromptTokens
	row.CompletionTokens += usage.CompletionTokens
	row.TotalTokens += usage.TotalTokens
	row.ErrorCount += usage.ErrorCount
	return nil
}

// GetUsageStats retrieves aggregated usage statistics
func (s *Storage) GetUsageStats(filter models.StatsFilter) (*models.UsageStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, models.ErrStorageClosed
	}

	stats := &models.UsageStats{ModelBreakdown: make(map[string]*models.ModelStats)}
	for _, row := range s.usage {
		if filter.Matches(row) {
			stats.Add(row)
		}
	}
	return stats, nil
}

// GetDailyUsage retrieves daily usage data for a date range
func (s *Storage) GetDailyUsage(startDate, endDate string) ([]*models.DailyUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, models.ErrStorageClosed
	}

	var usage []*models.DailyUsage
	for _, row := range s.usage {
		if row.Date >= startDate && row.Date <= endDate {
			u := *row
			usage = append(usage, &u)
		}
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Date != usage[j].Date {
			return usage[i].Date < usage[j].Date
		}
		return usage[i].Model < usage[j].Model
	})
	return usage, nil
}

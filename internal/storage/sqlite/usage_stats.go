package sqlite

import "github.com/mandalnilabja/goatplan/internal/storage/models"

// GetUsageStats retrieves aggregated usage statistics
func (s *Storage) GetUsageStats(filter models.StatsFilter) (*models.UsageStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	query := `SELECT model,
		COALESCE(SUM(request_count), 0),
		COALESCE(SUM(prompt_tokens), 0),
		COALESCE(SUM(completion_tokens), 0),
		COALESCE(SUM(total_tokens), 0),
		COALESCE(SUM(error_count), 0)
		FROM usage_daily WHERE 1=1`

	var args []any

	if filter.Model != "" {
		query += " AND model = ?"
		args = append(args, filter.Model)
	}
	if filter.Provider != "" {
		query += " AND provider = ?"
		args = append(args, filter.Provider)
	}
	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, filter.StartDate.Format(models.DateLayout))
	}
	if filter.EndDate != nil {
		query += " AND date <= ?"
		args = append(args, filter.EndDate.Format(models.DateLayout))
	}
	query += " GROUP BY model"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &models.UsageStats{
		ModelBreakdown: make(map[string]*models.ModelStats),
	}
	for rows.Next() {
		var u models.DailyUsage
		err := rows.Scan(&u.Model, &u.RequestCount, &u.PromptTokens,
			&u.CompletionTokens, &u.TotalTokens, &u.ErrorCount)
		if err != nil {
			return nil, err
		}
		stats.Add(&u)
	}

	return stats, rows.Err()
}

// GetDailyUsage retrieves daily usage data for a date range
func (s *Storage) GetDailyUsage(startDate, endDate string) ([]*models.DailyUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT date, provider, model, request_count,
			prompt_tokens, completion_tokens, total_tokens, error_count
		FROM usage_daily
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC, model ASC
	`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usage []*models.DailyUsage
	for rows.Next() {
		var u models.DailyUsage
		err := rows.Scan(&u.Date, &u.Provider, &u.Model, &u.RequestCount,
			&u.PromptTokens, &u.CompletionTokens, &u.TotalTokens, &u.ErrorCount)
		if err != nil {
			return nil, err
		}
		usage = append(usage, &u)
	}

	return usage, rows.Err()
}

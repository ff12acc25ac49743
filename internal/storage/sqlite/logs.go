package sqlite

import (
	"github.com/mandalnilabja/goatplan/internal/storage/models"
)

// LogRequest stores a request log entry
func (s *Storage) LogRequest(log *models.RequestLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}

	if log.ID == "" {
		log.ID = generateID()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = s.now()
	}

	_, err := s.db.Exec(`
		INSERT INTO request_logs (id, request_id, chat_id, provider, model,
			prompt_tokens, completion_tokens, total_tokens,
			status_code, error_message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, log.ID, log.RequestID, log.ChatID, log.Provider, log.Model,
		log.PromptTokens, log.CompletionTokens, log.TotalTokens,
		log.StatusCode, log.ErrorMessage, log.DurationMs, log.CreatedAt.UTC())

	return err
}

// GetRequestLogs retrieves request logs with filtering, newest first.
func (s *Storage) GetRequestLogs(filter models.LogFilter) ([]*models.RequestLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	query := `SELECT id, COALESCE(request_id, ''), chat_id, provider, model,
		prompt_tokens, completion_tokens, total_tokens,
		status_code, COALESCE(error_message, ''), duration_ms, created_at
		FROM request_logs WHERE 1=1`

	var args []any

	if filter.ChatID != "" {
		query += " AND chat_id = ?"
		args = append(args, filter.ChatID)
	}
	if filter.Model != "" {
		query += " AND model = ?"
		args = append(args, filter.Model)
	}
	if filter.Provider != "" {
		query += " AND provider = ?"
		args = append(args, filter.Provider)
	}
	if filter.StatusCode != nil {
		query += " AND status_code = ?"
		args = append(args, *filter.StatusCode)
	}

	query += " ORDER BY rowid DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.RequestLog
	for rows.Next() {
		var log models.RequestLog
		err := rows.Scan(&log.ID, &log.RequestID, &log.ChatID, &log.Provider, &log.Model,
			&log.PromptTokens, &log.CompletionTokens, &log.TotalTokens,
			&log.StatusCode, &log.ErrorMessage, &log.DurationMs, &log.CreatedAt)
		if err != nil {
			return nil, err
		}
		log.CreatedAt = log.CreatedAt.UTC()

		// Date bounds are compared as time.Time rather than as stored text.
		if !filter.Matches(&log) {
			continue
		}
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, err
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

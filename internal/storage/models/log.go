package models

import "time"

// RequestLog represents one provider invocation made on behalf of a chat.
type RequestLog struct {
	ID               string    `json:"id"`
	RequestID        string    `json:"request_id,omitempty"`
	ChatID           string    `json:"chat_id"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	StatusCode       int       `json:"status_code"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	DurationMs       int64     `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// LogFilter contains parameters for filtering request logs
type LogFilter struct {
	ChatID     string
	Model      string
	Provider   string
	StatusCode *int
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

// Matches reports whether the log satisfies the filter (ignores Limit/Offset).
func (f LogFilter) Matches(l *RequestLog) bool {
	if f.ChatID != "" && l.ChatID != f.ChatID {
		return false
	}
	if f.Model != "" && l.Model != f.Model {
		return false
	}
	if f.Provider != "" && l.Provider != f.Provider {
		return false
	}
	if f.StatusCode != nil && l.StatusCode != *f.StatusCode {
		return false
	}
	if f.StartDate != nil && l.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && l.CreatedAt.After(*f.EndDate) {
		return false
	}
	return true
}

package models

import "time"

// DateLayout is the day key used by daily usage aggregates.
const DateLayout = "2006-01-02"

// DailyUsage represents aggregated usage stats for a day
type DailyUsage struct {
	Date             string `json:"date"` // YYYY-MM-DD
	Provider         string `json:"provider"`
	Model            string `json:"model"`
	RequestCount     int    `json:"request_count"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	ErrorCount       int    `json:"error_count"`
}

// ModelStats represents usage statistics for a specific model
type ModelStats struct {
	Model            string `json:"model"`
	RequestCount     int    `json:"request_count"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	ErrorCount       int    `json:"error_count"`
}

// UsageStats represents aggregated usage statistics
type UsageStats struct {
	TotalRequests         int                    `json:"total_requests"`
	TotalTokens           int                    `json:"total_tokens"`
	TotalPromptTokens     int                    `json:"prompt_tokens"`
	TotalCompletionTokens int                    `json:"completion_tokens"`
	ErrorCount            int                    `json:"error_count"`
	ModelBreakdown        map[string]*ModelStats `json:"models,omitempty"`
}

// StatsFilter contains parameters for filtering usage statistics
type StatsFilter struct {
	Model     string
	Provider  string
	StartDate *time.Time
	EndDate   *time.Time
}

// Matches reports whether a daily aggregate row falls inside the filter.
func (f StatsFilter) Matches(u *DailyUsage) bool {
	if f.Model != "" && u.Model != f.Model {
		return false
	}
	if f.Provider != "" && u.Provider != f.Provider {
		return false
	}
	if f.StartDate != nil && u.Date < f.StartDate.Format(DateLayout) {
		return false
	}
	if f.EndDate != nil && u.Date > f.EndDate.Format(DateLayout) {
		return false
	}
	return true
}

// Add accumulates a daily row into the stats.
func (s *UsageStats) Add(u *DailyUsage) {
	s.TotalRequests += u.RequestCount
	s.TotalPromptTokens += u.PromptTokens
	s.TotalCompletionTokens += u.CompletionTokens
	s.TotalTokens += u.TotalTokens
	s.ErrorCount += u.ErrorCount

	if s.ModelBreakdown == nil {
		s.ModelBreakdown = make(map[string]*ModelStats)
	}
	ms, ok := s.ModelBreakdown[u.Model]
	if !ok {
		ms = &ModelStats{Model: u.Model}
		s.ModelBreakdown[u.Model] = ms
	}
	ms.RequestCount += u.RequestCount
	ms.PromptTokens += u.PromptTokens
	ms.CompletionTokens += u.CompletionTokens
	ms.TotalTokens += u.TotalTokens
	ms.ErrorCount += u.ErrorCount
}

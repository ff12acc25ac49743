package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh instance of every storage backend.
func backends(t *testing.T) map[string]Storage {
	t.Helper()

	sqliteStore, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	stores := map[string]Storage{
		BackendMemory: NewMemoryStorage(),
		BackendSQLite: sqliteStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New("postgres", "")
	assert.Error(t, err)
}

func TestNew_DefaultsToMemory(t *testing.T) {
	s, err := New("", "")
	require.NoError(t, err)
	defer s.Close()

	n, err := s.CountChats()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestChatLifecycle(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			chat := &Chat{Name: "Chat 1", Provider: "openai"}
			require.NoError(t, s.CreateChat(chat))
			assert.NotEmpty(t, chat.ID)
			assert.False(t, chat.CreatedAt.IsZero())

			n, err := s.CountChats()
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			user := &ChatMessage{Role: "user", Content: "hello"}
			require.NoError(t, s.AppendMessage(chat.ID, user))
			assert.NotEmpty(t, user.ID)

			assistant := &ChatMessage{Role: "assistant", Content: "hi there"}
			require.NoError(t, s.AppendMessage(chat.ID, assistant))
			assert.NotEqual(t, user.ID, assistant.ID)

			got, err := s.GetChat(chat.ID)
			require.NoError(t, err)
			require.Len(t, got.Messages, 2)
			assert.Equal(t, "hello", got.Messages[0].Content)
			assert.Equal(t, "assistant", got.Messages[1].Role)
			assert.Equal(t, assistant.ID, got.Messages[1].ID)
			assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
			assert.False(t, got.UpdatedAt.Before(got.Messages[1].Timestamp))
			assert.Equal(t, "openai", got.Provider)
		})
	}
}

func TestGetChat_NotFound(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.GetChat("missing")
			assert.ErrorIs(t, err, ErrNotFound)

			err = s.AppendMessage("missing", &ChatMessage{Role: "user", Content: "x"})
			assert.ErrorIs(t, err, ErrNotFound)

			err = s.SetChatSelection("missing", "anthropic", "")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestCreateChat_Duplicate(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.CreateChat(&Chat{ID: "fixed", Name: "a"}))
			assert.ErrorIs(t, s.CreateChat(&Chat{ID: "fixed", Name: "b"}), ErrDuplicateKey)
		})
	}
}

func TestSetChatSelection(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			chat := &Chat{Name: "c", Provider: "openai", Model: "gpt-4o"}
			require.NoError(t, s.CreateChat(chat))

			require.NoError(t, s.SetChatSelection(chat.ID, "anthropic", ""))
			got, err := s.GetChat(chat.ID)
			require.NoError(t, err)
			assert.Equal(t, "anthropic", got.Provider)
			assert.Equal(t, "gpt-4o", got.Model)

			require.NoError(t, s.SetChatSelection(chat.ID, "", "claude-3-5-haiku-20241022"))
			got, err = s.GetChat(chat.ID)
			require.NoError(t, err)
			assert.Equal(t, "anthropic", got.Provider)
			assert.Equal(t, "claude-3-5-haiku-20241022", got.Model)
		})
	}
}

func TestListChats_OrderedByUpdatedAt(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			first := &Chat{Name: "first", CreatedAt: time.Now().UTC().Add(-time.Hour)}
			second := &Chat{Name: "second", CreatedAt: time.Now().UTC().Add(-time.Minute)}
			require.NoError(t, s.CreateChat(first))
			require.NoError(t, s.CreateChat(second))

			chats, err := s.ListChats()
			require.NoError(t, err)
			require.Len(t, chats, 2)
			assert.Equal(t, "second", chats[0].Name)

			// A new message moves the older chat to the front.
			require.NoError(t, s.AppendMessage(first.ID, &ChatMessage{Role: "user", Content: "bump"}))
			chats, err = s.ListChats()
			require.NoError(t, err)
			assert.Equal(t, "first", chats[0].Name)
			assert.Len(t, chats[0].Messages, 1)
		})
	}
}

func TestReturnedChatsAreCopies(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			chat := &Chat{Name: "c"}
			require.NoError(t, s.CreateChat(chat))
			require.NoError(t, s.AppendMessage(chat.ID, &ChatMessage{Role: "user", Content: "original"}))

			got, err := s.GetChat(chat.ID)
			require.NoError(t, err)
			got.Messages[0].Content = "mutated"
			got.Name = "mutated"

			again, err := s.GetChat(chat.ID)
			require.NoError(t, err)
			assert.Equal(t, "original", again.Messages[0].Content)
			assert.Equal(t, "c", again.Name)
		})
	}
}

func TestRequestLogs(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for i, provider := range []string{"openai", "anthropic", "openai"} {
				require.NoError(t, s.LogRequest(&RequestLog{
					ChatID:     "chat-1",
					Provider:   provider,
					Model:      "m",
					StatusCode: 200 + i*100,
					DurationMs: int64(i),
				}))
			}

			logs, err := s.GetRequestLogs(LogFilter{})
			require.NoError(t, err)
			require.Len(t, logs, 3)
			assert.Equal(t, int64(2), logs[0].DurationMs, "newest first")

			logs, err = s.GetRequestLogs(LogFilter{Provider: "openai"})
			require.NoError(t, err)
			assert.Len(t, logs, 2)

			status := 300
			logs, err = s.GetRequestLogs(LogFilter{StatusCode: &status})
			require.NoError(t, err)
			require.Len(t, logs, 1)
			assert.Equal(t, "anthropic", logs[0].Provider)

			logs, err = s.GetRequestLogs(LogFilter{Limit: 1, Offset: 1})
			require.NoError(t, err)
			require.Len(t, logs, 1)
			assert.Equal(t, int64(1), logs[0].DurationMs)

			future := time.Now().Add(time.Hour)
			logs, err = s.GetRequestLogs(LogFilter{StartDate: &future})
			require.NoError(t, err)
			assert.Empty(t, logs)
		})
	}
}

func TestDailyUsage(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			rows := []*DailyUsage{
				{Date: "2025-01-01", Provider: "openai", Model: "gpt-4o", RequestCount: 1, PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
				{Date: "2025-01-01", Provider: "openai", Model: "gpt-4o", RequestCount: 1, PromptTokens: 20, CompletionTokens: 5, TotalTokens: 25, ErrorCount: 1},
				{Date: "2025-01-02", Provider: "gemini", Model: "gemini-1.5-pro", RequestCount: 2, TotalTokens: 8},
			}
			for _, u := range rows {
				require.NoError(t, s.UpdateDailyUsage(u))
			}

			daily, err := s.GetDailyUsage("2025-01-01", "2025-01-31")
			require.NoError(t, err)
			require.Len(t, daily, 2)
			assert.Equal(t, 2, daily[0].RequestCount)
			assert.Equal(t, 40, daily[0].TotalTokens)
			assert.Equal(t, 1, daily[0].ErrorCount)
			assert.Equal(t, "2025-01-02", daily[1].Date)

			stats, err := s.GetUsageStats(StatsFilter{})
			require.NoError(t, err)
			assert.Equal(t, 4, stats.TotalRequests)
			assert.Equal(t, 48, stats.TotalTokens)
			assert.Equal(t, 1, stats.ErrorCount)
			require.Contains(t, stats.ModelBreakdown, "gpt-4o")
			assert.Equal(t, 2, stats.ModelBreakdown["gpt-4o"].RequestCount)

			stats, err = s.GetUsageStats(StatsFilter{Provider: "gemini"})
			require.NoError(t, err)
			assert.Equal(t, 2, stats.TotalRequests)

			start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
			stats, err = s.GetUsageStats(StatsFilter{StartDate: &start})
			require.NoError(t, err)
			assert.Equal(t, 8, stats.TotalTokens)
		})
	}
}

func TestClosedStorage(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Close())
			_, err := s.GetChat("x")
			assert.ErrorIs(t, err, ErrStorageClosed)
			assert.ErrorIs(t, s.CreateChat(&Chat{Name: "x"}), ErrStorageClosed)
			assert.ErrorIs(t, s.LogRequest(&RequestLog{}), ErrStorageClosed)
		})
	}
}

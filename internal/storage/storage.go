// Package storage provides the storage interface and implementations.
package storage

import (
	"fmt"

	"github.com/mandalnilabja/goatplan/internal/storage/memory"
	"github.com/mandalnilabja/goatplan/internal/storage/models"
	"github.com/mandalnilabja/goatplan/internal/storage/sqlite"
)

// Re-export types from models package for convenience
type (
	Chat        = models.Chat
	ChatMessage = models.ChatMessage
	ChatSummary = models.ChatSummary
	RequestLog  = models.RequestLog
	LogFilter   = models.LogFilter
	DailyUsage  = models.DailyUsage
	ModelStats  = models.ModelStats
	UsageStats  = models.UsageStats
	StatsFilter = models.StatsFilter
)

// Re-export errors from models package
var (
	ErrNotFound      = models.ErrNotFound
	ErrDuplicateKey  = models.ErrDuplicateKey
	ErrInvalidInput  = models.ErrInvalidInput
	ErrStorageClosed = models.ErrStorageClosed
)

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Storage defines the interface for chat and usage storage.
// Implementations return copies; callers never alias stored records.
type Storage interface {
	// Chat operations
	CreateChat(chat *models.Chat) error
	GetChat(id string) (*models.Chat, error)
	ListChats() ([]*models.Chat, error)
	// AppendMessage assigns ID and Timestamp, appends to the chat's history
	// and advances the chat's UpdatedAt. Each append is atomic.
	AppendMessage(chatID string, msg *models.ChatMessage) error
	// SetChatSelection records the provider/model used for subsequent turns.
	SetChatSelection(chatID, provider, model string) error
	CountChats() (int, error)

	// Request logging operations
	LogRequest(log *models.RequestLog) error
	GetRequestLogs(filter models.LogFilter) ([]*models.RequestLog, error)

	// Usage statistics operations
	UpdateDailyUsage(usage *models.DailyUsage) error
	GetUsageStats(filter models.StatsFilter) (*models.UsageStats, error)
	GetDailyUsage(startDate, endDate string) ([]*models.DailyUsage, error)

	// Maintenance operations
	Close() error
}

// New creates the storage backend named by backend.
// dbPath is only used by the SQLite backend.
func New(backend, dbPath string) (Storage, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryStorage(), nil
	case BackendSQLite:
		return NewSQLiteStorage(dbPath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// NewMemoryStorage creates a volatile in-process storage instance.
func NewMemoryStorage() Storage {
	return memory.New()
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (Storage, error) {
	return sqlite.New(dbPath)
}

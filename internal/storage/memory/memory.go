// Package memory provides a volatile, mutex-guarded storage implementation.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mandalnilabja/goatplan/internal/storage/models"
)

// Storage implements the storage.Storage interface in process memory.
type Storage struct {
	mu     sync.RWMutex
	chats  map[string]*models.Chat
	logs   []*models.RequestLog
	usage  map[usageKey]*models.DailyUsage
	now    func() time.Time
	closed bool
}

type usageKey struct {
	date, provider, model string
}

// Option configures a Storage.
type Option func(*Storage)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) { s.now = now }
}

// New creates an empty in-memory storage.
func New(opts ...Option) *Storage {
	s := &Storage{
		chats: make(map[string]*models.Chat),
		usage: make(map[usageKey]*models.DailyUsage),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateChat stores a new chat, assigning ID and timestamps when unset.
func (s *Storage) CreateChat(chat *models.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return models.ErrStorageClosed
	}
	if chat.ID == "" {
		chat.ID = uuid.NewString()
	}
	if _, exists := s.chats[chat.ID]; exists {
		return models.ErrDuplicateKey
	}
	now := s.now()
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = now
	}
	if chat.UpdatedAt.IsZero() {
		chat.UpdatedAt = chat.CreatedAt
	}
	if chat.Messages == nil {
		chat.Messages = []*models.ChatMessage{}
	}

	s.chats[chat.ID] = chat.Clone()
	return nil
}

// GetChat returns a copy of the chat with the given ID.
func (s *Storage) GetChat(id string) (*models.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, models.ErrStorageClosed
	}
	chat, ok := s.chats[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return chat.Clone(), nil
}

// ListChats returns copies of all chats, most recently updated first.
func (s *Storage) ListChats() ([]*models.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, models.ErrStorageClosed
	}
	chats := make([]*models.Chat, 0, len(s.chats))
	for _, c := range s.chats {
		chats = append(chats, c.Clone())
	}
	sort.SliceStable(chats, func(i, j int) bool {
		if chats[i].UpdatedAt.Equal(chats[j].UpdatedAt) {
			return chats[i].CreatedAt.After(chats[j].CreatedAt)
		}
		return chats[i].UpdatedAt.After(chats[j].UpdatedAt)
	})
	return chats, nil
}

// CountChats returns the number of stored chats.
func (s *Storage) CountChats() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, models.ErrStorageClosed
	}
	return len(s.chats), nil
}

// AppendMessage appends msg to the chat's history.
func (s *Storage) AppendMessage(chatID string, msg *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return models.ErrStorageClosed
	}
	chat, ok := s.chats[chatID]
	if !ok {
		return models.ErrNotFound
	}

	msg.ID = uuid.NewString()
	msg.Timestamp = s.now()
	stored := *msg
	chat.Messages = append(chat.Messages, &stored)

	// UpdatedAt never moves backwards, even if the clock does.
	if msg.Timestamp.After(chat.UpdatedAt) {
		chat.UpdatedAt = msg.Timestamp
	}
	return nil
}

// SetChatSelection updates the chat's sticky provider/model.
// Empty values leave the stored field unchanged.
func (s *Storage) SetChatSelection(chatID, provider, model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return models.ErrStorageClosed
	}
	chat, ok := s.chats[chatID]
	if !ok {
		return models.ErrNotFound
	}
	if provider != "" {
		chat.Provider = provider
	}
	if model != "" {
		chat.Model = model
	}
	return nil
}

// Close marks the storage closed. Stored data is discarded.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.chats = nil
	s.logs = nil
	s.usage = nil
	return nil
}

package sqlite

import (
	"database/sql"
	"errors"
	"sort"
	"strings"

	"github.com/mandalnilabja/goatplan/internal/storage/models"
)

// CreateChat inserts a new chat row.
func (s *Storage) CreateChat(chat *models.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}
	if chat.ID == "" {
		chat.ID = generateID()
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

	_, err := s.db.Exec(`
		INSERT INTO chats (id, name, provider, model, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, chat.ID, chat.Name, chat.Provider, chat.Model, chat.CreatedAt, chat.UpdatedAt)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return models.ErrDuplicateKey
	}
	return err
}

// GetChat loads a chat and its messages in insertion order.
func (s *Storage) GetChat(id string) (*models.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	chat, err := s.scanChat(s.db.QueryRow(`
		SELECT id, name, provider, model, created_at, updated_at FROM chats WHERE id = ?
	`, id))
	if err != nil {
		return nil, err
	}

	chat.Messages, err = s.loadMessages(id)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// ListChats returns all chats with messages, most recently updated first.
func (s *Storage) ListChats() ([]*models.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT id, name, provider, model, created_at, updated_at FROM chats`)
	if err != nil {
		return nil, err
	}
	var chats []*models.Chat
	for rows.Next() {
		chat, err := s.scanChat(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, chat := range chats {
		if chat.Messages, err = s.loadMessages(chat.ID); err != nil {
			return nil, err
		}
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

	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM chats`).Scan(&n)
	return n, err
}

// AppendMessage inserts a message and advances the chat's updated_at in one transaction.
func (s *Storage) AppendMessage(chatID string, msg *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	chat, err := s.scanChat(tx.QueryRow(`
		SELECT id, name, provider, model, created_at, updated_at FROM chats WHERE id = ?
	`, chatID))
	if err != nil {
		return err
	}

	msg.ID = generateID()
	msg.Timestamp = s.now()

	if _, err := tx.Exec(`
		INSERT INTO messages (id, chat_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)
	`, msg.ID, chatID, msg.Role, msg.Content, msg.Timestamp); err != nil {
		return err
	}

	if msg.Timestamp.After(chat.UpdatedAt) {
		if _, err := tx.Exec(`UPDATE chats SET updated_at = ? WHERE id = ?`, msg.Timestamp, chatID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SetChatSelection updates the sticky provider/model; empty values are left untouched.
func (s *Storage) SetChatSelection(chatID, provider, model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}

	result, err := s.db.Exec(`
		UPDATE chats SET
			provider = CASE WHEN ? = '' THEN provider ELSE ? END,
			model = CASE WHEN ? = '' THEN model ELSE ? END
		WHERE id = ?
	`, provider, provider, model, model, chatID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Storage) scanChat(row rowScanner) (*models.Chat, error) {
	var chat models.Chat
	err := row.Scan(&chat.ID, &chat.Name, &chat.Provider, &chat.Model, &chat.CreatedAt, &chat.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	chat.CreatedAt = chat.CreatedAt.UTC()
	chat.UpdatedAt = chat.UpdatedAt.UTC()
	return &chat, nil
}

func (s *Storage) loadMessages(chatID string) ([]*models.ChatMessage, error) {
	rows, err := s.db.Query(`
		SELECT id, role, content, created_at FROM messages WHERE chat_id = ? ORDER BY seq ASC
	`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		m.Timestamp = m.Timestamp.UTC()
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

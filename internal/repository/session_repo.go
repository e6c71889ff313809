package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/nexuschat/nexuschat/internal/domain"
)

// SessionRepository handles chat session and message persistence
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new chat session
func (r *SessionRepository) Create(session *domain.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.Name == "" {
		session.Name = "New Chat"
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO chat_sessions (id, user_id, session_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, session.ID, session.UserID, session.Name, session.CreatedAt, session.UpdatedAt)

	return err
}

// Get retrieves a session by ID. Returns nil when the session does not exist.
func (r *SessionRepository) Get(id string) (*domain.Session, error) {
	session := &domain.Session{}

	err := r.db.QueryRow(`
		SELECT id, user_id, session_name, created_at, updated_at
		FROM chat_sessions WHERE id = ?
	`, id).Scan(&session.ID, &session.UserID, &session.Name,
		&session.CreatedAt, &session.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

// ListByUser retrieves all sessions for a user, most recently updated first,
// each with its first and most recent user message.
func (r *SessionRepository) ListByUser(userID string) ([]*domain.SessionSummary, error) {
	rows, err := r.db.Query(`
		SELECT s.id, s.created_at, s.updated_at,
			COALESCE((SELECT content FROM messages
				WHERE session_id = s.id AND sender = 'user'
				ORDER BY created_at ASC, rowid ASC LIMIT 1), ''),
			COALESCE((SELECT content FROM messages
				WHERE session_id = s.id AND sender = 'user'
				ORDER BY created_at DESC, rowid DESC LIMIT 1), '')
		FROM chat_sessions s
		WHERE s.user_id = ?
		ORDER BY s.updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.SessionSummary
	for rows.Next() {
		s := &domain.SessionSummary{}
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt,
			&s.FirstMessage, &s.LastMessage); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// Touch updates a session's updated_at timestamp. Concurrent writers race on
// this column with last-writer-wins semantics.
func (r *SessionRepository) Touch(id string) error {
	_, err := r.db.Exec(`UPDATE chat_sessions SET updated_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

// Delete deletes a session; messages and uploaded items cascade.
func (r *SessionRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM chat_sessions WHERE id = ?`, id)
	return err
}

// CountSessions returns the total number of chat sessions.
func (r *SessionRepository) CountSessions() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM chat_sessions`).Scan(&count)
	return count, err
}

// CreateMessage appends a message to a session.
func (r *SessionRepository) CreateMessage(message *domain.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO messages (id, session_id, sender, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, message.ID, message.SessionID, message.Sender, message.Content, message.CreatedAt)

	return err
}

// Messages retrieves all messages for a session in chronological order.
func (r *SessionRepository) Messages(sessionID string) ([]*domain.Message, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, sender, content, created_at
		FROM messages WHERE session_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// RecentMessages retrieves the most recent messages for a session, newest
// first. The composer reverses them back to chronological order.
func (r *SessionRepository) RecentMessages(sessionID string, limit int) ([]*domain.Message, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, sender, content, created_at
		FROM messages WHERE session_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// SearchMessages finds messages across all of a user's sessions whose
// content contains the query, newest first.
func (r *SessionRepository) SearchMessages(userID, query string) ([]*domain.SearchResult, error) {
	rows, err := r.db.Query(`
		SELECT m.session_id, m.sender, m.content, m.created_at
		FROM messages m
		JOIN chat_sessions s ON s.id = m.session_id
		WHERE s.user_id = ? AND m.content LIKE '%' || ? || '%'
		ORDER BY m.created_at DESC, m.rowid DESC
	`, userID, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*domain.SearchResult
	for rows.Next() {
		res := &domain.SearchResult{}
		if err := rows.Scan(&res.SessionID, &res.Sender, &res.Content, &res.Timestamp); err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	return results, rows.Err()
}

// ExportMessages retrieves every message across all of a user's sessions in
// chronological order.
func (r *SessionRepository) ExportMessages(userID string) ([]*domain.Message, error) {
	rows, err := r.db.Query(`
		SELECT m.id, m.session_id, m.sender, m.content, m.created_at
		FROM messages m
		JOIN chat_sessions s ON s.id = m.session_id
		WHERE s.user_id = ?
		ORDER BY m.created_at ASC, m.rowid ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]*domain.Message, error) {
	var messages []*domain.Message
	for rows.Next() {
		message := &domain.Message{}
		if err := rows.Scan(&message.ID, &message.SessionID, &message.Sender,
			&message.Content, &message.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

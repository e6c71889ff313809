package domain

import "time"

// Session represents a chat session owned by a user.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"session_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message senders.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Message represents a chat message. Messages are append-only and strictly
// ordered by timestamp; a question/answer cycle writes the user message
// first and the assistant reply second.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

// SessionSummary is a session with its first and most recent user message,
// used for the session list sidebar.
type SessionSummary struct {
	ID           string    `json:"id"`
	FirstMessage string    `json:"first_message"`
	LastMessage  string    `json:"user_message"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SendMessageRequest is the request to ask a question in a session.
type SendMessageRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

// SendMessageResponse carries both halves of a question/answer cycle.
type SendMessageResponse struct {
	UserMessage string `json:"user_message"`
	AIMessage   string `json:"ai_message"`
}

// SearchResult is one message matching a chat history search.
type SearchResult struct {
	SessionID string    `json:"session_id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats holds the counters shown on the home page.
type Stats struct {
	Conversations string `json:"conversations"`
	FilesAnalyzed string `json:"files_analyzed"`
	Uptime        string `json:"uptime"`
}

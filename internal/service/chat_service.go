package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nexuschat/nexuschat/internal/domain"
	"github.com/nexuschat/nexuschat/internal/repository"
)

// ChatService handles the question/answer cycle and session management.
type ChatService struct {
	sessions  *repository.SessionRepository
	items     *repository.ItemRepository
	composer  *Composer
	responder *Responder
	logger    *zap.Logger
}

// NewChatService creates a chat service.
func NewChatService(
	sessions *repository.SessionRepository,
	items *repository.ItemRepository,
	composer *Composer,
	responder *Responder,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		sessions:  sessions,
		items:     items,
		composer:  composer,
		responder: responder,
		logger:    logger,
	}
}

// Answer runs one question/answer cycle: the user message is written first,
// then the context is composed and the model consulted, then the assistant
// reply is written. A failure after the first write leaves the user message
// in place; it is never rolled back.
func (s *ChatService) Answer(ctx context.Context, sessionID, userID, content string) (*domain.SendMessageResponse, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil || session.UserID != userID {
		return nil, domain.ErrNotFound
	}

	userMsg := &domain.Message{
		SessionID: sessionID,
		Sender:    domain.SenderUser,
		Content:   content,
	}
	if err := s.sessions.CreateMessage(userMsg); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	prompt, history, err := s.composer.Compose(sessionID, content)
	if err != nil {
		return nil, err
	}

	reply := s.responder.Respond(ctx, prompt, history)

	assistantMsg := &domain.Message{
		SessionID: sessionID,
		Sender:    domain.SenderAssistant,
		Content:   reply,
	}
	if err := s.sessions.CreateMessage(assistantMsg); err != nil {
		return nil, fmt.Errorf("failed to store assistant message: %w", err)
	}

	if err := s.sessions.Touch(sessionID); err != nil {
		return nil, fmt.Errorf("failed to touch session: %w", err)
	}

	return &domain.SendMessageResponse{
		UserMessage: content,
		AIMessage:   reply,
	}, nil
}

// CreateSession starts a new chat session for a user.
func (s *ChatService) CreateSession(userID string) (*domain.Session, error) {
	session := &domain.Session{UserID: userID}
	if err := s.sessions.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// ListSessions lists a user's sessions, most recently updated first.
func (s *ChatService) ListSessions(userID string) ([]*domain.SessionSummary, error) {
	return s.sessions.ListByUser(userID)
}

// SessionMessages retrieves a session's messages in chronological order.
func (s *ChatService) SessionMessages(sessionID, userID string) ([]*domain.Message, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil || session.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return s.sessions.Messages(sessionID)
}

// DeleteSession removes a session and everything scoped to it.
func (s *ChatService) DeleteSession(sessionID, userID string) error {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil || session.UserID != userID {
		return domain.ErrNotFound
	}
	return s.sessions.Delete(sessionID)
}

// SearchMessages searches a user's chat history.
func (s *ChatService) SearchMessages(userID, query string) ([]*domain.SearchResult, error) {
	if query == "" {
		return []*domain.SearchResult{}, nil
	}
	return s.sessions.SearchMessages(userID, query)
}

// ExportMessages returns every message across a user's sessions.
func (s *ChatService) ExportMessages(userID string) ([]*domain.Message, error) {
	return s.sessions.ExportMessages(userID)
}

// Stats returns the home page counters. Database errors fall back to static
// values rather than failing the page.
func (s *ChatService) Stats() domain.Stats {
	sessions, err := s.sessions.CountSessions()
	if err != nil {
		s.logger.Warn("failed to count sessions", zap.Error(err))
		return domain.Stats{Conversations: "10K+", FilesAnalyzed: "5K+", Uptime: "99.9%"}
	}
	files, err := s.items.Count()
	if err != nil {
		s.logger.Warn("failed to count items", zap.Error(err))
		return domain.Stats{Conversations: "10K+", FilesAnalyzed: "5K+", Uptime: "99.9%"}
	}

	return domain.Stats{
		Conversations: formatStat(sessions),
		FilesAnalyzed: formatStat(files),
		Uptime:        "99.9%",
	}
}

func formatStat(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%dK+", n/1000)
	}
	return fmt.Sprintf("%d", n)
}

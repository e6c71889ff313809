package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexuschat/nexuschat/internal/api/middleware"
	"github.com/nexuschat/nexuschat/internal/domain"
	"github.com/nexuschat/nexuschat/internal/service"
)

// Handler handles chat session and message requests
type Handler struct {
	chatService *service.ChatService
}

// NewHandler creates a new chat handler
func NewHandler(chatService *service.ChatService) *Handler {
	return &Handler{chatService: chatService}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/sessions", h.ListSessions)
	r.POST("/sessions", h.CreateSession)
	r.GET("/session/:session_id", h.SessionMessages)
	r.DELETE("/session/:session_id", h.DeleteSession)
	r.POST("/message", h.SendMessage)
	r.GET("/chats/search", h.Search)
	r.GET("/chats/export", h.Export)
}

// CreateSession starts a new chat session.
func (h *Handler) CreateSession(c *gin.Context) {
	session, err := h.chatService.CreateSession(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": session.ID})
}

// ListSessions lists the user's sessions.
func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.chatService.ListSessions(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sessions == nil {
		sessions = []*domain.SessionSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// SessionMessages returns all messages for a session.
func (h *Handler) SessionMessages(c *gin.Context) {
	messages, err := h.chatService.SessionMessages(c.Param("session_id"), middleware.UserID(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if messages == nil {
		messages = []*domain.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// DeleteSession removes a session.
func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.chatService.DeleteSession(c.Param("session_id"), middleware.UserID(c)); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
}

// SendMessage runs a question/answer cycle.
func (h *Handler) SendMessage(c *gin.Context) {
	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.chatService.Answer(c.Request.Context(), req.SessionID, middleware.UserID(c), req.Content)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Search searches the user's chat history.
func (h *Handler) Search(c *gin.Context) {
	results, err := h.chatService.SearchMessages(middleware.UserID(c), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if results == nil {
		results = []*domain.SearchResult{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Export returns the user's full chat history.
func (h *Handler) Export(c *gin.Context) {
	messages, err := h.chatService.ExportMessages(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if messages == nil {
		messages = []*domain.Message{}
	}
	c.JSON(http.StatusOK, messages)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

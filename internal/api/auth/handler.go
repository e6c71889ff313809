package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nexuschat/nexuschat/internal/api/middleware"
	"github.com/nexuschat/nexuschat/internal/domain"
	"github.com/nexuschat/nexuschat/internal/service"
)

// Handler handles authentication and profile requests
type Handler struct {
	authService *service.AuthService
}

// NewHandler creates a new auth handler
func NewHandler(authService *service.AuthService) *Handler {
	return &Handler{authService: authService}
}

// RegisterPublicRoutes registers routes that need no token.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
}

// RegisterRoutes registers authenticated routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/logout", h.Logout)
	r.GET("/profile", h.GetProfile)
	r.POST("/profile/update", h.UpdateProfile)
}

// Signup creates an account and returns a token.
func (h *Handler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Signup(&req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Signup successful", "token": resp.Token, "username": resp.Username})
}

// Login authenticates and returns a token.
func (h *Handler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": resp.Token, "username": resp.Username})
}

// Logout revokes the presented token.
func (h *Handler) Logout(c *gin.Context) {
	token := c.GetHeader("X-Auth-Token")
	if token == "" {
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if token != "" {
		if err := h.authService.Logout(token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetProfile returns the authenticated user's profile.
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.authService.Profile(middleware.UserID(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":      user.Username,
		"email":         user.Email,
		"theme":         user.Theme,
		"language":      user.Language,
		"notifications": user.Notifications,
		"joined":        user.CreatedAt.Format("2006-01-02"),
	})
}

// UpdateProfile updates the authenticated user's profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.authService.UpdateProfile(middleware.UserID(c), &req); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	if req.Password != "" {
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserExists), errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

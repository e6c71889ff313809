package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nexuschat/nexuschat/internal/domain"
	"github.com/nexuschat/nexuschat/internal/repository"
)

// AuthService handles signup, login, and profile management with opaque
// bearer tokens stored server-side.
type AuthService struct {
	users         *repository.UserRepository
	tokenLifetime time.Duration
}

// NewAuthService creates an auth service.
func NewAuthService(users *repository.UserRepository, tokenLifetimeDays int) *AuthService {
	return &AuthService{
		users:         users,
		tokenLifetime: time.Duration(tokenLifetimeDays) * 24 * time.Hour,
	}
}

// Signup registers a user and issues a token.
func (s *AuthService) Signup(req *domain.SignupRequest) (*domain.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, domain.ErrInvalidRequest
	}

	exists, err := s.users.Exists(username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:      username,
		Email:         email,
		PasswordHash:  string(hash),
		Notifications: true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(user)
}

// Login authenticates a user and issues a token.
func (s *AuthService) Login(req *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.users.GetByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// Logout revokes a token.
func (s *AuthService) Logout(token string) error {
	return s.users.DeleteToken(token)
}

// UserIDForToken resolves a bearer token, returning ErrUnauthorized for
// unknown or expired tokens.
func (s *AuthService) UserIDForToken(token string) (string, error) {
	userID, err := s.users.UserIDForToken(token)
	if err != nil {
		return "", fmt.Errorf("failed to resolve token: %w", err)
	}
	if userID == "" {
		return "", domain.ErrUnauthorized
	}
	return userID, nil
}

// Profile retrieves a user's profile.
func (s *AuthService) Profile(userID string) (*domain.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// UpdateProfile updates profile settings; empty fields are left unchanged.
func (s *AuthService) UpdateProfile(userID string, req *domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.Profile(userID)
	if err != nil {
		return nil, err
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Theme != "" {
		user.Theme = req.Theme
	}
	if req.Language != "" {
		user.Language = req.Language
	}
	if req.Notifications != nil {
		user.Notifications = *req.Notifications
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issueToken(user *domain.User) (*domain.AuthResponse, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	token := hex.EncodeToString(raw)

	if err := s.users.CreateToken(token, user.ID, time.Now().Add(s.tokenLifetime)); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	return &domain.AuthResponse{Token: token, Username: user.Username}, nil
}

package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/nexuschat/nexuschat/internal/domain"
)

// UserRepository handles user and auth token persistence
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Theme == "" {
		user.Theme = "light"
	}
	if user.Language == "" {
		user.Language = "en"
	}
	user.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO users (id, username, email, password_hash, theme, language, notifications, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.Username, user.Email, user.PasswordHash,
		user.Theme, user.Language, user.Notifications, user.CreatedAt)

	return err
}

// GetByID retrieves a user by ID. Returns nil when absent.
func (r *UserRepository) GetByID(id string) (*domain.User, error) {
	return r.getWhere(`id = ?`, id)
}

// GetByUsername retrieves a user by username. Returns nil when absent.
func (r *UserRepository) GetByUsername(username string) (*domain.User, error) {
	return r.getWhere(`username = ?`, username)
}

// Exists reports whether a user with the username or email already exists.
func (r *UserRepository) Exists(username, email string) (bool, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM users WHERE username = ? OR email = ?
	`, username, email).Scan(&count)
	return count > 0, err
}

// Update persists profile fields and the password hash.
func (r *UserRepository) Update(user *domain.User) error {
	_, err := r.db.Exec(`
		UPDATE users SET username = ?, email = ?, password_hash = ?, theme = ?, language = ?, notifications = ?
		WHERE id = ?
	`, user.Username, user.Email, user.PasswordHash, user.Theme,
		user.Language, user.Notifications, user.ID)
	return err
}

func (r *UserRepository) getWhere(where string, arg any) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.QueryRow(`
		SELECT id, username, email, password_hash, theme, language, notifications, created_at
		FROM users WHERE `+where, arg).Scan(&user.ID, &user.Username, &user.Email,
		&user.PasswordHash, &user.Theme, &user.Language, &user.Notifications, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// CreateToken stores a bearer token for a user.
func (r *UserRepository) CreateToken(token, userID string, expiresAt time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO auth_tokens (token, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`, token, userID, expiresAt, time.Now())
	return err
}

// UserIDForToken resolves a bearer token to its user, ignoring expired
// tokens. Returns "" when the token is unknown or expired.
func (r *UserRepository) UserIDForToken(token string) (string, error) {
	var userID string
	err := r.db.QueryRow(`
		SELECT user_id FROM auth_tokens WHERE token = ? AND expires_at > ?
	`, token, time.Now()).Scan(&userID)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

// DeleteToken revokes a bearer token.
func (r *UserRepository) DeleteToken(token string) error {
	_, err := r.db.Exec(`DELETE FROM auth_tokens WHERE token = ?`, token)
	return err
}

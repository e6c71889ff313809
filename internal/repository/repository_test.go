package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexuschat/nexuschat/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *DB, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, NewUserRepository(db).Create(user))
	return user
}

func seedSession(t *testing.T, db *DB, userID string) *domain.Session {
	t.Helper()
	session := &domain.Session{UserID: userID}
	require.NoError(t, NewSessionRepository(db).Create(session))
	return session
}

func seedItem(t *testing.T, db *DB, sessionID, userID, filename string, kind domain.ItemKind) *domain.UploadedItem {
	t.Helper()
	item := &domain.UploadedItem{
		SessionID: sessionID,
		UserID:    userID,
		Filename:  filename,
		Kind:      kind,
		Size:      3,
		MimeType:  "application/octet-stream",
		Content:   []byte{1, 2, 3},
	}
	require.NoError(t, NewItemRepository(db).Insert(item))
	return item
}

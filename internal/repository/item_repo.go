package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/nexuschat/nexuschat/internal/domain"
)

// ItemRepository handles uploaded item persistence
type ItemRepository struct {
	db *DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Insert stores a new uploaded item. Items are append-only; uploading the
// same file twice produces two distinct items.
func (r *ItemRepository) Insert(item *domain.UploadedItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO uploaded_items
			(id, session_id, user_id, filename, kind, size, mime_type, content, extracted_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.SessionID, item.UserID, item.Filename, string(item.Kind),
		item.Size, item.MimeType, item.Content, item.ExtractedText, item.CreatedAt)

	return err
}

// Get retrieves an item by ID, including its raw content. Returns nil when
// the item does not exist.
func (r *ItemRepository) Get(id string) (*domain.UploadedItem, error) {
	item := &domain.UploadedItem{}
	var kind string

	err := r.db.QueryRow(`
		SELECT id, session_id, user_id, filename, kind, size, mime_type, content, extracted_text, created_at
		FROM uploaded_items WHERE id = ?
	`, id).Scan(&item.ID, &item.SessionID, &item.UserID, &item.Filename, &kind,
		&item.Size, &item.MimeType, &item.Content, &item.ExtractedText, &item.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	item.Kind = domain.ItemKind(kind)
	return item, nil
}

// ListBySession retrieves all items for a session in upload order, without
// their raw content.
func (r *ItemRepository) ListBySession(sessionID string) ([]*domain.UploadedItem, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, user_id, filename, kind, size, mime_type, extracted_text, created_at
		FROM uploaded_items WHERE session_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.UploadedItem
	for rows.Next() {
		item := &domain.UploadedItem{}
		var kind string
		if err := rows.Scan(&item.ID, &item.SessionID, &item.UserID, &item.Filename,
			&kind, &item.Size, &item.MimeType, &item.ExtractedText, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Kind = domain.ItemKind(kind)
		items = append(items, item)
	}

	return items, rows.Err()
}

// Delete removes an item; its analysis records cascade.
func (r *ItemRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM uploaded_items WHERE id = ?`, id)
	return err
}

// Count returns the total number of uploaded items.
func (r *ItemRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM uploaded_items`).Scan(&count)
	return count, err
}

package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/nexuschat/nexuschat/internal/domain"
)

// AnalysisRepository persists derived analysis records for uploaded items.
type AnalysisRepository struct {
	db *DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Record appends an analysis record. Records are never overwritten; calling
// this twice for the same item and kind produces two rows, keeping the
// history of re-analysis.
func (r *AnalysisRepository) Record(record *domain.AnalysisRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO analysis_results (id, item_id, session_id, kind, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.ID, record.ItemID, record.SessionID, string(record.Kind),
		record.Summary, record.CreatedAt)

	return err
}

// ListForSession retrieves a session's analysis records joined with their
// item's filename and kind, newest first. Records whose item has been
// deleted drop out of the join rather than erroring.
func (r *AnalysisRepository) ListForSession(sessionID string) ([]*domain.SessionAnalysis, error) {
	rows, err := r.db.Query(`
		SELECT a.id, a.item_id, a.session_id, a.kind, a.summary, a.created_at,
			i.filename, i.kind
		FROM analysis_results a
		JOIN uploaded_items i ON i.id = a.item_id
		WHERE a.session_id = ?
		ORDER BY a.created_at DESC, a.rowid DESC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*domain.SessionAnalysis
	for rows.Next() {
		a := &domain.SessionAnalysis{}
		var kind, fileKind string
		if err := rows.Scan(&a.ID, &a.ItemID, &a.SessionID, &kind, &a.Summary,
			&a.CreatedAt, &a.Filename, &fileKind); err != nil {
			return nil, err
		}
		a.Kind = domain.AnalysisKind(kind)
		a.FileKind = domain.ItemKind(fileKind)
		analyses = append(analyses, a)
	}

	return analyses, rows.Err()
}

// LatestSummary returns the most recent summary of the given kind for an
// item, or "" when none exists.
func (r *AnalysisRepository) LatestSummary(itemID string, kind domain.AnalysisKind) (string, error) {
	var summary string
	err := r.db.QueryRow(`
		SELECT summary FROM analysis_results
		WHERE item_id = ? AND kind = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, itemID, string(kind)).Scan(&summary)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return summary, nil
}

// CountForItem returns the number of records of a given kind for an item.
func (r *AnalysisRepository) CountForItem(itemID string, kind domain.AnalysisKind) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM analysis_results WHERE item_id = ? AND kind = ?
	`, itemID, string(kind)).Scan(&count)
	return count, err
}

// DeleteForItem removes all records for an item. The foreign key cascade
// covers deletion through the item; this exists for callers that prune
// records without touching the item.
func (r *AnalysisRepository) DeleteForItem(itemID string) error {
	_, err := r.db.Exec(`DELETE FROM analysis_results WHERE item_id = ?`, itemID)
	return err
}

package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/secure-notes/internal/models"
)

// AuditRepo persists audit log entries.
type AuditRepo struct {
	DB *sql.DB
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{DB: db}
}

// Log records that userID performed action on noteID.
func (r *AuditRepo) Log(ctx context.Context, userID int, action string, noteID int) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO audit_log (user_id, action, note_id) VALUES ($1, $2, $3)`,
		userID, action, noteID,
	)
	return err
}

// ListByUser returns the user's audit entries, newest first.
func (r *AuditRepo) ListByUser(ctx context.Context, userID, limit, offset int) ([]models.AuditEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, action, note_id, created_at
		 FROM audit_log
		 WHERE user_id = $1
		 ORDER BY id DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.NoteID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

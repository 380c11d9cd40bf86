package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/secure-notes/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type NoteRepo struct {
	DB *sql.DB
}

func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{DB: db}
}

// ========================
// CREATE NOTE
// ========================

func (r *NoteRepo) Create(ctx context.Context, ownerID int, title string, content *string) (*models.Note, error) {
	note := &models.Note{}
	var body sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO notes (title, content, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, title, content, owner_id`,
		title, nullString(content), ownerID,
	).Scan(
		&note.ID,
		&note.Title,
		&body,
		&note.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	note.Content = stringPtr(body)
	return note, nil
}

// ========================
// GET NOTE BY ID
// ========================

func (r *NoteRepo) GetByID(ctx context.Context, id int) (*models.Note, error) {
	note := &models.Note{}
	var body sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, title, content, owner_id
		 FROM notes
		 WHERE id = $1`,
		id,
	).Scan(
		&note.ID,
		&note.Title,
		&body,
		&note.OwnerID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	note.Content = stringPtr(body)
	return note, nil
}

// ========================
// LIST NOTES OF ONE OWNER
// ========================

func (r *NoteRepo) ListByOwner(ctx context.Context, ownerID, limit, offset int) ([]models.Note, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, title, content, owner_id
		 FROM notes
		 WHERE owner_id = $1
		 ORDER BY id
		 LIMIT $2 OFFSET $3`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return scanNotes(rows)
}

// ========================
// LIST EVERY NOTE OF ONE OWNER
// ========================

func (r *NoteRepo) ListAllByOwner(ctx context.Context, ownerID int) ([]models.Note, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, title, content, owner_id
		 FROM notes
		 WHERE owner_id = $1
		 ORDER BY id`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	return scanNotes(rows)
}

// ========================
// UPDATE NOTE (title and content; owner never changes)
// ========================

func (r *NoteRepo) Update(ctx context.Context, note *models.Note) (*models.Note, error) {
	updated := &models.Note{}
	var body sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`UPDATE notes
		 SET title = $1, content = $2
		 WHERE id = $3
		 RETURNING id, title, content, owner_id`,
		note.Title, nullString(note.Content), note.ID,
	).Scan(
		&updated.ID,
		&updated.Title,
		&body,
		&updated.OwnerID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	updated.Content = stringPtr(body)
	return updated, nil
}

// ========================
// DELETE NOTE BY ID
// ========================

func (r *NoteRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func scanNotes(rows *sql.Rows) ([]models.Note, error) {
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		var body sql.NullString
		if err := rows.Scan(&n.ID, &n.Title, &body, &n.OwnerID); err != nil {
			return nil, err
		}
		n.Content = stringPtr(body)
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

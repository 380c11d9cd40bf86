package handlers

import (
	"time"

	"github.com/crucial707/secure-notes/internal/models"
)

// NoteResponse is the wire form of a note.
type NoteResponse struct {
	ID      int     `json:"id"`
	Title   string  `json:"title"`
	Content *string `json:"content"`
	OwnerID int     `json:"owner_id"`
}

// UserResponse is the wire form of a user. The password hash has no field
// here and can never be serialized.
type UserResponse struct {
	ID       int            `json:"id"`
	Username string         `json:"username"`
	Notes    []NoteResponse `json:"notes"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuditEntryResponse is the wire form of an audit log entry.
type AuditEntryResponse struct {
	ID        int       `json:"id"`
	Action    string    `json:"action"`
	NoteID    int       `json:"note_id"`
	CreatedAt time.Time `json:"created_at"`
}

func noteResponse(n models.Note) NoteResponse {
	return NoteResponse{
		ID:      n.ID,
		Title:   n.Title,
		Content: n.Content,
		OwnerID: n.OwnerID,
	}
}

func noteResponses(notes []models.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteResponse(n))
	}
	return out
}

func userResponse(u models.User, notes []models.Note) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Notes:    noteResponses(notes),
	}
}

func auditResponses(entries []models.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			ID:        e.ID,
			Action:    e.Action,
			NoteID:    e.NoteID,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

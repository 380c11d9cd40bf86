package models

import "time"

// Audit actions.
const (
	AuditCreate = "create"
	AuditUpdate = "update"
	AuditDelete = "delete"
	AuditDenied = "denied"
)

// AuditEntry represents one audit log row: a user acting on a note, or
// being refused access to one.
type AuditEntry struct {
	ID        int
	UserID    int
	Action    string
	NoteID    int
	CreatedAt time.Time
}

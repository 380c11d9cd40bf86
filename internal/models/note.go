package models

// Note is a persisted note row. OwnerID is set at creation and never changes.
type Note struct {
	ID      int
	Title   string
	Content *string
	OwnerID int
}

// OwnedBy reports the id of the user who owns the note.
func (n *Note) OwnedBy() int {
	return n.OwnerID
}

// NoteUpdate carries the fields of a partial update. A nil field was not
// present in the request and is left untouched. ClearContent is set when the
// request sent content as an explicit null.
type NoteUpdate struct {
	Title        *string
	Content      *string
	ClearContent bool
}

// ApplyTo overwrites only the fields present in u.
func (u NoteUpdate) ApplyTo(n *Note) {
	if u.Title != nil {
		n.Title = *u.Title
	}
	switch {
	case u.ClearContent:
		n.Content = nil
	case u.Content != nil:
		c := *u.Content
		n.Content = &c
	}
}

// Empty reports whether the update carries no fields at all.
func (u NoteUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil && !u.ClearContent
}

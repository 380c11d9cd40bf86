package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crucial707/secure-notes/internal/auth"
	"github.com/crucial707/secure-notes/internal/metrics"
	"github.com/crucial707/secure-notes/internal/middleware"
	"github.com/crucial707/secure-notes/internal/models"
	"github.com/crucial707/secure-notes/internal/repo"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 100
)

// ==========================
// NoteHandler
// ==========================
type NoteHandler struct {
	Notes  *repo.NoteRepo
	Audit  *repo.AuditRepo
	Logger *slog.Logger
}

// ==========================
// Create Note (owned by the caller)
// ==========================
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		middleware.Unauthorized(w)
		return
	}

	var input struct {
		Title   string  `json:"title" validate:"required,notblank"`
		Content *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	note, err := h.Notes.Create(r.Context(), user.ID, input.Title, input.Content)
	if err != nil {
		h.internal(w, r, "create note", err)
		return
	}

	h.audit(r, user.ID, models.AuditCreate, note.ID)
	writeJSON(w, http.StatusCreated, noteResponse(*note))
}

// ==========================
// List Notes (caller's own, paginated by skip/limit)
// ==========================
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		middleware.Unauthorized(w)
		return
	}

	skip, limit, fields := pageParams(r)
	if len(fields) > 0 {
		JSONValidationError(w, "invalid pagination", fields, http.StatusBadRequest)
		return
	}

	notes, err := h.Notes.ListByOwner(r.Context(), user.ID, limit, skip)
	if err != nil {
		h.internal(w, r, "list notes", err)
		return
	}

	writeJSON(w, http.StatusOK, noteResponses(notes))
}

// ==========================
// Get Note
// ==========================
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, _, ok := h.ownedNote(w, r, "view")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, noteResponse(*note))
}

// ==========================
// Update Note (partial: only fields present in the body change)
// ==========================
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	note, user, ok := h.ownedNote(w, r, "update")
	if !ok {
		return
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	update, fields := parseNoteUpdate(raw)
	if len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}
	if update.Empty() {
		writeJSON(w, http.StatusOK, noteResponse(*note))
		return
	}

	update.ApplyTo(note)
	updated, err := h.Notes.Update(r.Context(), note)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "note not found", http.StatusNotFound)
			return
		}
		h.internal(w, r, "update note", err)
		return
	}

	h.audit(r, user.ID, models.AuditUpdate, updated.ID)
	writeJSON(w, http.StatusOK, noteResponse(*updated))
}

// ==========================
// Delete Note
// ==========================
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	note, user, ok := h.ownedNote(w, r, "delete")
	if !ok {
		return
	}

	if err := h.Notes.Delete(r.Context(), note.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "note not found", http.StatusNotFound)
			return
		}
		h.internal(w, r, "delete note", err)
		return
	}

	h.audit(r, user.ID, models.AuditDelete, note.ID)
	w.WriteHeader(http.StatusNoContent)
}

// ownedNote loads the note named by the {id} URL parameter and checks that
// the caller, also returned, owns it. A missing note answers 404 before
// ownership is considered; a note owned by someone else answers 403. On
// failure the response has been written and ok is false.
func (h *NoteHandler) ownedNote(w http.ResponseWriter, r *http.Request, action string) (*models.Note, *models.User, bool) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		middleware.Unauthorized(w)
		return nil, nil, false
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		JSONError(w, "invalid note id", http.StatusBadRequest)
		return nil, nil, false
	}

	note, err := h.Notes.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "note not found", http.StatusNotFound)
			return nil, nil, false
		}
		h.internal(w, r, "load note", err)
		return nil, nil, false
	}

	if err := auth.AuthorizeOwner(note, user); err != nil {
		metrics.IncAccessDenied()
		loggerOrDefault(h.Logger).Warn("note access denied",
			"request_id", chimw.GetReqID(r.Context()),
			"user_id", user.ID,
			"note_id", note.ID,
			"action", action)
		h.audit(r, user.ID, models.AuditDenied, note.ID)
		JSONError(w, "not authorized to "+action+" this note", http.StatusForbidden)
		return nil, nil, false
	}
	return note, user, true
}

// audit records an entry when an audit repo is configured. A failed write is
// logged and does not fail the request.
func (h *NoteHandler) audit(r *http.Request, userID int, action string, noteID int) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Log(r.Context(), userID, action, noteID); err != nil {
		loggerOrDefault(h.Logger).Warn("audit log write failed",
			"request_id", chimw.GetReqID(r.Context()),
			"user_id", userID,
			"action", action,
			"note_id", noteID,
			"error", err)
	}
}

func (h *NoteHandler) internal(w http.ResponseWriter, r *http.Request, op string, err error) {
	loggerOrDefault(h.Logger).Error(op,
		"request_id", chimw.GetReqID(r.Context()),
		"error", err)
	JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
}

// pageParams reads skip (default 0) and limit (default 100, capped at 100).
func pageParams(r *http.Request) (skip, limit int, fields map[string]string) {
	skip, limit = 0, defaultPageLimit
	fields = map[string]string{}
	q := r.URL.Query()
	if s := q.Get("skip"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			fields["skip"] = "must be a non-negative integer"
		} else {
			skip = v
		}
	}
	if l := q.Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v < 0 {
			fields["limit"] = "must be a non-negative integer"
		} else {
			limit = min(v, maxPageLimit)
		}
	}
	return skip, limit, fields
}

// parseNoteUpdate builds a NoteUpdate from the decoded body, keeping track of
// which fields were present. Unknown fields are ignored.
func parseNoteUpdate(raw map[string]json.RawMessage) (models.NoteUpdate, map[string]string) {
	var update models.NoteUpdate
	fields := map[string]string{}

	if v, ok := raw["title"]; ok {
		var title *string
		if err := json.Unmarshal(v, &title); err != nil {
			fields["title"] = "must be a string"
		} else if title == nil {
			fields["title"] = "must not be null"
		} else if err := validate.Var(*title, "required,notblank"); err != nil {
			fields["title"] = "required"
		} else {
			update.Title = title
		}
	}

	if v, ok := raw["content"]; ok {
		var content *string
		if err := json.Unmarshal(v, &content); err != nil {
			fields["content"] = "must be a string or null"
		} else if content == nil {
			update.ClearContent = true
		} else {
			update.Content = content
		}
	}
	return update, fields
}

package handlers

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crucial707/secure-notes/internal/middleware"
	"github.com/crucial707/secure-notes/internal/repo"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Notes  *repo.NoteRepo
	Logger *slog.Logger
}

// ==========================
// Current User (with every note they own)
// ==========================
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		middleware.Unauthorized(w)
		return
	}

	notes, err := h.Notes.ListAllByOwner(r.Context(), user.ID)
	if err != nil {
		loggerOrDefault(h.Logger).Error("list notes for user",
			"request_id", chimw.GetReqID(r.Context()),
			"user_id", user.ID,
			"error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, userResponse(*user, notes))
}

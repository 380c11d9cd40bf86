package handlers

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crucial707/secure-notes/internal/middleware"
	"github.com/crucial707/secure-notes/internal/repo"
)

// AuditHandler serves the caller's own audit trail.
type AuditHandler struct {
	Repo   *repo.AuditRepo
	Logger *slog.Logger
}

// ListAudit returns the caller's audit entries, newest first. Query: skip (default 0), limit (default 100, max 100).
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
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

	entries, err := h.Repo.ListByUser(r.Context(), user.ID, limit, skip)
	if err != nil {
		loggerOrDefault(h.Logger).Error("list audit entries",
			"request_id", chimw.GetReqID(r.Context()),
			"user_id", user.ID,
			"error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, auditResponses(entries))
}

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"sync"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crucial707/secure-notes/internal/auth"
	"github.com/crucial707/secure-notes/internal/metrics"
	"github.com/crucial707/secure-notes/internal/repo"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users  *repo.UserRepo
	Hasher auth.Hasher
	Tokens *auth.TokenService
	Logger *slog.Logger

	dummyOnce   sync.Once
	dummyDigest string
}

type credentials struct {
	Username string `json:"username" validate:"required,notblank,max=150"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// ==========================
// Signup (password stored as bcrypt hash; username must be unused)
// ==========================
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	digest, err := h.Hasher.Hash(input.Password)
	if err != nil {
		loggerOrDefault(h.Logger).Error("hash password", "request_id", chimw.GetReqID(r.Context()), "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.Users.Create(r.Context(), input.Username, digest)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			JSONError(w, "username already registered", http.StatusBadRequest)
			return
		}
		loggerOrDefault(h.Logger).Error("create user", "request_id", chimw.GetReqID(r.Context()), "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse(*user, nil))
}

// ==========================
// Login (JSON body or OAuth2 password form; answers a bearer token)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			JSONError(w, "invalid form", http.StatusBadRequest)
			return
		}
		input.Username = r.PostForm.Get("username")
		input.Password = r.PostForm.Get("password")
	} else if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Username == "" || input.Password == "" {
		fields := map[string]string{}
		if input.Username == "" {
			fields["username"] = "required"
		}
		if input.Password == "" {
			fields["password"] = "required"
		}
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), input.Username)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		// Spend the same bcrypt work as a wrong password.
		h.Hasher.Verify(input.Password, h.dummy())
		h.rejectLogin(w, r, "unknown_user")
		return
	case err != nil:
		loggerOrDefault(h.Logger).Error("load user", "request_id", chimw.GetReqID(r.Context()), "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if !h.Hasher.Verify(input.Password, user.PasswordHash) {
		h.rejectLogin(w, r, "wrong_password")
		return
	}

	token, err := h.Tokens.Issue(user.Username)
	if err != nil {
		loggerOrDefault(h.Logger).Error("issue token", "request_id", chimw.GetReqID(r.Context()), "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.IncLogin("success")
	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *AuthHandler) rejectLogin(w http.ResponseWriter, r *http.Request, reason string) {
	metrics.IncLogin("invalid_credentials")
	loggerOrDefault(h.Logger).Warn("login failed",
		"request_id", chimw.GetReqID(r.Context()),
		"reason", reason)
	w.Header().Set("WWW-Authenticate", "Bearer")
	JSONError(w, auth.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
}

func (h *AuthHandler) dummy() string {
	h.dummyOnce.Do(func() {
		h.dummyDigest, _ = h.Hasher.Hash("not-a-real-password")
	})
	return h.dummyDigest
}

func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded"
}

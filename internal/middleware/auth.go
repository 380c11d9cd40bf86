package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crucial707/secure-notes/internal/auth"
	"github.com/crucial707/secure-notes/internal/metrics"
	"github.com/crucial707/secure-notes/internal/models"
)

type key string

const userKey key = "user"

// IdentityResolver resolves a bearer token to the stored user.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// Authenticate rejects the request with 401 unless its bearer token resolves
// to a stored user, and otherwise puts that user in the request context.
// Every authentication failure gets the same response body; the reason is
// only logged and counted.
func Authenticate(resolver IdentityResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolver.Resolve(r.Context(), BearerToken(r))
			if err != nil {
				if errors.Is(err, auth.ErrUnauthorized) {
					reason := string(auth.ReasonOf(err))
					metrics.IncAuthFailure(reason)
					logger.Warn("authentication failed",
						"request_id", chimw.GetReqID(r.Context()),
						"method", r.Method,
						"path", r.URL.Path,
						"reason", reason)
					Unauthorized(w)
					return
				}
				logger.Error("identity lookup failed",
					"request_id", chimw.GetReqID(r.Context()),
					"path", r.URL.Path,
					"error", err)
				writeError(w, "internal server error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// BearerToken returns the credential of an "Authorization: Bearer <token>"
// header, or "" when the header is absent or uses another scheme.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Unauthorized writes the uniform 401 response.
func Unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, auth.ErrUnauthorized.Error(), http.StatusUnauthorized)
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// CurrentUser returns the authenticated user stored by Authenticate.
func CurrentUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

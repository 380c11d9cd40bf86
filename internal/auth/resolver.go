package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/crucial707/secure-notes/internal/models"
	"github.com/crucial707/secure-notes/internal/repo"
)

// UserFinder looks a user up by username. It returns repo.ErrNotFound when no
// such user exists.
type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Resolver turns a bearer token into the persisted user it names.
type Resolver struct {
	Tokens *TokenService
	Users  UserFinder
}

// NewResolver returns a Resolver over the given token service and user store.
func NewResolver(tokens *TokenService, users UserFinder) *Resolver {
	return &Resolver{Tokens: tokens, Users: users}
}

// Resolve validates token and loads its subject. An invalid token and a token
// for a user that no longer exists both fail with ErrUnauthorized; only the
// Reason differs. Storage faults are returned wrapped and do not match
// ErrUnauthorized.
func (r *Resolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	claims, err := r.Tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := r.Users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, unauthorized(ReasonUnknownSubject, nil)
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	return user, nil
}

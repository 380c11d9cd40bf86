package auth

import "github.com/crucial707/secure-notes/internal/models"

// Owned is a resource that belongs to exactly one user.
type Owned interface {
	OwnedBy() int
}

// AuthorizeOwner returns nil when identity owns resource and ErrForbidden
// otherwise. Callers check that the resource exists first.
func AuthorizeOwner(resource Owned, identity *models.User) error {
	if identity == nil || resource.OwnedBy() != identity.ID {
		return ErrForbidden
	}
	return nil
}

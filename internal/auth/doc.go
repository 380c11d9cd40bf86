// Package auth holds the authentication and authorization boundary of the
// notes service: bcrypt password hashing, HS256 access tokens, resolving a
// token to a stored user, and the note ownership check.
package auth

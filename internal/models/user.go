package models

// User is a persisted account. PasswordHash is a bcrypt digest and never
// leaves the server.
type User struct {
	ID           int
	Username     string
	PasswordHash string
}

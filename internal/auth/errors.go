package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned by login when the username is unknown
	// or the password does not match.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrUnauthorized is the single outward-facing authentication failure.
	// Every *Error matches it with errors.Is.
	ErrUnauthorized = errors.New("could not validate credentials")

	// ErrForbidden means the caller is authenticated but does not own the resource.
	ErrForbidden = errors.New("not authorized to access this resource")
)

// Reason says why authentication failed. It is for logs and metrics only and
// must not be sent to clients.
type Reason string

const (
	ReasonMissingToken   Reason = "missing_token"
	ReasonMalformedToken Reason = "malformed_token"
	ReasonBadSignature   Reason = "bad_signature"
	ReasonExpired        Reason = "expired"
	ReasonMissingSubject Reason = "missing_subject"
	ReasonUnknownSubject Reason = "unknown_subject"
)

// Error is an authentication failure with its internal reason.
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unauthorized (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("unauthorized (%s)", e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes every *Error equal to ErrUnauthorized.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized
}

func unauthorized(reason Reason, err error) *Error {
	return &Error{Reason: reason, Err: err}
}

// ReasonOf returns the failure reason carried by err, or "" if err is not an
// authentication failure.
func ReasonOf(err error) Reason {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Reason
	}
	return ""
}

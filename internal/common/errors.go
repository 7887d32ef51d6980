// Package common defines shared constants and sentinel errors used across
// the server and client layers of CineCollection. Callers should use errors.Is
// to match these values; services wrap them with additional detail.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// Input errors.
	ErrValidation = errors.New("validation error")

	// Credential errors. ErrInvalidCredentials is shared by the unknown-email
	// and wrong-password paths.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	ErrInternal = errors.New("internal error")
)

// IsAuthError reports whether err belongs to the authentication family.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrUnauthorized)
}

// PublicError pairs a sentinel kind with a message that is safe to return
// to API callers verbatim.
type PublicError struct {
	Kind error
	Msg  string
}

func (e *PublicError) Error() string { return e.Msg }

func (e *PublicError) Unwrap() error { return e.Kind }

// NewPublicError returns an error matching kind under errors.Is whose text
// is msg.
func NewPublicError(kind error, msg string) error {
	return &PublicError{Kind: kind, Msg: msg}
}

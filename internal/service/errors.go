package service

import "errors"

var (
	// ErrInvalidCredential is returned by Login for a key that does not match
	// the configured secret.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrUnauthenticated covers a missing, malformed, badly signed, or
	// expired session token. The causes are deliberately not distinguished.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrMissingField is returned when a required input is absent.
	ErrMissingField = errors.New("missing field")
	// ErrEmptyField is returned when a required input is blank after trimming.
	ErrEmptyField = errors.New("empty field")
	// ErrAlreadyExists is returned when a topic with the same normalized
	// identifier already exists.
	ErrAlreadyExists = errors.New("already exists")
)

// FieldError names the input that failed validation. It unwraps to
// ErrMissingField or ErrEmptyField.
type FieldError struct {
	Field   string
	Err     error
	Message string // user-facing text returned by the API
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// subject is the word used in the user-facing message: topic fields are
// named, card fields are reported as "adat" (data).
func missing(field, subject string) error {
	return &FieldError{Field: field, Err: ErrMissingField, Message: "Hiányzó " + subject}
}

func empty(field, subject string) error {
	return &FieldError{Field: field, Err: ErrEmptyField, Message: "Üres " + subject}
}

package entities

import (
	"errors"
	"fmt"
)

// User-facing failure kinds. Match with errors.Is.
var (
	ErrNoArchiveMatched    = errors.New("no matching archive")
	ErrOutputExists        = errors.New("output file exists")
	ErrMissingFile         = errors.New("missing file")
	ErrNoProguardFile      = errors.New("no proguard file found")
	ErrArchivePathNotFound = errors.New("archive path not found")
	ErrInvalidConfig       = errors.New("invalid configuration")
)

// ErrNoKeys is returned when a metadata lookup is called without any key.
// It signals a programming error, never a user error.
var ErrNoKeys = errors.New("fetch key called without keys")

// UserError is an error caused by user input or the user's filesystem state.
// The CLI reports its message and exits without a stack of internal context.
type UserError struct {
	Msg string
	Err error
}

// NewUserError creates a user error of the given kind
func NewUserError(kind error, format string, args ...any) *UserError {
	return &UserError{Msg: fmt.Sprintf(format, args...), Err: kind}
}

func (e *UserError) Error() string {
	return e.Msg
}

// Unwrap exposes the error kind to errors.Is
func (e *UserError) Unwrap() error {
	return e.Err
}

// IsUserError reports whether err is, or wraps, a UserError
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

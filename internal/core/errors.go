package core

import "errors"

var (
	// ErrLookupMiss means a reference lookup found no match. Callers fall back
	// to an empty value.
	ErrLookupMiss = errors.New("lookup miss")

	// ErrReferenceUnavailable means reference data could not be loaded at all.
	ErrReferenceUnavailable = errors.New("reference data unavailable")

	// ErrUnknownPart is returned for a part category that is not registered.
	ErrUnknownPart = errors.New("unknown part")

	// ErrInvalidMode is returned by ParseMode for anything but create or update.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrInvalidItemCode means the item code cannot be used as a file name.
	ErrInvalidItemCode = errors.New("invalid item code")
)

// MissingInputError reports a required identifying field that was not given.
type MissingInputError struct {
	Field string
}

func (e *MissingInputError) Error() string {
	return "missing required input: " + e.Field
}

// IsMissingInput reports whether err is, or wraps, a *MissingInputError.
func IsMissingInput(err error) bool {
	var mie *MissingInputError
	return errors.As(err, &mie)
}

// Package apperr holds the error taxonomy shared across markit packages.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIO marks a file that is missing, unreadable or unwritable.
	ErrIO = errors.New("io error")
	// ErrParse marks malformed serialized content.
	ErrParse = errors.New("parse error")
	// ErrNotFound marks a name or tag query without matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName marks a case-insensitive name collision on save, edit or import.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrSelectionCancelled marks a declined disambiguation or confirmation.
	ErrSelectionCancelled = errors.New("selection cancelled")
	// ErrNotExecutable marks an attempt to run a snippet not flagged executable.
	ErrNotExecutable = errors.New("not executable")
	// ErrInvalid marks user-supplied fields that fail validation.
	ErrInvalid = errors.New("invalid snippet")
	// ErrAmbiguous marks a query with several matches and nobody to choose between them.
	ErrAmbiguous = errors.New("ambiguous")
)

// IO wraps err as an ErrIO with context.
func IO(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}

// Parse wraps err as an ErrParse with context.
func Parse(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrParse, op, err)
}

// IsUserError reports whether err is an expected outcome that the CLI reports
// as a plain message rather than logging as a failure.
func IsUserError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicateName) ||
		errors.Is(err, ErrSelectionCancelled) ||
		errors.Is(err, ErrNotExecutable) ||
		errors.Is(err, ErrInvalid) ||
		errors.Is(err, ErrAmbiguous)
}

// Message returns the line the CLI prints for a user error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrSelectionCancelled):
		return "cancelled"
	case errors.Is(err, ErrNotFound):
		return "no snippet found: " + cause(err)
	case errors.Is(err, ErrDuplicateName):
		return "a snippet with that name already exists: " + cause(err)
	case errors.Is(err, ErrNotExecutable):
		return "snippet is not executable: " + cause(err)
	case errors.Is(err, ErrInvalid):
		return err.Error()
	case errors.Is(err, ErrAmbiguous):
		return "query matches several snippets: " + cause(err)
	default:
		return err.Error()
	}
}

// cause strips the trailing sentinel text that %w wrapping appends, so
// "deploy: not found" becomes "deploy".
func cause(err error) string {
	msg := err.Error()
	for _, s := range []error{ErrNotFound, ErrDuplicateName, ErrNotExecutable, ErrAmbiguous} {
		if i := strings.LastIndex(msg, ": "+s.Error()); i >= 0 {
			return msg[:i]
		}
	}
	return msg
}

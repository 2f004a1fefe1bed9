package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the bookmark is absent, or is not visible to the actor.
	ErrNotFound = errors.New("bookmark not found")
	// ErrPermission means the actor does not own the target bookmark.
	ErrPermission = errors.New("permission denied")
	// ErrUnknownOperation is returned for bulk operations outside the Operation enum.
	ErrUnknownOperation = errors.New("unknown bulk operation")
)

// ValidationError reports a malformed required field. It is returned before anything is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

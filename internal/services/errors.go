package services

import (
	"errors"
	"strings"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrNotOwner          = errors.New("visitor is not the author of this post")
	ErrInvalidSearchTerm = errors.New("search term must be a string")
)

// ValidationError carries the ordered, user-facing messages of a rejected
// submission. Callers display Messages as-is.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, " ")
}

// newValidationError returns nil when there is nothing to report.
func newValidationError(messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: messages}
}

// ValidationMessages returns the messages carried by err, or nil when err
// is not a validation failure.
func ValidationMessages(err error) []string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Messages
	}
	return nil
}

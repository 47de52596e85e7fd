package dreams

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTitle       = &ValidationError{Field: "title", msg: "please enter a dream title"}
	ErrEmptyDescription = &ValidationError{Field: "description", msg: "please enter a dream description"}
)

// ValidationError rejects a dream before anything is mutated.
type ValidationError struct {
	Field string
	msg   string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// PersistenceError reports a failed save. The dream it accompanies is kept in
// memory so the caller can retry the save later.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save dreams: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

package domain

import (
	"errors"
	"fmt"
)

// ValidationError is returned when a required task field is missing.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed"
	}
	return fmt.Sprintf("%s is required", e.Field)
}

// NotFoundError is returned when an operation references an unknown task id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %s not found", e.ID)
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

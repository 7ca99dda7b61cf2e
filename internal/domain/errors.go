package domain

import (
	"errors"
	"fmt"
)

// NotFoundError indicates a referenced entity does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id=%s not found", e.Resource, e.ID)
}

// NewNotFoundError creates a NotFoundError for the given resource and id.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError indicates malformed or business-rule-violating input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// AccessDeniedError indicates the caller is not allowed to perform the operation.
type AccessDeniedError struct {
	Msg string
}

func (e *AccessDeniedError) Error() string { return e.Msg }

// NewAccessDeniedError creates an AccessDeniedError with the given message.
func NewAccessDeniedError(msg string) *AccessDeniedError {
	return &AccessDeniedError{Msg: msg}
}

// ConflictError indicates a concurrent modification was detected by the store.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// NewConflictError creates a ConflictError with the given message.
func NewConflictError(msg string) *ConflictError {
	return &ConflictError{Msg: msg}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsAccessDenied reports whether err is (or wraps) an AccessDeniedError.
func IsAccessDenied(err error) bool {
	var target *AccessDeniedError
	return errors.As(err, &target)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")

	ErrAlreadyLinked         = errors.New("recipe user already linked to another primary user")
	ErrAccountInfoAssociated = errors.New("account info already associated with another primary user")
	ErrNotPrimary            = errors.New("input user is not a primary user")
	ErrInvalidQuery          = errors.New("account info query must name exactly one identifier")
	ErrStoreUnavailable      = errors.New("store unavailable")
	ErrSessionRevocation     = errors.New("session revocation failed")
	ErrProviderUnavailable   = errors.New("identity provider unavailable")
)

// AlreadyLinkedError reports that a recipe user already belongs to a
// different primary user.
type AlreadyLinkedError struct {
	OwnerID string
}

func (e *AlreadyLinkedError) Error() string {
	return fmt.Sprintf("%s: owner %s", ErrAlreadyLinked, e.OwnerID)
}

func (e *AlreadyLinkedError) Unwrap() error { return ErrAlreadyLinked }

// AccountInfoAssociatedError reports that one identifier of a login method is
// already held by another primary user.
type AccountInfoAssociatedError struct {
	OwnerID string
	Axis    Axis
}

func (e *AccountInfoAssociatedError) Error() string {
	return fmt.Sprintf("%s: %s held by %s", ErrAccountInfoAssociated, e.Axis, e.OwnerID)
}

func (e *AccountInfoAssociatedError) Unwrap() error { return ErrAccountInfoAssociated }

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// Package apperrors defines the error taxonomy shared by services,
// repositories and handlers. Handlers map these to HTTP statuses;
// anything unrecognized becomes a 500.
package apperrors

import (
	"errors"
	"net/http"
)

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

func NewForbiddenError(reason string) *ForbiddenError {
	return &ForbiddenError{Reason: reason}
}

type AuthError struct {
	Code   string
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}

func NewAuthError(code, reason string) *AuthError {
	return &AuthError{Code: code, Reason: reason}
}

type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

func NewConflictError(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

// HTTPStatus maps an error to the closest taxonomy status code.
func HTTPStatus(err error) int {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		forbiddenErr  *ForbiddenError
		authErr       *AuthError
		conflictErr   *ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &forbiddenErr):
		return http.StatusForbidden
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

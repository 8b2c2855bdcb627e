// Package common defines the sentinel errors and constants shared by the
// client and server parts of tweeter. Callers match errors with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors. ErrorUnauthorized covers both an unknown user and
	// a wrong credential so callers cannot tell them apart.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("access denied")
	ErrorValidation   = errors.New("validation error")

	// Token codec errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Package common defines shared constants, helpers and sentinel errors used
// across the survey server and its CLI. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Survey submission.
	ErrAlreadyResponded = errors.New("already responded")

	// Reset code and access token lifecycle.
	ErrCodeMismatch = errors.New("code mismatch")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

package service

import "errors"

// Service-level sentinel errors. Handlers map these onto HTTP statuses.
var (
	// ErrInvalidInput covers blank or malformed request fields
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned when a password check fails
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned when the referenced user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrUnauthorized is returned when no valid identity accompanies a request
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenReused is returned when a rotated refresh token is presented
	// again. Callers must treat this as a compromised session and force a
	// fresh login.
	ErrTokenReused = errors.New("refresh token is expired or already used")

	// ErrDependencyFailure is returned when an upstream collaborator
	// (avatar storage, OAuth provider) fails
	ErrDependencyFailure = errors.New("upstream dependency failure")
)

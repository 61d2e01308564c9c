// Package service provides business logic for the application.
package service

import "errors"

// Errors shared across services. Handlers map these to HTTP responses;
// none of them indicate a dependency failure.
var (
	// ErrUnauthorized means no authenticated session was presented.
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden means the session role does not permit the operation.
	// Mutations rejected with this error perform no partial writes.
	ErrForbidden = errors.New("operation requires ADMIN role")
	// ErrNotFound means the target record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidCredentials covers unknown handles and wrong passwords
	// alike, so sign-in failures don't leak which one it was.
	ErrInvalidCredentials = errors.New("invalid bank code or password")
	// ErrEmailExists means the synthesized issuer email is already taken.
	ErrEmailExists = errors.New("issuer already registered")
)

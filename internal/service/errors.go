package service

import "errors"

// Sentinel errors for the service layer. The HTTP handlers map these to
// status codes and response messages with errors.Is.
var (
	ErrMissingEmail    = errors.New("missing email")
	ErrMissingPassword = errors.New("missing password")
	ErrUserExists      = errors.New("user already exists")

	ErrMissingName     = errors.New("missing name")
	ErrInvalidType     = errors.New("missing or invalid type")
	ErrMissingData     = errors.New("missing data")
	ErrParentNotFound  = errors.New("parent not found")
	ErrParentNotFolder = errors.New("parent is not a folder")

	// ErrNotFound covers both a genuinely absent node and one the requester
	// is not allowed to see, so existence never leaks to non-owners.
	ErrNotFound       = errors.New("not found")
	ErrIsFolder       = errors.New("a folder doesn't have content")
	ErrAlreadyInState = errors.New("visibility already in requested state")
)

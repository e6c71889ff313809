package domain

import "errors"

var (
	// ErrNotFound indicates the session or item does not exist or is not owned by the caller
	ErrNotFound = errors.New("resource not found")
	// ErrUnsupportedType indicates a file extension outside the allow-list
	ErrUnsupportedType = errors.New("file type not allowed")
	// ErrFileTooLarge indicates the upload exceeds the configured size limit
	ErrFileTooLarge = errors.New("file too large")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates a missing or expired auth token
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials indicates a failed login
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists indicates a signup with a taken username or email
	ErrUserExists = errors.New("user already exists")
)

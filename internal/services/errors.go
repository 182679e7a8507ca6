package services

import "errors"

var (
	// ErrNotFound is returned by identifier-keyed operations when no
	// participant exists for the given phone number.
	ErrNotFound = errors.New("participant not found")

	// ErrAlreadyExists is returned by Create when the phone number is taken.
	ErrAlreadyExists = errors.New("participant already exists")

	// ErrInvalidCredentials is returned on a wrong admin password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotAuthorized is returned for tokens with no live admin session.
	ErrNotAuthorized = errors.New("not authorized")
)

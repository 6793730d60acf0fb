package service

import "errors"

var (
	// ErrDuplicateEmail is returned when registering an email that is
	// already in use, ignoring letter case.
	ErrDuplicateEmail = errors.New("directory: duplicate email")

	// ErrInvalidCredentials is returned when no account matches an email and
	// secret pair.
	ErrInvalidCredentials = errors.New("directory: invalid credentials")
)

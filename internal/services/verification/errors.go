package verification

import "errors"

var (
	// ErrNotFound means no verification record exists with the given id.
	ErrNotFound = errors.New("verification record not found")
	// ErrInvalidStatus means the requested status is outside the enumerated set.
	ErrInvalidStatus = errors.New("invalid verification status")
	// ErrUserNotFound means the record's owning user is missing.
	ErrUserNotFound = errors.New("user not found")
)

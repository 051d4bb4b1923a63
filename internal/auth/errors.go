package auth

import "errors"

var (
	// ErrInvalidToken is returned when a presented token fails signature or claim validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidOldPassword is returned when the provided old password does not match the user's current password.
	ErrInvalidOldPassword = errors.New("invalid old password")

	// ErrPasswordExpired is returned when the user's password exceeded the configured maximum age.
	ErrPasswordExpired = errors.New("password expired")
)

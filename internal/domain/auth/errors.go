package auth

import "errors"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingActor = errors.New("token does not identify an employee")
)

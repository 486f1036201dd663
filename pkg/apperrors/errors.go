package apperrors

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidRole     = errors.New("invalid role")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrRoomUnavailable = errors.New("room is not available")
	ErrWeakPassword    = errors.New("password does not meet policy")
)

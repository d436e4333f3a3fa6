package service

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrConflict            = errors.New("already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrForbidden           = errors.New("forbidden")
)

package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrBackend        = errors.New("backend failure")
	ErrSessionExpired = errors.New("session expired")
	ErrConflict       = errors.New("conflict")
)

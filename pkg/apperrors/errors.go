package apperrors

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrTimeout          = errors.New("request timeout")
	ErrValidation       = errors.New("validation failed")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnavailable      = errors.New("service unavailable")
	ErrUnknownMessage   = errors.New("unknown message type")
)

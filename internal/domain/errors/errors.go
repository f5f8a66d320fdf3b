package errors

import "errors"

var (
	ErrAlreadyExists          = errors.New("already exists")
	ErrNotFound               = errors.New("not found")
	ErrValidation             = errors.New("validation failed")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInactiveUser           = errors.New("user is inactive")
	ErrForbidden              = errors.New("forbidden")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidState           = errors.New("invalid order state")
	ErrInvalidStateTransition = errors.New("invalid order state transition")
	ErrInvalidSignature       = errors.New("invalid event signature")
	ErrGatewayUnavailable     = errors.New("payment gateway unavailable")
)

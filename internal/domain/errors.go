package domain

import "errors"

var (
	ErrInvalidDirection    = errors.New("invalid commute direction")
	ErrInvalidState        = errors.New("invalid tracking state")
	ErrInvalidTimeRange    = errors.New("invalid time range")
	ErrSessionAlreadyEnded = errors.New("session already ended")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionStillActive  = errors.New("session still active")
	ErrStartInFuture       = errors.New("start time cannot be in the future")
	ErrUserNotFound        = errors.New("user not found")
)

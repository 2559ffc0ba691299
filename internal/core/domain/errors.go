package domain

import "errors"

// Common domain errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSessionUnavailable = errors.New("session store unavailable")
	ErrSessionNotFound    = errors.New("session not found")
	ErrRequestFailed      = errors.New("backend request failed")
	ErrStaleResponse      = errors.New("stale response discarded")
	ErrNoSchool           = errors.New("school id not available")
	ErrInvalidRole        = errors.New("invalid role")
)

package service

import "errors"

var (
	// ErrNotFound covers never-created, already-consumed, and expired
	// pairings alike; callers must not be able to tell these apart.
	ErrNotFound           = errors.New("pairing not found")
	ErrAlreadyExists      = errors.New("request already exists")
	ErrAlreadySubmitted   = errors.New("response already submitted")
	ErrNotInitialized     = errors.New("request was never initialized")
	ErrIdempotentDisabled = errors.New("idempotent request creation is disabled")
)

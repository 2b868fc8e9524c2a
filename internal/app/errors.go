package service

import "errors"

// Sentinel errors returned by the service. Callers match them with errors.Is.
var (
	ErrNotStarted        = errors.New("service not started")
	ErrTooLarge          = errors.New("request exceeds configured limits")
	ErrBusy              = errors.New("ranking queue is full")
	ErrInvalidTiebreaker = errors.New("invalid tiebreaker chain")
)

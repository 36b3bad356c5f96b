package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted         = errors.New("service not started")
	ErrUnknownCompetition = errors.New("unknown competition")
	ErrDuplicateSnapshot  = errors.New("snapshot already recorded at this time")
)

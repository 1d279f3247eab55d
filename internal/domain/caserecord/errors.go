package caserecord

import "errors"

var (
	ErrCaseNotFound = errors.New("case not found")
	// ErrStatusConflict means a transition was attempted from an unexpected
	// current status. Nothing is mutated; the caller should re-read the case.
	ErrStatusConflict        = errors.New("case status changed since it was read")
	ErrInvalidEpisodeType    = errors.New("invalid episode type")
	ErrInvalidDecisionAction = errors.New("invalid decision action")
)

package caserecord

import "time"

// Responsiveness buckets are a reporting concern layered on top of the raw
// elapsed value. The raw value is always exact and is never recomputed from a
// formatted or rounded display value.
type Responsiveness string

const (
	ResponseGood     Responsiveness = "good"
	ResponseModerate Responsiveness = "moderate"
	ResponseDelayed  Responsiveness = "delayed"
)

const (
	goodResponseLimitMs     = 30 * 60 * 1000
	moderateResponseLimitMs = 2 * 60 * 60 * 1000
)

// ResponseTimeMs returns the exact elapsed milliseconds between escalation
// and the reviewer's decision.
func ResponseTimeMs(escalatedAt, resolvedAt time.Time) int64 {
	return resolvedAt.Sub(escalatedAt).Milliseconds()
}

func ClassifyResponse(ms int64) Responsiveness {
	switch {
	case ms < goodResponseLimitMs:
		return ResponseGood
	case ms < moderateResponseLimitMs:
		return ResponseModerate
	default:
		return ResponseDelayed
	}
}

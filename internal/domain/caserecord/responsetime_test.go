package caserecord

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResponseTimeMsExact(t *testing.T) {
	escalated := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		resolved time.Time
		want     int64
	}{
		{"same instant", escalated, 0},
		{"sub-second", escalated.Add(742 * time.Millisecond), 742},
		{"one minute", escalated.Add(time.Minute), 60_000},
		{"ninety minutes and change", escalated.Add(90*time.Minute + 37*time.Millisecond), 5_400_037},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResponseTimeMs(escalated, tt.resolved))
		})
	}
}

func TestClassifyResponseBuckets(t *testing.T) {
	tests := []struct {
		ms   int64
		want Responsiveness
	}{
		{0, ResponseGood},
		{29*60*1000 + 59_999, ResponseGood},
		{30 * 60 * 1000, ResponseModerate},
		{2*60*60*1000 - 1, ResponseModerate},
		{2 * 60 * 60 * 1000, ResponseDelayed},
		{24 * 60 * 60 * 1000, ResponseDelayed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyResponse(tt.ms), "ms=%d", tt.ms)
	}
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ayushpatil0810/carebridge/internal/domain/caserecord"
	"github.com/ayushpatil0810/carebridge/internal/domain/patient"
	"github.com/ayushpatil0810/carebridge/internal/domain/scoring"
)

type stubDrafter struct {
	text string
	err  error
	wait time.Duration
}

func (s *stubDrafter) Draft(ctx context.Context, _ string) (string, error) {
	if s.wait > 0 {
		select {
		case <-time.After(s.wait):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.text, s.err
}

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(context.Context, string) (string, error) {
	return s.text, s.err
}

type stubRelay struct {
	link string
	err  error
}

func (s *stubRelay) DeepLink(context.Context, string, string) (string, error) {
	return s.link, s.err
}

func assistFixtureCase() (*caserecord.Case, *patient.Patient) {
	c := &caserecord.Case{
		ID:       uuid.New(),
		Score:    6,
		RiskTier: scoring.TierModerate,
		Breakdown: []scoring.BreakdownEntry{
			{Parameter: "respiratory_rate", Observed: "22", SubScore: 2},
			{Parameter: "spo2", Observed: "95", SubScore: 1},
		},
		RedFlags: []string{scoring.RedFlagSevereChestPain},
	}
	p := &patient.Patient{
		FirstName:   "Amina",
		LastName:    "Okafor",
		DateOfBirth: time.Date(1992, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	return c, p
}

func TestDraftCaseSummaryUsesCollaborator(t *testing.T) {
	c, p := assistFixtureCase()
	svc := NewAssistService(nil, &stubDrafter{text: "drafted summary"}, nil, time.Second, zap.NewNop())

	got := svc.DraftCaseSummary(context.Background(), c, p)

	assert.Equal(t, "drafted summary", got)
}

func TestDraftCaseSummaryFallsBackOnError(t *testing.T) {
	c, p := assistFixtureCase()
	svc := NewAssistService(nil, &stubDrafter{err: errors.New("upstream down")}, nil, time.Second, zap.NewNop())

	got := svc.DraftCaseSummary(context.Background(), c, p)

	assert.Equal(t, TemplateSummary(c, p), got)
}

func TestDraftCaseSummaryFallsBackOnEmptyDraft(t *testing.T) {
	c, p := assistFixtureCase()
	svc := NewAssistService(nil, &stubDrafter{text: "   "}, nil, time.Second, zap.NewNop())

	got := svc.DraftCaseSummary(context.Background(), c, p)

	assert.Equal(t, TemplateSummary(c, p), got)
}

// A slow collaborator is indistinguishable from a dead one: the timeout fires
// and the deterministic template comes back instead.
func TestDraftCaseSummaryTimesOut(t *testing.T) {
	c, p := assistFixtureCase()
	svc := NewAssistService(nil, &stubDrafter{text: "too late", wait: time.Second}, nil, 10*time.Millisecond, zap.NewNop())

	start := time.Now()
	got := svc.DraftCaseSummary(context.Background(), c, p)

	assert.Equal(t, TemplateSummary(c, p), got)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestDraftCaseSummaryNilCollaborator(t *testing.T) {
	c, p := assistFixtureCase()
	svc := NewAssistService(nil, nil, nil, time.Second, zap.NewNop())

	assert.Equal(t, TemplateSummary(c, p), svc.DraftCaseSummary(context.Background(), c, p))
}

func TestTranscribeVoiceNoteFallback(t *testing.T) {
	svc := NewAssistService(&stubTranscriber{err: errors.New("boom")}, nil, nil, time.Second, zap.NewNop())

	got := svc.TranscribeVoiceNote(context.Background(), "https://example.org/note.ogg")

	assert.Equal(t, "[voice note attached - transcription unavailable]", got)
}

func TestTranscribeVoiceNoteSuccess(t *testing.T) {
	svc := NewAssistService(&stubTranscriber{text: "patient reports dizziness"}, nil, nil, time.Second, zap.NewNop())

	got := svc.TranscribeVoiceNote(context.Background(), "https://example.org/note.ogg")

	assert.Equal(t, "patient reports dizziness", got)
}

func TestShareReferralRelayLink(t *testing.T) {
	c, p := assistFixtureCase()
	svc := NewAssistService(nil, nil, &stubRelay{link: "https://relay.example/x1"}, time.Second, zap.NewNop())

	got := svc.ShareReferral(context.Background(), c, p, "+254700000001")

	assert.Equal(t, "https://relay.example/x1", got)
}

func TestShareReferralSMSFallback(t *testing.T) {
	c, p := assistFixtureCase()
	svc := NewAssistService(nil, nil, &stubRelay{err: errors.New("relay down")}, time.Second, zap.NewNop())

	got := svc.ShareReferral(context.Background(), c, p, "+254700000001")

	assert.True(t, strings.HasPrefix(got, "sms:+254700000001?body="))
}

func TestTemplateSummaryDeterministic(t *testing.T) {
	c, p := assistFixtureCase()

	first := TemplateSummary(c, p)
	second := TemplateSummary(c, p)

	require.Equal(t, first, second)
	assert.Contains(t, first, "Amina Okafor")
	assert.Contains(t, first, "MODERATE")
	assert.Contains(t, first, "severe_chest_pain")
}

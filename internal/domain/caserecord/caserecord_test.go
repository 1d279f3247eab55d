package caserecord

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushpatil0810/carebridge/internal/domain/scoring"
)

var baseTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestCase() *Case {
	c := &Case{
		ID:         uuid.New(),
		PatientID:  uuid.New(),
		RecorderID: uuid.New(),
		Episode:    EpisodeAcuteVisit,
		Score:      5,
		RiskTier:   scoring.TierModerate,
		Status:     StatusCreated,
	}
	c.AppendCreation(baseTime)
	return c
}

func pendingCase() *Case {
	c := newTestCase()
	_ = c.RequestReview(c.RecorderID, "field_recorder", false, baseTime.Add(time.Minute))
	return c
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusCreated, StatusPendingReview, true},
		{StatusCreated, StatusReviewed, false},
		{StatusCreated, StatusReferralApproved, false},
		{StatusPendingReview, StatusReferralApproved, true},
		{StatusPendingReview, StatusUnderMonitoring, true},
		{StatusPendingReview, StatusAwaitingClarification, true},
		{StatusPendingReview, StatusReviewed, true},
		{StatusPendingReview, StatusCreated, false},
		{StatusAwaitingClarification, StatusPendingReview, true},
		{StatusAwaitingClarification, StatusReviewed, false},
		{StatusReferralApproved, StatusPendingReview, false},
		{StatusUnderMonitoring, StatusPendingReview, false},
		{StatusReviewed, StatusPendingReview, false},
	}

	for _, tt := range tests {
		c := &Case{Status: tt.from}
		assert.Equal(t, tt.allowed, c.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusReferralApproved.IsTerminal())
	assert.True(t, StatusUnderMonitoring.IsTerminal())
	assert.True(t, StatusReviewed.IsTerminal())
	assert.False(t, StatusCreated.IsTerminal())
	assert.False(t, StatusPendingReview.IsTerminal())
	assert.False(t, StatusAwaitingClarification.IsTerminal())
}

func TestRequestReview(t *testing.T) {
	c := newTestCase()
	escalated := baseTime.Add(time.Minute)

	err := c.RequestReview(c.RecorderID, "field_recorder", true, escalated)

	require.NoError(t, err)
	assert.Equal(t, StatusPendingReview, c.Status)
	assert.True(t, c.EmergencyFlag)
	require.NotNil(t, c.EscalatedAt)
	assert.Equal(t, escalated, *c.EscalatedAt)

	require.Len(t, c.AuditTrail, 2)
	last := c.AuditTrail[1]
	assert.Equal(t, EventReviewRequested, last.Action)
	assert.True(t, last.Emergency)
	require.NotNil(t, last.Score)
	assert.Equal(t, 5, *last.Score)
}

func TestRequestReviewWrongState(t *testing.T) {
	c := pendingCase()
	before := *c

	err := c.RequestReview(c.RecorderID, "field_recorder", false, baseTime.Add(time.Hour))

	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.Equal(t, before.Status, c.Status)
	assert.Len(t, c.AuditTrail, len(before.AuditTrail))
}

func TestApplyDecisionApproveReferral(t *testing.T) {
	c := pendingCase()
	reviewer := uuid.New()
	decided := baseTime.Add(10 * time.Minute)

	err := c.ApplyDecision(&DecisionCommand{
		Action:         ActionApproveReferral,
		ReferralReason: "suspected pneumonia",
		ReviewerID:     reviewer,
		ReviewerRole:   "reviewer",
	}, decided)

	require.NoError(t, err)
	assert.Equal(t, StatusReferralApproved, c.Status)
	assert.Equal(t, "suspected pneumonia", c.ReferralReason)
	require.NotNil(t, c.ReviewerID)
	assert.Equal(t, reviewer, *c.ReviewerID)

	require.NotNil(t, c.ResolvedAt)
	assert.Equal(t, decided, *c.ResolvedAt)
	require.NotNil(t, c.ResponseTimeMs)
	// Escalated at baseTime+1m, decided at baseTime+10m: exactly 9 minutes.
	assert.Equal(t, int64(9*60*1000), *c.ResponseTimeMs)

	last := c.AuditTrail[len(c.AuditTrail)-1]
	assert.Equal(t, EventReferralApproved, last.Action)
	assert.Equal(t, "suspected pneumonia", last.ReferralReason)
	require.NotNil(t, last.ResponseTimeMs)
	assert.Equal(t, *c.ResponseTimeMs, *last.ResponseTimeMs)
}

func TestApplyDecisionStartMonitoring(t *testing.T) {
	c := pendingCase()

	err := c.ApplyDecision(&DecisionCommand{
		Action:                 ActionStartMonitoring,
		MonitoringPeriod:       Monitoring24h,
		MonitoringInstructions: "recheck vitals every 4 hours",
		ReviewerID:             uuid.New(),
		ReviewerRole:           "reviewer",
	}, baseTime.Add(5*time.Minute))

	require.NoError(t, err)
	assert.Equal(t, StatusUnderMonitoring, c.Status)
	require.NotNil(t, c.Monitoring)
	assert.Equal(t, Monitoring24h, c.Monitoring.Period)
	assert.Equal(t, "recheck vitals every 4 hours", c.Monitoring.Instructions)

	last := c.AuditTrail[len(c.AuditTrail)-1]
	assert.Equal(t, EventMonitoringStarted, last.Action)
	assert.Equal(t, "24h", last.MonitoringPeriod)
}

func TestApplyDecisionRequestClarification(t *testing.T) {
	c := pendingCase()
	asked := baseTime.Add(3 * time.Minute)

	err := c.ApplyDecision(&DecisionCommand{
		Action:                ActionRequestClarification,
		ClarificationType:     ClarificationVitalsRecheck,
		ClarificationQuestion: "please recheck the pulse manually",
		ReviewerID:            uuid.New(),
		ReviewerRole:          "reviewer",
	}, asked)

	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingClarification, c.Status)
	require.NotNil(t, c.Clarification)
	assert.Equal(t, ClarificationVitalsRecheck, c.Clarification.Type)
	assert.Equal(t, asked, c.Clarification.AskedAt)
	assert.Nil(t, c.Clarification.RespondedAt)

	// Asking for clarification still counts as the first response.
	require.NotNil(t, c.ResolvedAt)
	require.NotNil(t, c.ResponseTimeMs)
}

func TestApplyDecisionWrongStateMutatesNothing(t *testing.T) {
	c := newTestCase()
	before := *c

	err := c.ApplyDecision(&DecisionCommand{
		Action:       ActionMarkReviewed,
		ReviewerID:   uuid.New(),
		ReviewerRole: "reviewer",
	}, baseTime.Add(time.Minute))

	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.Equal(t, before.Status, c.Status)
	assert.Nil(t, c.ReviewerID)
	assert.Nil(t, c.ResolvedAt)
	assert.Len(t, c.AuditTrail, len(before.AuditTrail))
}

func TestClarificationLoop(t *testing.T) {
	c := pendingCase()
	reviewer := uuid.New()

	// Reviewer asks for clarification.
	require.NoError(t, c.ApplyDecision(&DecisionCommand{
		Action:                ActionRequestClarification,
		ClarificationType:     ClarificationSymptomDetail,
		ClarificationQuestion: "how long has the fever lasted?",
		ReviewerID:            reviewer,
		ReviewerRole:          "reviewer",
	}, baseTime.Add(10*time.Minute)))
	firstResponse := *c.ResponseTimeMs

	// Recorder answers: case re-enters the queue and the clock resets.
	answered := baseTime.Add(30 * time.Minute)
	require.NoError(t, c.RespondToClarification("three days", c.RecorderID, "field_recorder", answered))

	assert.Equal(t, StatusPendingReview, c.Status)
	assert.Equal(t, "three days", c.Clarification.Response)
	require.NotNil(t, c.Clarification.RespondedAt)
	assert.Nil(t, c.ResolvedAt)
	assert.Nil(t, c.ResponseTimeMs)

	// Second decision closes the case with a fresh response time.
	require.NoError(t, c.ApplyDecision(&DecisionCommand{
		Action:       ActionMarkReviewed,
		ReviewerID:   reviewer,
		ReviewerRole: "reviewer",
	}, baseTime.Add(45*time.Minute)))

	assert.Equal(t, StatusReviewed, c.Status)
	require.NotNil(t, c.ResponseTimeMs)
	assert.NotEqual(t, firstResponse, *c.ResponseTimeMs)
}

func TestRespondToClarificationWrongState(t *testing.T) {
	c := pendingCase()

	err := c.RespondToClarification("answer", c.RecorderID, "field_recorder", baseTime.Add(time.Hour))

	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.Equal(t, StatusPendingReview, c.Status)
}

// The backward edge only works once per question: after the answer the case is
// pending again, so a second respond call must conflict.
func TestRespondToClarificationTwiceFails(t *testing.T) {
	c := pendingCase()
	require.NoError(t, c.ApplyDecision(&DecisionCommand{
		Action:                ActionRequestClarification,
		ClarificationType:     ClarificationOther,
		ClarificationQuestion: "anything else?",
		ReviewerID:            uuid.New(),
		ReviewerRole:          "reviewer",
	}, baseTime.Add(time.Minute)))

	require.NoError(t, c.RespondToClarification("no", c.RecorderID, "field_recorder", baseTime.Add(2*time.Minute)))
	err := c.RespondToClarification("again", c.RecorderID, "field_recorder", baseTime.Add(3*time.Minute))

	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.Equal(t, "no", c.Clarification.Response)
}

func TestAuditTrailStrictlyGrows(t *testing.T) {
	c := newTestCase()
	assert.Len(t, c.AuditTrail, 1)
	assert.Equal(t, EventCaseCreated, c.AuditTrail[0].Action)

	require.NoError(t, c.RequestReview(c.RecorderID, "field_recorder", false, baseTime.Add(time.Minute)))
	assert.Len(t, c.AuditTrail, 2)

	require.NoError(t, c.ApplyDecision(&DecisionCommand{
		Action:                ActionRequestClarification,
		ClarificationType:     ClarificationPatientHistory,
		ClarificationQuestion: "any prior admissions?",
		ReviewerID:            uuid.New(),
		ReviewerRole:          "reviewer",
	}, baseTime.Add(2*time.Minute)))
	assert.Len(t, c.AuditTrail, 3)

	require.NoError(t, c.RespondToClarification("none", c.RecorderID, "field_recorder", baseTime.Add(3*time.Minute)))
	assert.Len(t, c.AuditTrail, 4)

	require.NoError(t, c.ApplyDecision(&DecisionCommand{
		Action:       ActionMarkReviewed,
		ReviewerID:   uuid.New(),
		ReviewerRole: "reviewer",
	}, baseTime.Add(4*time.Minute)))
	require.Len(t, c.AuditTrail, 5)

	// Events stay in time order.
	for i := 1; i < len(c.AuditTrail); i++ {
		assert.False(t, c.AuditTrail[i].At.Before(c.AuditTrail[i-1].At))
	}
	assert.Equal(t, EventMarkedReviewed, c.AuditTrail[len(c.AuditTrail)-1].Action)
}

func TestDecisionActionStatus(t *testing.T) {
	assert.Equal(t, StatusReferralApproved, ActionApproveReferral.Status())
	assert.Equal(t, StatusUnderMonitoring, ActionStartMonitoring.Status())
	assert.Equal(t, StatusAwaitingClarification, ActionRequestClarification.Status())
	assert.Equal(t, StatusReviewed, ActionMarkReviewed.Status())
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, EpisodeMaternity.IsValid())
	assert.False(t, EpisodeType("emergency").IsValid())
	assert.True(t, Monitoring48h.IsValid())
	assert.False(t, MonitoringPeriod("72h").IsValid())
	assert.True(t, ClarificationOther.IsValid())
	assert.False(t, ClarificationType("unknown").IsValid())
	assert.True(t, ActionMarkReviewed.IsValid())
	assert.False(t, DecisionAction("escalate").IsValid())
}

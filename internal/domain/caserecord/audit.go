package caserecord

import (
	"time"

	"github.com/google/uuid"

	"github.com/ayushpatil0810/carebridge/internal/domain/scoring"
)

// Audit trail event names.
const (
	EventCaseCreated           = "case_created"
	EventReviewRequested       = "review_requested"
	EventReferralApproved      = "referral_approved"
	EventMonitoringStarted     = "monitoring_started"
	EventClarificationAsked    = "clarification_requested"
	EventClarificationAnswered = "clarification_answered"
	EventMarkedReviewed        = "marked_reviewed"
)

func decisionEvent(action DecisionAction) string {
	switch action {
	case ActionApproveReferral:
		return EventReferralApproved
	case ActionStartMonitoring:
		return EventMonitoringStarted
	case ActionRequestClarification:
		return EventClarificationAsked
	default:
		return EventMarkedReviewed
	}
}

// AuditEvent is one immutable entry in a case's trail. The score, tier and
// red flags are snapshotted at the moment of the action so later re-scoring
// can never rewrite what the actor saw.
type AuditEvent struct {
	Action    string    `json:"action"`
	ActorID   uuid.UUID `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	At        time.Time `json:"at"`

	Score    *int             `json:"score,omitempty"`
	RiskTier scoring.RiskTier `json:"risk_tier,omitempty"`
	RedFlags []string         `json:"red_flags,omitempty"`

	Emergency         bool   `json:"emergency,omitempty"`
	ReferralReason    string `json:"referral_reason,omitempty"`
	MonitoringPeriod  string `json:"monitoring_period,omitempty"`
	ClarificationType string `json:"clarification_type,omitempty"`
	ResponseTimeMs    *int64 `json:"response_time_ms,omitempty"`
}

// Trail is the append-only, time-ordered event list attached to a case.
// Entries are never edited or reordered; the only operation is append, and
// the repository persists it inside the same atomic write as the status
// transition it belongs to.
type Trail []AuditEvent

func (c *Case) appendAudit(event AuditEvent) {
	c.AuditTrail = append(c.AuditTrail, event)
}

// AppendCreation records the initial scoring event. It is separate from the
// lifecycle methods because creation is not a transition.
func (c *Case) AppendCreation(now time.Time) {
	c.appendAudit(AuditEvent{
		Action:    EventCaseCreated,
		ActorID:   c.RecorderID,
		ActorRole: "field_recorder",
		At:        now,
		Score:     &c.Score,
		RiskTier:  c.RiskTier,
		RedFlags:  c.RedFlags,
	})
}

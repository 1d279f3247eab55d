package caserecord

import (
	"time"

	"github.com/google/uuid"

	"github.com/ayushpatil0810/carebridge/internal/domain/scoring"
	"github.com/ayushpatil0810/carebridge/internal/domain/vitals"
)

type EpisodeType string

const (
	EpisodeAcuteVisit EpisodeType = "acute_visit"
	EpisodeMaternity  EpisodeType = "maternity"
)

func (e EpisodeType) IsValid() bool {
	switch e {
	case EpisodeAcuteVisit, EpisodeMaternity:
		return true
	}
	return false
}

// State transitions possibilities:
//
//	created → pending_review → referral_approved
//	                         → under_monitoring
//	                         → awaiting_clarification → pending_review (sole backward edge)
//	                         → reviewed
type Status string

const (
	StatusCreated               Status = "created"
	StatusPendingReview         Status = "pending_review"
	StatusReferralApproved      Status = "referral_approved"
	StatusUnderMonitoring       Status = "under_monitoring"
	StatusAwaitingClarification Status = "awaiting_clarification"
	StatusReviewed              Status = "reviewed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusPendingReview, StatusReferralApproved,
		StatusUnderMonitoring, StatusAwaitingClarification, StatusReviewed:
		return true
	}
	return false
}

// IsTerminal reports whether the reviewer workflow is finished. A closed case
// is never reopened.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusReferralApproved, StatusUnderMonitoring, StatusReviewed:
		return true
	}
	return false
}

type DecisionAction string

const (
	ActionApproveReferral      DecisionAction = "referral_approved"
	ActionStartMonitoring      DecisionAction = "under_monitoring"
	ActionRequestClarification DecisionAction = "awaiting_clarification"
	ActionMarkReviewed         DecisionAction = "reviewed"
)

func (a DecisionAction) IsValid() bool {
	switch a {
	case ActionApproveReferral, ActionStartMonitoring, ActionRequestClarification, ActionMarkReviewed:
		return true
	}
	return false
}

func (a DecisionAction) Status() Status {
	return Status(a)
}

type MonitoringPeriod string

const (
	Monitoring4h  MonitoringPeriod = "4h"
	Monitoring12h MonitoringPeriod = "12h"
	Monitoring24h MonitoringPeriod = "24h"
	Monitoring48h MonitoringPeriod = "48h"
)

func (p MonitoringPeriod) IsValid() bool {
	switch p {
	case Monitoring4h, Monitoring12h, Monitoring24h, Monitoring48h:
		return true
	}
	return false
}

type ClarificationType string

const (
	ClarificationVitalsRecheck  ClarificationType = "vitals_recheck"
	ClarificationSymptomDetail  ClarificationType = "symptom_detail"
	ClarificationPatientHistory ClarificationType = "patient_history"
	ClarificationOther          ClarificationType = "other"
)

func (t ClarificationType) IsValid() bool {
	switch t {
	case ClarificationVitalsRecheck, ClarificationSymptomDetail, ClarificationPatientHistory, ClarificationOther:
		return true
	}
	return false
}

type Clarification struct {
	Type        ClarificationType `json:"type"`
	Question    string            `json:"question"`
	Response    string            `json:"response,omitempty"`
	AskedAt     time.Time         `json:"asked_at"`
	RespondedAt *time.Time        `json:"responded_at,omitempty"`
}

type MonitoringPlan struct {
	Period       MonitoringPeriod `json:"period"`
	Instructions string           `json:"instructions"`
}

// Once created, cases are never physically deleted: closure is a terminal
// status, not removal. All mutation goes through the lifecycle methods below
// plus the repository's check-and-set write.
type Case struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID  uuid.UUID   `gorm:"column:patient_id;type:uuid;not null;index"`
	RecorderID uuid.UUID   `gorm:"column:recorder_id;type:uuid;not null;index"`
	Episode    EpisodeType `gorm:"column:episode;type:varchar(20);not null;index"`

	Vitals        vitals.VitalSigns    `gorm:"column:vitals;serializer:json"`
	Consciousness vitals.Consciousness `gorm:"column:consciousness;type:varchar(20);not null"`
	RedFlags      []string             `gorm:"column:red_flags;serializer:json"`
	DangerSigns   []string             `gorm:"column:danger_signs;serializer:json"`
	ModerateSigns []string             `gorm:"column:moderate_signs;serializer:json"`

	Score             int                      `gorm:"column:score;not null"`
	Breakdown         []scoring.BreakdownEntry `gorm:"column:breakdown;serializer:json"`
	RiskTier          scoring.RiskTier         `gorm:"column:risk_tier;type:varchar(10);not null;index"`
	IsPartial         bool                     `gorm:"column:is_partial;not null"`
	MissingParameters []string                 `gorm:"column:missing_parameters;serializer:json"`
	RiskReasons       []string                 `gorm:"column:risk_reasons;serializer:json"`
	Advisories        []scoring.AdvisoryItem   `gorm:"column:advisories;serializer:json"`

	Status        Status `gorm:"column:status;type:varchar(30);not null;default:'created';index"`
	EmergencyFlag bool   `gorm:"column:emergency_flag;not null"`

	ReviewerID     *uuid.UUID      `gorm:"column:reviewer_id;type:uuid;index"`
	ReferralReason string          `gorm:"column:referral_reason;type:text"`
	ReviewNote     string          `gorm:"column:review_note;type:text"`
	Clarification  *Clarification  `gorm:"column:clarification;serializer:json"`
	Monitoring     *MonitoringPlan `gorm:"column:monitoring;serializer:json"`

	AuditTrail Trail `gorm:"column:audit_trail;serializer:json"`

	EscalatedAt    *time.Time `gorm:"column:escalated_at"`
	ResolvedAt     *time.Time `gorm:"column:resolved_at"`
	ResponseTimeMs *int64     `gorm:"column:response_time_ms"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Case) TableName() string {
	return "clinical.cases"
}

func (c *Case) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusCreated:               {StatusPendingReview},
		StatusPendingReview:         {StatusReferralApproved, StatusUnderMonitoring, StatusAwaitingClarification, StatusReviewed},
		StatusAwaitingClarification: {StatusPendingReview},
		StatusReferralApproved:      {},
		StatusUnderMonitoring:       {},
		StatusReviewed:              {},
	}

	for _, s := range allowed[c.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// RequestReview escalates a freshly scored case to the review queue and
// starts the response-time clock.
func (c *Case) RequestReview(actorID uuid.UUID, actorRole string, emergency bool, now time.Time) error {
	if c.Status != StatusCreated {
		return ErrStatusConflict
	}
	c.Status = StatusPendingReview
	c.EmergencyFlag = emergency
	c.EscalatedAt = &now
	c.appendAudit(AuditEvent{
		Action:    EventReviewRequested,
		ActorID:   actorID,
		ActorRole: actorRole,
		At:        now,
		Score:     &c.Score,
		RiskTier:  c.RiskTier,
		RedFlags:  c.RedFlags,
		Emergency: emergency,
	})
	return nil
}

// ApplyDecision moves a pending case to the reviewer's chosen outcome. The
// payload must already be validated; this method only guards the state
// machine. ResolvedAt is set on the first exit from pending_review in the
// current cycle and the response time is computed exactly once from it.
func (c *Case) ApplyDecision(cmd *DecisionCommand, now time.Time) error {
	if c.Status != StatusPendingReview {
		return ErrStatusConflict
	}
	if !c.CanTransitionTo(cmd.Action.Status()) {
		return ErrStatusConflict
	}

	c.Status = cmd.Action.Status()
	c.ReviewerID = &cmd.ReviewerID
	c.ReviewNote = cmd.ReviewNote

	event := AuditEvent{
		Action:    decisionEvent(cmd.Action),
		ActorID:   cmd.ReviewerID,
		ActorRole: cmd.ReviewerRole,
		At:        now,
		Score:     &c.Score,
		RiskTier:  c.RiskTier,
		RedFlags:  c.RedFlags,
	}

	switch cmd.Action {
	case ActionApproveReferral:
		c.ReferralReason = cmd.ReferralReason
		event.ReferralReason = cmd.ReferralReason
	case ActionStartMonitoring:
		c.Monitoring = &MonitoringPlan{Period: cmd.MonitoringPeriod, Instructions: cmd.MonitoringInstructions}
		event.MonitoringPeriod = string(cmd.MonitoringPeriod)
	case ActionRequestClarification:
		c.Clarification = &Clarification{
			Type:     cmd.ClarificationType,
			Question: cmd.ClarificationQuestion,
			AskedAt:  now,
		}
		event.ClarificationType = string(cmd.ClarificationType)
	}

	if c.ResolvedAt == nil && c.EscalatedAt != nil {
		c.ResolvedAt = &now
		ms := ResponseTimeMs(*c.EscalatedAt, now)
		c.ResponseTimeMs = &ms
		event.ResponseTimeMs = &ms
	}

	c.appendAudit(event)
	return nil
}

// RespondToClarification is the single permitted backward edge: the field
// recorder answers and the case re-enters the review queue. ResolvedAt is
// cleared so a fresh response-time cycle begins with the next decision.
func (c *Case) RespondToClarification(response string, actorID uuid.UUID, actorRole string, now time.Time) error {
	if c.Status != StatusAwaitingClarification {
		return ErrStatusConflict
	}
	if c.Clarification == nil {
		return ErrStatusConflict
	}

	c.Clarification.Response = response
	c.Clarification.RespondedAt = &now
	c.Status = StatusPendingReview
	c.ResolvedAt = nil
	c.ResponseTimeMs = nil

	c.appendAudit(AuditEvent{
		Action:            EventClarificationAnswered,
		ActorID:           actorID,
		ActorRole:         actorRole,
		At:                now,
		ClarificationType: string(c.Clarification.Type),
	})
	return nil
}

type CreateCaseCommand struct {
	PatientID     uuid.UUID
	Episode       EpisodeType
	RawVitals     vitals.RawVitals
	Consciousness vitals.Consciousness
	RedFlags      []string
	DangerSigns   []string
	ModerateSigns []string
	Note          string
	RecorderID    uuid.UUID
}

type DecisionCommand struct {
	Action                 DecisionAction
	ReferralReason         string
	MonitoringPeriod       MonitoringPeriod
	MonitoringInstructions string
	ClarificationType      ClarificationType
	ClarificationQuestion  string
	ReviewNote             string
	ReviewerID             uuid.UUID
	ReviewerRole           string
}

type ListCasesQuery struct {
	PatientID  *uuid.UUID
	RecorderID *uuid.UUID
	Status     *Status
	RiskTier   *scoring.RiskTier
	Episode    *EpisodeType
	Page       int
	PageSize   int
}

type PagedCases struct {
	Cases      []*Case
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayushpatil0810/carebridge/internal/domain"
	"github.com/ayushpatil0810/carebridge/internal/domain/caserecord"
	"github.com/ayushpatil0810/carebridge/internal/domain/patient"
	"github.com/ayushpatil0810/carebridge/internal/domain/scoring"
	"github.com/ayushpatil0810/carebridge/internal/domain/vitals"
)

type CaseService struct {
	repo        caserecord.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	log         *zap.Logger
	now         func() time.Time
}

func NewCaseService(
	repo caserecord.Repository,
	patientRepo patient.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
) *CaseService {
	return &CaseService{
		repo:        repo,
		patientRepo: patientRepo,
		auditSvc:    auditSvc,
		log:         log,
		now:         time.Now,
	}
}

// CreateCase normalizes the raw vitals, scores them, attaches the guideline
// advisories and persists the case in the created state. Scoring never fails
// on incomplete vitals - a partial score is flagged, not rejected.
func (s *CaseService) CreateCase(ctx context.Context, cmd *caserecord.CreateCaseCommand, callerID uuid.UUID, callerRole string, ip string) (*caserecord.Case, error) {
	if callerRole != string(domain.RoleFieldRecorder) && callerRole != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	if err := validateCreateCase(cmd); err != nil {
		return nil, err
	}

	p, err := s.patientRepo.GetByID(ctx, cmd.PatientID)
	if err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}
	if !p.IsActive() {
		return nil, fmt.Errorf("patient is not active")
	}

	normalized, missing := vitals.Normalize(cmd.RawVitals)
	result := scoring.Score(normalized, cmd.Consciousness, cmd.RedFlags)

	c := &caserecord.Case{
		PatientID:         cmd.PatientID,
		RecorderID:        cmd.RecorderID,
		Episode:           cmd.Episode,
		Vitals:            *normalized,
		Consciousness:     cmd.Consciousness,
		RedFlags:          cmd.RedFlags,
		DangerSigns:       cmd.DangerSigns,
		ModerateSigns:     cmd.ModerateSigns,
		Score:             result.Score,
		Breakdown:         result.Breakdown,
		RiskTier:          result.RiskTier,
		IsPartial:         result.IsPartial,
		MissingParameters: missing,
		Status:            caserecord.StatusCreated,
		ReviewNote:        cmd.Note,
		CreatedBy:         cmd.RecorderID,
	}

	// Maternity episodes take their tier from the obstetric engine; the
	// numeric score and breakdown stay on the record for audit replay. Red
	// flags still override: they force high on every episode type.
	if cmd.Episode == caserecord.EpisodeMaternity {
		maternal := scoring.MaternalScore(normalized, cmd.DangerSigns, cmd.ModerateSigns)
		c.RiskTier = maternal.RiskTier
		c.RiskReasons = maternal.Reasons
		if len(cmd.RedFlags) > 0 {
			c.RiskTier = scoring.TierHigh
		}
	}

	c.Advisories = scoring.Advisories(c.RiskTier)
	c.AppendCreation(s.now())

	if err := s.repo.Create(ctx, c); err != nil {
		s.log.Error("failed to create case", zap.Error(err))
		return nil, fmt.Errorf("creating case: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "case",
		ResourceID:   c.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("case scored",
		zap.String("case_id", c.ID.String()),
		zap.String("episode", string(c.Episode)),
		zap.Int("score", c.Score),
		zap.String("risk_tier", string(c.RiskTier)),
		zap.Bool("partial", c.IsPartial),
	)

	return c, nil
}

// RequestReview escalates a created case into the review queue.
func (s *CaseService) RequestReview(ctx context.Context, id uuid.UUID, emergency bool, callerID uuid.UUID, callerRole string, ip string) (*caserecord.Case, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole == string(domain.RoleFieldRecorder) && c.RecorderID != callerID {
		return nil, ErrForbidden
	}

	if err := c.RequestReview(callerID, callerRole, emergency, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTransition(ctx, c, caserecord.StatusCreated); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "case", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":"pending_review","emergency":%t}`, emergency),
	})

	return c, nil
}

// SubmitDecision applies a reviewer's decision to a pending case. Payload
// validation happens before any state is touched; the repository re-checks
// the expected status on write, so two reviewers racing on the same case
// produce exactly one success and one conflict.
func (s *CaseService) SubmitDecision(ctx context.Context, id uuid.UUID, cmd *caserecord.DecisionCommand, ip string) (*caserecord.Case, error) {
	if cmd.ReviewerRole != string(domain.RoleReviewer) && cmd.ReviewerRole != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	if err := validateDecision(cmd); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.ApplyDecision(cmd, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTransition(ctx, c, caserecord.StatusPendingReview); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: cmd.ReviewerID, UserRole: cmd.ReviewerRole,
		Action: "update", ResourceType: "case", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":"%s"}`, cmd.Action),
	})

	if c.ResponseTimeMs != nil {
		s.log.Info("case decided",
			zap.String("case_id", id.String()),
			zap.String("action", string(cmd.Action)),
			zap.Int64("response_time_ms", *c.ResponseTimeMs),
			zap.String("responsiveness", string(caserecord.ClassifyResponse(*c.ResponseTimeMs))),
		)
	}

	return c, nil
}

// RespondToClarification stores the field recorder's answer and puts the case
// back into the review queue.
func (s *CaseService) RespondToClarification(ctx context.Context, id uuid.UUID, response string, callerID uuid.UUID, callerRole string, ip string) (*caserecord.Case, error) {
	if strings.TrimSpace(response) == "" {
		return nil, &ValidationError{Fields: []string{"response is required"}}
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole == string(domain.RoleFieldRecorder) && c.RecorderID != callerID {
		return nil, ErrForbidden
	}

	if err := c.RespondToClarification(response, callerID, callerRole, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTransition(ctx, c, caserecord.StatusAwaitingClarification); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "case", ResourceID: id.String(), IPAddress: ip,
		Changes: `{"status":"pending_review","action":"clarification_answered"}`,
	})

	return c, nil
}

func (s *CaseService) GetCase(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*caserecord.Case, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole == string(domain.RoleFieldRecorder) && c.RecorderID != callerID {
		return nil, ErrForbidden
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "read", ResourceType: "case", ResourceID: id.String(), IPAddress: ip,
	})

	return c, nil
}

func (s *CaseService) ListCases(ctx context.Context, q *caserecord.ListCasesQuery, callerID uuid.UUID, callerRole string) (*caserecord.PagedCases, error) {
	// Field recorders only see their own cases
	if callerRole == string(domain.RoleFieldRecorder) {
		q.RecorderID = &callerID
	}
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

// ReviewQueue returns pending cases, emergencies first, oldest escalation first.
func (s *CaseService) ReviewQueue(ctx context.Context, limit int, callerRole string) ([]*caserecord.Case, error) {
	if callerRole != string(domain.RoleReviewer) && callerRole != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.PendingReview(ctx, limit)
}

func validateCreateCase(cmd *caserecord.CreateCaseCommand) error {
	var errs []string

	if !cmd.Episode.IsValid() {
		errs = append(errs, "episode must be acute_visit or maternity")
	}
	if !cmd.Consciousness.IsValid() {
		errs = append(errs, "consciousness must be one of alert, voice, pain, unresponsive")
	}
	for _, flag := range cmd.RedFlags {
		if !scoring.IsRedFlag(flag) {
			errs = append(errs, "unknown red flag: "+flag)
		}
	}
	for _, sign := range cmd.DangerSigns {
		if !scoring.IsDangerSign(sign) {
			errs = append(errs, "unknown danger sign: "+sign)
		}
	}
	for _, sign := range cmd.ModerateSigns {
		if !scoring.IsModerateRiskIndicator(sign) {
			errs = append(errs, "unknown moderate risk indicator: "+sign)
		}
	}
	if cmd.Episode == caserecord.EpisodeAcuteVisit && (len(cmd.DangerSigns) > 0 || len(cmd.ModerateSigns) > 0) {
		errs = append(errs, "danger signs and moderate indicators apply to maternity episodes only")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func validateDecision(cmd *caserecord.DecisionCommand) error {
	var errs []string

	if !cmd.Action.IsValid() {
		errs = append(errs, "action must be one of referral_approved, under_monitoring, awaiting_clarification, reviewed")
		return &ValidationError{Fields: errs}
	}

	switch cmd.Action {
	case caserecord.ActionApproveReferral:
		if strings.TrimSpace(cmd.ReferralReason) == "" {
			errs = append(errs, "referral_reason is required")
		}
	case caserecord.ActionStartMonitoring:
		if !cmd.MonitoringPeriod.IsValid() {
			errs = append(errs, "monitoring_period must be one of 4h, 12h, 24h, 48h")
		}
		if strings.TrimSpace(cmd.MonitoringInstructions) == "" {
			errs = append(errs, "monitoring_instructions is required")
		}
	case caserecord.ActionRequestClarification:
		if !cmd.ClarificationType.IsValid() {
			errs = append(errs, "clarification_type must be one of vitals_recheck, symptom_detail, patient_history, other")
		}
		if strings.TrimSpace(cmd.ClarificationQuestion) == "" {
			errs = append(errs, "clarification_question is required")
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ayushpatil0810/carebridge/internal/domain/caserecord"
)

type CaseRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCaseRepository(db *gorm.DB, log *zap.Logger) *CaseRepository {
	return &CaseRepository{db: db, log: log}
}

func (r *CaseRepository) Create(ctx context.Context, c *caserecord.Case) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*caserecord.Case, error) {
	var c caserecord.Case
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, caserecord.ErrCaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching case: %w", err)
	}
	return &c, nil
}

// transitionColumns is the full set of fields a lifecycle transition may
// touch. The audit trail is part of the list so it always lands in the same
// UPDATE as the status change.
var transitionColumns = []string{
	"status", "emergency_flag", "reviewer_id", "referral_reason", "review_note",
	"clarification", "monitoring", "audit_trail",
	"escalated_at", "resolved_at", "response_time_ms", "updated_at",
}

// UpdateTransition writes the transition with a status precondition. The
// WHERE clause on the old status makes the read-validate-write cycle atomic:
// of two racing reviewers, the second one matches zero rows and gets
// ErrStatusConflict with nothing mutated.
func (r *CaseRepository) UpdateTransition(ctx context.Context, c *caserecord.Case, expected caserecord.Status) error {
	res := r.db.WithContext(ctx).
		Model(&caserecord.Case{}).
		Where("id = ? AND status = ?", c.ID, expected).
		Select(transitionColumns).
		Updates(c)
	if res.Error != nil {
		return fmt.Errorf("updating case transition: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		r.log.Warn("case transition lost check-and-set race",
			zap.String("case_id", c.ID.String()),
			zap.String("expected_status", string(expected)),
		)
		return caserecord.ErrStatusConflict
	}
	return nil
}

func (r *CaseRepository) List(ctx context.Context, q *caserecord.ListCasesQuery) (*caserecord.PagedCases, error) {
	db := r.db.WithContext(ctx).Model(&caserecord.Case{})

	if q.PatientID != nil {
		db = db.Where("patient_id = ?", *q.PatientID)
	}
	if q.RecorderID != nil {
		db = db.Where("recorder_id = ?", *q.RecorderID)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if q.RiskTier != nil {
		db = db.Where("risk_tier = ?", *q.RiskTier)
	}
	if q.Episode != nil {
		db = db.Where("episode = ?", *q.Episode)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting cases: %w", err)
	}

	var cases []*caserecord.Case
	err := db.Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}

	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return &caserecord.PagedCases{
		Cases:      cases,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (r *CaseRepository) PendingReview(ctx context.Context, limit int) ([]*caserecord.Case, error) {
	var cases []*caserecord.Case
	err := r.db.WithContext(ctx).
		Where("status = ?", caserecord.StatusPendingReview).
		Order("emergency_flag DESC, escalated_at ASC").
		Limit(limit).
		Find(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("fetching review queue: %w", err)
	}
	return cases, nil
}

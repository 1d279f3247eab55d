package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayushpatil0810/carebridge/internal/domain/patient"
)

type PatientService struct {
	repo     patient.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:     repo,
		auditSvc: auditSvc,
		log:      log,
	}
}

func (s *PatientService) RegisterPatient(ctx context.Context, cmd *patient.CreatePatientCommand, callerID uuid.UUID, callerRole string, ip string) (*patient.Patient, error) {
	if err := validateRegisterCommand(cmd); err != nil {
		return nil, err
	}

	if nid := strings.TrimSpace(cmd.NationalID); nid != "" {
		exists, err := s.repo.ExistsByNationalID(ctx, nid, nil)
		if err != nil {
			s.log.Error("failed to check national ID uniqueness", zap.Error(err))
			return nil, fmt.Errorf("checking uniqueness: %w", err)
		}
		if exists {
			return nil, patient.ErrPatientAlreadyExists
		}
	}

	p := &patient.Patient{
		FirstName:         strings.TrimSpace(cmd.FirstName),
		LastName:          strings.TrimSpace(cmd.LastName),
		DateOfBirth:       cmd.DateOfBirth,
		Gender:            cmd.Gender,
		NationalID:        strings.TrimSpace(cmd.NationalID),
		Village:           strings.TrimSpace(cmd.Village),
		Phone:             strings.TrimSpace(cmd.Phone),
		GuardianName:      strings.TrimSpace(cmd.GuardianName),
		IsPregnant:        cmd.IsPregnant,
		ChronicConditions: cmd.ChronicConditions,
		Notes:             cmd.Notes,
		Status:            patient.StatusActive,
		CreatedBy:         cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to register patient", zap.Error(err))
		return nil, fmt.Errorf("registering patient: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "patient",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("patient registered",
		zap.String("patient_id", p.ID.String()),
		zap.String("village", p.Village),
		zap.String("created_by", callerID.String()),
	)

	return p, nil
}

func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*patient.Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "read",
		ResourceType: "patient",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return p, nil
}

// SetPregnancyStatus opens or closes the maternity context for a patient.
func (s *PatientService) SetPregnancyStatus(ctx context.Context, id uuid.UUID, pregnant bool, callerID uuid.UUID, callerRole string, ip string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.SetPregnancyStatus(ctx, id, pregnant); err != nil {
		return fmt.Errorf("updating pregnancy status: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "patient", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"is_pregnant":%t}`, pregnant),
	})

	return nil
}

func (s *PatientService) DeactivatePatient(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := p.Deactivate(); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "patient",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return s.repo.SoftDelete(ctx, id)
}

func (s *PatientService) ListPatients(ctx context.Context, q *patient.ListPatientsQuery, callerID uuid.UUID, callerRole string) (*patient.PagedPatients, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	return s.repo.List(ctx, q)
}

func validateRegisterCommand(cmd *patient.CreatePatientCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(cmd.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if cmd.DateOfBirth.IsZero() {
		errs = append(errs, "date_of_birth is required")
	}
	if cmd.DateOfBirth.After(time.Now()) {
		errs = append(errs, "date_of_birth cannot be in the future")
	}
	if !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

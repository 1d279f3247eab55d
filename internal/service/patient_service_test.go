package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ayushpatil0810/carebridge/internal/domain/patient"
)

func newPatientService(t *testing.T) (*PatientService, *fakePatientRepo) {
	t.Helper()
	repo := newFakePatientRepo()
	auditSvc := NewAuditService(&fakeAuditRepo{}, zap.NewNop(), nil, nil)
	t.Cleanup(auditSvc.Shutdown)
	return NewPatientService(repo, auditSvc, zap.NewNop()), repo
}

func registerCmd() *patient.CreatePatientCommand {
	return &patient.CreatePatientCommand{
		FirstName:   "Joseph",
		LastName:    "Mwangi",
		DateOfBirth: time.Date(1985, 2, 14, 0, 0, 0, 0, time.UTC),
		Gender:      patient.GenderMale,
		Village:     "Kibwezi",
		CreatedBy:   uuid.New(),
	}
}

func TestRegisterPatient(t *testing.T) {
	svc, _ := newPatientService(t)

	p, err := svc.RegisterPatient(context.Background(), registerCmd(), uuid.New(), "field_recorder", "10.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, "Joseph Mwangi", p.FullName())
	assert.Equal(t, patient.StatusActive, p.Status)
}

func TestRegisterPatientValidation(t *testing.T) {
	svc, _ := newPatientService(t)

	tests := []struct {
		name   string
		mutate func(*patient.CreatePatientCommand)
	}{
		{"missing first name", func(c *patient.CreatePatientCommand) { c.FirstName = "  " }},
		{"missing last name", func(c *patient.CreatePatientCommand) { c.LastName = "" }},
		{"zero date of birth", func(c *patient.CreatePatientCommand) { c.DateOfBirth = time.Time{} }},
		{"future date of birth", func(c *patient.CreatePatientCommand) { c.DateOfBirth = time.Now().Add(24 * time.Hour) }},
		{"bad gender", func(c *patient.CreatePatientCommand) { c.Gender = "n/a" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := registerCmd()
			tt.mutate(cmd)
			_, err := svc.RegisterPatient(context.Background(), cmd, uuid.New(), "field_recorder", "10.0.0.1")
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestRegisterPatientDuplicateNationalID(t *testing.T) {
	svc, _ := newPatientService(t)
	ctx := context.Background()

	cmd := registerCmd()
	cmd.NationalID = "KE-1234567"
	_, err := svc.RegisterPatient(ctx, cmd, uuid.New(), "field_recorder", "10.0.0.1")
	require.NoError(t, err)

	dup := registerCmd()
	dup.NationalID = "KE-1234567"
	_, err = svc.RegisterPatient(ctx, dup, uuid.New(), "field_recorder", "10.0.0.1")
	assert.ErrorIs(t, err, patient.ErrPatientAlreadyExists)
}

func TestSetPregnancyStatus(t *testing.T) {
	svc, repo := newPatientService(t)
	ctx := context.Background()

	p, err := svc.RegisterPatient(ctx, registerCmd(), uuid.New(), "field_recorder", "10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, svc.SetPregnancyStatus(ctx, p.ID, true, uuid.New(), "field_recorder", "10.0.0.1"))

	stored, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPregnant)

	err = svc.SetPregnancyStatus(ctx, uuid.New(), true, uuid.New(), "field_recorder", "10.0.0.1")
	assert.ErrorIs(t, err, patient.ErrPatientNotFound)
}

func TestDeactivatePatient(t *testing.T) {
	svc, repo := newPatientService(t)
	ctx := context.Background()

	p, err := svc.RegisterPatient(ctx, registerCmd(), uuid.New(), "field_recorder", "10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, svc.DeactivatePatient(ctx, p.ID, uuid.New(), "admin", "10.0.0.1"))

	stored, _ := repo.GetByID(ctx, p.ID)
	assert.Equal(t, patient.StatusInactive, stored.Status)
	assert.False(t, stored.IsActive())
}

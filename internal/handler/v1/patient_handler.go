package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ayushpatil0810/carebridge/internal/domain/patient"
	"github.com/ayushpatil0810/carebridge/internal/service"
)

type PatientHandler struct {
	patientSvc *service.PatientService
	log        *zap.Logger
}

func NewPatientHandler(patientSvc *service.PatientService, log *zap.Logger) *PatientHandler {
	return &PatientHandler{patientSvc: patientSvc, log: log}
}

type registerPatientRequest struct {
	FirstName         string    `json:"first_name" binding:"required"`
	LastName          string    `json:"last_name" binding:"required"`
	DateOfBirth       time.Time `json:"date_of_birth" binding:"required"`
	Gender            string    `json:"gender" binding:"required"`
	NationalID        string    `json:"national_id"`
	Village           string    `json:"village"`
	Phone             string    `json:"phone"`
	GuardianName      string    `json:"guardian_name"`
	IsPregnant        bool      `json:"is_pregnant"`
	ChronicConditions []string  `json:"chronic_conditions"`
	Notes             string    `json:"notes"`
}

func (h *PatientHandler) RegisterPatient(c *gin.Context) {
	var req registerPatientRequest
	if !bindJSON(c, &req) {
		return
	}
	claims := callerClaims(c)

	created, err := h.patientSvc.RegisterPatient(c.Request.Context(), &patient.CreatePatientCommand{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		DateOfBirth:       req.DateOfBirth,
		Gender:            patient.Gender(req.Gender),
		NationalID:        req.NationalID,
		Village:           req.Village,
		Phone:             req.Phone,
		GuardianName:      req.GuardianName,
		IsPregnant:        req.IsPregnant,
		ChronicConditions: req.ChronicConditions,
		Notes:             req.Notes,
		CreatedBy:         claims.UserID,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, created)
}

func (h *PatientHandler) GetPatient(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	claims := callerClaims(c)

	p, err := h.patientSvc.GetPatient(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *PatientHandler) ListPatients(c *gin.Context) {
	claims := callerClaims(c)

	q := &patient.ListPatientsQuery{
		Search:   c.Query("search"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if v := c.Query("village"); v != "" {
		q.Village = &v
	}
	if s := c.Query("status"); s != "" {
		status := patient.Status(s)
		q.Status = &status
	}
	if p := c.Query("is_pregnant"); p == "true" || p == "false" {
		pregnant := p == "true"
		q.IsPregnant = &pregnant
	}

	paged, err := h.patientSvc.ListPatients(c.Request.Context(), q, claims.UserID, string(claims.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, paged)
}

type pregnancyStatusRequest struct {
	IsPregnant *bool `json:"is_pregnant" binding:"required"`
}

func (h *PatientHandler) SetPregnancyStatus(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req pregnancyStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	claims := callerClaims(c)

	if err := h.patientSvc.SetPregnancyStatus(c.Request.Context(), id, *req.IsPregnant, claims.UserID, string(claims.Role), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id, "is_pregnant": *req.IsPregnant})
}

func (h *PatientHandler) DeactivatePatient(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	claims := callerClaims(c)

	if err := h.patientSvc.DeactivatePatient(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id, "status": "inactive"})
}

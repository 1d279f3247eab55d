package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayushpatil0810/carebridge/internal/domain/caserecord"
	"github.com/ayushpatil0810/carebridge/internal/domain/scoring"
	"github.com/ayushpatil0810/carebridge/internal/domain/vitals"
	"github.com/ayushpatil0810/carebridge/internal/service"
	"github.com/ayushpatil0810/carebridge/pkg/metrics"
)

type CaseHandler struct {
	caseSvc    *service.CaseService
	patientSvc *service.PatientService
	assistSvc  *service.AssistService
	collector  *metrics.Collector
	log        *zap.Logger
}

func NewCaseHandler(caseSvc *service.CaseService, patientSvc *service.PatientService, assistSvc *service.AssistService, collector *metrics.Collector, log *zap.Logger) *CaseHandler {
	return &CaseHandler{
		caseSvc:    caseSvc,
		patientSvc: patientSvc,
		assistSvc:  assistSvc,
		collector:  collector,
		log:        log,
	}
}

type createCaseRequest struct {
	PatientID     uuid.UUID        `json:"patient_id" binding:"required"`
	Episode       string           `json:"episode" binding:"required"`
	Vitals        vitals.RawVitals `json:"vitals"`
	Consciousness string           `json:"consciousness" binding:"required"`
	RedFlags      []string         `json:"red_flags"`
	DangerSigns   []string         `json:"danger_signs"`
	ModerateSigns []string         `json:"moderate_signs"`
	Note          string           `json:"note"`
}

func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req createCaseRequest
	if !bindJSON(c, &req) {
		return
	}
	claims := callerClaims(c)

	created, err := h.caseSvc.CreateCase(c.Request.Context(), &caserecord.CreateCaseCommand{
		PatientID:     req.PatientID,
		Episode:       caserecord.EpisodeType(req.Episode),
		RawVitals:     req.Vitals,
		Consciousness: vitals.Consciousness(req.Consciousness),
		RedFlags:      req.RedFlags,
		DangerSigns:   req.DangerSigns,
		ModerateSigns: req.ModerateSigns,
		Note:          req.Note,
		RecorderID:    claims.UserID,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.CasesScoredTotal.WithLabelValues(string(created.Episode), string(created.RiskTier)).Inc()
	if created.IsPartial {
		h.collector.PartialScoresTotal.Inc()
	}

	respondCreated(c, created)
}

func (h *CaseHandler) GetCase(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	claims := callerClaims(c)

	found, err := h.caseSvc.GetCase(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, found)
}

func (h *CaseHandler) ListCases(c *gin.Context) {
	claims := callerClaims(c)

	q := &caserecord.ListCasesQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if s := c.Query("status"); s != "" {
		status := caserecord.Status(s)
		q.Status = &status
	}
	if t := c.Query("risk_tier"); t != "" {
		tier := scoring.RiskTier(t)
		q.RiskTier = &tier
	}
	if e := c.Query("episode"); e != "" {
		episode := caserecord.EpisodeType(e)
		q.Episode = &episode
	}
	if p := c.Query("patient_id"); p != "" {
		if pid, err := uuid.Parse(p); err == nil {
			q.PatientID = &pid
		}
	}

	paged, err := h.caseSvc.ListCases(c.Request.Context(), q, claims.UserID, string(claims.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, paged)
}

func (h *CaseHandler) ReviewQueue(c *gin.Context) {
	claims := callerClaims(c)

	cases, err := h.caseSvc.ReviewQueue(c.Request.Context(), parseQueryInt(c, "limit", 50), string(claims.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, cases)
}

type requestReviewRequest struct {
	Emergency bool `json:"emergency"`
}

func (h *CaseHandler) RequestReview(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req requestReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	claims := callerClaims(c)

	updated, err := h.caseSvc.RequestReview(c.Request.Context(), id, req.Emergency, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.EscalationsTotal.WithLabelValues(boolLabel(req.Emergency)).Inc()
	respondOK(c, updated)
}

type submitDecisionRequest struct {
	Action                 string `json:"action" binding:"required"`
	ReferralReason         string `json:"referral_reason"`
	MonitoringPeriod       string `json:"monitoring_period"`
	MonitoringInstructions string `json:"monitoring_instructions"`
	ClarificationType      string `json:"clarification_type"`
	ClarificationQuestion  string `json:"clarification_question"`
	ReviewNote             string `json:"review_note"`
}

func (h *CaseHandler) SubmitDecision(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req submitDecisionRequest
	if !bindJSON(c, &req) {
		return
	}
	claims := callerClaims(c)

	updated, err := h.caseSvc.SubmitDecision(c.Request.Context(), id, &caserecord.DecisionCommand{
		Action:                 caserecord.DecisionAction(req.Action),
		ReferralReason:         req.ReferralReason,
		MonitoringPeriod:       caserecord.MonitoringPeriod(req.MonitoringPeriod),
		MonitoringInstructions: req.MonitoringInstructions,
		ClarificationType:      caserecord.ClarificationType(req.ClarificationType),
		ClarificationQuestion:  req.ClarificationQuestion,
		ReviewNote:             req.ReviewNote,
		ReviewerID:             claims.UserID,
		ReviewerRole:           string(claims.Role),
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.DecisionsTotal.WithLabelValues(req.Action).Inc()
	if updated.ResponseTimeMs != nil {
		h.collector.ResponseTimeSeconds.Observe(float64(*updated.ResponseTimeMs) / 1000)
	}

	respondOK(c, updated)
}

type clarificationResponseRequest struct {
	Response string `json:"response" binding:"required"`
}

func (h *CaseHandler) RespondToClarification(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req clarificationResponseRequest
	if !bindJSON(c, &req) {
		return
	}
	claims := callerClaims(c)

	updated, err := h.caseSvc.RespondToClarification(c.Request.Context(), id, req.Response, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, updated)
}

// Summary returns an AI-drafted (or deterministic fallback) referral summary.
// Collaborator failures never surface here; the template path always works.
func (h *CaseHandler) Summary(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	claims := callerClaims(c)

	found, err := h.caseSvc.GetCase(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	p, err := h.patientSvc.GetPatient(c.Request.Context(), found.PatientID, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"summary": h.assistSvc.DraftCaseSummary(c.Request.Context(), found, p)})
}

type shareRequest struct {
	Phone string `json:"phone" binding:"required"`
}

func (h *CaseHandler) Share(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req shareRequest
	if !bindJSON(c, &req) {
		return
	}
	claims := callerClaims(c)

	found, err := h.caseSvc.GetCase(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	p, err := h.patientSvc.GetPatient(c.Request.Context(), found.PatientID, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"link": h.assistSvc.ShareReferral(c.Request.Context(), found, p, req.Phone)})
}

type transcribeRequest struct {
	AudioURL string `json:"audio_url" binding:"required,url"`
}

// Transcribe converts a recorded voice note to text for attachment to a case
// note. Transcription failure is not an error; the recorder gets a
// placeholder and keeps working.
func (h *CaseHandler) Transcribe(c *gin.Context) {
	var req transcribeRequest
	if !bindJSON(c, &req) {
		return
	}

	respondOK(c, gin.H{"text": h.assistSvc.TranscribeVoiceNote(c.Request.Context(), req.AudioURL)})
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

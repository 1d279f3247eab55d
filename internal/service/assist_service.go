package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ayushpatil0810/carebridge/internal/domain/caserecord"
	"github.com/ayushpatil0810/carebridge/internal/domain/patient"
)

// External collaborators. Each call is bounded by a timeout and may fail;
// the service always degrades to a deterministic template, which the rest of
// the system treats as ordinary input, never as a special state.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (string, error)
}

type SummaryDrafter interface {
	Draft(ctx context.Context, prompt string) (string, error)
}

// MessagingRelay turns a free-text message and a phone number into a
// deep-link. Delivery is fire-and-forget; there is no guarantee.
type MessagingRelay interface {
	DeepLink(ctx context.Context, phone, message string) (string, error)
}

type AssistService struct {
	transcriber Transcriber
	drafter     SummaryDrafter
	relay       MessagingRelay
	timeout     time.Duration
	log         *zap.Logger
}

func NewAssistService(transcriber Transcriber, drafter SummaryDrafter, relay MessagingRelay, timeout time.Duration, log *zap.Logger) *AssistService {
	return &AssistService{
		transcriber: transcriber,
		drafter:     drafter,
		relay:       relay,
		timeout:     timeout,
		log:         log,
	}
}

// DraftCaseSummary asks the drafting collaborator for a referral summary and
// falls back to the deterministic template on any failure. It never mutates
// the case and never surfaces a collaborator error to the caller.
func (s *AssistService) DraftCaseSummary(ctx context.Context, c *caserecord.Case, p *patient.Patient) string {
	fallback := TemplateSummary(c, p)
	if s.drafter == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	draft, err := s.drafter.Draft(ctx, fallback)
	if err != nil || strings.TrimSpace(draft) == "" {
		s.log.Warn("summary drafter unavailable, using template",
			zap.String("case_id", c.ID.String()),
			zap.Error(err),
		)
		return fallback
	}
	return draft
}

// TranscribeVoiceNote converts a recorded voice note to text. On failure the
// note is kept as an attachment reference rather than blocking the case.
func (s *AssistService) TranscribeVoiceNote(ctx context.Context, audioURL string) string {
	const fallback = "[voice note attached - transcription unavailable]"
	if s.transcriber == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.transcriber.Transcribe(ctx, audioURL)
	if err != nil || strings.TrimSpace(text) == "" {
		s.log.Warn("transcription unavailable", zap.Error(err))
		return fallback
	}
	return text
}

// ShareReferral produces a deep-link for sending the case summary to a phone
// number. When the relay is down the recorder still gets a plain sms: link.
func (s *AssistService) ShareReferral(ctx context.Context, c *caserecord.Case, p *patient.Patient, phone string) string {
	message := TemplateSummary(c, p)
	if s.relay != nil {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		link, err := s.relay.DeepLink(ctx, phone, message)
		if err == nil && link != "" {
			return link
		}
		s.log.Warn("messaging relay unavailable, using sms fallback",
			zap.String("case_id", c.ID.String()),
			zap.Error(err),
		)
	}
	return "sms:" + phone + "?body=" + url.QueryEscape(message)
}

// TemplateSummary is the deterministic fallback: the same case always
// produces the same text.
func TemplateSummary(c *caserecord.Case, p *patient.Patient) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Referral summary for %s (age %d).\n", p.FullName(), p.Age())
	fmt.Fprintf(&b, "Risk tier: %s, score %d.\n", strings.ToUpper(string(c.RiskTier)), c.Score)
	if c.IsPartial {
		fmt.Fprintf(&b, "Score is partial; missing: %s.\n", strings.Join(c.MissingParameters, ", "))
	}
	for _, entry := range c.Breakdown {
		if entry.Observed == "" {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s (sub-score %d)\n", entry.Parameter, entry.Observed, entry.SubScore)
	}
	if len(c.RedFlags) > 0 {
		fmt.Fprintf(&b, "Red flags: %s.\n", strings.Join(c.RedFlags, ", "))
	}
	if len(c.RiskReasons) > 0 {
		fmt.Fprintf(&b, "Risk reasons: %s.\n", strings.Join(c.RiskReasons, "; "))
	}
	if c.ReferralReason != "" {
		fmt.Fprintf(&b, "Referral reason: %s.\n", c.ReferralReason)
	}

	return b.String()
}

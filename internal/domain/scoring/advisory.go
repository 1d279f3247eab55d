package scoring

type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencySoon      Urgency = "soon"
	UrgencyRoutine   Urgency = "routine"
)

type AdvisoryItem struct {
	Text    string  `json:"text"`
	Urgency Urgency `json:"urgency"`
}

// Guideline next-step table. This is a deterministic lookup: no randomness
// and no AI-generated content ever feeds into it. AI-drafted summaries are an
// external collaborator concern and never flow back into scoring or advice.
var advisoryTable = map[RiskTier][]AdvisoryItem{
	TierLow: {
		{Text: "Reassure the patient and caregiver; no escalation needed", Urgency: UrgencyRoutine},
		{Text: "Advise on danger signs that require an immediate revisit", Urgency: UrgencyRoutine},
		{Text: "Schedule a routine follow-up visit within 7 days", Urgency: UrgencyRoutine},
	},
	TierModerate: {
		{Text: "Repeat the full vital-sign set within 1 hour", Urgency: UrgencySoon},
		{Text: "Request clinic review of this case today", Urgency: UrgencySoon},
		{Text: "Keep the patient under observation until the reviewer responds", Urgency: UrgencySoon},
		{Text: "Record fluid intake and urine output if possible", Urgency: UrgencyRoutine},
	},
	TierHigh: {
		{Text: "Escalate to the clinic reviewer immediately", Urgency: UrgencyImmediate},
		{Text: "Prepare the patient for transport to the nearest facility", Urgency: UrgencyImmediate},
		{Text: "Do not leave the patient unattended", Urgency: UrgencyImmediate},
		{Text: "Recheck airway, breathing and consciousness every 15 minutes", Urgency: UrgencySoon},
	},
}

// Advisories returns the fixed, ordered guideline items for a risk tier.
// Callers receive a copy so the table itself stays immutable.
func Advisories(tier RiskTier) []AdvisoryItem {
	items := advisoryTable[tier]
	out := make([]AdvisoryItem, len(items))
	copy(out, items)
	return out
}

package scoring

import (
	"fmt"

	"github.com/ayushpatil0810/carebridge/internal/domain/vitals"
)

// Danger signs: any one of these makes a maternity case high risk,
// irrespective of vitals.
const (
	DangerVaginalBleeding     = "vaginal_bleeding"
	DangerSevereHeadache      = "severe_headache_blurred_vision"
	DangerConvulsions         = "convulsions"
	DangerSevereAbdominalPain = "severe_abdominal_pain"
	DangerReducedFetalMoves   = "reduced_fetal_movement"
	DangerFeverWithChills     = "fever_with_chills"
	DangerEarlyWaterBreaking  = "water_breaking_early"
)

var dangerSignVocabulary = map[string]struct{}{
	DangerVaginalBleeding:     {},
	DangerSevereHeadache:      {},
	DangerConvulsions:         {},
	DangerSevereAbdominalPain: {},
	DangerReducedFetalMoves:   {},
	DangerFeverWithChills:     {},
	DangerEarlyWaterBreaking:  {},
}

func IsDangerSign(key string) bool {
	_, ok := dangerSignVocabulary[key]
	return ok
}

// Moderate-risk indicators: raise an otherwise-low case to moderate.
const (
	ModerateSwellingHandsFace  = "swelling_hands_face"
	ModeratePersistentVomiting = "persistent_vomiting"
	ModeratePallor             = "pallor"
	ModerateBurningUrination   = "burning_urination"
	ModerateFirstPregnancyU18  = "first_pregnancy_under_18"
	ModeratePriorComplication  = "prior_pregnancy_complication"
)

var moderateRiskVocabulary = map[string]struct{}{
	ModerateSwellingHandsFace:  {},
	ModeratePersistentVomiting: {},
	ModeratePallor:             {},
	ModerateBurningUrination:   {},
	ModerateFirstPregnancyU18:  {},
	ModeratePriorComplication:  {},
}

func IsModerateRiskIndicator(key string) bool {
	_, ok := moderateRiskVocabulary[key]
	return ok
}

type MaternalResult struct {
	RiskTier RiskTier
	// Reasons lists what triggered the tier, in a stable order: vitals in
	// check order, then danger signs, then moderate indicators.
	Reasons  []string
	Escalate bool
}

// Obstetric vital thresholds, per the locally adopted antenatal guideline:
// BP >=140 systolic or >=90 diastolic, pulse >120, respiratory rate >24,
// temperature >=38.0, SpO2 <94 (when recorded) are each high risk on their
// own. Hypertension is evaluated as one check so a raised pressure produces a
// single blood-pressure reason.
func MaternalScore(v *vitals.VitalSigns, dangerSigns, moderateSigns []string) *MaternalResult {
	res := &MaternalResult{RiskTier: TierLow}

	high := func(reason string) {
		res.RiskTier = TierHigh
		res.Reasons = append(res.Reasons, reason)
	}

	sys, dia := v.SystolicBP, v.DiastolicBP
	switch {
	case sys != nil && dia != nil && (*sys >= 140 || *dia >= 90):
		high(fmt.Sprintf("blood pressure %.0f/%.0f at or above 140/90", *sys, *dia))
	case sys != nil && dia == nil && *sys >= 140:
		high(fmt.Sprintf("systolic blood pressure %.0f at or above 140", *sys))
	case dia != nil && sys == nil && *dia >= 90:
		high(fmt.Sprintf("diastolic blood pressure %.0f at or above 90", *dia))
	}
	if v.Pulse != nil && *v.Pulse > 120 {
		high(fmt.Sprintf("pulse %.0f above 120", *v.Pulse))
	}
	if v.RespiratoryRate != nil && *v.RespiratoryRate > 24 {
		high(fmt.Sprintf("respiratory rate %.0f above 24", *v.RespiratoryRate))
	}
	if v.Temperature != nil && *v.Temperature >= 38.0 {
		high(fmt.Sprintf("temperature %.1f at or above 38.0", *v.Temperature))
	}
	if v.OxygenSat != nil && *v.OxygenSat < 94 {
		high(fmt.Sprintf("oxygen saturation %.0f below 94", *v.OxygenSat))
	}

	for _, sign := range dangerSigns {
		high("danger sign: " + sign)
	}

	if res.RiskTier != TierHigh && len(moderateSigns) > 0 {
		res.RiskTier = TierModerate
	}
	for _, sign := range moderateSigns {
		res.Reasons = append(res.Reasons, "risk indicator: "+sign)
	}

	res.Escalate = res.RiskTier == TierHigh
	return res
}

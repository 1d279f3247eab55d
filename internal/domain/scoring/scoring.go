package scoring

import (
	"strconv"

	"github.com/ayushpatil0810/carebridge/internal/domain/vitals"
)

type RiskTier string

const (
	TierLow      RiskTier = "low"
	TierModerate RiskTier = "moderate"
	TierHigh     RiskTier = "high"
)

func (t RiskTier) IsValid() bool {
	switch t {
	case TierLow, TierModerate, TierHigh:
		return true
	}
	return false
}

// Red flags force the tier to high regardless of the numeric total. The
// vocabulary is fixed; anything else is rejected at the service boundary.
const (
	RedFlagUnresponsive        = "unresponsive"
	RedFlagSevereChestPain     = "severe_chest_pain"
	RedFlagBreathingDifficulty = "severe_breathing_difficulty"
	RedFlagConvulsions         = "convulsions"
	RedFlagSevereBleeding      = "severe_bleeding"
	RedFlagUnableToDrink       = "unable_to_drink"
	RedFlagStiffNeck           = "stiff_neck"
)

var redFlagVocabulary = map[string]struct{}{
	RedFlagUnresponsive:        {},
	RedFlagSevereChestPain:     {},
	RedFlagBreathingDifficulty: {},
	RedFlagConvulsions:         {},
	RedFlagSevereBleeding:      {},
	RedFlagUnableToDrink:       {},
	RedFlagStiffNeck:           {},
}

func IsRedFlag(key string) bool {
	_, ok := redFlagVocabulary[key]
	return ok
}

// BreakdownEntry records one parameter's contribution to the total, in chart
// order, for audit replay and UI rendering. Observed is the raw value as
// recorded, empty when the parameter was missing.
type BreakdownEntry struct {
	Parameter string `json:"parameter"`
	Observed  string `json:"observed"`
	SubScore  int    `json:"sub_score"`
}

type Result struct {
	Score             int
	Breakdown         []BreakdownEntry
	RiskTier          RiskTier
	IsPartial         bool
	MissingParameters []string
}

// NEWS2 sub-score thresholds. Cutoffs follow the published NEWS2 chart
// (RCP, 2017); SpO2 uses scale 1.
//
//	respiratory rate:  <=8:3  9-11:1  12-20:0  21-24:2  >=25:3
//	SpO2:              <=91:3 92-93:2 94-95:1  >=96:0
//	systolic BP:       <=90:3 91-100:2 101-110:1 111-219:0 >=220:3
//	pulse:             <=40:3 41-50:1 51-90:0  91-110:1 111-130:2 >=131:3
//	temperature:       <=35.0:3 35.1-36.0:1 36.1-38.0:0 38.1-39.0:1 >=39.1:2
//	consciousness:     alert:0, anything else on ACVPU:3
func subScore(param string, value float64) int {
	switch param {
	case vitals.ParamRespiratoryRate:
		switch {
		case value <= 8:
			return 3
		case value <= 11:
			return 1
		case value <= 20:
			return 0
		case value <= 24:
			return 2
		default:
			return 3
		}
	case vitals.ParamOxygenSat:
		switch {
		case value <= 91:
			return 3
		case value <= 93:
			return 2
		case value <= 95:
			return 1
		default:
			return 0
		}
	case vitals.ParamSystolicBP:
		switch {
		case value <= 90:
			return 3
		case value <= 100:
			return 2
		case value <= 110:
			return 1
		case value <= 219:
			return 0
		default:
			return 3
		}
	case vitals.ParamPulse:
		switch {
		case value <= 40:
			return 3
		case value <= 50:
			return 1
		case value <= 90:
			return 0
		case value <= 110:
			return 1
		case value <= 130:
			return 2
		default:
			return 3
		}
	case vitals.ParamTemperature:
		switch {
		case value <= 35.0:
			return 3
		case value <= 36.0:
			return 1
		case value <= 38.0:
			return 0
		case value <= 39.0:
			return 1
		default:
			return 2
		}
	}
	return 0
}

// Tier bands over the aggregate score: 0-4 low, 5-6 moderate, 7+ high.
func tierForScore(score int) RiskTier {
	switch {
	case score >= 7:
		return TierHigh
	case score >= 5:
		return TierModerate
	default:
		return TierLow
	}
}

// Score computes the NEWS2-class severity of a normalized vitals snapshot.
// It is a pure function: identical input always reproduces identical output.
// Parameters with no observed value contribute no sub-score and mark the
// result partial; a partial total is never equivalent to a full score of the
// same value, which is why IsPartial travels with the result. Any red flag
// overrides the numeric tier to high - it is an override, not an addend.
func Score(v *vitals.VitalSigns, consciousness vitals.Consciousness, redFlags []string) *Result {
	res := &Result{
		Breakdown: make([]BreakdownEntry, 0, len(vitals.ParameterOrder)),
	}

	for _, param := range vitals.ParameterOrder {
		if param == vitals.ParamConsciousness {
			sub := 3
			if consciousness == vitals.ConsciousnessAlert {
				sub = 0
			}
			res.Score += sub
			res.Breakdown = append(res.Breakdown, BreakdownEntry{
				Parameter: param,
				Observed:  string(consciousness),
				SubScore:  sub,
			})
			continue
		}

		observed := v.Observed(param)
		if observed == nil {
			res.IsPartial = true
			res.MissingParameters = append(res.MissingParameters, param)
			res.Breakdown = append(res.Breakdown, BreakdownEntry{Parameter: param})
			continue
		}

		sub := subScore(param, *observed)
		res.Score += sub
		res.Breakdown = append(res.Breakdown, BreakdownEntry{
			Parameter: param,
			Observed:  strconv.FormatFloat(*observed, 'f', -1, 64),
			SubScore:  sub,
		})
	}

	res.RiskTier = tierForScore(res.Score)
	if len(redFlags) > 0 {
		res.RiskTier = TierHigh
	}

	return res
}

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushpatil0810/carebridge/internal/domain/vitals"
)

func maternalVitals(raw vitals.RawVitals) *vitals.VitalSigns {
	v, _ := vitals.Normalize(raw)
	return v
}

func TestMaternalScoreNormalVitals(t *testing.T) {
	v := maternalVitals(vitals.RawVitals{
		SystolicBP: "115", DiastolicBP: "75",
		Pulse: "80", RespiratoryRate: "16", Temperature: "36.8", OxygenSat: "98",
	})

	res := MaternalScore(v, nil, nil)

	assert.Equal(t, TierLow, res.RiskTier)
	assert.Empty(t, res.Reasons)
	assert.False(t, res.Escalate)
}

// A raised blood pressure is one finding, not two: 150/95 trips both the
// systolic and diastolic thresholds but must produce a single reason.
func TestMaternalScoreHypertensionSingleReason(t *testing.T) {
	v := maternalVitals(vitals.RawVitals{SystolicBP: "150", DiastolicBP: "95"})

	res := MaternalScore(v, nil, nil)

	assert.Equal(t, TierHigh, res.RiskTier)
	require.Len(t, res.Reasons, 1)
	assert.Equal(t, "blood pressure 150/95 at or above 140/90", res.Reasons[0])
	assert.True(t, res.Escalate)
}

func TestMaternalScoreSystolicOnly(t *testing.T) {
	v := maternalVitals(vitals.RawVitals{SystolicBP: "145"})

	res := MaternalScore(v, nil, nil)

	assert.Equal(t, TierHigh, res.RiskTier)
	require.Len(t, res.Reasons, 1)
	assert.Equal(t, "systolic blood pressure 145 at or above 140", res.Reasons[0])
}

func TestMaternalScoreEachVitalTrigger(t *testing.T) {
	tests := []struct {
		name     string
		raw      vitals.RawVitals
		wantHigh bool
	}{
		{"pulse at threshold", vitals.RawVitals{Pulse: "120"}, false},
		{"pulse above threshold", vitals.RawVitals{Pulse: "121"}, true},
		{"rr at threshold", vitals.RawVitals{RespiratoryRate: "24"}, false},
		{"rr above threshold", vitals.RawVitals{RespiratoryRate: "25"}, true},
		{"temp below threshold", vitals.RawVitals{Temperature: "37.9"}, false},
		{"temp at threshold", vitals.RawVitals{Temperature: "38.0"}, true},
		{"spo2 at threshold", vitals.RawVitals{OxygenSat: "94"}, false},
		{"spo2 below threshold", vitals.RawVitals{OxygenSat: "93"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := MaternalScore(maternalVitals(tt.raw), nil, nil)
			if tt.wantHigh {
				assert.Equal(t, TierHigh, res.RiskTier)
				assert.True(t, res.Escalate)
			} else {
				assert.Equal(t, TierLow, res.RiskTier)
				assert.False(t, res.Escalate)
			}
		})
	}
}

func TestMaternalScoreDangerSignForcesHigh(t *testing.T) {
	v := maternalVitals(vitals.RawVitals{SystolicBP: "115", DiastolicBP: "75"})

	res := MaternalScore(v, []string{DangerVaginalBleeding}, nil)

	assert.Equal(t, TierHigh, res.RiskTier)
	assert.Equal(t, []string{"danger sign: vaginal_bleeding"}, res.Reasons)
	assert.True(t, res.Escalate)
}

func TestMaternalScoreModerateIndicator(t *testing.T) {
	v := maternalVitals(vitals.RawVitals{SystolicBP: "115", DiastolicBP: "75"})

	res := MaternalScore(v, nil, []string{ModeratePallor})

	assert.Equal(t, TierModerate, res.RiskTier)
	assert.Equal(t, []string{"risk indicator: pallor"}, res.Reasons)
	assert.False(t, res.Escalate)
}

// Moderate indicators never downgrade a high tier, and reasons keep their
// stable ordering: vitals, then danger signs, then indicators.
func TestMaternalScoreReasonOrdering(t *testing.T) {
	v := maternalVitals(vitals.RawVitals{SystolicBP: "150", DiastolicBP: "95"})

	res := MaternalScore(v, []string{DangerSevereHeadache}, []string{ModeratePallor})

	assert.Equal(t, TierHigh, res.RiskTier)
	require.Len(t, res.Reasons, 3)
	assert.Equal(t, "blood pressure 150/95 at or above 140/90", res.Reasons[0])
	assert.Equal(t, "danger sign: severe_headache_blurred_vision", res.Reasons[1])
	assert.Equal(t, "risk indicator: pallor", res.Reasons[2])
	assert.True(t, res.Escalate)
}

func TestMaternalScoreMissingVitalsSkipChecks(t *testing.T) {
	v, _ := vitals.Normalize(vitals.RawVitals{})

	res := MaternalScore(v, nil, nil)

	assert.Equal(t, TierLow, res.RiskTier)
	assert.Empty(t, res.Reasons)
}

func TestVocabularies(t *testing.T) {
	assert.True(t, IsDangerSign(DangerReducedFetalMoves))
	assert.False(t, IsDangerSign("headache"))
	assert.True(t, IsModerateRiskIndicator(ModerateFirstPregnancyU18))
	assert.False(t, IsModerateRiskIndicator(DangerVaginalBleeding))
}

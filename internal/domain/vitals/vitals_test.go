package vitals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeParsesAllFields(t *testing.T) {
	v, missing := Normalize(RawVitals{
		RespiratoryRate: "18",
		Pulse:           "72",
		Temperature:     "36.8",
		OxygenSat:       "98",
		SystolicBP:      "120",
		DiastolicBP:     "80",
	})

	require.NotNil(t, v.RespiratoryRate)
	assert.Equal(t, 18.0, *v.RespiratoryRate)
	require.NotNil(t, v.Temperature)
	assert.Equal(t, 36.8, *v.Temperature)
	require.NotNil(t, v.DiastolicBP)
	assert.Equal(t, 80.0, *v.DiastolicBP)
	assert.Empty(t, missing)
}

func TestNormalizeTrimsWhitespace(t *testing.T) {
	v, _ := Normalize(RawVitals{Pulse: "  88  "})
	require.NotNil(t, v.Pulse)
	assert.Equal(t, 88.0, *v.Pulse)
}

func TestNormalizeMissingAndGarbled(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"spaces only", "   "},
		{"not a number", "abc"},
		{"negative", "-5"},
		{"mixed", "12bpm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, missing := Normalize(RawVitals{Pulse: tt.raw})
			assert.Nil(t, v.Pulse)
			assert.Contains(t, missing, ParamPulse)
		})
	}
}

// Zero is a recorded value, not an absent one. A respiratory rate of 0 is
// clinically meaningful and must survive normalization.
func TestNormalizeZeroIsNotMissing(t *testing.T) {
	v, missing := Normalize(RawVitals{RespiratoryRate: "0"})
	require.NotNil(t, v.RespiratoryRate)
	assert.Equal(t, 0.0, *v.RespiratoryRate)
	assert.NotContains(t, missing, ParamRespiratoryRate)
}

func TestNormalizeMissingSetInChartOrder(t *testing.T) {
	_, missing := Normalize(RawVitals{})
	assert.Equal(t, []string{
		ParamRespiratoryRate,
		ParamOxygenSat,
		ParamSystolicBP,
		ParamPulse,
		ParamTemperature,
	}, missing)
}

// Diastolic BP only feeds the obstetric checks; it never counts as a
// missing core parameter.
func TestNormalizeDiastolicNotInMissingSet(t *testing.T) {
	_, missing := Normalize(RawVitals{})
	assert.NotContains(t, missing, "diastolic_bp")
	assert.NotContains(t, missing, ParamConsciousness)
}

func TestConsciousnessIsValid(t *testing.T) {
	assert.True(t, ConsciousnessAlert.IsValid())
	assert.True(t, ConsciousnessVoice.IsValid())
	assert.True(t, ConsciousnessPain.IsValid())
	assert.True(t, ConsciousnessUnresponsive.IsValid())
	assert.False(t, Consciousness("awake").IsValid())
	assert.False(t, Consciousness("").IsValid())
}

func TestObservedUnknownParam(t *testing.T) {
	v, _ := Normalize(RawVitals{Pulse: "70"})
	assert.Nil(t, v.Observed("unknown"))
}

package vitals

import (
	"strconv"
	"strings"
)

// Consciousness follows the ACVPU scale used on observation charts.
type Consciousness string

const (
	ConsciousnessAlert        Consciousness = "alert"
	ConsciousnessVoice        Consciousness = "voice"
	ConsciousnessPain         Consciousness = "pain"
	ConsciousnessUnresponsive Consciousness = "unresponsive"
)

func (c Consciousness) IsValid() bool {
	switch c {
	case ConsciousnessAlert, ConsciousnessVoice, ConsciousnessPain, ConsciousnessUnresponsive:
		return true
	}
	return false
}

// Canonical parameter names, in the order they appear on the observation chart.
const (
	ParamRespiratoryRate = "respiratory_rate"
	ParamOxygenSat       = "spo2"
	ParamSystolicBP      = "systolic_bp"
	ParamPulse           = "pulse"
	ParamTemperature     = "temperature"
	ParamConsciousness   = "consciousness"
)

// ParameterOrder is the fixed ordering used for score breakdowns and for the
// missing-parameter list. Consciousness is scored but never "missing" - it is
// a required enum on every case.
var ParameterOrder = []string{
	ParamRespiratoryRate,
	ParamOxygenSat,
	ParamSystolicBP,
	ParamPulse,
	ParamTemperature,
	ParamConsciousness,
}

// RawVitals is what arrives from the field recorder's device: free-form
// strings, possibly empty, possibly garbled by the input widget.
type RawVitals struct {
	RespiratoryRate string `json:"respiratory_rate"`
	Pulse           string `json:"pulse"`
	Temperature     string `json:"temperature"`
	OxygenSat       string `json:"spo2"`
	SystolicBP      string `json:"systolic_bp"`
	DiastolicBP     string `json:"diastolic_bp"`
}

// VitalSigns is the normalized snapshot. A nil field means the vital was not
// recorded - it is never coerced to 0, since 0 is a clinically meaningful
// respiratory rate or pulse value.
type VitalSigns struct {
	RespiratoryRate *float64 `json:"respiratory_rate"`
	Pulse           *float64 `json:"pulse"`
	Temperature     *float64 `json:"temperature"`
	OxygenSat       *float64 `json:"spo2"`
	SystolicBP      *float64 `json:"systolic_bp"`
	DiastolicBP     *float64 `json:"diastolic_bp"`
}

// Normalize parses raw scalar inputs into a VitalSigns record and returns the
// set of missing core parameters in chart order. A value that is absent or not
// parseable as a number counts as missing. Diastolic BP is only used by the
// maternal engine and does not appear in the missing set.
func Normalize(raw RawVitals) (*VitalSigns, []string) {
	v := &VitalSigns{
		RespiratoryRate: parseVital(raw.RespiratoryRate),
		Pulse:           parseVital(raw.Pulse),
		Temperature:     parseVital(raw.Temperature),
		OxygenSat:       parseVital(raw.OxygenSat),
		SystolicBP:      parseVital(raw.SystolicBP),
		DiastolicBP:     parseVital(raw.DiastolicBP),
	}

	var missing []string
	for _, p := range ParameterOrder {
		if p == ParamConsciousness {
			continue
		}
		if v.Observed(p) == nil {
			missing = append(missing, p)
		}
	}
	return v, missing
}

// Observed returns the recorded value for a core parameter, or nil.
func (v *VitalSigns) Observed(param string) *float64 {
	switch param {
	case ParamRespiratoryRate:
		return v.RespiratoryRate
	case ParamOxygenSat:
		return v.OxygenSat
	case ParamSystolicBP:
		return v.SystolicBP
	case ParamPulse:
		return v.Pulse
	case ParamTemperature:
		return v.Temperature
	}
	return nil
}

func parseVital(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return nil
	}
	return &f
}

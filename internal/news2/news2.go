package news2

// Package news2 implements the National Early Warning Score 2 calculation
// over seven physiological inputs. The score is always recomputed from the
// raw inputs; it is never persisted.

// Consciousness level on the ACVPU-derived scale used by the report form.
type Consciousness string

const (
	ConsciousnessAlert        Consciousness = "A"
	ConsciousnessVoice        Consciousness = "V"
	ConsciousnessPain         Consciousness = "P"
	ConsciousnessUnresponsive Consciousness = "U"
)

// Risk tiers derived from the aggregate score.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Vitals holds the seven raw inputs of one reading.
type Vitals struct {
	RespiratoryRate    int           `json:"respiratory_rate"`
	OxygenSaturation   int           `json:"oxygen_saturation"`
	SupplementalOxygen bool          `json:"supplemental_oxygen"`
	SystolicBP         int           `json:"systolic_bp"`
	DiastolicBP        int           `json:"diastolic_bp"`
	PulseRate          int           `json:"pulse_rate"`
	Consciousness      Consciousness `json:"consciousness_level"`
	Temperature        float64       `json:"temperature"`
}

// Breakdown reports the per-parameter points that make up the total.
type Breakdown struct {
	RespiratoryRate    int `json:"respiratory_rate"`
	OxygenSaturation   int `json:"oxygen_saturation"`
	SupplementalOxygen int `json:"supplemental_oxygen"`
	SystolicBP         int `json:"systolic_bp"`
	PulseRate          int `json:"pulse_rate"`
	Consciousness      int `json:"consciousness_level"`
	Temperature        int `json:"temperature"`
}

// Result is the computed score of one reading.
type Result struct {
	Total     int       `json:"total"`
	Risk      Risk      `json:"risk"`
	Breakdown Breakdown `json:"breakdown"`
}

// Score computes the NEWS2 total and risk tier for one set of vitals.
// Each parameter contributes 0-3 points independently. Diastolic pressure
// is recorded with the reading but carries no points.
func Score(v Vitals) Result {
	b := Breakdown{
		RespiratoryRate:    respiratoryRatePoints(v.RespiratoryRate),
		OxygenSaturation:   oxygenSaturationPoints(v.OxygenSaturation),
		SupplementalOxygen: supplementalOxygenPoints(v.SupplementalOxygen),
		SystolicBP:         systolicBPPoints(v.SystolicBP),
		PulseRate:          pulseRatePoints(v.PulseRate),
		Consciousness:      consciousnessPoints(v.Consciousness),
		Temperature:        temperaturePoints(v.Temperature),
	}

	total := b.RespiratoryRate + b.OxygenSaturation + b.SupplementalOxygen +
		b.SystolicBP + b.PulseRate + b.Consciousness + b.Temperature

	return Result{
		Total:     total,
		Risk:      riskFor(total),
		Breakdown: b,
	}
}

func riskFor(total int) Risk {
	switch {
	case total >= 7:
		return RiskHigh
	case total >= 5:
		return RiskMedium
	default:
		return RiskLow
	}
}

func respiratoryRatePoints(rate int) int {
	switch {
	case rate <= 8:
		return 3
	case rate <= 11:
		return 1
	case rate <= 21:
		return 0
	case rate <= 24:
		return 2
	default:
		return 3
	}
}

func oxygenSaturationPoints(sat int) int {
	switch {
	case sat <= 91:
		return 3
	case sat <= 93:
		return 2
	case sat <= 95:
		return 1
	default:
		return 0
	}
}

func supplementalOxygenPoints(onOxygen bool) int {
	if onOxygen {
		return 2
	}
	return 0
}

func systolicBPPoints(sbp int) int {
	switch {
	case sbp <= 90:
		return 3
	case sbp <= 100:
		return 2
	case sbp <= 110:
		return 1
	case sbp <= 219:
		return 0
	default:
		return 3
	}
}

func pulseRatePoints(pulse int) int {
	switch {
	case pulse <= 40:
		return 3
	case pulse <= 50:
		return 1
	case pulse <= 90:
		return 0
	case pulse <= 110:
		return 1
	case pulse <= 130:
		return 2
	default:
		return 3
	}
}

func consciousnessPoints(level Consciousness) int {
	if level == ConsciousnessAlert {
		return 0
	}
	return 3
}

func temperaturePoints(temp float64) int {
	switch {
	case temp <= 35.0:
		return 3
	case temp <= 36.0:
		return 1
	case temp <= 38.0:
		return 0
	case temp <= 39.0:
		return 1
	default:
		return 2
	}
}

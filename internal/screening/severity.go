package screening

// Severity is the WHO-guideline anemia band for a hemoglobin value
type Severity string

const (
	SeveritySevere   Severity = "severe"
	SeverityModerate Severity = "moderate"
	SeverityMild     Severity = "mild"
	SeverityNormal   Severity = "normal"
)

// Band thresholds in g/dL. Each band includes its lower bound, so the
// classification is total and order-preserving with no gaps.
const (
	severeBelow   = 8.0
	moderateBelow = 11.0
	mildBelow     = 12.0
)

// Classify maps a hemoglobin value to its severity band
func Classify(hemoglobin float64) Severity {
	switch {
	case hemoglobin < severeBelow:
		return SeveritySevere
	case hemoglobin < moderateBelow:
		return SeverityModerate
	case hemoglobin < mildBelow:
		return SeverityMild
	default:
		return SeverityNormal
	}
}

// StatusText returns the label shown alongside a result
func (s Severity) StatusText() string {
	switch s {
	case SeveritySevere:
		return "Severe Anemia"
	case SeverityModerate:
		return "Moderate Anemia"
	case SeverityMild:
		return "Mild Anemia"
	default:
		return "Normal"
	}
}

// Package scoring folds the four component scores of a tender into a single
// win-probability estimate.
package scoring

import "math"

// Component weights. Risk is inverted: a higher risk score lowers the
// aggregate.
const (
	technicalWeight  = 0.30
	commercialWeight = 0.25
	complianceWeight = 0.25
	riskWeight       = 0.20
)

// Penalty thresholds applied after the weighted base.
const (
	weakTechnicalBelow  = 60
	weakComplianceBelow = 70
	highRiskAbove       = 80

	weakComponentPenalty = 20
	highRiskPenalty      = 15
)

// WinProbability computes a 0-100 estimate from four 0-100 sub-scores.
// Pure and deterministic. Inputs are assumed in range by contract; the
// function does not reject out-of-range values, it only clamps its own
// output.
func WinProbability(technical, commercial, compliance, risk int) int {
	base := float64(technical)*technicalWeight +
		float64(commercial)*commercialWeight +
		float64(compliance)*complianceWeight +
		float64(100-risk)*riskWeight

	p := int(math.Round(base))

	if technical < weakTechnicalBelow || compliance < weakComplianceBelow {
		p -= weakComponentPenalty
		if p < 0 {
			p = 0
		}
	}
	if risk > highRiskAbove {
		p -= highRiskPenalty
		if p < 0 {
			p = 0
		}
	}

	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return p
}

// InRange reports whether a sub-score is on the 0-100 scale. Handlers use
// it to validate request bodies before calling WinProbability.
func InRange(score int) bool {
	return score >= 0 && score <= 100
}

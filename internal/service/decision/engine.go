// Package decision implements the final aggregation step. Decide is a
// pure function of exactly three integers; it performs no I/O and knows
// nothing about how the layer scores were produced. Identical inputs
// always yield an identical verdict.
package decision

import (
	"math"

	"github.com/SriRamz25/payshield/internal/domain/risk"
)

// Weights of the suspicion blend. Receiver suspicion dominates because
// it is the strongest direct fraud signal; the relationship layer adds
// uncertainty and the amount layer contributes the least additively.
const (
	receiverWeight     = 0.60
	relationshipWeight = 0.25
	amountWeight       = 0.15
)

// The amount score also acts as a multiplier in [0.5, 1.0]: a highly
// suspicious receiver getting a trivially small payment must not reach
// BLOCK, because the damage potential gates how much suspicion matters.
const (
	damageFloor = 0.5
	damageSpan  = 0.5
)

// Action thresholds, first match on ascending score.
const (
	allowBelow = 25
	warnBelow  = 45
	otpBelow   = 70
)

// Risk level thresholds, aligned with the action edges so that a score
// of 24 is LOW/ALLOW and 25 is MODERATE/WARN.
const (
	lowBelow      = 25
	moderateBelow = 46
	highBelow     = 71
)

// Decide combines the three layer scores into the final verdict. Inputs
// are expected in [0,100]; out-of-range inputs still produce a final
// score inside [0,100] because the blend is clamped before rounding.
func Decide(relationshipScore, amountScore, receiverScore int) risk.RiskVerdict {
	u := float64(relationshipScore) / 100
	a := float64(amountScore) / 100
	r := float64(receiverScore) / 100

	suspicion := receiverWeight*r + relationshipWeight*u + amountWeight*a
	damageMultiplier := damageFloor + damageSpan*a

	final := suspicion * damageMultiplier
	if final < 0 {
		final = 0
	}
	if final > 1 {
		final = 1
	}
	score := int(math.Round(final * 100))

	return risk.RiskVerdict{
		FinalScore: score,
		RiskLevel:  levelFor(score),
		Action:     actionFor(score),
		Components: risk.Components{
			Relationship: relationshipScore,
			Amount:       amountScore,
			Receiver:     receiverScore,
		},
	}
}

func actionFor(score int) risk.Action {
	switch {
	case score < allowBelow:
		return risk.ActionAllow
	case score < warnBelow:
		return risk.ActionWarn
	case score < otpBelow:
		return risk.ActionOTP
	default:
		return risk.ActionBlock
	}
}

func levelFor(score int) risk.RiskLevel {
	switch {
	case score < lowBelow:
		return risk.RiskLevelLow
	case score < moderateBelow:
		return risk.RiskLevelModerate
	case score < highBelow:
		return risk.RiskLevelHigh
	default:
		return risk.RiskLevelCritical
	}
}

// Package amount implements the second scoring layer: how much damage
// this payment could do relative to the sender's own spending habits.
// It is independent of who the receiver is.
package amount

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/SriRamz25/payshield/internal/domain/risk"
)

// epsilon keeps the ratio denominator positive for brand-new senders
// with zero history. A first payment of non-trivial size then produces
// a very large ratio and a conservative score, which is intended.
var epsilon = decimal.NewFromInt(1)

const newMaximumBonus = 10

// ratioTiers maps ratio-to-average thresholds to scores, checked in
// descending order; first match wins.
var ratioTiers = []struct {
	threshold float64
	score     int
}{
	{10, 100},
	{5, 85},
	{3, 70},
	{2, 55},
	{1.2, 40},
}

const baselineScore = 20

// Scorer computes the amount layer score.
type Scorer struct{}

// NewScorer creates an amount scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score maps the ratio of the amount to the sender's 30-day average
// into a damage-potential score, with a bonus when the payment sets a
// new personal maximum.
func (s *Scorer) Score(amt decimal.Decimal, stats risk.SenderStats) risk.LayerScore {
	denom := stats.AvgAmount30d
	if denom.LessThan(epsilon) {
		denom = epsilon
	}
	ratio, _ := amt.Div(denom).Float64()

	score := baselineScore
	for _, tier := range ratioTiers {
		if ratio >= tier.threshold {
			score = tier.score
			break
		}
	}

	factors := []string{}
	switch {
	case score >= 85:
		factors = append(factors, fmt.Sprintf("Extreme amount - %.1fx your 30-day average", ratio))
	case score >= 55:
		factors = append(factors, fmt.Sprintf("Unusually large amount - %.1fx your 30-day average", ratio))
	case score >= 40:
		factors = append(factors, fmt.Sprintf("Above-average amount (%.1fx your usual)", ratio))
	}

	if amt.GreaterThan(stats.MaxAmount7d) {
		score += newMaximumBonus
		factors = append(factors, "Exceeds your recent maximum transaction")
	}

	return risk.NewLayerScore(score, factors...)
}

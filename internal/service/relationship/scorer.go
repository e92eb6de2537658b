// Package relationship implements the first scoring layer: how familiar
// the sender is with the receiver. It measures uncertainty from
// unfamiliarity, not fraud intent, and reads nothing but the
// sender-receiver pair history.
package relationship

import (
	"fmt"
	"time"

	"github.com/SriRamz25/payshield/internal/domain/risk"
)

const (
	// dormancyThreshold is the relationship gap after which an extra
	// penalty applies even for otherwise familiar receivers.
	dormancyThreshold = 90 // days

	dormancyPenalty = 20

	scoreNever   = 80
	scoreOnce    = 50
	scoreFew     = 20 // 2-4 transactions
	scoreRegular = 10 // 5-9 transactions
	scoreTrusted = 5  // 10 or more
)

// Scorer computes the relationship layer score.
type Scorer struct{}

// NewScorer creates a relationship scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score classifies the sender-receiver pair by completed transaction
// count and recency. A receiver on the sender's known-contacts
// allowlist is treated as having at least two past transactions so
// pre-approved contacts are not penalized as strangers.
func (s *Scorer) Score(history risk.RelationshipHistory, now time.Time) risk.LayerScore {
	count := history.CompletedCount()
	if history.KnownContact && count < 2 {
		count = 2
	}

	base, familiarity := classify(count)

	factors := []string{}
	switch familiarity {
	case risk.FamiliarityNew:
		factors = append(factors, "First-time receiver - verify before paying")
	case risk.FamiliarityRare:
		factors = append(factors, "Rarely used receiver (1 past transaction)")
	}

	score := base
	if count > 0 {
		if last := history.LastCompletedAt(); !last.IsZero() {
			days := int(now.Sub(last).Hours() / 24)
			if days > dormancyThreshold {
				score += dormancyPenalty
				factors = append(factors, fmt.Sprintf("Dormant relationship (%d days since last payment)", days))
			}
		}
	}

	factors = append(factors, fmt.Sprintf("Receiver familiarity: %s", familiarity))
	return risk.NewLayerScore(score, factors...)
}

// Familiarity returns the explanation tier for a history without
// computing a score.
func (s *Scorer) Familiarity(history risk.RelationshipHistory) risk.Familiarity {
	count := history.CompletedCount()
	if history.KnownContact && count < 2 {
		count = 2
	}
	_, f := classify(count)
	return f
}

func classify(count int) (int, risk.Familiarity) {
	switch {
	case count == 0:
		return scoreNever, risk.FamiliarityNew
	case count == 1:
		return scoreOnce, risk.FamiliarityRare
	case count <= 4:
		return scoreFew, risk.FamiliarityKnown
	case count <= 9:
		return scoreRegular, risk.FamiliarityTrusted
	default:
		return scoreTrusted, risk.FamiliarityTrusted
	}
}

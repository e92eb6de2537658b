// Package receiver implements the third scoring layer: how suspicious
// the receiver looks. It combines a rule baseline from the receiver's
// profile with an external fraud-probability predictor, and degrades to
// rule-based-only scoring when the predictor is unavailable.
package receiver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SriRamz25/payshield/internal/domain/risk"
)

// Bucket is the receiver-risk tier used for explanation text.
type Bucket string

const (
	BucketLow        Bucket = "LOW"
	BucketGuarded    Bucket = "GUARDED"
	BucketSuspicious Bucket = "SUSPICIOUS"
	BucketHighRisk   Bucket = "HIGH_RISK"
)

// Rule baselines by profile. Reputation can only push risk up relative
// to these, never down.
const (
	ruleRiskyHistory = 85
	ruleNewReceiver  = 40
	ruleNeutral      = 30
	ruleGoodHistory  = 10
)

const defaultPredictTimeout = 50 * time.Millisecond

const degradedFactor = "Prediction degraded - rule-based assessment only"

// Scorer computes the receiver layer score.
type Scorer struct {
	predictor      Predictor
	predictTimeout time.Duration
	logger         *slog.Logger
}

// NewScorer creates a receiver scorer. predictor may be nil, in which
// case every score is rule-based.
func NewScorer(predictor Predictor, predictTimeout time.Duration, logger *slog.Logger) *Scorer {
	if predictTimeout <= 0 {
		predictTimeout = defaultPredictTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{
		predictor:      predictor,
		predictTimeout: predictTimeout,
		logger:         logger,
	}
}

// Score evaluates receiver suspicion from the profile and, when the
// predictor answers within its deadline, the model probability. The
// final layer score is the maximum of the two signals.
func (s *Scorer) Score(ctx context.Context, intent risk.PaymentIntent, stats risk.SenderStats, profile risk.ReceiverProfile) risk.LayerScore {
	ruleScore := ruleBaseline(profile)

	score := ruleScore
	degraded := false

	if s.predictor != nil {
		features := BuildFeatures(intent, stats)

		predictCtx, cancel := context.WithTimeout(ctx, s.predictTimeout)
		probability, err := s.predictor.Predict(predictCtx, features)
		cancel()

		if err != nil {
			degraded = true
			predictorFallbacks.Inc()
			s.logger.WarnContext(ctx, "fraud predictor unavailable, using rule-based score",
				"receiver_id", intent.ReceiverID,
				"error", err)
		} else {
			predictorScore := int(clampProbability(probability) * 100)
			if predictorScore > score {
				score = predictorScore
			}
		}
	}

	factors := describe(score, profile)
	if degraded {
		factors = append(factors, degradedFactor)
	}
	return risk.NewLayerScore(score, factors...)
}

// BucketFor maps a receiver score to its explanation tier.
func BucketFor(score int) Bucket {
	switch {
	case score <= 25:
		return BucketLow
	case score <= 50:
		return BucketGuarded
	case score <= 75:
		return BucketSuspicious
	default:
		return BucketHighRisk
	}
}

func ruleBaseline(profile risk.ReceiverProfile) int {
	score := ruleNeutral
	switch {
	case profile.HasRiskyHistory:
		score = ruleRiskyHistory
	case profile.IsNew:
		score = ruleNewReceiver
	case profile.HasGoodHistory:
		score = ruleGoodHistory
	}

	if profile.ExternalReputation != nil {
		if rep := risk.ClampScore(*profile.ExternalReputation); rep > score {
			score = rep
		}
	}
	return score
}

func describe(score int, profile risk.ReceiverProfile) []string {
	factors := []string{}
	switch bucket := BucketFor(score); bucket {
	case BucketHighRisk:
		factors = append(factors, fmt.Sprintf("Suspicious receiver activity pattern (score %d/100)", score))
	case BucketSuspicious:
		factors = append(factors, fmt.Sprintf("Receiver shows moderate risk signals (score %d/100)", score))
	default:
		if profile.IsNew {
			factors = append(factors, "Receiver has no transaction history yet")
		}
	}
	return factors
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

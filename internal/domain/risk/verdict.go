package risk

// RiskLevel is the coarse bucket over the final 0-100 score.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelModerate RiskLevel = "MODERATE"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// Action is the recommended friction response for a payment.
type Action string

const (
	ActionAllow Action = "ALLOW"
	ActionWarn  Action = "WARN"
	ActionOTP   Action = "OTP"
	ActionBlock Action = "BLOCK"
)

// CanProceed reports whether the payment may still go through,
// possibly after additional verification.
func (a Action) CanProceed() bool {
	return a != ActionBlock
}

// Familiarity is the bucketed sender-receiver relationship tier.
type Familiarity string

const (
	FamiliarityNew     Familiarity = "new"
	FamiliarityRare    Familiarity = "rare"
	FamiliarityKnown   Familiarity = "known"
	FamiliarityTrusted Familiarity = "trusted"
)

// LayerScore is the output of one scoring layer: an integer in [0,100]
// plus a small ordered list of human-readable factor strings.
type LayerScore struct {
	Score   int      `json:"score"`
	Factors []string `json:"factors"`
}

// NewLayerScore clamps the score into [0,100]. Scorers must never emit
// out-of-range values; clamping here keeps the invariant even when one
// does.
func NewLayerScore(score int, factors ...string) LayerScore {
	return LayerScore{Score: ClampScore(score), Factors: factors}
}

// ClampScore forces a score into the [0,100] contract range.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Components holds the three named sub-scores that produced a verdict.
type Components struct {
	Relationship int `json:"relationship"`
	Amount       int `json:"amount"`
	Receiver     int `json:"receiver"`
}

// RiskVerdict is the final outcome of one evaluation. Produced once per
// payment intent and never mutated afterward.
type RiskVerdict struct {
	FinalScore int        `json:"final_score"`
	RiskLevel  RiskLevel  `json:"risk_level"`
	Action     Action     `json:"action"`
	Components Components `json:"components"`
	Factors    []string   `json:"factors"`
}

package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SriRamz25/payshield/internal/domain/risk"
)

func TestDecide_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		relationship int
		amount       int
		receiver     int
		wantScore    int
		wantLevel    risk.RiskLevel
		wantAction   risk.Action
	}{
		{
			name:         "trusted receiver small amount",
			relationship: 0,
			amount:       20,
			receiver:     10,
			wantScore:    5,
			wantLevel:    risk.RiskLevelLow,
			wantAction:   risk.ActionAllow,
		},
		{
			name:         "stranger with usual amount",
			relationship: 80,
			amount:       20,
			receiver:     40,
			wantScore:    28,
			wantLevel:    risk.RiskLevelModerate,
			wantAction:   risk.ActionWarn,
		},
		{
			name:         "stranger huge amount risky receiver",
			relationship: 80,
			amount:       95,
			receiver:     85,
			wantScore:    83,
			wantLevel:    risk.RiskLevelCritical,
			wantAction:   risk.ActionBlock,
		},
		{
			name:         "large amount to trusted receiver",
			relationship: 15,
			amount:       70,
			receiver:     10,
			wantScore:    17,
			wantLevel:    risk.RiskLevelLow,
			wantAction:   risk.ActionAllow,
		},
		{
			name:         "all zero",
			relationship: 0,
			amount:       0,
			receiver:     0,
			wantScore:    0,
			wantLevel:    risk.RiskLevelLow,
			wantAction:   risk.ActionAllow,
		},
		{
			name:         "all maximal",
			relationship: 100,
			amount:       100,
			receiver:     100,
			wantScore:    100,
			wantLevel:    risk.RiskLevelCritical,
			wantAction:   risk.ActionBlock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Decide(tt.relationship, tt.amount, tt.receiver)

			assert.Equal(t, tt.wantScore, verdict.FinalScore)
			assert.Equal(t, tt.wantLevel, verdict.RiskLevel)
			assert.Equal(t, tt.wantAction, verdict.Action)
			assert.Equal(t, tt.relationship, verdict.Components.Relationship)
			assert.Equal(t, tt.amount, verdict.Components.Amount)
			assert.Equal(t, tt.receiver, verdict.Components.Receiver)
		})
	}
}

func TestDecide_ActionBoundary(t *testing.T) {
	// 0.60*0.80*0.5 rounds to 24, just inside ALLOW; 0.60*0.84*0.5
	// rounds to 25, the first WARN score.
	below := Decide(0, 0, 80)
	assert.Equal(t, 24, below.FinalScore)
	assert.Equal(t, risk.ActionAllow, below.Action)
	assert.Equal(t, risk.RiskLevelLow, below.RiskLevel)

	above := Decide(0, 0, 84)
	assert.Equal(t, 25, above.FinalScore)
	assert.Equal(t, risk.ActionWarn, above.Action)
	assert.Equal(t, risk.RiskLevelModerate, above.RiskLevel)
}

func TestDecide_SmallPaymentNeverBlocks(t *testing.T) {
	// Damage gating: maximal suspicion with a trivial amount stays
	// below the BLOCK edge.
	verdict := Decide(100, 0, 100)
	assert.Less(t, verdict.FinalScore, 70)
	assert.NotEqual(t, risk.ActionBlock, verdict.Action)
}

func TestDecide_MonotoneInReceiver(t *testing.T) {
	prev := -1
	for recv := 0; recv <= 100; recv += 5 {
		score := Decide(40, 60, recv).FinalScore
		assert.GreaterOrEqual(t, score, prev, "receiver=%d", recv)
		prev = score
	}
}

func TestDecide_ScoreAlwaysInRange(t *testing.T) {
	for rel := 0; rel <= 100; rel += 20 {
		for amt := 0; amt <= 100; amt += 20 {
			for recv := 0; recv <= 100; recv += 20 {
				verdict := Decide(rel, amt, recv)
				assert.GreaterOrEqual(t, verdict.FinalScore, 0)
				assert.LessOrEqual(t, verdict.FinalScore, 100)
			}
		}
	}
}

func TestDecide_Deterministic(t *testing.T) {
	first := Decide(37, 58, 71)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Decide(37, 58, 71))
	}
}

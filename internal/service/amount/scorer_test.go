package amount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/SriRamz25/payshield/internal/domain/risk"
)

func statsWithAvg(avg30, max7 int64) risk.SenderStats {
	return risk.SenderStats{
		AvgAmount30d: decimal.NewFromInt(avg30),
		MaxAmount7d:  decimal.NewFromInt(max7),
	}
}

func TestScore_RatioTiers(t *testing.T) {
	scorer := NewScorer()
	// max7d kept high so the new-maximum bonus stays out of the way.
	stats := statsWithAvg(100, 100000)

	tests := []struct {
		name      string
		amount    int64
		wantScore int
	}{
		{"ten times average", 1000, 100},
		{"five times average", 500, 85},
		{"three times average", 300, 70},
		{"double average", 200, 55},
		{"slightly above average", 120, 40},
		{"exactly average", 100, 20},
		{"below average", 50, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(decimal.NewFromInt(tt.amount), stats)
			assert.Equal(t, tt.wantScore, got.Score)
		})
	}
}

func TestScore_RatioMonotone(t *testing.T) {
	scorer := NewScorer()
	stats := statsWithAvg(100, 100000)

	prev := -1
	for amt := int64(10); amt <= 2000; amt += 10 {
		got := scorer.Score(decimal.NewFromInt(amt), stats)
		assert.GreaterOrEqual(t, got.Score, prev, "amount=%d", amt)
		prev = got.Score
	}
}

func TestScore_ZeroHistorySender(t *testing.T) {
	got := NewScorer().Score(decimal.NewFromInt(500), risk.SenderStats{})

	// With no spending history the denominator floors at 1, so any
	// sizable first payment scores at the top tier plus the
	// new-maximum bonus, clamped to 100.
	assert.Equal(t, 100, got.Score)
	assert.Contains(t, got.Factors, "Exceeds your recent maximum transaction")
}

func TestScore_NewMaximumBonus(t *testing.T) {
	scorer := NewScorer()

	withBonus := scorer.Score(decimal.NewFromInt(130), statsWithAvg(100, 120))
	assert.Equal(t, 50, withBonus.Score)
	assert.Contains(t, withBonus.Factors, "Exceeds your recent maximum transaction")

	withoutBonus := scorer.Score(decimal.NewFromInt(130), statsWithAvg(100, 200))
	assert.Equal(t, 40, withoutBonus.Score)
	assert.NotContains(t, withoutBonus.Factors, "Exceeds your recent maximum transaction")
}

func TestScore_EqualToRecentMaximumGetsNoBonus(t *testing.T) {
	got := NewScorer().Score(decimal.NewFromInt(120), statsWithAvg(100, 120))

	assert.Equal(t, 40, got.Score)
}

func TestScore_FactorTexts(t *testing.T) {
	scorer := NewScorer()
	stats := statsWithAvg(100, 100000)

	extreme := scorer.Score(decimal.NewFromInt(600), stats)
	assert.Contains(t, extreme.Factors, "Extreme amount - 6.0x your 30-day average")

	large := scorer.Score(decimal.NewFromInt(250), stats)
	assert.Contains(t, large.Factors, "Unusually large amount - 2.5x your 30-day average")

	usual := scorer.Score(decimal.NewFromInt(80), stats)
	assert.Empty(t, usual.Factors)
}

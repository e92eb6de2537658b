package receiver

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/SriRamz25/payshield/internal/domain/risk"
)

func TestBuildFeatures(t *testing.T) {
	intent, err := risk.NewPaymentIntent("user-1", "shop@upi", decimal.NewFromInt(300),
		time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC))
	assert.NoError(t, err)

	stats := risk.SenderStats{
		AvgAmount30d:     decimal.NewFromInt(99),
		MaxAmount7d:      decimal.NewFromInt(250),
		TxnCount1h:       3,
		TxnCount24h:      9,
		NightTxnRatio:    0.25,
		DaysSinceLastTxn: 4,
		LocationMismatch: true,
		FrequentHours:    []int{9, 13, 18},
	}

	v := BuildFeatures(intent, stats)

	assert.InDelta(t, 2.01, v[FeatureAmountDeviation], 1e-9)
	assert.InDelta(t, 0.3, v[FeatureVelocityRatio], 1e-9)
	assert.Equal(t, 1.0, v[FeatureIsNight])
	assert.Equal(t, 1.0, v[FeatureUnusualHour])
	assert.Equal(t, 1.0, v[FeatureExceedsRecentMax])
	assert.Equal(t, 0.25, v[FeatureNightTxnRatio])
	assert.Equal(t, 4.0, v[FeatureDaysSinceLastTxn])
	assert.Equal(t, 1.0, v[FeatureLocationMismatch])
}

func TestBuildFeatures_DaytimeFrequentHour(t *testing.T) {
	intent, err := risk.NewPaymentIntent("user-1", "shop@upi", decimal.NewFromInt(50),
		time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC))
	assert.NoError(t, err)

	stats := risk.SenderStats{
		AvgAmount30d:     decimal.NewFromInt(100),
		MaxAmount7d:      decimal.NewFromInt(250),
		FrequentHours:    []int{13},
		DaysSinceLastTxn: -1,
	}

	v := BuildFeatures(intent, stats)

	assert.Equal(t, 0.0, v[FeatureIsNight])
	assert.Equal(t, 0.0, v[FeatureUnusualHour])
	assert.Equal(t, 0.0, v[FeatureExceedsRecentMax])
	assert.Equal(t, -1.0, v[FeatureDaysSinceLastTxn])
}

func TestFeatureOrderIsStable(t *testing.T) {
	assert.Equal(t, 0, FeatureAmountDeviation)
	assert.Equal(t, 1, FeatureVelocityRatio)
	assert.Equal(t, 2, FeatureIsNight)
	assert.Equal(t, 3, FeatureUnusualHour)
	assert.Equal(t, 4, FeatureExceedsRecentMax)
	assert.Equal(t, 5, FeatureNightTxnRatio)
	assert.Equal(t, 6, FeatureDaysSinceLastTxn)
	assert.Equal(t, 7, FeatureLocationMismatch)
	assert.Equal(t, 8, FeatureCount)
}

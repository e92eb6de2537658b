package receiver

import (
	"github.com/SriRamz25/payshield/internal/domain/risk"
)

// Feature indices. The order is fixed by the model training schema and
// must never change without retraining.
const (
	FeatureAmountDeviation = iota
	FeatureVelocityRatio
	FeatureIsNight
	FeatureUnusualHour
	FeatureExceedsRecentMax
	FeatureNightTxnRatio
	FeatureDaysSinceLastTxn
	FeatureLocationMismatch

	FeatureCount
)

// FeatureVector is the fixed-order input to the fraud predictor.
type FeatureVector [FeatureCount]float64

// BuildFeatures engineers the predictor inputs from the intent and the
// sender's behavioral statistics.
func BuildFeatures(intent risk.PaymentIntent, stats risk.SenderStats) FeatureVector {
	amount, _ := intent.Amount.Float64()
	avg30, _ := stats.AvgAmount30d.Float64()
	hour := intent.Timestamp.Hour()

	var v FeatureVector
	v[FeatureAmountDeviation] = (amount - avg30) / (avg30 + 1)
	v[FeatureVelocityRatio] = float64(stats.TxnCount1h) / float64(stats.TxnCount24h+1)
	v[FeatureIsNight] = boolFeature(hour >= 22 || hour <= 5)
	v[FeatureUnusualHour] = boolFeature(!stats.HasFrequentHour(hour))
	v[FeatureExceedsRecentMax] = boolFeature(intent.Amount.GreaterThan(stats.MaxAmount7d))
	v[FeatureNightTxnRatio] = stats.NightTxnRatio
	v[FeatureDaysSinceLastTxn] = float64(stats.DaysSinceLastTxn)
	v[FeatureLocationMismatch] = boolFeature(stats.LocationMismatch)
	return v
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

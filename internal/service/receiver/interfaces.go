package receiver

import "context"

// Predictor is the external fraud-probability model. It may be absent
// or unavailable; the scorer degrades to rule-based scoring when the
// call errors or times out.
type Predictor interface {
	// Predict returns a fraud probability in [0,1] for the fixed-order
	// feature vector.
	Predict(ctx context.Context, features FeatureVector) (float64, error)
}

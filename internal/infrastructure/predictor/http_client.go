package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SriRamz25/payshield/internal/domain/errors"
	"github.com/SriRamz25/payshield/internal/infrastructure/config"
	"github.com/SriRamz25/payshield/internal/service/receiver"
)

// HTTPClient calls a remote fraud predictor over HTTP. It satisfies
// receiver.Predictor. The caller bounds the call with its context; no
// separate client timeout is set so the two cannot fight.
type HTTPClient struct {
	url    string
	client *http.Client
}

func NewHTTPClient(cfg *config.PredictorConfig) *HTTPClient {
	return &HTTPClient{
		url:    cfg.URL,
		client: &http.Client{},
	}
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type predictResponse struct {
	RiskProbability float64 `json:"risk_probability"`
}

// Predict posts the feature vector and returns the fraud probability
// in [0,1]. Any transport or decode failure comes back as a
// PREDICTOR_UNAVAILABLE error so the scorer can fall back to rules.
func (c *HTTPClient) Predict(ctx context.Context, features receiver.FeatureVector) (float64, error) {
	body, err := json.Marshal(predictRequest{Features: features[:]})
	if err != nil {
		return 0, errors.NewPredictorUnavailableError("encoding predict request").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, errors.NewPredictorUnavailableError("building predict request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, errors.NewPredictorUnavailableError("predictor request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return 0, errors.NewPredictorUnavailableError(
			fmt.Sprintf("predictor returned status %d", resp.StatusCode))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, errors.NewPredictorUnavailableError("decoding predict response").WithCause(err)
	}
	if out.RiskProbability < 0 || out.RiskProbability > 1 {
		return 0, errors.NewPredictorUnavailableError(
			fmt.Sprintf("predictor probability out of range: %f", out.RiskProbability))
	}
	return out.RiskProbability, nil
}

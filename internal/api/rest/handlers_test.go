package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/SriRamz25/payshield/internal/domain/errors"
	"github.com/SriRamz25/payshield/internal/domain/risk"
	"github.com/SriRamz25/payshield/internal/service/assessment"
	"github.com/SriRamz25/payshield/internal/service/receiver"
)

type stubService struct {
	eval       *assessment.Evaluation
	err        error
	gotIntent  risk.PaymentIntent
	gotPersist bool
}

func (s *stubService) Evaluate(ctx context.Context, intent risk.PaymentIntent, persist bool) (*assessment.Evaluation, error) {
	s.gotIntent = intent
	s.gotPersist = persist
	if s.err != nil {
		return nil, s.err
	}
	return s.eval, nil
}

type stubEventReader struct {
	events   []*assessment.RiskEvent
	err      error
	gotLimit int
}

func (s *stubEventReader) RecentBySender(ctx context.Context, senderID string, limit int) ([]*assessment.RiskEvent, error) {
	s.gotLimit = limit
	return s.events, s.err
}

func sampleEvaluation() *assessment.Evaluation {
	return &assessment.Evaluation{
		TransactionID: "TXN-0123456789AB",
		Timestamp:     time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC),
		Verdict: risk.RiskVerdict{
			FinalScore: 28,
			RiskLevel:  risk.RiskLevelModerate,
			Action:     risk.ActionWarn,
			Components: risk.Components{Relationship: 80, Amount: 20, Receiver: 40},
			Factors:    []string{"First-time receiver - verify before paying"},
		},
		Familiarity:     risk.FamiliarityNew,
		ReceiverBucket:  receiver.BucketGuarded,
		Message:         "Moderate risk detected. Please verify before proceeding.",
		Recommendations: []string{"Double-check the receiver's payment address before proceeding."},
	}
}

func newTestMux(svc assessment.Service, events EventReader) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(svc, events, slog.Default()).Routes(mux)
	return mux
}

func postEvaluate(t *testing.T, mux *http.ServeMux, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/risk/evaluations",
		bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleEvaluate_Success(t *testing.T) {
	svc := &stubService{eval: sampleEvaluation()}
	mux := newTestMux(svc, nil)

	rec := postEvaluate(t, mux, `{
		"sender_id": "user-1",
		"receiver_id": "Shop@UPI",
		"amount": "250.00",
		"persist": true
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "TXN-0123456789AB", resp.TransactionID)
	assert.Equal(t, 28, resp.RiskScore)
	assert.Equal(t, "MODERATE", resp.RiskLevel)
	assert.Equal(t, "WARN", resp.Action)
	assert.True(t, resp.CanProceed)
	assert.Equal(t, 40, resp.Components.Receiver)
	assert.Equal(t, "new", resp.Familiarity)
	assert.Equal(t, "GUARDED", resp.ReceiverBucket)

	assert.True(t, svc.gotPersist)
	assert.Equal(t, "shop@upi", svc.gotIntent.ReceiverID)
	assert.True(t, svc.gotIntent.Amount.Equal(decimal.RequireFromString("250.00")))
	assert.False(t, svc.gotIntent.Timestamp.IsZero(), "missing timestamp defaults to now")
}

func TestHandleEvaluate_MalformedBody(t *testing.T) {
	mux := newTestMux(&stubService{eval: sampleEvaluation()}, nil)

	rec := postEvaluate(t, mux, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_BODY")
}

func TestHandleEvaluate_MissingFields(t *testing.T) {
	mux := newTestMux(&stubService{eval: sampleEvaluation()}, nil)

	rec := postEvaluate(t, mux, `{"receiver_id": "shop@upi", "amount": "100"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INTENT")
}

func TestHandleEvaluate_NegativeAmount(t *testing.T) {
	mux := newTestMux(&stubService{eval: sampleEvaluation()}, nil)

	rec := postEvaluate(t, mux, `{"sender_id": "user-1", "receiver_id": "shop@upi", "amount": "-10"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleEvaluate_ContextUnavailableMapsTo502(t *testing.T) {
	svc := &stubService{err: apperrors.NewContextUnavailableError("risk context could not be fetched")}
	mux := newTestMux(svc, nil)

	rec := postEvaluate(t, mux, `{"sender_id": "user-1", "receiver_id": "shop@upi", "amount": "100"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "CONTEXT_UNAVAILABLE")
}

func TestHandleSenderEvents(t *testing.T) {
	events := &stubEventReader{events: []*assessment.RiskEvent{{
		TransactionID: "TXN-0123456789AB",
		SenderID:      "user-1",
		ReceiverID:    "shop@upi",
		Amount:        decimal.NewFromInt(250),
		FinalScore:    28,
		RiskLevel:     risk.RiskLevelModerate,
		Action:        risk.ActionWarn,
		CreatedAt:     time.Now().UTC(),
	}}}
	mux := newTestMux(&stubService{}, events)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/risk/events/user-1?limit=5", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, events.gotLimit)

	var resp EventListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "TXN-0123456789AB", resp.Events[0].TransactionID)
	assert.Equal(t, "WARN", resp.Events[0].Action)
}

func TestHandleSenderEvents_InvalidLimit(t *testing.T) {
	mux := newTestMux(&stubService{}, &stubEventReader{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/risk/events/user-1?limit=abc", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_LIMIT")
}

func TestHealthHandler(t *testing.T) {
	healthy := NewHealthHandler(
		CheckFunc{CheckName: "postgres", Fn: func(ctx context.Context) error { return nil }},
	)

	rec := httptest.NewRecorder()
	healthy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	unhealthy := NewHealthHandler(
		CheckFunc{CheckName: "redis", Fn: func(ctx context.Context) error {
			return assert.AnError
		}},
	)

	rec = httptest.NewRecorder()
	unhealthy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "supplied-id")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "supplied-id", seen)
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := rateLimitMiddleware(1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Contains(t, codes[2:], http.StatusTooManyRequests)

	// A different client gets its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorResponseEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	writeError(rec, req, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.False(t, strings.Contains(resp.Error.Message, assert.AnError.Error()),
		"internal details must not leak to callers")
}

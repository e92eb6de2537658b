// Package assessment orchestrates the three-layer risk pipeline:
// context acquisition, concurrent scoring, pure aggregation, and
// explanation assembly.
package assessment

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/SriRamz25/payshield/internal/domain/errors"
	"github.com/SriRamz25/payshield/internal/domain/risk"
	"github.com/SriRamz25/payshield/internal/service/amount"
	"github.com/SriRamz25/payshield/internal/service/decision"
	"github.com/SriRamz25/payshield/internal/service/receiver"
	"github.com/SriRamz25/payshield/internal/service/relationship"
)

const defaultMaxFactors = 6

// service implements the Service interface.
type service struct {
	provider     ContextProvider
	events       EventRecorder
	relationship *relationship.Scorer
	amount       *amount.Scorer
	receiver     *receiver.Scorer

	maxFactors int
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewService wires the orchestrator. events may be nil when no audit
// trail is wanted.
func NewService(
	provider ContextProvider,
	events EventRecorder,
	relationshipScorer *relationship.Scorer,
	amountScorer *amount.Scorer,
	receiverScorer *receiver.Scorer,
	maxFactors int,
	logger *slog.Logger,
) Service {
	if maxFactors <= 0 {
		maxFactors = defaultMaxFactors
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		provider:     provider,
		events:       events,
		relationship: relationshipScorer,
		amount:       amountScorer,
		receiver:     receiverScorer,
		maxFactors:   maxFactors,
		logger:       logger,
		tracer:       otel.Tracer("service.assessment"),
	}
}

// Evaluate runs one full assessment. The three scorers operate on
// disjoint slices of the fetched snapshot and hold no shared state, so
// they run concurrently without locking; the decision engine only
// executes once all three layer scores are resolved.
func (s *service) Evaluate(ctx context.Context, intent risk.PaymentIntent, persist bool) (*Evaluation, error) {
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "risk.evaluate",
		trace.WithAttributes(
			attribute.String("risk.receiver_id", intent.ReceiverID),
			attribute.Bool("risk.persist", persist),
		))
	defer span.End()

	if err := intent.Validate(); err != nil {
		return nil, err
	}

	txnID := newTransactionID()
	st := stateFetchingContext
	s.logState(ctx, txnID, st)

	snapshot, err := s.provider.Fetch(ctx, intent.SenderID, intent.ReceiverID)
	if err != nil {
		contextFetchFailures.Inc()
		s.logState(ctx, txnID, stateError)
		return nil, errors.NewContextUnavailableError("risk context could not be fetched").WithCause(err)
	}

	st = stateScoring
	s.logState(ctx, txnID, st)

	var (
		wg            sync.WaitGroup
		relationScore risk.LayerScore
		amountScore   risk.LayerScore
		receiverScore risk.LayerScore
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		relationScore = s.relationship.Score(snapshot.Relationship, intent.Timestamp)
	}()
	go func() {
		defer wg.Done()
		amountScore = s.amount.Score(intent.Amount, snapshot.Sender)
	}()
	go func() {
		defer wg.Done()
		receiverScore = s.receiver.Score(ctx, intent, snapshot.Sender, snapshot.Receiver)
	}()
	wg.Wait()

	st = stateAggregating
	s.logState(ctx, txnID, st)

	relationScore = s.clamp(ctx, "relationship", relationScore)
	amountScore = s.clamp(ctx, "amount", amountScore)
	receiverScore = s.clamp(ctx, "receiver", receiverScore)

	verdict := decision.Decide(relationScore.Score, amountScore.Score, receiverScore.Score)
	verdict.Factors = s.mergeFactors(receiverScore, relationScore, amountScore)

	eval := &Evaluation{
		TransactionID:   txnID,
		Timestamp:       intent.Timestamp,
		Verdict:         verdict,
		Familiarity:     s.relationship.Familiarity(snapshot.Relationship),
		ReceiverBucket:  receiver.BucketFor(receiverScore.Score),
		Message:         messageFor(verdict.Action),
		Recommendations: recommendationsFor(verdict.Action, snapshot.Relationship, amountScore.Score),
	}

	if persist && s.events != nil {
		event := &RiskEvent{
			TransactionID: txnID,
			SenderID:      intent.SenderID,
			ReceiverID:    intent.ReceiverID,
			Amount:        intent.Amount,
			FinalScore:    verdict.FinalScore,
			RiskLevel:     verdict.RiskLevel,
			Action:        verdict.Action,
			Components:    verdict.Components,
			Factors:       verdict.Factors,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.events.Record(ctx, event); err != nil {
			// The verdict stands even when the audit write fails.
			s.logger.ErrorContext(ctx, "failed to record risk event",
				"transaction_id", txnID,
				"error", err)
		}
	}

	s.logState(ctx, txnID, stateDone)
	evaluationsTotal.WithLabelValues(string(verdict.Action)).Inc()
	evaluationDuration.Observe(time.Since(start).Seconds())
	span.SetAttributes(
		attribute.Int("risk.final_score", verdict.FinalScore),
		attribute.String("risk.action", string(verdict.Action)),
	)

	s.logger.InfoContext(ctx, "risk evaluation complete",
		"transaction_id", txnID,
		"final_score", verdict.FinalScore,
		"risk_level", verdict.RiskLevel,
		"action", verdict.Action)

	return eval, nil
}

// clamp enforces the [0,100] invariant on a layer output. An
// out-of-range value is a programming defect in the scorer; it is
// clamped and logged rather than propagated to the decision engine.
func (s *service) clamp(ctx context.Context, layer string, ls risk.LayerScore) risk.LayerScore {
	clamped := risk.ClampScore(ls.Score)
	if clamped != ls.Score {
		rangeViolations.Inc()
		s.logger.WarnContext(ctx, "layer score out of range, clamping",
			"layer", layer,
			"score", ls.Score)
		ls.Score = clamped
	}
	return ls
}

// mergeFactors ranks explanation strings by the originating layer's
// contribution weight: receiver first, then relationship, then amount,
// capped for display.
func (s *service) mergeFactors(layers ...risk.LayerScore) []string {
	merged := make([]string, 0, s.maxFactors)
	for _, ls := range layers {
		merged = append(merged, ls.Factors...)
	}
	if len(merged) > s.maxFactors {
		merged = merged[:s.maxFactors]
	}
	if len(merged) == 0 {
		merged = append(merged, "All checks passed - transaction looks safe")
	}
	return merged
}

func messageFor(action risk.Action) string {
	switch action {
	case risk.ActionAllow:
		return "Transaction looks safe. You may proceed."
	case risk.ActionWarn:
		return "Moderate risk detected. Please verify before proceeding."
	case risk.ActionOTP:
		return "Additional verification required for this transaction."
	default:
		return "Transaction blocked due to high risk signals."
	}
}

func recommendationsFor(action risk.Action, history risk.RelationshipHistory, amountScore int) []string {
	switch action {
	case risk.ActionBlock:
		return []string{
			"This transaction has been blocked for your safety.",
			"Contact support if you believe this is an error.",
		}
	case risk.ActionOTP:
		return []string{
			"Complete OTP verification to proceed with this transaction.",
			"Verify the receiver's identity before confirming payment.",
		}
	case risk.ActionWarn:
		recs := []string{"Double-check the receiver's payment address before proceeding."}
		if history.CompletedCount() == 0 && !history.KnownContact {
			recs = append(recs, "Consider making a small test payment first.")
		}
		if amountScore >= 50 {
			recs = append(recs, "This amount is higher than your usual - proceed carefully.")
		}
		return recs
	default:
		return []string{"Transaction appears safe based on your history."}
	}
}

func newTransactionID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "TXN-" + strings.ToUpper(hex[:12])
}

func (s *service) logState(ctx context.Context, txnID string, st state) {
	s.logger.DebugContext(ctx, "evaluation state",
		"transaction_id", txnID,
		"state", string(st))
}

package assessment

import (
	"context"

	"github.com/SriRamz25/payshield/internal/domain/risk"
)

// Service is the only entry point external callers use to assess a
// payment intent.
type Service interface {
	// Evaluate runs the full three-layer assessment. When persist is
	// true the resulting risk event is recorded for the audit trail;
	// otherwise the call is strictly read-only.
	Evaluate(ctx context.Context, intent risk.PaymentIntent, persist bool) (*Evaluation, error)
}

// ContextProvider fetches the read-only context snapshot for one
// evaluation. Implementations may cache; the core treats the snapshot
// as immutable for the lifetime of the call.
type ContextProvider interface {
	Fetch(ctx context.Context, senderID, receiverID string) (*risk.Snapshot, error)
}

// EventRecorder persists the audit trail of completed evaluations.
type EventRecorder interface {
	Record(ctx context.Context, event *RiskEvent) error
}

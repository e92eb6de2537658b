// Package risk holds the shared value objects of the risk orchestration
// engine: the payment intent under evaluation, the read-only context
// snapshot the scorers consume, and the verdict handed back to callers.
package risk

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SriRamz25/payshield/internal/domain/errors"
)

// PaymentIntent describes a single peer-to-peer payment instruction
// before money moves. It is constructed at the system boundary, handed
// to the orchestrator, and never persisted by the core.
type PaymentIntent struct {
	SenderID   string
	ReceiverID string
	Amount     decimal.Decimal
	Timestamp  time.Time
}

// NewPaymentIntent builds a validated intent. Receiver identifiers are
// case-insensitive payment addresses, so they are normalized here.
func NewPaymentIntent(senderID, receiverID string, amount decimal.Decimal, ts time.Time) (PaymentIntent, error) {
	senderID = strings.TrimSpace(senderID)
	receiverID = strings.ToLower(strings.TrimSpace(receiverID))

	if senderID == "" {
		return PaymentIntent{}, errors.NewValidationError("INVALID_INTENT", "sender id must not be empty")
	}
	if receiverID == "" {
		return PaymentIntent{}, errors.NewValidationError("INVALID_INTENT", "receiver id must not be empty")
	}
	if !amount.IsPositive() {
		return PaymentIntent{}, errors.NewValidationError("INVALID_INTENT", "amount must be positive")
	}
	if ts.IsZero() {
		return PaymentIntent{}, errors.NewValidationError("INVALID_INTENT", "timestamp must be set")
	}

	return PaymentIntent{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     amount,
		Timestamp:  ts,
	}, nil
}

// Validate re-checks the intent invariants for intents constructed
// outside NewPaymentIntent.
func (p PaymentIntent) Validate() error {
	_, err := NewPaymentIntent(p.SenderID, p.ReceiverID, p.Amount, p.Timestamp)
	return err
}

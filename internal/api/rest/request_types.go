package rest

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/SriRamz25/payshield/internal/domain/risk"
)

var validate = validator.New()

// EvaluateRequest is the body of POST /api/v1/risk/evaluations.
type EvaluateRequest struct {
	SenderID   string          `json:"sender_id" validate:"required,min=1,max=128"`
	ReceiverID string          `json:"receiver_id" validate:"required,min=1,max=128"`
	Amount     decimal.Decimal `json:"amount" validate:"required"`
	Timestamp  *time.Time      `json:"timestamp,omitempty"`
	Persist    bool            `json:"persist"`
}

// Validate performs structural validation on the request.
func (r *EvaluateRequest) Validate() error {
	return validate.Struct(r)
}

// ToIntent converts the request into a domain payment intent. A missing
// timestamp means "now".
func (r *EvaluateRequest) ToIntent() (risk.PaymentIntent, error) {
	ts := time.Now().UTC()
	if r.Timestamp != nil {
		ts = *r.Timestamp
	}
	return risk.NewPaymentIntent(r.SenderID, r.ReceiverID, r.Amount, ts)
}

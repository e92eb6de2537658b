package rest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SriRamz25/payshield/internal/domain/risk"
	"github.com/SriRamz25/payshield/internal/service/assessment"
)

// EvaluateResponse is the body returned for a successful evaluation.
type EvaluateResponse struct {
	TransactionID   string             `json:"transaction_id"`
	Timestamp       time.Time          `json:"timestamp"`
	RiskScore       int                `json:"risk_score"`
	RiskLevel       string             `json:"risk_level"`
	Action          string             `json:"action"`
	CanProceed      bool               `json:"can_proceed"`
	RequiresOTP     bool               `json:"requires_otp"`
	Components      ComponentsResponse `json:"components"`
	Factors         []string           `json:"factors"`
	Familiarity     string             `json:"receiver_familiarity"`
	ReceiverBucket  string             `json:"receiver_bucket"`
	Message         string             `json:"message"`
	Recommendations []string           `json:"recommendations"`
}

// ComponentsResponse exposes the three layer scores.
type ComponentsResponse struct {
	Relationship int `json:"relationship"`
	Amount       int `json:"amount"`
	Receiver     int `json:"receiver"`
}

func toEvaluateResponse(eval *assessment.Evaluation) EvaluateResponse {
	v := eval.Verdict
	return EvaluateResponse{
		TransactionID: eval.TransactionID,
		Timestamp:     eval.Timestamp,
		RiskScore:     v.FinalScore,
		RiskLevel:     string(v.RiskLevel),
		Action:        string(v.Action),
		CanProceed:    v.Action.CanProceed(),
		RequiresOTP:   v.Action == risk.ActionOTP,
		Components: ComponentsResponse{
			Relationship: v.Components.Relationship,
			Amount:       v.Components.Amount,
			Receiver:     v.Components.Receiver,
		},
		Factors:         v.Factors,
		Familiarity:     string(eval.Familiarity),
		ReceiverBucket:  string(eval.ReceiverBucket),
		Message:         eval.Message,
		Recommendations: eval.Recommendations,
	}
}

// RiskEventResponse is one audit entry in the sender's timeline.
type RiskEventResponse struct {
	TransactionID string             `json:"transaction_id"`
	SenderID      string             `json:"sender_id"`
	ReceiverID    string             `json:"receiver_id"`
	Amount        decimal.Decimal    `json:"amount"`
	RiskScore     int                `json:"risk_score"`
	RiskLevel     string             `json:"risk_level"`
	Action        string             `json:"action"`
	Components    ComponentsResponse `json:"components"`
	Factors       []string           `json:"factors"`
	CreatedAt     time.Time          `json:"created_at"`
}

// EventListResponse wraps the timeline payload.
type EventListResponse struct {
	Events []RiskEventResponse `json:"events"`
	Count  int                 `json:"count"`
}

func toEventListResponse(events []*assessment.RiskEvent) EventListResponse {
	out := EventListResponse{Events: make([]RiskEventResponse, 0, len(events))}
	for _, e := range events {
		out.Events = append(out.Events, RiskEventResponse{
			TransactionID: e.TransactionID,
			SenderID:      e.SenderID,
			ReceiverID:    e.ReceiverID,
			Amount:        e.Amount,
			RiskScore:     e.FinalScore,
			RiskLevel:     string(e.RiskLevel),
			Action:        string(e.Action),
			Components: ComponentsResponse{
				Relationship: e.Components.Relationship,
				Amount:       e.Components.Amount,
				Receiver:     e.Components.Receiver,
			},
			Factors:   e.Factors,
			CreatedAt: e.CreatedAt,
		})
	}
	out.Count = len(out.Events)
	return out
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable error payload.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

package assessment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SriRamz25/payshield/internal/domain/risk"
	"github.com/SriRamz25/payshield/internal/service/receiver"
)

// Evaluation is the full result of one orchestration call: the verdict
// plus the explanation payload assembled for callers.
type Evaluation struct {
	TransactionID   string            `json:"transaction_id"`
	Timestamp       time.Time         `json:"timestamp"`
	Verdict         risk.RiskVerdict  `json:"verdict"`
	Familiarity     risk.Familiarity  `json:"familiarity"`
	ReceiverBucket  receiver.Bucket   `json:"receiver_bucket"`
	Message         string            `json:"message"`
	Recommendations []string          `json:"recommendations"`
}

// RiskEvent is the audit record written for persisted evaluations.
type RiskEvent struct {
	TransactionID string
	SenderID      string
	ReceiverID    string
	Amount        decimal.Decimal
	FinalScore    int
	RiskLevel     risk.RiskLevel
	Action        risk.Action
	Components    risk.Components
	Factors       []string
	CreatedAt     time.Time
}

// state tracks per-request orchestration progress. It is not
// persistent; a fresh evaluation starts a fresh machine.
type state string

const (
	stateFetchingContext state = "FETCHING_CONTEXT"
	stateScoring         state = "SCORING"
	stateAggregating     state = "AGGREGATING"
	stateDone            state = "DONE"
	stateError           state = "ERROR"
)

package risk

import (
	"time"

	"github.com/shopspring/decimal"
)

// SenderStats captures the sender's own spending behavior. Supplied by
// the context provider; read-only to all scorers.
type SenderStats struct {
	AvgAmount7d      decimal.Decimal `json:"avg_amount_7d"`
	AvgAmount30d     decimal.Decimal `json:"avg_amount_30d"`
	MaxAmount7d      decimal.Decimal `json:"max_amount_7d"`
	MaxAmount30d     decimal.Decimal `json:"max_amount_30d"`
	TxnCount1h       int             `json:"txn_count_1h"`
	TxnCount24h      int             `json:"txn_count_24h"`
	NightTxnRatio    float64         `json:"night_txn_ratio"`
	DaysSinceLastTxn int             `json:"days_since_last_txn"` // -1 if never transacted
	LocationMismatch bool            `json:"location_mismatch"`
	FrequentHours    []int           `json:"frequent_hours"` // hour-of-day values, deduplicated
}

// HasFrequentHour reports whether the given hour-of-day is one the
// sender usually transacts in.
func (s SenderStats) HasFrequentHour(hour int) bool {
	for _, h := range s.FrequentHours {
		if h == hour {
			return true
		}
	}
	return false
}

// TransactionStatus is the terminal state of a past transaction.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionPending   TransactionStatus = "PENDING"
	TransactionFailed    TransactionStatus = "FAILED"
)

// PairTransaction is one past transaction restricted to a specific
// sender to receiver pair.
type PairTransaction struct {
	SenderID   string
	ReceiverID string
	Amount     decimal.Decimal
	Timestamp  time.Time
	Status     TransactionStatus
}

// RelationshipHistory is the ordered list of past transactions between
// one sender and one receiver, plus the sender's known-contacts
// allowlist membership for that receiver. Consumed exclusively by the
// relationship scorer.
type RelationshipHistory struct {
	Transactions []PairTransaction
	KnownContact bool
}

// CompletedCount returns the number of successfully completed
// transactions in the history.
func (h RelationshipHistory) CompletedCount() int {
	n := 0
	for _, t := range h.Transactions {
		if t.Status == TransactionCompleted {
			n++
		}
	}
	return n
}

// LastCompletedAt returns the timestamp of the most recent completed
// transaction, or the zero time when there is none.
func (h RelationshipHistory) LastCompletedAt() time.Time {
	var last time.Time
	for _, t := range h.Transactions {
		if t.Status == TransactionCompleted && t.Timestamp.After(last) {
			last = t.Timestamp
		}
	}
	return last
}

// ReceiverProfile summarizes receiver-side reputation. Consumed
// exclusively by the receiver scorer.
type ReceiverProfile struct {
	IsNew              bool `json:"is_new"`
	HasRiskyHistory    bool `json:"has_risky_history"`
	HasGoodHistory     bool `json:"has_good_history"`
	ExternalReputation *int `json:"external_reputation,omitempty"` // 0-100 when present
}

// Snapshot is the full read-only context fetched once per evaluation.
// The core never writes to it; any caching belongs to the provider.
type Snapshot struct {
	Sender       SenderStats
	Relationship RelationshipHistory
	Receiver     ReceiverProfile
}

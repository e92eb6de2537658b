package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SriRamz25/payshield/internal/domain/risk"
	"github.com/SriRamz25/payshield/internal/service/assessment"
)

// RiskEventRepository persists the audit trail of completed
// evaluations. It satisfies assessment.EventRecorder.
type RiskEventRepository struct {
	pool *pgxpool.Pool
}

func NewRiskEventRepository(pool *pgxpool.Pool) *RiskEventRepository {
	return &RiskEventRepository{pool: pool}
}

// Record inserts one risk event. Events are append-only; there is no
// update or delete path.
func (r *RiskEventRepository) Record(ctx context.Context, event *assessment.RiskEvent) error {
	query := `
		INSERT INTO risk_events (
			transaction_id, sender_id, receiver_id, amount,
			final_score, risk_level, action,
			relationship_score, amount_score, receiver_score,
			factors, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		event.TransactionID,
		event.SenderID,
		event.ReceiverID,
		event.Amount.String(),
		event.FinalScore,
		string(event.RiskLevel),
		string(event.Action),
		event.Components.Relationship,
		event.Components.Amount,
		event.Components.Receiver,
		event.Factors,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting risk event %s: %w", event.TransactionID, err)
	}
	return nil
}

// RecentBySender returns the sender's most recent events, newest
// first. Used by the events API for the sender's risk timeline.
func (r *RiskEventRepository) RecentBySender(ctx context.Context, senderID string, limit int) ([]*assessment.RiskEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT transaction_id, sender_id, receiver_id, amount::text,
			final_score, risk_level, action,
			relationship_score, amount_score, receiver_score,
			factors, created_at
		FROM risk_events
		WHERE sender_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, senderID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying risk events for %s: %w", senderID, err)
	}
	defer rows.Close()

	var events []*assessment.RiskEvent
	for rows.Next() {
		event, err := scanRiskEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanRiskEvent(rows pgx.Rows) (*assessment.RiskEvent, error) {
	var (
		event  assessment.RiskEvent
		amount string
		level  string
		action string
	)
	err := rows.Scan(
		&event.TransactionID, &event.SenderID, &event.ReceiverID, &amount,
		&event.FinalScore, &level, &action,
		&event.Components.Relationship, &event.Components.Amount, &event.Components.Receiver,
		&event.Factors, &event.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning risk event: %w", err)
	}
	if event.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parsing risk event amount: %w", err)
	}
	event.RiskLevel = risk.RiskLevel(level)
	event.Action = risk.Action(action)
	return &event, nil
}

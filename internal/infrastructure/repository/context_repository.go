package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SriRamz25/payshield/internal/domain/risk"
)

// frequentHourMinCount is the minimum number of completed transactions
// in an hour-of-day bucket before that hour counts as habitual.
const frequentHourMinCount = 3

// ContextRepository reads the evaluation context out of PostgreSQL.
// It satisfies assessment.ContextProvider directly; wrap it with
// cache.NewCachedContextProvider to avoid repeated aggregate scans.
type ContextRepository struct {
	pool       *pgxpool.Pool
	historyWin time.Duration
}

// NewContextRepository creates a context repository. historyWindowDays
// bounds how far back relationship history is read.
func NewContextRepository(pool *pgxpool.Pool, historyWindowDays int) *ContextRepository {
	if historyWindowDays <= 0 {
		historyWindowDays = 180
	}
	return &ContextRepository{
		pool:       pool,
		historyWin: time.Duration(historyWindowDays) * 24 * time.Hour,
	}
}

// Fetch assembles the full snapshot for one evaluation.
func (r *ContextRepository) Fetch(ctx context.Context, senderID, receiverID string) (*risk.Snapshot, error) {
	stats, err := r.SenderStats(ctx, senderID)
	if err != nil {
		return nil, err
	}
	history, err := r.RelationshipHistory(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	profile, err := r.ReceiverProfile(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	return &risk.Snapshot{
		Sender:       stats,
		Relationship: history,
		Receiver:     profile,
	}, nil
}

// SenderStats computes the sender's spending aggregates. Averages and
// maxima cover completed transactions only; velocity counts cover every
// attempt so failed bursts still register.
func (r *ContextRepository) SenderStats(ctx context.Context, senderID string) (risk.SenderStats, error) {
	var stats risk.SenderStats

	query := `
		SELECT
			COALESCE(AVG(amount) FILTER (WHERE status = 'COMPLETED' AND created_at > NOW() - INTERVAL '7 days'), 0)::text,
			COALESCE(AVG(amount) FILTER (WHERE status = 'COMPLETED' AND created_at > NOW() - INTERVAL '30 days'), 0)::text,
			COALESCE(MAX(amount) FILTER (WHERE status = 'COMPLETED' AND created_at > NOW() - INTERVAL '7 days'), 0)::text,
			COALESCE(MAX(amount) FILTER (WHERE status = 'COMPLETED' AND created_at > NOW() - INTERVAL '30 days'), 0)::text,
			COUNT(*) FILTER (WHERE created_at > NOW() - INTERVAL '1 hour'),
			COUNT(*) FILTER (WHERE created_at > NOW() - INTERVAL '24 hours'),
			COALESCE(AVG(CASE WHEN EXTRACT(HOUR FROM created_at) >= 22 OR EXTRACT(HOUR FROM created_at) <= 5 THEN 1.0 ELSE 0.0 END)
				FILTER (WHERE created_at > NOW() - INTERVAL '30 days'), 0),
			COALESCE(EXTRACT(DAY FROM NOW() - MAX(created_at) FILTER (WHERE status = 'COMPLETED'))::int, -1)
		FROM transactions
		WHERE sender_id = $1`

	var avg7, avg30, max7, max30 string
	err := r.pool.QueryRow(ctx, query, senderID).Scan(
		&avg7, &avg30, &max7, &max30,
		&stats.TxnCount1h, &stats.TxnCount24h,
		&stats.NightTxnRatio, &stats.DaysSinceLastTxn,
	)
	if err != nil {
		return stats, fmt.Errorf("querying sender stats for %s: %w", senderID, err)
	}

	if stats.AvgAmount7d, err = decimal.NewFromString(avg7); err != nil {
		return stats, fmt.Errorf("parsing avg_amount_7d: %w", err)
	}
	if stats.AvgAmount30d, err = decimal.NewFromString(avg30); err != nil {
		return stats, fmt.Errorf("parsing avg_amount_30d: %w", err)
	}
	if stats.MaxAmount7d, err = decimal.NewFromString(max7); err != nil {
		return stats, fmt.Errorf("parsing max_amount_7d: %w", err)
	}
	if stats.MaxAmount30d, err = decimal.NewFromString(max30); err != nil {
		return stats, fmt.Errorf("parsing max_amount_30d: %w", err)
	}

	if stats.FrequentHours, err = r.frequentHours(ctx, senderID); err != nil {
		return stats, err
	}
	if stats.LocationMismatch, err = r.locationMismatch(ctx, senderID); err != nil {
		return stats, err
	}
	return stats, nil
}

func (r *ContextRepository) frequentHours(ctx context.Context, senderID string) ([]int, error) {
	query := `
		SELECT EXTRACT(HOUR FROM created_at)::int AS hour
		FROM transactions
		WHERE sender_id = $1
		  AND status = 'COMPLETED'
		  AND created_at > NOW() - INTERVAL '30 days'
		GROUP BY hour
		HAVING COUNT(*) >= $2
		ORDER BY hour`

	rows, err := r.pool.Query(ctx, query, senderID, frequentHourMinCount)
	if err != nil {
		return nil, fmt.Errorf("querying frequent hours for %s: %w", senderID, err)
	}
	defer rows.Close()

	var hours []int
	for rows.Next() {
		var h int
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scanning frequent hour: %w", err)
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

func (r *ContextRepository) locationMismatch(ctx context.Context, senderID string) (bool, error) {
	query := `
		SELECT home_region IS DISTINCT FROM last_seen_region
		FROM sender_profiles
		WHERE sender_id = $1`

	var mismatch bool
	err := r.pool.QueryRow(ctx, query, senderID).Scan(&mismatch)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying sender profile for %s: %w", senderID, err)
	}
	return mismatch, nil
}

// RelationshipHistory loads the pair's past transactions inside the
// history window plus the allowlist membership. Always read fresh;
// a stale history would misprice the very next payment to the pair.
func (r *ContextRepository) RelationshipHistory(ctx context.Context, senderID, receiverID string) (risk.RelationshipHistory, error) {
	var history risk.RelationshipHistory

	query := `
		SELECT sender_id, receiver_id, amount::text, created_at, status
		FROM transactions
		WHERE sender_id = $1 AND receiver_id = $2 AND created_at > NOW() - $3::interval
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, senderID, receiverID, r.historyWin)
	if err != nil {
		return history, fmt.Errorf("querying pair history %s->%s: %w", senderID, receiverID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			txn    risk.PairTransaction
			amount string
			status string
		)
		if err := rows.Scan(&txn.SenderID, &txn.ReceiverID, &amount, &txn.Timestamp, &status); err != nil {
			return history, fmt.Errorf("scanning pair transaction: %w", err)
		}
		if txn.Amount, err = decimal.NewFromString(amount); err != nil {
			return history, fmt.Errorf("parsing pair transaction amount: %w", err)
		}
		txn.Status = risk.TransactionStatus(status)
		history.Transactions = append(history.Transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return history, fmt.Errorf("iterating pair history: %w", err)
	}

	contactQuery := `
		SELECT EXISTS (
			SELECT 1 FROM known_contacts
			WHERE sender_id = $1 AND receiver_id = $2
		)`
	if err := r.pool.QueryRow(ctx, contactQuery, senderID, receiverID).Scan(&history.KnownContact); err != nil {
		return history, fmt.Errorf("querying known contact %s->%s: %w", senderID, receiverID, err)
	}
	return history, nil
}

// ReceiverProfile loads the receiver's reputation row. An unknown
// receiver is treated as new with no history either way.
func (r *ContextRepository) ReceiverProfile(ctx context.Context, receiverID string) (risk.ReceiverProfile, error) {
	var profile risk.ReceiverProfile

	query := `
		SELECT
			first_seen_at > NOW() - INTERVAL '30 days',
			has_risky_history,
			has_good_history,
			external_reputation
		FROM receiver_profiles
		WHERE receiver_id = $1`

	err := r.pool.QueryRow(ctx, query, receiverID).Scan(
		&profile.IsNew,
		&profile.HasRiskyHistory,
		&profile.HasGoodHistory,
		&profile.ExternalReputation,
	)
	if err == pgx.ErrNoRows {
		return risk.ReceiverProfile{IsNew: true}, nil
	}
	if err != nil {
		return profile, fmt.Errorf("querying receiver profile for %s: %w", receiverID, err)
	}
	return profile, nil
}

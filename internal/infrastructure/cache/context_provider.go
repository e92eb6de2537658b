package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/SriRamz25/payshield/internal/domain/risk"
)

// ContextSource is the uncached read side the provider wraps. The
// Postgres ContextRepository satisfies it.
type ContextSource interface {
	SenderStats(ctx context.Context, senderID string) (risk.SenderStats, error)
	RelationshipHistory(ctx context.Context, senderID, receiverID string) (risk.RelationshipHistory, error)
	ReceiverProfile(ctx context.Context, receiverID string) (risk.ReceiverProfile, error)
}

// CachedContextProvider assembles evaluation snapshots, serving sender
// stats and receiver profiles from Redis when fresh enough. The pair
// history is never cached: serving a stale history would misprice the
// next payment between the same pair.
type CachedContextProvider struct {
	source      ContextSource
	cache       Cache
	senderTTL   time.Duration
	receiverTTL time.Duration
	logger      *zap.Logger
}

func NewCachedContextProvider(source ContextSource, cache Cache, senderTTL, receiverTTL time.Duration, logger *zap.Logger) *CachedContextProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if senderTTL <= 0 {
		senderTTL = 10 * time.Minute
	}
	if receiverTTL <= 0 {
		receiverTTL = time.Hour
	}
	return &CachedContextProvider{
		source:      source,
		cache:       cache,
		senderTTL:   senderTTL,
		receiverTTL: receiverTTL,
		logger:      logger,
	}
}

// Fetch builds the snapshot for one evaluation. Cache failures fall
// through to the source; the evaluation must not die on a Redis blip.
func (p *CachedContextProvider) Fetch(ctx context.Context, senderID, receiverID string) (*risk.Snapshot, error) {
	stats, err := p.senderStats(ctx, senderID)
	if err != nil {
		return nil, err
	}
	history, err := p.source.RelationshipHistory(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	profile, err := p.receiverProfile(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	return &risk.Snapshot{
		Sender:       stats,
		Relationship: history,
		Receiver:     profile,
	}, nil
}

func (p *CachedContextProvider) senderStats(ctx context.Context, senderID string) (risk.SenderStats, error) {
	key := "payshield:sender_stats:" + senderID

	var cached risk.SenderStats
	if err := p.cache.GetJSON(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !IsMiss(err) {
		p.logger.Warn("sender stats cache read failed", zap.String("sender_id", senderID), zap.Error(err))
	}

	stats, err := p.source.SenderStats(ctx, senderID)
	if err != nil {
		return stats, err
	}
	if err := p.cache.SetJSON(ctx, key, stats, p.senderTTL); err != nil {
		p.logger.Warn("sender stats cache write failed", zap.String("sender_id", senderID), zap.Error(err))
	}
	return stats, nil
}

func (p *CachedContextProvider) receiverProfile(ctx context.Context, receiverID string) (risk.ReceiverProfile, error) {
	key := "payshield:receiver_profile:" + receiverID

	var cached risk.ReceiverProfile
	if err := p.cache.GetJSON(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !IsMiss(err) {
		p.logger.Warn("receiver profile cache read failed", zap.String("receiver_id", receiverID), zap.Error(err))
	}

	profile, err := p.source.ReceiverProfile(ctx, receiverID)
	if err != nil {
		return profile, err
	}
	if err := p.cache.SetJSON(ctx, key, profile, p.receiverTTL); err != nil {
		p.logger.Warn("receiver profile cache write failed", zap.String("receiver_id", receiverID), zap.Error(err))
	}
	return profile, nil
}

// InvalidateSender drops the sender's cached stats, used after a new
// transaction completes so the next evaluation sees it.
func (p *CachedContextProvider) InvalidateSender(ctx context.Context, senderID string) error {
	return p.cache.Delete(ctx, "payshield:sender_stats:"+senderID)
}

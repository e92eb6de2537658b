package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SriRamz25/payshield/internal/domain/risk"
)

type countingSource struct {
	statsCalls   int
	historyCalls int
	profileCalls int
}

func (c *countingSource) SenderStats(ctx context.Context, senderID string) (risk.SenderStats, error) {
	c.statsCalls++
	return risk.SenderStats{
		AvgAmount30d:     decimal.NewFromInt(250),
		DaysSinceLastTxn: 3,
	}, nil
}

func (c *countingSource) RelationshipHistory(ctx context.Context, senderID, receiverID string) (risk.RelationshipHistory, error) {
	c.historyCalls++
	return risk.RelationshipHistory{KnownContact: true}, nil
}

func (c *countingSource) ReceiverProfile(ctx context.Context, receiverID string) (risk.ReceiverProfile, error) {
	c.profileCalls++
	return risk.ReceiverProfile{HasGoodHistory: true}, nil
}

func newTestCache(t *testing.T) Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCacheFromClient(client, nil)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCachedContextProvider_CachesStatsAndProfile(t *testing.T) {
	source := &countingSource{}
	provider := NewCachedContextProvider(source, newTestCache(t), time.Minute, time.Minute, nil)
	ctx := context.Background()

	first, err := provider.Fetch(ctx, "user-1", "shop@upi")
	require.NoError(t, err)
	second, err := provider.Fetch(ctx, "user-1", "shop@upi")
	require.NoError(t, err)

	assert.Equal(t, 1, source.statsCalls, "sender stats served from cache on the second fetch")
	assert.Equal(t, 1, source.profileCalls, "receiver profile served from cache on the second fetch")
	assert.Equal(t, 2, source.historyCalls, "pair history is never cached")

	assert.True(t, first.Sender.AvgAmount30d.Equal(second.Sender.AvgAmount30d))
	assert.Equal(t, first.Receiver, second.Receiver)
	assert.True(t, second.Relationship.KnownContact)
}

func TestCachedContextProvider_KeysAreScoped(t *testing.T) {
	source := &countingSource{}
	provider := NewCachedContextProvider(source, newTestCache(t), time.Minute, time.Minute, nil)
	ctx := context.Background()

	_, err := provider.Fetch(ctx, "user-1", "shop@upi")
	require.NoError(t, err)
	_, err = provider.Fetch(ctx, "user-2", "other@upi")
	require.NoError(t, err)

	assert.Equal(t, 2, source.statsCalls)
	assert.Equal(t, 2, source.profileCalls)
}

func TestCachedContextProvider_InvalidateSender(t *testing.T) {
	source := &countingSource{}
	provider := NewCachedContextProvider(source, newTestCache(t), time.Minute, time.Minute, nil)
	ctx := context.Background()

	_, err := provider.Fetch(ctx, "user-1", "shop@upi")
	require.NoError(t, err)
	require.NoError(t, provider.InvalidateSender(ctx, "user-1"))
	_, err = provider.Fetch(ctx, "user-1", "shop@upi")
	require.NoError(t, err)

	assert.Equal(t, 2, source.statsCalls, "invalidation forces a fresh read")
	assert.Equal(t, 1, source.profileCalls)
}

func TestRedisCache_MissIsTyped(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Get(context.Background(), "payshield:absent")

	require.Error(t, err)
	assert.True(t, IsMiss(err))
}

func TestRedisCache_JSONRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	in := risk.ReceiverProfile{IsNew: true, HasRiskyHistory: true}
	require.NoError(t, c.SetJSON(ctx, "payshield:test", in, time.Minute))

	var out risk.ReceiverProfile
	require.NoError(t, c.GetJSON(ctx, "payshield:test", &out))
	assert.Equal(t, in, out)
}

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/parkhub/parkhub-backend/internal/pricing"
)

const (
	activeTiersKey = "pricing:active_tiers"
	activeTiersTTL = 5 * time.Minute
)

// TierCache keeps the active pricing tiers in Redis so quote requests
// do not hit Postgres on every call. A nil client disables caching.
type TierCache struct {
	client *redis.Client
}

func NewTierCache(client *redis.Client) *TierCache {
	return &TierCache{client: client}
}

// GetActiveTiers returns the cached tier list, or (nil, false) on a
// miss, a disabled cache, or any Redis error. Cache failures are never
// fatal to pricing.
func (c *TierCache) GetActiveTiers(ctx context.Context) ([]pricing.Tier, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, activeTiersKey).Bytes()
	if err != nil {
		return nil, false
	}
	var tiers []pricing.Tier
	if err := json.Unmarshal(raw, &tiers); err != nil {
		return nil, false
	}
	return tiers, true
}

func (c *TierCache) SetActiveTiers(ctx context.Context, tiers []pricing.Tier) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(tiers)
	if err != nil {
		return
	}
	c.client.Set(ctx, activeTiersKey, raw, activeTiersTTL)
}

// Invalidate drops the cached tier list. Called after any tier mutation.
func (c *TierCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, activeTiersKey)
}

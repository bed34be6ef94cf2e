package rates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/esuka/transfer-backend/internal/models"
	"github.com/esuka/transfer-backend/internal/observability"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const redisKeyPrefix = "rate"

// Source resolves a directed exchange rate, or models.ErrRateNotFound.
type Source interface {
	FindRate(ctx context.Context, source, target string) (decimal.Decimal, error)
}

// Invalidator removes cached rates after administrative updates.
type Invalidator interface {
	Invalidate(ctx context.Context, source, target string)
}

// CachedSource is a redis read-through cache over the rate table. Rates are
// read-mostly reference data; cache misses and redis outages both fall back
// to the underlying source. Absence of a rate row is never cached, so a
// freshly configured pair is visible immediately.
type CachedSource struct {
	source Source
	redis  redis.Cmdable
	ttl    time.Duration
}

func NewCachedSource(source Source, rdb redis.Cmdable, ttl time.Duration) *CachedSource {
	return &CachedSource{source: source, redis: rdb, ttl: ttl}
}

func (c *CachedSource) FindRate(ctx context.Context, source, target string) (decimal.Decimal, error) {
	if c.redis != nil {
		val, err := c.redis.Get(ctx, rateKey(source, target)).Result()
		if err == nil {
			rate, parseErr := decimal.NewFromString(val)
			if parseErr == nil {
				observability.IncrementRateCache("hit")
				return rate, nil
			}
			zap.L().Warn("corrupt cached rate", zap.String("value", val), zap.Error(parseErr))
		} else if err != redis.Nil {
			zap.L().Warn("redis rate lookup failed", zap.Error(err))
		}
	}

	rate, err := c.source.FindRate(ctx, source, target)
	if err != nil {
		if errors.Is(err, models.ErrRateNotFound) {
			observability.IncrementRateCache("not_found")
		}
		return decimal.Zero, err
	}

	observability.IncrementRateCache("miss")
	if c.redis != nil {
		if err := c.redis.Set(ctx, rateKey(source, target), rate.String(), c.ttl).Err(); err != nil {
			zap.L().Warn("redis rate cache write failed", zap.Error(err))
		}
	}
	return rate, nil
}

// Invalidate drops the cached entry for a pair. Called after admin updates so
// last-writer-wins is visible without waiting out the TTL.
func (c *CachedSource) Invalidate(ctx context.Context, source, target string) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, rateKey(source, target)).Err(); err != nil {
		zap.L().Warn("redis rate invalidation failed", zap.Error(err))
	}
}

func rateKey(source, target string) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, source, target)
}

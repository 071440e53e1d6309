package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	"github.com/go-redis/redis/v8"
)

// rateCache is a layered cache (in-memory, then Redis) in front of USD rate
// lookups. Historical rates are immutable, so a short TTL only bounds staleness
// for freshly recorded rows. The Redis client may be nil; the cache then runs
// memory-only.
type rateCache struct {
	redis *redis.Client
	ttl   time.Duration

	mu   sync.RWMutex
	data map[string]rateCacheEntry
}

type rateCacheEntry struct {
	rate     domain.ExchangeRate
	cachedAt time.Time
}

func newRateCache(redisClient *redis.Client, ttl time.Duration) *rateCache {
	return &rateCache{
		redis: redisClient,
		ttl:   ttl,
		data:  make(map[string]rateCacheEntry),
	}
}

func (rc *rateCache) key(currencyCode string, date time.Time) string {
	return "usdrate:" + currencyCode + ":" + date.UTC().Format("2006-01-02")
}

// Get returns the cached USD->currency rate for a request date, or nil on miss.
func (rc *rateCache) Get(ctx context.Context, currencyCode string, date time.Time) *domain.ExchangeRate {
	key := rc.key(currencyCode, date)

	rc.mu.RLock()
	entry, ok := rc.data[key]
	rc.mu.RUnlock()
	if ok && time.Since(entry.cachedAt) <= rc.ttl {
		rate := entry.rate
		return &rate
	}

	if rc.redis == nil {
		return nil
	}

	payload, err := rc.redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Default().Warn("rate cache redis get failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return nil
	}

	var rate domain.ExchangeRate
	if err := json.Unmarshal([]byte(payload), &rate); err != nil {
		return nil
	}

	rc.mu.Lock()
	rc.data[key] = rateCacheEntry{rate: rate, cachedAt: time.Now()}
	rc.mu.Unlock()
	return &rate
}

// Set stores a resolved USD rate in both layers. Cache write failures are not
// errors; the next lookup just misses.
func (rc *rateCache) Set(ctx context.Context, currencyCode string, date time.Time, rate domain.ExchangeRate) {
	key := rc.key(currencyCode, date)

	rc.mu.Lock()
	rc.data[key] = rateCacheEntry{rate: rate, cachedAt: time.Now()}
	rc.mu.Unlock()

	if rc.redis == nil {
		return
	}
	payload, err := json.Marshal(rate)
	if err != nil {
		return
	}
	if err := rc.redis.Set(ctx, key, payload, rc.ttl).Err(); err != nil {
		slog.Default().Warn("rate cache redis set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// InvalidateCurrency drops every memory entry for a currency. Called when a new
// rate is recorded, since the new row may supersede cached resolutions for any
// later request date.
func (rc *rateCache) InvalidateCurrency(ctx context.Context, currencyCode string) {
	prefix := "usdrate:" + currencyCode + ":"

	rc.mu.Lock()
	for key := range rc.data {
		if strings.HasPrefix(key, prefix) {
			delete(rc.data, key)
		}
	}
	rc.mu.Unlock()

	if rc.redis == nil {
		return
	}
	iter := rc.redis.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := rc.redis.Del(ctx, iter.Val()).Err(); err != nil {
			slog.Default().Warn("rate cache redis delete failed", slog.String("key", iter.Val()), slog.String("error", err.Error()))
		}
	}
}

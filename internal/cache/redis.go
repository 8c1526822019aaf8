package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"condo-backend/internal/metrics"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	LookupKeyFmt      = "lookup:%s"
	ReceivablesKeyFmt = "receivables:%s"
	LookupTTL         = 5 * time.Minute
	LockTTL           = 30 * time.Second
)

var ErrUnavailable = errors.New("cache: redis unavailable")

var client *redis.Client

// Init connects to redis. On failure the client stays nil and every helper
// in this package degrades to a no-op.
func Init(addr, password string, db int) error {
	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// SetClient replaces the package client; used by tests.
func SetClient(c *redis.Client) {
	client = c
}

func GetClient() *redis.Client {
	return client
}

func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}

func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("hit").Inc()
	return data, true
}

func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidatePattern deletes every key matching pattern.
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func LookupKey(nationalID string) string {
	return fmt.Sprintf(LookupKeyFmt, nationalID)
}

func ReceivablesKey(condominiumID uuid.UUID) string {
	return fmt.Sprintf(ReceivablesKeyFmt, condominiumID)
}

// LedgerInvalidator drops views derived from ledger balances.
type LedgerInvalidator struct{}

func (LedgerInvalidator) InvalidateLedger(ctx context.Context, condominiumID uuid.UUID) {
	InvalidateKeys(ctx, ReceivablesKey(condominiumID))
	// Lookups are keyed by national id, which is not known here.
	InvalidatePattern(ctx, "lookup:*")
}

// Locker hands out redislock locks against the package client.
type Locker struct {
	TTL time.Duration
}

func (l Locker) Obtain(ctx context.Context, key string) (func(), error) {
	if client == nil {
		return nil, ErrUnavailable
	}
	ttl := l.TTL
	if ttl == 0 {
		ttl = LockTTL
	}
	lock, err := redislock.New(client).Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	})
	if err != nil {
		return nil, err
	}
	return func() {
		lock.Release(context.Background())
	}, nil
}

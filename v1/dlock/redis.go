package dlock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	werrors "github.com/mirkobrombin/go-warp-sync/v1/errors"
	"github.com/mirkobrombin/go-warp-sync/v1/metrics"
)

var tracer = otel.Tracer("github.com/mirkobrombin/go-warp-sync/v1/dlock")

var delScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
else
    return 0
end
`)

// unlockChannel is the pub/sub channel carrying release notifications for key.
func unlockChannel(key string) string { return "warpsync:unlock:" + key }

// retryInterval bounds how long a blocked Acquire waits before re-checking
// the key. The poll covers TTL expiry, which produces no unlock notification.
const retryInterval = 50 * time.Millisecond

// Redis implements Locker on a Redis backend. Each acquisition stores a
// fencing token under the key with SETNX; Release deletes the key only when
// the token still matches. Blocked acquirers wait on a pub/sub channel and
// poll as a fallback.
type Redis struct {
	client *redis.Client

	mu     sync.Mutex
	tokens map[string]string

	traceEnabled bool
}

// RedisOption configures a Redis locker.
type RedisOption func(*Redis)

// WithTracing enables OpenTelemetry spans around Acquire and Release.
func WithTracing() RedisOption {
	return func(r *Redis) { r.traceEnabled = true }
}

// NewRedis returns a new Redis locker using the provided client.
func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{client: client, tokens: make(map[string]string)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TryLock implements Locker.TryLock.
func (r *Redis) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, err
	}
	if !ok {
		metrics.ContentionCounter.Inc()
		return false, nil
	}
	r.mu.Lock()
	r.tokens[key] = token
	r.mu.Unlock()
	metrics.AcquireCounter.Inc()
	metrics.HeldGauge.Inc()
	return true, nil
}

// Acquire implements Locker.Acquire.
func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) error {
	if r.traceEnabled {
		var span trace.Span
		ctx, span = tracer.Start(ctx, "Dlock.Acquire")
		span.SetAttributes(attribute.String("warpsync.dlock.key", key))
		defer span.End()
	}
	sub := r.client.Subscribe(ctx, unlockChannel(key))
	defer func() { _ = sub.Close() }()
	notify := sub.Channel()
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()
	for {
		ok, err := r.TryLock(ctx, key, ttl)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-notify:
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Release implements Locker.Release. The compare-and-delete script is a
// no-op when the key expired and was re-acquired by another holder; the
// local token is discarded either way.
func (r *Redis) Release(ctx context.Context, key string) error {
	if r.traceEnabled {
		var span trace.Span
		ctx, span = tracer.Start(ctx, "Dlock.Release")
		span.SetAttributes(attribute.String("warpsync.dlock.key", key))
		defer span.End()
	}
	r.mu.Lock()
	token, ok := r.tokens[key]
	r.mu.Unlock()
	if !ok {
		return werrors.ErrNotHeld
	}
	_, err := delScript.Run(ctx, r.client, []string{key}, token).Result()
	if err == redis.Nil {
		err = nil
	}
	if err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.tokens, key)
	r.mu.Unlock()
	metrics.ReleaseCounter.Inc()
	metrics.HeldGauge.Dec()
	_ = r.client.Publish(ctx, unlockChannel(key), "1").Err()
	return nil
}

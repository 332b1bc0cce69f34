package processed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	maintnotifications "github.com/redis/go-redis/v9/maintnotifications"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
	"github.com/mohammed-shakir/geosearch/internal/core/observability"
	"github.com/mohammed-shakir/geosearch/internal/keys"
)

type Option func(*redis.Options)

func WithPoolSize(n int) Option {
	return func(o *redis.Options) { o.PoolSize = n }
}

func WithDialTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.DialTimeout = d }
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.ReadTimeout = d }
}

// RedisFactory keeps each session's set under its own key so several
// service instances can serve the same session.
type RedisFactory struct {
	rdb       *redis.Client
	ttl       time.Duration
	opTimeout time.Duration
}

var _ Factory = (*RedisFactory)(nil)

func NewRedisFactory(ctx context.Context, addr string, ttl, opTimeout time.Duration, opts ...Option) (*RedisFactory, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}

	ro := &redis.Options{
		Addr:         addr,
		PoolSize:     32,
		MinIdleConns: 2,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	}
	for _, f := range opts {
		f(ro)
	}

	rdb := redis.NewClient(ro)

	start := time.Now()
	err := rdb.Ping(ctx).Err()
	observability.ObserveStoreOp("ping", err, time.Since(start).Seconds())
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisFactory{rdb: rdb, ttl: ttl, opTimeout: opTimeout}, nil
}

func (f *RedisFactory) NewSet(sessionID string) Set {
	return &Redis{rdb: f.rdb, key: keys.ProcessedSet(sessionID), ttl: f.ttl, opTimeout: f.opTimeout}
}

// Ping reports whether redis answers; used by readiness checks.
func (f *RedisFactory) Ping(ctx context.Context) error {
	if err := f.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (f *RedisFactory) Close() error {
	if err := f.rdb.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// Redis is a session set stored as a redis SET. Every write refreshes the
// key's TTL so abandoned sessions expire.
type Redis struct {
	rdb       *redis.Client
	key       string
	ttl       time.Duration
	opTimeout time.Duration
}

var _ Set = (*Redis)(nil)

func (r *Redis) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.opTimeout)
}

func members(ids model.EntityIDs) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = strconv.FormatInt(int64(id), 10)
	}
	return out
}

func (r *Redis) Unseen(ctx context.Context, ids model.EntityIDs) (model.EntityIDs, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	flags, err := r.rdb.SMIsMember(ctx, r.key, members(ids)...).Result()
	observability.ObserveStoreOp("unseen", err, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("redis SMISMEMBER %q: %w", r.key, err)
	}

	var out model.EntityIDs
	for i, in := range flags {
		if !in {
			out = append(out, ids[i])
		}
	}
	return out, nil
}

func (r *Redis) Add(ctx context.Context, ids model.EntityIDs) error {
	if len(ids) == 0 {
		return nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SAdd(ctx, r.key, members(ids)...)
		if r.ttl > 0 {
			p.Expire(ctx, r.key, r.ttl)
		}
		return nil
	})
	observability.ObserveStoreOp("add", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis SADD %q (%d ids): %w", r.key, len(ids), err)
	}
	return nil
}

func (r *Redis) Len(ctx context.Context) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	n, err := r.rdb.SCard(ctx, r.key).Result()
	observability.ObserveStoreOp("len", err, time.Since(start).Seconds())
	if err != nil {
		return 0, fmt.Errorf("redis SCARD %q: %w", r.key, err)
	}
	return int(n), nil
}

func (r *Redis) Close(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	err := r.rdb.Del(ctx, r.key).Err()
	observability.ObserveStoreOp("del", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis DEL %q: %w", r.key, err)
	}
	return nil
}

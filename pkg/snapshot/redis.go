package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces snapshot keys.
const DefaultRedisPrefix = "skinsuite:"

// RedisConfig configures [NewRedisStore].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to the "selection" and "clipboard" keys.
	// Empty means [DefaultRedisPrefix].
	Prefix string
}

// RedisStore keeps snapshots under two Redis keys without expiry.
type RedisStore struct {
	codec
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return NewRedisStoreWithClient(client, cfg.Prefix), nil
}

// NewRedisStoreWithClient wraps an existing client. The store owns the client
// and closes it on Close.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{
		codec:  codec{&redisBlobs{client: client, prefix: prefix}},
		client: client,
	}
}

type redisBlobs struct {
	client *redis.Client
	prefix string
}

func (r *redisBlobs) key(kind Kind) string { return r.prefix + string(kind) }

func (r *redisBlobs) get(ctx context.Context, kind Kind) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, os.ErrNotExist
	}
	return data, err
}

func (r *redisBlobs) put(ctx context.Context, kind Kind, data []byte) error {
	return r.client.Set(ctx, r.key(kind), data, 0).Err()
}

func (r *redisBlobs) Location(kind Kind) string {
	return fmt.Sprintf("redis://%s/%s", r.client.Options().Addr, r.key(kind))
}

func (r *redisBlobs) Close() error { return r.client.Close() }

var _ Store = (*RedisStore)(nil)

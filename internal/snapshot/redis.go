package snapshot

import (
    "context"
    "errors"

    redis "github.com/redis/go-redis/v9"
)

// Redis persists snapshots in Redis so a restarted dashboard can
// repaint the last known route before any fresh event arrives.
type Redis struct {
    rdb *redis.Client
}

func NewRedis(url string) (*Redis, error) {
    opt, err := redis.ParseURL(url)
    if err != nil { return nil, err }
    return &Redis{rdb: redis.NewClient(opt)}, nil
}

func (s *Redis) Get(ctx context.Context, key string) ([]byte, error) {
    v, err := s.rdb.Get(ctx, key).Bytes()
    if errors.Is(err, redis.Nil) { return nil, ErrNotFound }
    if err != nil { return nil, err }
    return v, nil
}

func (s *Redis) Set(ctx context.Context, key string, val []byte) error {
    return s.rdb.Set(ctx, key, val, 0).Err()
}

func (s *Redis) Del(ctx context.Context, keys ...string) error {
    if len(keys) == 0 { return nil }
    return s.rdb.Del(ctx, keys...).Err()
}

// Ping checks connectivity for the readiness probe.
func (s *Redis) Ping(ctx context.Context) error {
    return s.rdb.Ping(ctx).Err()
}

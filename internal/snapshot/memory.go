package snapshot

import (
    "context"
    "sync"
)

// Memory is a simple in-memory store used when no REDIS_URL is set.
// Snapshots then live only as long as the process.
type Memory struct {
    mu sync.Mutex
    m  map[string][]byte
}

func NewMemory() *Memory {
    return &Memory{m: map[string][]byte{}}
}

func (s *Memory) Get(ctx context.Context, key string) ([]byte, error) {
    s.mu.Lock(); defer s.mu.Unlock()
    v, ok := s.m[key]
    if !ok { return nil, ErrNotFound }
    out := make([]byte, len(v))
    copy(out, v)
    return out, nil
}

func (s *Memory) Set(ctx context.Context, key string, val []byte) error {
    s.mu.Lock(); defer s.mu.Unlock()
    cp := make([]byte, len(val))
    copy(cp, val)
    s.m[key] = cp
    return nil
}

func (s *Memory) Del(ctx context.Context, keys ...string) error {
    s.mu.Lock(); defer s.mu.Unlock()
    for _, k := range keys { delete(s.m, k) }
    return nil
}

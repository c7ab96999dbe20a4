// Package archive keeps a history of completed trips. The rolling
// dashboard table forgets completed rows on restart; the archive is the
// durable record behind the /v1/triplog listing.
package archive

import (
    "context"
    "sync"

    "emsdash/internal/model"
)

// Archive stores completed trips.
type Archive interface {
    InsertTrip(ctx context.Context, t model.TripLogEntry) error
    ListRecent(ctx context.Context, limit int) ([]model.TripLogEntry, error)
}

// Memory is the archive used when no DATABASE_URL is set.
type Memory struct {
    mu    sync.Mutex
    trips []model.TripLogEntry
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) InsertTrip(ctx context.Context, t model.TripLogEntry) error {
    m.mu.Lock(); defer m.mu.Unlock()
    m.trips = append(m.trips, t)
    return nil
}

func (m *Memory) ListRecent(ctx context.Context, limit int) ([]model.TripLogEntry, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    if limit <= 0 { limit = 50 }
    n := len(m.trips)
    out := []model.TripLogEntry{}
    for i := n - 1; i >= 0 && len(out) < limit; i-- {
        out = append(out, m.trips[i])
    }
    return out, nil
}

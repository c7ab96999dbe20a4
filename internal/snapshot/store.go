// Package snapshot is the key-value store the dashboard uses to survive
// restarts: the current route, the waypoint set, and the in-flight trip
// rows are re-serialized in full after every mutation. All access is
// best-effort; a failed read or write degrades to a cache miss.
package snapshot

import (
    "context"
    "errors"
)

// Persisted keys. Route and crossroads form one logical trip snapshot
// and are always erased together.
const (
    KeyRoute      = "dashboard_current_route"
    KeyCrossroads = "dashboard_crossroads"
    KeyTripLog    = "vehicle_log_active"
)

var ErrNotFound = errors.New("not found")

// Store is the persistence interface for dashboard snapshots.
type Store interface {
    Get(ctx context.Context, key string) ([]byte, error)
    Set(ctx context.Context, key string, val []byte) error
    // Del removes all given keys; missing keys are not an error.
    Del(ctx context.Context, keys ...string) error
}

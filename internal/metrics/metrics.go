package metrics

import (
    "sync"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
)

var (
    // Registry is the dedicated Prometheus registry for the dashboard.
    Registry = prometheus.NewRegistry()
    // EventsTotal counts accepted feed events by stream and tag.
    EventsTotal = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "feed_events_total", Help: "Feed events dispatched by stream and tag."},
        []string{"stream", "tag"},
    )
    // EventsDropped counts messages dropped by the adapter.
    EventsDropped = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "feed_events_dropped_total", Help: "Feed messages dropped by reason (unknown_tag, no_tag)."},
        []string{"reason"},
    )
    // SnapshotErrors counts best-effort snapshot store failures.
    SnapshotErrors = prometheus.NewCounter(
        prometheus.CounterOpts{Name: "snapshot_errors_total", Help: "Snapshot store write/read failures (non-fatal)."},
    )
    // StalenessCleanups counts forced session cleanups from the monitor.
    StalenessCleanups = prometheus.NewCounter(
        prometheus.CounterOpts{Name: "staleness_cleanups_total", Help: "Sessions cleaned up after the liveness timeout."},
    )
    // ConnectedClients tracks browser clients attached to the hub.
    ConnectedClients = prometheus.NewGauge(
        prometheus.GaugeOpts{Name: "hub_connected_clients", Help: "Currently connected hub clients."},
    )
    // FramesDropped counts camera frames skipped by the fanout limiter.
    FramesDropped = prometheus.NewCounter(
        prometheus.CounterOpts{Name: "hub_frames_dropped_total", Help: "Camera frames dropped by the hub rate limiter."},
    )
)

// RegisterDefault registers collectors to the dashboard registry.
func RegisterDefault() {
    regOnce.Do(func() {
        Registry.MustRegister(EventsTotal)
        Registry.MustRegister(EventsDropped)
        Registry.MustRegister(SnapshotErrors)
        Registry.MustRegister(StalenessCleanups)
        Registry.MustRegister(ConnectedClients)
        Registry.MustRegister(FramesDropped)
        // Go/process collectors on our registry
        Registry.MustRegister(collectors.NewGoCollector())
        Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    })
}

var regOnce sync.Once

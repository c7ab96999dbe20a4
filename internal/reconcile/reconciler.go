// Package reconcile keeps the on-map session state (tracked vehicle,
// secondary vehicle, route polyline, waypoint markers) consistent with
// an unreliable event stream and with the persisted snapshot.
package reconcile

import (
    "context"
    "encoding/json"
    "log"
    "sort"
    "sync"
    "time"

    "emsdash/internal/feed"
    "emsdash/internal/metrics"
    "emsdash/internal/model"
    "emsdash/internal/snapshot"
)

// DefaultLivenessTimeout is how long the tracked vehicle may stay
// silent before the session is considered dead.
const DefaultLivenessTimeout = 30 * time.Second

// Reconciler owns the map-side session state. Events arrive on a single
// consumer goroutine and the staleness monitor ticks on another, so all
// state is guarded by one mutex; each operation is atomic with respect
// to every other.
type Reconciler struct {
    mu     sync.Mutex
    canvas Canvas
    store  snapshot.Store
    clock  Clock

    routePoints  []model.GeoPoint
    routeDrawn   bool
    trackedShown bool
    secondShown  bool
    waypoints    map[string]*model.Waypoint
    lastLive     time.Time // zero means no active session

    livenessTimeout time.Duration
}

func New(canvas Canvas, store snapshot.Store, clock Clock) *Reconciler {
    return &Reconciler{
        canvas:          canvas,
        store:           store,
        clock:           clock,
        waypoints:       map[string]*model.Waypoint{},
        livenessTimeout: DefaultLivenessTimeout,
    }
}

// HandleEvent applies one map-stream event. Unknown tags were already
// filtered by the adapter.
func (r *Reconciler) HandleEvent(ev feed.Event) {
    r.mu.Lock()
    defer r.mu.Unlock()
    switch ev.Tag() {
    case feed.TagNormalCarCurrent:
        r.handleSecondary(ev)
    case feed.TagAmbulanceRoute:
        r.handleRoute(ev)
    case feed.TagAmbulanceCurrent:
        r.handleTracked(ev)
    case feed.TagAmbulanceArrival:
        r.cleanupLocked()
    case feed.TagExpectedCrossroads:
        r.handleExpected(ev)
    case feed.TagCrossroadApproach:
        r.handleApproach(ev)
    case feed.TagCrossroadArrived:
        r.handleWaypointStatus(ev, model.StatusArrived)
    case feed.TagCrossroadPassed:
        r.handleWaypointStatus(ev, model.StatusPassed)
    }
}

func (r *Reconciler) handleSecondary(ev feed.Event) {
    p, ok := ev.Current()
    if !ok { return }
    if !r.secondShown {
        r.canvas.PlaceMarker(MarkerSecondary, p, IconCar)
        r.secondShown = true
        return
    }
    r.canvas.MoveMarker(MarkerSecondary, p)
}

func (r *Reconciler) handleRoute(ev feed.Event) {
    pts := ev.RoutePoints()
    if len(pts) < 2 { return } // degenerate route, nothing to draw
    r.drawRouteLocked(pts)
    r.persistRoute()
}

func (r *Reconciler) drawRouteLocked(pts []model.GeoPoint) {
    if r.routeDrawn { r.canvas.ClearRoute() }
    r.canvas.DrawRoute(pts)
    r.canvas.FitBounds(pts)
    r.routePoints = pts
    r.routeDrawn = true
}

func (r *Reconciler) handleTracked(ev feed.Event) {
    if p, ok := ev.Current(); ok {
        if !r.trackedShown {
            r.canvas.PlaceMarker(MarkerTracked, p, IconAmbulance)
            r.trackedShown = true
        } else {
            r.canvas.MoveMarker(MarkerTracked, p)
        }
    }
    r.lastLive = r.clock.Now()
}

func (r *Reconciler) handleExpected(ev feed.Event) {
    r.clearWaypointsLocked()
    for _, c := range ev.List("crossroads") {
        id := c.Str("id", "crossroad_id")
        lat, _ := c.Lat(false)
        lng, _ := c.Lng(false)
        status := model.WaypointStatus(c.Str("status"))
        if status == "" { status = model.StatusPending }
        r.upsertWaypointLocked(id, lat, lng, status)
    }
    r.persistWaypoints()
}

func (r *Reconciler) handleApproach(ev feed.Event) {
    id := ev.WaypointID()
    if id == "" { return }
    var lat, lng float64
    if wp := r.waypoints[id]; wp != nil {
        lat, lng = wp.Lat, wp.Lng
    }
    // Stored coordinates win; the payload fills in per axis for a
    // waypoint we have never seen.
    if lat == 0 { lat, _ = ev.Lat(true) }
    if lng == 0 { lng, _ = ev.Lng(true) }
    r.upsertWaypointLocked(id, lat, lng, model.StatusApproaching)
    r.persistWaypoints()
}

func (r *Reconciler) handleWaypointStatus(ev feed.Event, status model.WaypointStatus) {
    id := ev.WaypointID()
    wp := r.waypoints[id]
    if wp == nil {
        // Expected under message loss: the create event never arrived.
        log.Printf("reconcile: status %q for unknown waypoint %q ignored", status, id)
        return
    }
    r.upsertWaypointLocked(id, wp.Lat, wp.Lng, status)
    r.persistWaypoints()
}

// upsertWaypointLocked re-creates the marker for the waypoint with the
// icon implied by its status. The icon is purely a function of the
// current status, so re-running this is idempotent.
func (r *Reconciler) upsertWaypointLocked(id string, lat, lng float64, status model.WaypointStatus) {
    if id == "" || lat == 0 || lng == 0 { return }
    if _, ok := r.waypoints[id]; ok {
        r.canvas.RemoveMarker(waypointMarkerID(id))
    }
    r.canvas.PlaceMarker(waypointMarkerID(id), model.GeoPoint{Lat: lat, Lng: lng}, waypointIcon(status))
    r.waypoints[id] = &model.Waypoint{ID: id, Lat: lat, Lng: lng, Status: status}
}

func (r *Reconciler) clearWaypointsLocked() {
    for id := range r.waypoints {
        r.canvas.RemoveMarker(waypointMarkerID(id))
    }
    r.waypoints = map[string]*model.Waypoint{}
}

// cleanupLocked tears the whole session down: route, waypoints, tracked
// marker, persisted snapshot, liveness. Used for both the arrival event
// and the staleness timeout.
func (r *Reconciler) cleanupLocked() {
    if r.trackedShown {
        r.canvas.RemoveMarker(MarkerTracked)
        r.trackedShown = false
    }
    if r.routeDrawn {
        r.canvas.ClearRoute()
        r.routeDrawn = false
        r.routePoints = nil
    }
    r.clearWaypointsLocked()
    // Both keys represent one trip snapshot; never erase just one.
    if err := r.store.Del(context.Background(), snapshot.KeyRoute, snapshot.KeyCrossroads); err != nil {
        log.Printf("reconcile: snapshot erase: %v", err)
        metrics.SnapshotErrors.Inc()
    }
    r.lastLive = time.Time{}
}

// CheckStaleness declares the session dead when the tracked vehicle has
// been silent past the timeout. With no drawn route there is nothing to
// clean, and with no position ever seen there is nothing to time out.
func (r *Reconciler) CheckStaleness() {
    r.mu.Lock()
    defer r.mu.Unlock()
    if !r.routeDrawn { return }
    if r.lastLive.IsZero() { return }
    if r.clock.Now().Sub(r.lastLive) <= r.livenessTimeout { return }
    log.Printf("reconcile: no position update for %s, cleaning session", r.livenessTimeout)
    r.cleanupLocked()
    metrics.StalenessCleanups.Inc()
}

// Restore replays the persisted snapshot as if fresh events had just
// arrived: draw the route, fit bounds, recreate waypoint markers. A
// restored route counts as live from now so it expires on schedule
// instead of immediately or never.
func (r *Reconciler) Restore(ctx context.Context) {
    r.mu.Lock()
    defer r.mu.Unlock()

    if raw, err := r.store.Get(ctx, snapshot.KeyRoute); err == nil {
        var pts []model.GeoPoint
        if err := json.Unmarshal(raw, &pts); err != nil {
            log.Printf("reconcile: route snapshot unreadable: %v", err)
            metrics.SnapshotErrors.Inc()
        } else if len(pts) >= 2 {
            r.drawRouteLocked(pts)
            r.lastLive = r.clock.Now()
            log.Printf("reconcile: restored route with %d points", len(pts))
        }
    }

    if raw, err := r.store.Get(ctx, snapshot.KeyCrossroads); err == nil {
        var wps []model.Waypoint
        if err := json.Unmarshal(raw, &wps); err != nil {
            log.Printf("reconcile: crossroad snapshot unreadable: %v", err)
            metrics.SnapshotErrors.Inc()
        } else if len(wps) > 0 {
            r.clearWaypointsLocked()
            for _, wp := range wps {
                r.upsertWaypointLocked(wp.ID, wp.Lat, wp.Lng, wp.Status)
            }
            log.Printf("reconcile: restored %d waypoints", len(wps))
        }
    }
}

// persistRoute writes the full current point list. Failures degrade to
// a cache miss on the next restart.
func (r *Reconciler) persistRoute() {
    data, err := json.Marshal(r.routePoints)
    if err == nil {
        err = r.store.Set(context.Background(), snapshot.KeyRoute, data)
    }
    if err != nil {
        log.Printf("reconcile: route snapshot write: %v", err)
        metrics.SnapshotErrors.Inc()
    }
}

func (r *Reconciler) persistWaypoints() {
    wps := r.waypointListLocked()
    data, err := json.Marshal(wps)
    if err == nil {
        err = r.store.Set(context.Background(), snapshot.KeyCrossroads, data)
    }
    if err != nil {
        log.Printf("reconcile: crossroad snapshot write: %v", err)
        metrics.SnapshotErrors.Inc()
    }
}

func (r *Reconciler) waypointListLocked() []model.Waypoint {
    out := make([]model.Waypoint, 0, len(r.waypoints))
    for _, wp := range r.waypoints {
        out = append(out, *wp)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out
}

// RoutePoints returns a copy of the currently drawn route, nil if none.
func (r *Reconciler) RoutePoints() []model.GeoPoint {
    r.mu.Lock(); defer r.mu.Unlock()
    if !r.routeDrawn { return nil }
    out := make([]model.GeoPoint, len(r.routePoints))
    copy(out, r.routePoints)
    return out
}

// Waypoints returns the current waypoint set sorted by id.
func (r *Reconciler) Waypoints() []model.Waypoint {
    r.mu.Lock(); defer r.mu.Unlock()
    return r.waypointListLocked()
}

// LastLive returns the liveness timestamp; ok is false when no session
// is active.
func (r *Reconciler) LastLive() (time.Time, bool) {
    r.mu.Lock(); defer r.mu.Unlock()
    if r.lastLive.IsZero() { return time.Time{}, false }
    return r.lastLive, true
}

// SetLivenessTimeout overrides the default timeout (used by config).
func (r *Reconciler) SetLivenessTimeout(d time.Duration) {
    r.mu.Lock(); defer r.mu.Unlock()
    if d > 0 { r.livenessTimeout = d }
}

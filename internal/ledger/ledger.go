// Package ledger maintains the rolling trip log table: start and
// arrival events for the same (vehicle, start time) pair merge into one
// row, the newest ten rows are rendered, and only in-flight rows are
// persisted across restarts.
package ledger

import (
    "context"
    "encoding/json"
    "log"
    "sort"
    "sync"

    "emsdash/internal/archive"
    "emsdash/internal/feed"
    "emsdash/internal/metrics"
    "emsdash/internal/model"
    "emsdash/internal/snapshot"
)

// RenderLimit is how many rows the table shows.
const RenderLimit = 10

// TableView receives the full row set on every mutation. The table is
// small enough that redrawing from scratch beats incremental patching.
type TableView interface {
    Render(rows []model.TripLogEntry)
}

type Ledger struct {
    mu      sync.Mutex
    view    TableView
    store   snapshot.Store
    archive archive.Archive // may be nil
    entries map[string]*model.TripLogEntry
}

// New builds an empty ledger. Any previously persisted rows are
// discarded on purpose: after a reload the table must not show a
// long-gone session, unlike the route snapshot which is restored.
func New(view TableView, store snapshot.Store, arc archive.Archive) *Ledger {
    if err := store.Del(context.Background(), snapshot.KeyTripLog); err != nil {
        log.Printf("ledger: discard persisted rows: %v", err)
        metrics.SnapshotErrors.Inc()
    }
    l := &Ledger{view: view, store: store, archive: arc, entries: map[string]*model.TripLogEntry{}}
    l.render()
    return l
}

// HandleEvent applies one log-stream event.
func (l *Ledger) HandleEvent(ev feed.Event) {
    carNo := ev.CarNo()
    startTime := ev.StartTime()
    if carNo == "" || startTime == "" {
        log.Printf("ledger: event %q without vehicle or start time dropped", ev.Tag())
        return
    }

    l.mu.Lock()
    key := model.TripKey(carNo, startTime)
    switch ev.Tag() {
    case feed.TagAmbulanceStart:
        l.entries[key] = &model.TripLogEntry{
            CarNo:         carNo,
            StartTime:     startTime,
            ArrivalTime:   orSentinel(ev.Str("arrival_time", "estimated_arrival_time", "eta_time")),
            StartLocation: orSentinel(ev.Str("start_location", "origin")),
            Destination:   orSentinel(ev.Str("destination", "dest")),
        }
    case feed.TagAmbulanceArrival:
        arrivalTime := orSentinel(ev.ArrivalTime())
        if e, ok := l.entries[key]; ok {
            e.ArrivalTime = arrivalTime
        } else {
            // The start event was lost; record the trip as completed.
            l.entries[key] = &model.TripLogEntry{
                CarNo:         carNo,
                StartTime:     startTime,
                ArrivalTime:   arrivalTime,
                StartLocation: orSentinel(ev.Str("start_location", "origin")),
                Destination:   orSentinel(ev.Str("destination", "dest")),
            }
        }
        if e := l.entries[key]; l.archive != nil && !e.InFlight() {
            if err := l.archive.InsertTrip(context.Background(), *e); err != nil {
                log.Printf("ledger: archive trip: %v", err)
            }
        }
    default:
        l.mu.Unlock()
        return
    }
    l.mu.Unlock()

    l.persist()
    l.render()
}

// Rows returns the rendered view: all entries sorted by start time
// descending, capped at RenderLimit. Entries without a start time sort
// last.
func (l *Ledger) Rows() []model.TripLogEntry {
    l.mu.Lock()
    out := make([]model.TripLogEntry, 0, len(l.entries))
    for _, e := range l.entries {
        out = append(out, *e)
    }
    l.mu.Unlock()

    sort.SliceStable(out, func(i, j int) bool {
        a, b := out[i].StartTime, out[j].StartTime
        if a == "" { return false }
        if b == "" { return true }
        return a > b
    })
    if len(out) > RenderLimit {
        out = out[:RenderLimit]
    }
    return out
}

func (l *Ledger) render() {
    if l.view != nil {
        l.view.Render(l.Rows())
    }
}

// persist writes the in-flight subset only; completed rows live for the
// rest of the process and vanish on restart.
func (l *Ledger) persist() {
    l.mu.Lock()
    inFlight := map[string]model.TripLogEntry{}
    for k, e := range l.entries {
        if e.InFlight() {
            inFlight[k] = *e
        }
    }
    l.mu.Unlock()

    data, err := json.Marshal(inFlight)
    if err == nil {
        err = l.store.Set(context.Background(), snapshot.KeyTripLog, data)
    }
    if err != nil {
        log.Printf("ledger: persist in-flight rows: %v", err)
        metrics.SnapshotErrors.Inc()
    }
}

func orSentinel(s string) string {
    if s == "" { return model.ArrivalSentinel }
    return s
}

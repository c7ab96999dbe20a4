// Package feed adapts the raw upstream push stream into typed events and
// routes them onto the camera, map, and log streams.
package feed

import (
    "encoding/json"

    "emsdash/internal/model"
)

// Event is one decoded push message. Upstream producers are loose about
// field names, so every logical field is read through an ordered-fallback
// accessor: the first non-empty alias wins. Coordinates follow the same
// rule with zero treated as absent, which also guards against partial
// payloads that carry only one axis.
type Event map[string]any

// Decode parses a raw payload into an Event. A nil Event with ok=false
// means the payload was not structured data at all.
func Decode(raw []byte) (Event, bool) {
    var e Event
    if err := json.Unmarshal(raw, &e); err != nil {
        return nil, false
    }
    return e, true
}

// Tag returns the event tag, read from "event" then "type".
func (e Event) Tag() string { return e.Str("event", "type") }

// Str returns the first non-empty string value among the given keys.
func (e Event) Str(keys ...string) string {
    for _, k := range keys {
        if s, ok := e[k].(string); ok && s != "" {
            return s
        }
    }
    return ""
}

// Num returns the first non-zero numeric value among the given keys.
// JSON numbers decode as float64; zero counts as missing.
func (e Event) Num(keys ...string) (float64, bool) {
    for _, k := range keys {
        if f, ok := e[k].(float64); ok && f != 0 {
            return f, true
        }
    }
    return 0, false
}

// Sub returns a nested object field as an Event, or nil.
func (e Event) Sub(key string) Event {
    if m, ok := e[key].(map[string]any); ok { return Event(m) }
    return nil
}

// List returns a list field as a slice of Events, skipping non-objects.
func (e Event) List(key string) []Event {
    raw, ok := e[key].([]any)
    if !ok { return nil }
    out := make([]Event, 0, len(raw))
    for _, v := range raw {
        if m, ok := v.(map[string]any); ok { out = append(out, Event(m)) }
    }
    return out
}

// Accessors for the aliased fields, one per logical field.

// WaypointID reads the waypoint identifier.
func (e Event) WaypointID() string { return e.Str("crossroad_id", "id") }

// CarNo reads the vehicle identifier.
func (e Event) CarNo() string { return e.Str("vehicle_id", "car") }

// StartTime reads the trip departure timestamp.
func (e Event) StartTime() string { return e.Str("departure_time", "start_time") }

// ArrivalTime reads the trip arrival timestamp.
func (e Event) ArrivalTime() string { return e.Str("arrival_time", "arrivalTime", "time") }

// Frame reads the base64 camera frame payload.
func (e Event) Frame() string { return e.Str("frame", "image") }

// Lat reads a latitude, optionally accepting the "y" shorthand.
func (e Event) Lat(allowXY bool) (float64, bool) {
    if allowXY { return e.Num("lat", "y") }
    return e.Num("lat")
}

// Lng reads a longitude under its lng/lon aliases, optionally accepting
// the "x" shorthand.
func (e Event) Lng(allowXY bool) (float64, bool) {
    if allowXY { return e.Num("lng", "lon", "x") }
    return e.Num("lng", "lon")
}

// Current reads the nested current-position object as a point. ok is
// false when the object or either coordinate is missing.
func (e Event) Current() (model.GeoPoint, bool) {
    cur := e.Sub("current")
    if cur == nil { return model.GeoPoint{}, false }
    lat, ok1 := cur.Lat(false)
    lng, ok2 := cur.Lng(false)
    if !ok1 || !ok2 { return model.GeoPoint{}, false }
    return model.GeoPoint{Lat: lat, Lng: lng}, true
}

// RoutePoints reads the ordered route point list.
func (e Event) RoutePoints() []model.GeoPoint {
    items := e.List("route_points")
    pts := make([]model.GeoPoint, 0, len(items))
    for _, it := range items {
        lat, ok1 := it.Lat(false)
        lng, ok2 := it.Lng(false)
        if !ok1 || !ok2 { continue }
        pts = append(pts, model.GeoPoint{Lat: lat, Lng: lng})
    }
    return pts
}

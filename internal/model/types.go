package model

// Core domain types for the dashboard session.

type GeoPoint struct {
    Lat float64 `json:"lat"`
    Lng float64 `json:"lng"`
}

// WaypointStatus is the lifecycle state of a waypoint along the tracked route.
type WaypointStatus string

const (
    StatusPending     WaypointStatus = "pending"
    StatusApproaching WaypointStatus = "approaching"
    StatusArrived     WaypointStatus = "arrived"
    StatusPassed      WaypointStatus = "passed"
)

// Alert reports whether the status renders with the alert icon.
// Approaching and arrived mean the vehicle is at or near the waypoint;
// pending and passed use the default icon.
func (s WaypointStatus) Alert() bool {
    return s == StatusApproaching || s == StatusArrived
}

// Waypoint is a named point of interest the tracked vehicle is expected
// to pass (e.g. an intersection). ID is unique within the current route.
type Waypoint struct {
    ID     string         `json:"id"`
    Lat    float64        `json:"lat"`
    Lng    float64        `json:"lng"`
    Status WaypointStatus `json:"status"`
}

// TripLogEntry is one row of the trip log table. ArrivalSentinel marks a
// trip still in flight; the pair (CarNo, StartTime) is the entry identity.
type TripLogEntry struct {
    CarNo         string `json:"carNo"`
    StartTime     string `json:"startTime"`
    ArrivalTime   string `json:"arrivalTime"`
    StartLocation string `json:"startLocation"`
    Destination   string `json:"destination"`
}

const ArrivalSentinel = "-"

// InFlight reports whether the trip has started but not yet arrived.
func (t TripLogEntry) InFlight() bool {
    return t.ArrivalTime == "" || t.ArrivalTime == ArrivalSentinel
}

// TripKey builds the composite ledger key for a trip. Two events that
// describe the same trip must map to the same key.
func TripKey(carNo, startTime string) string {
    return carNo + "__" + startTime
}

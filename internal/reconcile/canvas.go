package reconcile

import "emsdash/internal/model"

// Marker icons, mirroring the dashboard image assets.
const (
    IconAmbulance     = "ambulance"
    IconCar           = "car"
    IconCrossroadBlue = "crossroad_blue"
    IconCrossroadRed  = "crossroad_red"
)

// Marker ids on the canvas. Waypoint markers use "crossroad:" + id.
const (
    MarkerTracked   = "ambulance"
    MarkerSecondary = "car"
)

// Canvas is the opaque drawing surface the reconciler paints on. The
// production implementation forwards draw operations to attached
// browser clients; tests record them.
type Canvas interface {
    PlaceMarker(id string, p model.GeoPoint, icon string)
    MoveMarker(id string, p model.GeoPoint)
    RemoveMarker(id string)
    // DrawRoute draws the single active polyline; ClearRoute removes it.
    DrawRoute(points []model.GeoPoint)
    ClearRoute()
    // FitBounds recenters the view to contain all points.
    FitBounds(points []model.GeoPoint)
}

func waypointMarkerID(id string) string { return "crossroad:" + id }

func waypointIcon(status model.WaypointStatus) string {
    if status.Alert() { return IconCrossroadRed }
    return IconCrossroadBlue
}

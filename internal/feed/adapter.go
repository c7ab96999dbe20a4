package feed

import (
    "log"

    "emsdash/internal/metrics"
)

// Stream names used for dispatch and metrics labels.
const (
    StreamCamera = "camera"
    StreamMap    = "map"
    StreamLog    = "log"
)

// Event tags understood by the adapter.
const (
    TagVideo              = "video"
    TagImageBroadcast     = "image_broadcast_cam1"
    TagNormalCarCurrent   = "normalcar_current"
    TagAmbulanceRoute     = "ambulance_route"
    TagAmbulanceCurrent   = "ambulance_current"
    TagAmbulanceStart     = "ambulance_start"
    TagAmbulanceArrival   = "ambulance_arrival"
    TagExpectedCrossroads = "ambulance_expected_crossroads"
    TagCrossroadApproach  = "ambulance_crossroad_approach"
    TagCrossroadArrived   = "ambulance_crossroad_arrived"
    TagCrossroadPassed    = "ambulance_crossroad_passed"
)

// CameraMessage is one camera-stream item. Raw is set when the payload
// was not structured data and should be treated as a bare base64 frame.
type CameraMessage struct {
    Event Event
    Raw   string
}

// Adapter routes raw feed payloads onto three buffered streams, one per
// consumer. Each stream is drained by a single goroutine so every
// handler runs to completion before the next event on that stream.
type Adapter struct {
    Camera chan CameraMessage
    Map    chan Event
    Log    chan Event
}

func NewAdapter() *Adapter {
    return &Adapter{
        Camera: make(chan CameraMessage, 64),
        Map:    make(chan Event, 64),
        Log:    make(chan Event, 64),
    }
}

// Dispatch decodes one raw payload and routes it by tag. A payload that
// does not decode is forwarded to the camera stream as an opaque frame;
// that is the camera fallback, not an error. Unrecognized tags are
// dropped silently so the server can add event types without breaking
// old dashboards.
func (a *Adapter) Dispatch(raw []byte) {
    ev, ok := Decode(raw)
    if !ok {
        metrics.EventsTotal.WithLabelValues(StreamCamera, "raw_frame").Inc()
        a.Camera <- CameraMessage{Raw: string(raw)}
        return
    }
    tag := ev.Tag()
    switch tag {
    case TagVideo, TagImageBroadcast:
        metrics.EventsTotal.WithLabelValues(StreamCamera, tag).Inc()
        a.Camera <- CameraMessage{Event: ev}
    case TagNormalCarCurrent, TagAmbulanceRoute, TagAmbulanceCurrent,
        TagExpectedCrossroads, TagCrossroadApproach, TagCrossroadArrived, TagCrossroadPassed:
        metrics.EventsTotal.WithLabelValues(StreamMap, tag).Inc()
        a.Map <- ev
    case TagAmbulanceStart:
        metrics.EventsTotal.WithLabelValues(StreamLog, tag).Inc()
        a.Log <- ev
    case TagAmbulanceArrival:
        // Arrival ends the map session and completes the trip row.
        metrics.EventsTotal.WithLabelValues(StreamMap, tag).Inc()
        a.Map <- ev
        metrics.EventsTotal.WithLabelValues(StreamLog, tag).Inc()
        a.Log <- ev
    case "":
        log.Printf("feed: message without event tag dropped")
        metrics.EventsDropped.WithLabelValues("no_tag").Inc()
    default:
        metrics.EventsDropped.WithLabelValues("unknown_tag").Inc()
    }
}

// Close closes all three streams. Call after the upstream reader exits.
func (a *Adapter) Close() {
    close(a.Camera)
    close(a.Map)
    close(a.Log)
}

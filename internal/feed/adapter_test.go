package feed

import "testing"

func recv(t *testing.T, ch chan Event) Event {
    t.Helper()
    select {
    case ev := <-ch:
        return ev
    default:
        t.Fatal("expected a dispatched event")
        return nil
    }
}

func TestDispatchMapTags(t *testing.T) {
    a := NewAdapter()
    for _, tag := range []string{
        TagNormalCarCurrent, TagAmbulanceRoute, TagAmbulanceCurrent,
        TagExpectedCrossroads, TagCrossroadApproach, TagCrossroadArrived, TagCrossroadPassed,
    } {
        a.Dispatch([]byte(`{"event":"` + tag + `"}`))
        if got := recv(t, a.Map).Tag(); got != tag { t.Fatalf("map stream: want %s, got %s", tag, got) }
    }
    if len(a.Camera) != 0 || len(a.Log) != 0 { t.Fatal("map tags leaked to other streams") }
}

func TestDispatchLogTags(t *testing.T) {
    a := NewAdapter()
    a.Dispatch([]byte(`{"event":"ambulance_start","car":"C1","start_time":"10:00"}`))
    if got := recv(t, a.Log).Tag(); got != TagAmbulanceStart { t.Fatalf("got %s", got) }
    if len(a.Map) != 0 { t.Fatal("start event must not reach the map stream") }
}

func TestDispatchArrivalFansOutToMapAndLog(t *testing.T) {
    a := NewAdapter()
    a.Dispatch([]byte(`{"event":"ambulance_arrival","car":"C1","start_time":"10:00"}`))
    if got := recv(t, a.Map).Tag(); got != TagAmbulanceArrival { t.Fatalf("map: got %s", got) }
    if got := recv(t, a.Log).Tag(); got != TagAmbulanceArrival { t.Fatalf("log: got %s", got) }
}

func TestDispatchVideoToCamera(t *testing.T) {
    a := NewAdapter()
    a.Dispatch([]byte(`{"event":"video","frame":"abc"}`))
    select {
    case msg := <-a.Camera:
        if msg.Raw != "" { t.Fatal("structured event should not be raw") }
        if msg.Event.Frame() != "abc" { t.Fatalf("frame: %q", msg.Event.Frame()) }
    default:
        t.Fatal("expected camera message")
    }
}

func TestDispatchRawFallsBackToCamera(t *testing.T) {
    a := NewAdapter()
    a.Dispatch([]byte("/9j/4AAQSkZJRgABAQ"))
    select {
    case msg := <-a.Camera:
        if msg.Raw != "/9j/4AAQSkZJRgABAQ" { t.Fatalf("raw: %q", msg.Raw) }
    default:
        t.Fatal("non-JSON payload must reach the camera stream")
    }
    if len(a.Map) != 0 || len(a.Log) != 0 { t.Fatal("raw payload leaked") }
}

func TestDispatchUnknownTagDropped(t *testing.T) {
    a := NewAdapter()
    a.Dispatch([]byte(`{"event":"server_added_this_later"}`))
    if len(a.Camera) != 0 || len(a.Map) != 0 || len(a.Log) != 0 {
        t.Fatal("unknown tag must be dropped silently")
    }
}

package feed

import "testing"

func TestTagFromEitherField(t *testing.T) {
    ev, ok := Decode([]byte(`{"event":"ambulance_current"}`))
    if !ok || ev.Tag() != "ambulance_current" { t.Fatalf("event field: got %q", ev.Tag()) }
    ev, ok = Decode([]byte(`{"type":"video"}`))
    if !ok || ev.Tag() != "video" { t.Fatalf("type field: got %q", ev.Tag()) }
    ev, ok = Decode([]byte(`{"event":"a","type":"b"}`))
    if !ok || ev.Tag() != "a" { t.Fatalf("event should win over type: got %q", ev.Tag()) }
}

func TestDecodeFailure(t *testing.T) {
    if _, ok := Decode([]byte("/9j/4AAQSkZJRg base64ish")); ok {
        t.Fatal("raw frame should not decode")
    }
}

func TestStrFallbackOrder(t *testing.T) {
    ev := Event{"crossroad_id": "X1", "id": "other"}
    if got := ev.WaypointID(); got != "X1" { t.Fatalf("got %q", got) }
    ev = Event{"id": "X2"}
    if got := ev.WaypointID(); got != "X2" { t.Fatalf("got %q", got) }
    ev = Event{"crossroad_id": "", "id": "X3"}
    if got := ev.WaypointID(); got != "X3" { t.Fatalf("empty alias should be skipped, got %q", got) }
}

func TestNumTreatsZeroAsMissing(t *testing.T) {
    ev := Event{"lat": float64(0), "y": float64(37.5)}
    got, ok := ev.Lat(true)
    if !ok || got != 37.5 { t.Fatalf("want y fallback 37.5, got %v ok=%v", got, ok) }
    if _, ok := ev.Lat(false); ok { t.Fatal("without xy shorthand lat should be missing") }
}

func TestLngAliases(t *testing.T) {
    for _, tc := range []struct {
        ev   Event
        want float64
    }{
        {Event{"lng": 127.1}, 127.1},
        {Event{"lon": 127.2}, 127.2},
        {Event{"x": 127.3}, 127.3},
    } {
        got, ok := tc.ev.Lng(true)
        if !ok || got != tc.want { t.Fatalf("ev %v: got %v ok=%v", tc.ev, got, ok) }
    }
}

func TestCurrentRequiresBothAxes(t *testing.T) {
    ev, _ := Decode([]byte(`{"current":{"lat":37.5,"lng":127.0}}`))
    p, ok := ev.Current()
    if !ok || p.Lat != 37.5 || p.Lng != 127.0 { t.Fatalf("got %+v ok=%v", p, ok) }

    ev, _ = Decode([]byte(`{"current":{"lat":37.5}}`))
    if _, ok := ev.Current(); ok { t.Fatal("partial payload must be rejected") }

    ev, _ = Decode([]byte(`{}`))
    if _, ok := ev.Current(); ok { t.Fatal("missing object must be rejected") }
}

func TestRoutePoints(t *testing.T) {
    ev, _ := Decode([]byte(`{"route_points":[{"lat":37.50,"lng":127.03},{"lat":37.51,"lon":127.04}]}`))
    pts := ev.RoutePoints()
    if len(pts) != 2 { t.Fatalf("want 2 points, got %d", len(pts)) }
    if pts[1].Lng != 127.04 { t.Fatalf("lon alias not honored: %+v", pts[1]) }
}

func TestTripFieldAccessors(t *testing.T) {
    ev := Event{"car": "CAR1", "start_time": "10:00", "time": "10:20"}
    if ev.CarNo() != "CAR1" { t.Fatalf("car alias: %q", ev.CarNo()) }
    if ev.StartTime() != "10:00" { t.Fatalf("start_time alias: %q", ev.StartTime()) }
    if ev.ArrivalTime() != "10:20" { t.Fatalf("time alias: %q", ev.ArrivalTime()) }

    ev = Event{"vehicle_id": "CAR2", "departure_time": "11:00", "arrival_time": "11:30", "time": "ignored"}
    if ev.CarNo() != "CAR2" || ev.StartTime() != "11:00" || ev.ArrivalTime() != "11:30" {
        t.Fatalf("primary aliases must win: %q %q %q", ev.CarNo(), ev.StartTime(), ev.ArrivalTime())
    }
}

func TestFrameAccessor(t *testing.T) {
    if got := (Event{"image": "abc"}).Frame(); got != "abc" { t.Fatalf("image alias: %q", got) }
    if got := (Event{"frame": "def", "image": "abc"}).Frame(); got != "def" { t.Fatalf("frame wins: %q", got) }
}

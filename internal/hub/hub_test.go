package hub

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/gorilla/websocket"

    "emsdash/internal/model"
)

func dialHub(t *testing.T, h *Hub, streams string) *websocket.Conn {
    t.Helper()
    ws := httptest.NewServer(http.HandlerFunc(h.ServeWS))
    t.Cleanup(ws.Close)
    url := "ws" + strings.TrimPrefix(ws.URL, "http")
    if streams != "" { url += "?streams=" + streams }
    conn, _, err := websocket.DefaultDialer.Dial(url, nil)
    if err != nil { t.Fatalf("dial: %v", err) }
    t.Cleanup(func() { _ = conn.Close() })
    return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) map[string]any {
    t.Helper()
    _ = conn.SetReadDeadline(time.Now().Add(time.Second))
    _, raw, err := conn.ReadMessage()
    if err != nil { t.Fatalf("read: %v", err) }
    var m map[string]any
    if err := json.Unmarshal(raw, &m); err != nil { t.Fatal(err) }
    return m
}

func waitClients(t *testing.T, h *Hub, n int) {
    t.Helper()
    deadline := time.Now().Add(time.Second)
    for h.ClientCount() != n {
        if time.Now().After(deadline) { t.Fatalf("want %d clients, have %d", n, h.ClientCount()) }
        time.Sleep(5 * time.Millisecond)
    }
}

func TestMapStreamReceivesDrawOps(t *testing.T) {
    h := New()
    conn := dialHub(t, h, "map")
    waitClients(t, h, 1)

    h.DrawRoute([]model.GeoPoint{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}})
    m := readMsg(t, conn)
    if m["op"] != "draw_route" { t.Fatalf("msg: %v", m) }
    pts := m["points"].([]any)
    if len(pts) != 2 { t.Fatalf("points: %v", pts) }
}

func TestStreamFiltering(t *testing.T) {
    h := New()
    conn := dialHub(t, h, "log")
    waitClients(t, h, 1)

    // a map op must not reach a log-only client
    h.ClearRoute()
    h.Render([]model.TripLogEntry{{CarNo: "C1", StartTime: "10:00", ArrivalTime: "-"}})

    m := readMsg(t, conn)
    if m["op"] != "triplog" { t.Fatalf("log client got %v", m) }
    rows := m["rows"].([]any)
    if len(rows) != 1 { t.Fatalf("rows: %v", rows) }
}

func TestDefaultSubscribesAllStreams(t *testing.T) {
    h := New()
    conn := dialHub(t, h, "")
    waitClients(t, h, 1)

    h.ShowNoSignal()
    if m := readMsg(t, conn); m["op"] != "no_signal" { t.Fatalf("msg: %v", m) }
    h.MoveMarker("ambulance", model.GeoPoint{Lat: 1, Lng: 2})
    if m := readMsg(t, conn); m["op"] != "move_marker" { t.Fatalf("msg: %v", m) }
}

func TestDisconnectDropsClient(t *testing.T) {
    h := New()
    conn := dialHub(t, h, "map")
    waitClients(t, h, 1)
    _ = conn.Close()
    waitClients(t, h, 0)
}

func TestFrameFanoutIsRateLimited(t *testing.T) {
    h := New()
    conn := dialHub(t, h, "camera")
    waitClients(t, h, 1)

    // burst far past the limiter; only a bounded prefix goes out
    for i := 0; i < 200; i++ {
        h.ShowFrame("frame")
    }
    got := 0
    for {
        _ = conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
        if _, _, err := conn.ReadMessage(); err != nil { break }
        got++
    }
    if got == 0 { t.Fatal("no frames delivered") }
    if got > 40 { t.Fatalf("limiter let %d of 200 frames through", got) }
}

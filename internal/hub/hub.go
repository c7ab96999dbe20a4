// Package hub fans dashboard output out to attached browser clients
// over WebSocket. The reconciler paints through it (draw operations),
// the ledger renders through it (table rows), and the camera streams
// through it (frames). Fanout is display-only: clients never feed state
// back.
package hub

import (
    "encoding/json"
    "log"
    "net/http"
    "strings"
    "sync"

    "github.com/google/uuid"
    "github.com/gorilla/websocket"
    "golang.org/x/time/rate"

    "emsdash/internal/feed"
    "emsdash/internal/metrics"
    "emsdash/internal/model"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

type client struct {
    id      string
    conn    *websocket.Conn
    send    chan []byte
    streams map[string]bool
}

// Hub keeps the connected client set and broadcasts per-stream JSON
// messages. Slow clients drop messages rather than block the producer.
type Hub struct {
    mu        sync.Mutex
    clients   map[string]*client
    frameRate *rate.Limiter // caps camera fanout; the map/log streams are not limited
}

// DefaultFrameRate allows ~15 frames/s to clients with a short burst.
var DefaultFrameRate = rate.Limit(15)

func New() *Hub {
    return &Hub{
        clients:   map[string]*client{},
        frameRate: rate.NewLimiter(DefaultFrameRate, 30),
    }
}

// ServeWS upgrades a browser connection. The client picks streams via
// ?streams=camera,map,log (default: all three).
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        return
    }
    streams := map[string]bool{}
    if q := r.URL.Query().Get("streams"); q != "" {
        for _, s := range strings.Split(q, ",") {
            streams[strings.TrimSpace(s)] = true
        }
    } else {
        streams[feed.StreamCamera] = true
        streams[feed.StreamMap] = true
        streams[feed.StreamLog] = true
    }

    c := &client{id: uuid.New().String(), conn: conn, send: make(chan []byte, 32), streams: streams}
    h.mu.Lock()
    h.clients[c.id] = c
    h.mu.Unlock()
    metrics.ConnectedClients.Inc()
    log.Printf("hub: client %s connected (streams: %v)", c.id, r.URL.Query().Get("streams"))

    // Writer drains the send queue; reader only detects close.
    go func() {
        for msg := range c.send {
            if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
                break
            }
        }
        _ = conn.Close()
    }()
    go func() {
        conn.SetReadLimit(1 << 16)
        for {
            if _, _, err := conn.ReadMessage(); err != nil {
                break
            }
        }
        h.drop(c.id)
    }()
}

func (h *Hub) drop(id string) {
    h.mu.Lock()
    c, ok := h.clients[id]
    if ok { delete(h.clients, id) }
    h.mu.Unlock()
    if ok {
        close(c.send)
        metrics.ConnectedClients.Dec()
        log.Printf("hub: client %s disconnected", id)
    }
}

// Broadcast sends v to every client subscribed to the stream.
func (h *Hub) Broadcast(stream string, v any) {
    data, err := json.Marshal(v)
    if err != nil {
        log.Printf("hub: marshal %s message: %v", stream, err)
        return
    }
    h.mu.Lock()
    for _, c := range h.clients {
        if !c.streams[stream] { continue }
        select { case c.send <- data: default: }
    }
    h.mu.Unlock()
}

// ClientCount returns the number of attached clients.
func (h *Hub) ClientCount() int {
    h.mu.Lock(); defer h.mu.Unlock()
    return len(h.clients)
}

// ---- reconcile.Canvas ----

func (h *Hub) PlaceMarker(id string, p model.GeoPoint, icon string) {
    h.Broadcast(feed.StreamMap, map[string]any{"op": "place_marker", "id": id, "lat": p.Lat, "lng": p.Lng, "icon": icon})
}

func (h *Hub) MoveMarker(id string, p model.GeoPoint) {
    h.Broadcast(feed.StreamMap, map[string]any{"op": "move_marker", "id": id, "lat": p.Lat, "lng": p.Lng})
}

func (h *Hub) RemoveMarker(id string) {
    h.Broadcast(feed.StreamMap, map[string]any{"op": "remove_marker", "id": id})
}

func (h *Hub) DrawRoute(points []model.GeoPoint) {
    h.Broadcast(feed.StreamMap, map[string]any{"op": "draw_route", "points": points})
}

func (h *Hub) ClearRoute() {
    h.Broadcast(feed.StreamMap, map[string]any{"op": "clear_route"})
}

func (h *Hub) FitBounds(points []model.GeoPoint) {
    h.Broadcast(feed.StreamMap, map[string]any{"op": "fit_bounds", "points": points})
}

// ---- ledger.TableView ----

func (h *Hub) Render(rows []model.TripLogEntry) {
    h.Broadcast(feed.StreamLog, map[string]any{"op": "triplog", "rows": rows})
}

// ---- camera.Display ----

func (h *Hub) ShowFrame(b64 string) {
    if !h.frameRate.Allow() {
        metrics.FramesDropped.Inc()
        return
    }
    h.Broadcast(feed.StreamCamera, map[string]any{"op": "frame", "frame": b64})
}

func (h *Hub) ShowNoSignal() {
    h.Broadcast(feed.StreamCamera, map[string]any{"op": "no_signal"})
}

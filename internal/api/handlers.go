package api

import (
    "context"
    "fmt"
    "net/http"
    "time"
)

// SessionHandler handles GET /v1/session: the reconciled map state.
func (s *Server) SessionHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    last, active := s.Rec.LastLive()
    resp := map[string]any{
        "route":     s.Rec.RoutePoints(),
        "waypoints": s.Rec.Waypoints(),
        "active":    active,
        "clients":   s.Hub.ClientCount(),
    }
    if active {
        resp["lastUpdate"] = last.UTC().Format(time.RFC3339)
    }
    writeJSON(w, http.StatusOK, resp)
}

// TripLogHandler handles GET /v1/triplog: the current table rows plus
// recently archived trips.
func (s *Server) TripLogHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    limit := 50
    if v := r.URL.Query().Get("limit"); v != "" { fmt.Sscanf(v, "%d", &limit) }
    archived, err := s.Archive.ListRecent(r.Context(), limit)
    if err != nil {
        writeProblem(w, http.StatusInternalServerError, "List trips failed", err.Error(), r.URL.Path)
        return
    }
    writeJSON(w, http.StatusOK, map[string]any{
        "rows":     s.Ledger.Rows(),
        "archived": archived,
    })
}

// FrameHandler handles GET /v1/frame: the current camera frame, 204
// while no-signal.
func (s *Server) FrameHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    frame, ok := s.Camera.Frame()
    if !ok {
        w.WriteHeader(http.StatusNoContent)
        return
    }
    writeJSON(w, http.StatusOK, map[string]string{"frame": frame})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, 200, map[string]string{"status": "ok"})
}

// ReadyHandler checks backing-store connectivity when one is attached.
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
    type pinger interface{ Ping(ctx context.Context) error }
    if pg, ok := s.Archive.(pinger); ok {
        ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
        defer cancel()
        if err := pg.Ping(ctx); err != nil { writeProblem(w, 503, "Not Ready", err.Error(), r.URL.Path); return }
    }
    writeJSON(w, 200, map[string]string{"status": "ready"})
}

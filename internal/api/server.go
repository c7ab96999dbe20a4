// Package api implements the read-only HTTP surface of the dashboard
// backend: session state, trip log listing, camera frame, health.
package api

import (
    "emsdash/internal/archive"
    "emsdash/internal/camera"
    "emsdash/internal/hub"
    "emsdash/internal/ledger"
    "emsdash/internal/reconcile"
)

type Server struct {
    Rec     *reconcile.Reconciler
    Ledger  *ledger.Ledger
    Archive archive.Archive
    Hub     *hub.Hub
    Camera  *camera.Camera
}

func NewServer(rec *reconcile.Reconciler, led *ledger.Ledger, arc archive.Archive, h *hub.Hub, cam *camera.Camera) *Server {
    return &Server{Rec: rec, Ledger: led, Archive: arc, Hub: h, Camera: cam}
}

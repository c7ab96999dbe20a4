package main

import (
    "context"
    "fmt"
    "log"
    "net/http"
    "os"
    "time"

    "github.com/prometheus/client_golang/prometheus/promhttp"

    "emsdash/internal/api"
    "emsdash/internal/archive"
    "emsdash/internal/camera"
    "emsdash/internal/config"
    "emsdash/internal/feed"
    "emsdash/internal/hub"
    "emsdash/internal/ledger"
    "emsdash/internal/metrics"
    "emsdash/internal/reconcile"
    "emsdash/internal/snapshot"
)

func main() {
    log.SetOutput(os.Stdout)
    log.SetFlags(log.LstdFlags | log.Lmicroseconds)

    cfg, err := config.Load()
    if err != nil {
        log.Fatalf("config: %v", err)
    }
    metrics.RegisterDefault()

    // Snapshot store: Redis when configured, else in-memory.
    var store snapshot.Store
    if cfg.Redis.URL != "" {
        rs, err := snapshot.NewRedis(cfg.Redis.URL)
        if err != nil {
            log.Fatalf("redis: %v", err)
        }
        store = rs
    } else {
        store = snapshot.NewMemory()
    }

    // Trip archive: Postgres when configured, else in-memory.
    var arc archive.Archive
    if cfg.Database.URL != "" {
        pg, err := archive.NewPostgres(cfg.Database.URL)
        if err != nil {
            log.Fatalf("postgres: %v", err)
        }
        arc = pg
    } else {
        arc = archive.NewMemory()
    }

    h := hub.New()

    rec := reconcile.New(h, store, reconcile.SystemClock())
    rec.SetLivenessTimeout(cfg.LivenessTimeout())
    rec.Restore(context.Background())

    mon := reconcile.NewMonitor(rec)
    mon.Interval = cfg.CheckInterval()
    mon.Start()

    led := ledger.New(h, store, arc)
    cam := camera.New(h, cfg.CameraTimeout())

    // Three consumers, one per stream; each event handled to completion
    // before the next on its stream.
    ad := feed.NewAdapter()
    go func() { for msg := range ad.Camera { cam.HandleMessage(msg) } }()
    go func() { for ev := range ad.Map { rec.HandleEvent(ev) } }()
    go func() { for ev := range ad.Log { led.HandleEvent(ev) } }()

    if cfg.Feed.URL != "" {
        go func() {
            if err := feed.NewClient(cfg.Feed.URL, ad).Run(context.Background()); err != nil {
                log.Printf("feed: %v", err)
            }
        }()
    } else {
        log.Printf("no FEED_URL set; waiting for nothing (hub and API still served)")
    }

    srvDeps := api.NewServer(rec, led, arc, h, cam)

    mux := http.NewServeMux()
    mux.HandleFunc("/ws", h.ServeWS)
    mux.HandleFunc("/v1/session", srvDeps.SessionHandler)
    mux.HandleFunc("/v1/triplog", srvDeps.TripLogHandler)
    mux.HandleFunc("/v1/frame", srvDeps.FrameHandler)
    mux.HandleFunc("/healthz", srvDeps.HealthHandler)
    mux.HandleFunc("/readyz", srvDeps.ReadyHandler)
    mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

    addr := fmt.Sprintf(":%d", cfg.Server.Port)
    srv := &http.Server{
        Addr:              addr,
        Handler:           logMiddleware(mux),
        ReadHeaderTimeout: 5 * time.Second,
    }

    log.Printf("dashboard listening on %s", addr)
    if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
        log.Fatalf("server error: %v", err)
    }
}

func logMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        next.ServeHTTP(w, r)
        dur := time.Since(start)
        log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, dur)
    })
}

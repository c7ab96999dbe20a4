package reconcile

import "time"

// DefaultCheckInterval is how often the monitor polls for staleness.
const DefaultCheckInterval = 5 * time.Second

// Monitor runs the periodic staleness check for the page's whole life.
type Monitor struct {
    Rec      *Reconciler
    Interval time.Duration
    Stop     chan struct{}
}

func NewMonitor(r *Reconciler) *Monitor {
    return &Monitor{Rec: r, Interval: DefaultCheckInterval, Stop: make(chan struct{})}
}

func (m *Monitor) Start() {
    go func() {
        ticker := time.NewTicker(m.Interval)
        defer ticker.Stop()
        for {
            select {
            case <-m.Stop:
                return
            case <-ticker.C:
                m.Rec.CheckStaleness()
            }
        }
    }()
}

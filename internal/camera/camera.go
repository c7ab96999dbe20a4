// Package camera handles the live camera stream: frames are forwarded
// to the display as they arrive, and a fallback timer flips the display
// to the no-signal placeholder after a silent stretch.
package camera

import (
    "sync"
    "time"

    "emsdash/internal/feed"
)

// DefaultTimeout is how long the camera may stay silent before the
// display falls back to no-signal.
const DefaultTimeout = 5 * time.Second

// Display is the camera surface. The production implementation pushes
// frames to attached browser clients.
type Display interface {
    ShowFrame(b64 string)
    ShowNoSignal()
}

type Camera struct {
    mu      sync.Mutex
    display Display
    timeout time.Duration
    timer   *time.Timer // pending no-signal fallback, reset on every frame
    frame   string      // current frame, "" while no-signal
}

func New(display Display, timeout time.Duration) *Camera {
    if timeout <= 0 { timeout = DefaultTimeout }
    c := &Camera{display: display, timeout: timeout}
    display.ShowNoSignal()
    return c
}

// HandleMessage applies one camera-stream item. A raw (non-JSON)
// payload is the frame itself; a structured event must carry one under
// frame/image or it is ignored.
func (c *Camera) HandleMessage(msg feed.CameraMessage) {
    if msg.Raw != "" {
        c.setFrame(msg.Raw)
        return
    }
    if msg.Event == nil { return }
    switch msg.Event.Tag() {
    case feed.TagVideo, feed.TagImageBroadcast:
        b64 := msg.Event.Frame()
        if b64 == "" { return }
        c.setFrame(b64)
    }
}

func (c *Camera) setFrame(b64 string) {
    c.mu.Lock()
    c.frame = b64
    if c.timer != nil {
        c.timer.Stop()
    }
    c.timer = time.AfterFunc(c.timeout, c.noSignal)
    c.mu.Unlock()
    c.display.ShowFrame(b64)
}

func (c *Camera) noSignal() {
    c.mu.Lock()
    c.frame = ""
    c.mu.Unlock()
    c.display.ShowNoSignal()
}

// Frame returns the current frame; ok is false while no-signal.
func (c *Camera) Frame() (string, bool) {
    c.mu.Lock(); defer c.mu.Unlock()
    return c.frame, c.frame != ""
}

// Stop cancels the pending fallback timer.
func (c *Camera) Stop() {
    c.mu.Lock(); defer c.mu.Unlock()
    if c.timer != nil { c.timer.Stop() }
}

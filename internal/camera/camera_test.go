package camera

import (
    "sync"
    "testing"
    "time"

    "emsdash/internal/feed"
)

type recorderDisplay struct {
    mu     sync.Mutex
    frames []string
    noSig  int
}

func (d *recorderDisplay) ShowFrame(b64 string) {
    d.mu.Lock(); defer d.mu.Unlock()
    d.frames = append(d.frames, b64)
}

func (d *recorderDisplay) ShowNoSignal() {
    d.mu.Lock(); defer d.mu.Unlock()
    d.noSig++
}

func (d *recorderDisplay) counts() (int, int) {
    d.mu.Lock(); defer d.mu.Unlock()
    return len(d.frames), d.noSig
}

func TestStartsWithNoSignal(t *testing.T) {
    d := &recorderDisplay{}
    c := New(d, time.Second)
    defer c.Stop()
    if _, n := d.counts(); n != 1 { t.Fatalf("no-signal shown %d times", n) }
    if _, ok := c.Frame(); ok { t.Fatal("no frame yet") }
}

func TestStructuredFrame(t *testing.T) {
    d := &recorderDisplay{}
    c := New(d, time.Second)
    defer c.Stop()

    ev, _ := feed.Decode([]byte(`{"event":"video","frame":"AAAA"}`))
    c.HandleMessage(feed.CameraMessage{Event: ev})
    if f, ok := c.Frame(); !ok || f != "AAAA" { t.Fatalf("frame: %q ok=%v", f, ok) }

    ev, _ = feed.Decode([]byte(`{"event":"image_broadcast_cam1","image":"BBBB"}`))
    c.HandleMessage(feed.CameraMessage{Event: ev})
    if f, _ := c.Frame(); f != "BBBB" { t.Fatalf("frame: %q", f) }
}

func TestEventWithoutFrameIsNoOp(t *testing.T) {
    d := &recorderDisplay{}
    c := New(d, time.Second)
    defer c.Stop()

    ev, _ := feed.Decode([]byte(`{"event":"video"}`))
    c.HandleMessage(feed.CameraMessage{Event: ev})
    if n, _ := d.counts(); n != 0 { t.Fatal("frameless video event must not repaint") }
}

func TestRawPayloadIsTheFrame(t *testing.T) {
    d := &recorderDisplay{}
    c := New(d, time.Second)
    defer c.Stop()

    c.HandleMessage(feed.CameraMessage{Raw: "/9j/rawjpeg"})
    if f, ok := c.Frame(); !ok || f != "/9j/rawjpeg" { t.Fatalf("frame: %q", f) }
}

func TestFallbackTimerFiresAfterSilence(t *testing.T) {
    d := &recorderDisplay{}
    c := New(d, 30*time.Millisecond)
    defer c.Stop()

    c.HandleMessage(feed.CameraMessage{Raw: "frame1"})
    // a fresh frame reschedules the pending timer
    time.Sleep(20 * time.Millisecond)
    c.HandleMessage(feed.CameraMessage{Raw: "frame2"})
    time.Sleep(20 * time.Millisecond)
    if _, ok := c.Frame(); !ok { t.Fatal("timer fired despite fresh frames") }

    time.Sleep(40 * time.Millisecond)
    if _, ok := c.Frame(); ok { t.Fatal("no-signal fallback never fired") }
    if _, n := d.counts(); n < 2 { t.Fatalf("no-signal shown %d times", n) }
}

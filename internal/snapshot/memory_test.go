package snapshot

import (
    "context"
    "testing"
)

func TestMemoryGetSetDel(t *testing.T) {
    s := NewMemory()
    ctx := context.Background()

    if _, err := s.Get(ctx, KeyRoute); err != ErrNotFound {
        t.Fatalf("missing key: want ErrNotFound, got %v", err)
    }
    if err := s.Set(ctx, KeyRoute, []byte(`[1,2]`)); err != nil { t.Fatal(err) }
    v, err := s.Get(ctx, KeyRoute)
    if err != nil || string(v) != `[1,2]` { t.Fatalf("got %q, %v", v, err) }

    // Del removes multiple keys at once and tolerates missing ones
    _ = s.Set(ctx, KeyCrossroads, []byte(`[]`))
    if err := s.Del(ctx, KeyRoute, KeyCrossroads, "never_existed"); err != nil { t.Fatal(err) }
    if _, err := s.Get(ctx, KeyRoute); err != ErrNotFound { t.Fatal("route key not deleted") }
    if _, err := s.Get(ctx, KeyCrossroads); err != ErrNotFound { t.Fatal("crossroads key not deleted") }
}

func TestMemoryCopiesValues(t *testing.T) {
    s := NewMemory()
    ctx := context.Background()
    buf := []byte("abc")
    _ = s.Set(ctx, "k", buf)
    buf[0] = 'z'
    v, _ := s.Get(ctx, "k")
    if string(v) != "abc" { t.Fatalf("stored value aliased caller buffer: %q", v) }
}

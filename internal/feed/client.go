package feed

import (
    "context"
    "log"

    "github.com/gorilla/websocket"
)

// Client reads the upstream push feed over a single WebSocket
// connection. The transport is at-most-once with no reconnect: when the
// connection drops the read loop exits and the dashboard keeps showing
// its last reconciled state until the process is restarted.
type Client struct {
    URL     string
    Adapter *Adapter
}

func NewClient(url string, a *Adapter) *Client {
    return &Client{URL: url, Adapter: a}
}

// Run dials the feed and pumps messages into the adapter until the
// connection or the context ends.
func (c *Client) Run(ctx context.Context) error {
    conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.URL, nil)
    if err != nil {
        return err
    }
    defer func() { _ = conn.Close() }()
    log.Printf("feed: connected to %s", c.URL)

    go func() {
        <-ctx.Done()
        _ = conn.Close()
    }()

    for {
        _, raw, err := conn.ReadMessage()
        if err != nil {
            if ctx.Err() != nil { return ctx.Err() }
            log.Printf("feed: read: %v", err)
            return err
        }
        c.Adapter.Dispatch(raw)
    }
}

package main

import (
    "context"
    "io"
    "log/slog"
    "net"
    "net/http"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestServeDrainsInFlightRequests(t *testing.T) {
    entered := make(chan struct{})
    release := make(chan struct{})
    srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        close(entered)
        <-release
        _, _ = io.WriteString(w, "saved")
    })}
    ln, err := net.Listen("tcp", "127.0.0.1:0")
    require.NoError(t, err)

    ctx, cancel := context.WithCancel(context.Background())
    served := make(chan error, 1)
    go func() { served <- serve(ctx, srv, ln, slog.New(slog.NewTextHandler(io.Discard, nil))) }()

    type result struct {
        body string
        err  error
    }
    resp := make(chan result, 1)
    go func() {
        r, err := http.Post("http://"+ln.Addr().String()+"/api/games", "application/json", nil)
        if err != nil {
            resp <- result{err: err}
            return
        }
        defer r.Body.Close()
        b, err := io.ReadAll(r.Body)
        resp <- result{body: string(b), err: err}
    }()

    <-entered
    cancel()
    select {
    case err := <-served:
        t.Fatalf("serve returned before the request finished: %v", err)
    case <-time.After(50 * time.Millisecond):
    }

    close(release)
    got := <-resp
    require.NoError(t, got.err)
    assert.Equal(t, "saved", got.body)
    select {
    case err := <-served:
        assert.NoError(t, err)
    case <-time.After(5 * time.Second):
        t.Fatal("serve did not return after draining")
    }
}

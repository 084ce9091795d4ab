package main

import (
    "context"
    "errors"
    "flag"
    "fmt"
    "log/slog"
    "net"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/jaminalder/tictactoe-arena/internal/ai"
    "github.com/jaminalder/tictactoe-arena/internal/app"
    "github.com/jaminalder/tictactoe-arena/internal/config"
    "github.com/jaminalder/tictactoe-arena/internal/stats"
    "github.com/jaminalder/tictactoe-arena/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
    cfg, err := config.Load(flag.CommandLine, os.Args[1:], os.Getenv)
    if err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(2)
    }
    logger := cfg.NewLogger(os.Stdout)
    if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
        logger.Error("data dir", "dir", cfg.DataDir, "err", err)
        os.Exit(1)
    }

    // Wire store → statistics → game service → HTTP
    st := stats.NewService(stats.NewFS(cfg.DataDir))
    sel := ai.NewSelector(nil)
    svc := app.NewService(
        app.WithSelector(sel),
        app.WithRecorder(st),
        app.WithAIDelay(cfg.Delay()),
        app.WithLogger(logger),
    )
    h := web.NewServer(svc, st, web.Options{
        Logger:            logger,
        Selector:          sel,
        DefaultDifficulty: cfg.DefaultDifficulty(),
    })

    srv := &http.Server{
        Addr:              cfg.Addr,
        Handler:           h,
        ReadHeaderTimeout: 5 * time.Second,
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    ln, err := net.Listen("tcp", cfg.Addr)
    if err != nil {
        logger.Error("listen", "addr", cfg.Addr, "err", err)
        os.Exit(1)
    }
    logger.Info("listening", "addr", cfg.Addr, "data", cfg.DataDir, "difficulty", cfg.Difficulty, "ai_delay", cfg.Delay())
    if err := serve(ctx, srv, ln, logger); err != nil {
        logger.Error("server error", "err", err)
        os.Exit(1)
    }
    // finish delayed moves and pending recordings
    svc.Wait()
    logger.Info("stopped")
}

// serve runs srv on ln until ctx is done, then returns once in-flight
// requests have drained or the shutdown timeout passed.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *slog.Logger) error {
    drained := make(chan struct{})
    go func() {
        defer close(drained)
        <-ctx.Done()
        shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
        defer cancel()
        if err := srv.Shutdown(shutdownCtx); err != nil {
            logger.Error("shutdown", "err", err)
        }
    }()
    if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
        return err
    }
    <-drained
    return nil
}

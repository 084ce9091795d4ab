package main

import (
    "context"
    "flag"
    "fmt"
    "log/slog"
    "os"
    "os/signal"

    "github.com/jaminalder/tictactoe-arena/internal/ai"
    "github.com/jaminalder/tictactoe-arena/internal/app"
    "github.com/jaminalder/tictactoe-arena/internal/config"
    "github.com/jaminalder/tictactoe-arena/internal/domain"
    "github.com/jaminalder/tictactoe-arena/internal/stats"
    "github.com/jaminalder/tictactoe-arena/internal/termui"
)

func main() {
    modeStr := flag.String("mode", "ai", "ai|pvp")
    name := flag.String("name", stats.DefaultPlayer, "player name used for statistics")
    showStats := flag.Bool("stats", false, "print the player's statistics and exit")
    cfg, err := config.Load(flag.CommandLine, os.Args[1:], os.Getenv)
    if err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(2)
    }
    mode, err := domain.ParseMode(*modeStr)
    if err != nil {
        fmt.Fprintf(os.Stderr, "%v %q\n", err, *modeStr)
        os.Exit(2)
    }
    logger := cfg.NewLogger(os.Stderr)
    ui := termui.NewRenderer(os.Stdout)
    st := stats.NewService(stats.NewFS(cfg.DataDir))

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
    defer stop()

    if *showStats {
        ps, err := st.Stats(ctx, *name)
        if err != nil {
            logger.Error("stats", "player", *name, "err", err)
            os.Exit(1)
        }
        ui.Printf("%s", ui.Stats(ps))
        return
    }

    svc := newGameService(cfg, st, logger)
    opts := app.GameOptions{Mode: mode, Difficulty: cfg.DefaultDifficulty(), PlayerName: *name}
    ui.Printf("Tic Tac Toe (%s). Enter a cell 1-9 or \"row col\", q to quit.\n", mode)
    if err := termui.Run(ctx, svc, opts, os.Stdin, ui); err != nil && ctx.Err() == nil {
        logger.Error("game", "err", err)
    }
    svc.Wait()
}

// newGameService builds the service the terminal loop drives; the computer
// answers after the configured delay.
func newGameService(cfg config.Config, rec app.Recorder, logger *slog.Logger) *app.Service {
    return app.NewService(
        app.WithSelector(ai.NewSelector(nil)),
        app.WithRecorder(rec),
        app.WithAIDelay(cfg.Delay()),
        app.WithLogger(logger),
    )
}

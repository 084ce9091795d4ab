package main

import (
    "io"
    "log/slog"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/jaminalder/tictactoe-arena/internal/app"
    "github.com/jaminalder/tictactoe-arena/internal/config"
    "github.com/jaminalder/tictactoe-arena/internal/domain"
    "github.com/jaminalder/tictactoe-arena/internal/stats"
)

func TestGameServiceHonoursAIDelay(t *testing.T) {
    cfg := config.Default()
    cfg.AIDelay = config.Duration(20 * time.Millisecond)
    svc := newGameService(cfg, stats.NewService(stats.NewMemory()), slog.New(slog.NewTextHandler(io.Discard, nil)))

    gs, err := svc.CreateGame(app.GameOptions{Mode: domain.ModeAI, Difficulty: domain.Easy})
    require.NoError(t, err)
    _, _, err = svc.Join(gs.ID, "terminal")
    require.NoError(t, err)

    after, err := svc.Play(gs.ID, "terminal", 4)
    require.NoError(t, err)
    assert.Equal(t, app.AwaitingAIMove, after.Phase)

    svc.Wait()
    latest, _ := svc.Get(gs.ID)
    assert.Equal(t, app.AwaitingHumanMove, latest.Phase)
    assert.Equal(t, 2, latest.Game.Moves())
}

func TestGameServiceAnswersInlineWithoutDelay(t *testing.T) {
    cfg := config.Default()
    cfg.AIDelay = 0
    svc := newGameService(cfg, stats.NewService(stats.NewMemory()), slog.New(slog.NewTextHandler(io.Discard, nil)))

    gs, _ := svc.CreateGame(app.GameOptions{Mode: domain.ModeAI, Difficulty: domain.Hard})
    svc.Join(gs.ID, "terminal")
    after, err := svc.Play(gs.ID, "terminal", 4)
    require.NoError(t, err)
    assert.Equal(t, 2, after.Game.Moves())
}

package web

import (
    "errors"
    "fmt"
    "io"
    "log/slog"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"

    "github.com/jaminalder/tictactoe-arena/internal/app"
    "github.com/jaminalder/tictactoe-arena/internal/domain"
    "github.com/jaminalder/tictactoe-arena/internal/stats"
)

type handlers struct {
    svc         *app.Service
    stats       StatsService
    selector    app.MoveSelector
    tpl         *templates
    log         *slog.Logger
    defaultDiff domain.Difficulty
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", newBoardView(gs, errMsg))
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(status)
    _, _ = w.Write(body)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    data := struct {
        Difficulties []string
        Default      string
    }{
        Difficulties: []string{domain.Easy.String(), domain.Medium.String(), domain.Hard.String()},
        Default:      h.defaultDiff.String(),
    }
    writeHTML(w, http.StatusOK, renderTemplate(h.tpl.index, "", data))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    _ = r.ParseForm()
    opts := app.GameOptions{Mode: domain.ModeAI, Difficulty: h.defaultDiff, PlayerName: r.Form.Get("name")}
    if v := r.Form.Get("mode"); v != "" {
        m, err := domain.ParseMode(v)
        if err != nil {
            http.Error(w, err.Error(), http.StatusBadRequest)
            return
        }
        opts.Mode = m
    }
    if v := r.Form.Get("difficulty"); v != "" {
        d, err := domain.ParseDifficulty(v)
        if err != nil {
            http.Error(w, err.Error(), http.StatusBadRequest)
            return
        }
        opts.Difficulty = d
    }
    gs, err := h.svc.CreateGame(opts)
    if err != nil {
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    h.log.Info("game created", "game", gs.ID, "mode", gs.Options.Mode.String(), "difficulty", gs.Options.Difficulty.String())
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    // ensure cookie and auto-claim seat
    pid := ensurePlayerCookie(w, r)
    _, _, _ = h.svc.Join(id, pid)

    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    data := struct {
        ID         string
        PlayerName string
        Board      boardView
    }{ID: gs.ID, PlayerName: gs.Options.PlayerName, Board: newBoardView(*gs, "")}
    writeHTML(w, http.StatusOK, renderTemplate(h.tpl.game, "", data))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _, gs, err := h.svc.Join(id, pid)
    if err != nil || gs == nil {
        http.NotFound(w, r)
        return
    }
    writeHTML(w, http.StatusOK, h.renderBoard(*gs, ""))
}

// cellFromForm reads "cell" (0..8) or the row/column pair "r" and "c".
func cellFromForm(r *http.Request) (int, error) {
    _ = r.ParseForm()
    if v := r.Form.Get("cell"); v != "" {
        return strconv.Atoi(v)
    }
    ri, err := strconv.Atoi(r.Form.Get("r"))
    if err != nil {
        return -1, err
    }
    ci, err := strconv.Atoi(r.Form.Get("c"))
    if err != nil {
        return -1, err
    }
    if ri < 0 || ri > 2 || ci < 0 || ci > 2 {
        return -1, domain.ErrOutOfBounds
    }
    return ri*3 + ci, nil
}

func errorMessage(err error) string {
    switch {
    case errors.Is(err, app.ErrAIThinking):
        return "Computer is thinking"
    case errors.Is(err, app.ErrNotYourTurn):
        return "Not your turn"
    case errors.Is(err, app.ErrNotAPlayer):
        return "You are a spectator"
    case errors.Is(err, app.ErrAbandoned):
        return "Computer could not move, game abandoned"
    case errors.Is(err, app.ErrNotFinished):
        return "Game is still running"
    case errors.Is(err, domain.ErrOccupied):
        return "Cell is occupied"
    case errors.Is(err, domain.ErrOutOfBounds):
        return "Out of bounds"
    case errors.Is(err, domain.ErrGameOver):
        return "Game is over"
    default:
        return "Invalid move"
    }
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    var gs *app.GameState
    idx, err := cellFromForm(r)
    if err == nil {
        gs, err = h.svc.Play(id, pid, idx)
    }
    h.respondBoard(w, r, id, gs, err)
}

func (h *handlers) rematch(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    gs, err := h.svc.Rematch(id, pid)
    h.respondBoard(w, r, id, gs, err)
}

// respondBoard renders the board fragment, falling back to the stored state
// with an error line when the action failed.
func (h *handlers) respondBoard(w http.ResponseWriter, r *http.Request, id string, gs *app.GameState, err error) {
    var errMsg string
    if err != nil {
        if gs == nil {
            if g, ok := h.svc.Get(id); ok { gs = g }
        }
        errMsg = errorMessage(err)
    }
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    writeHTML(w, http.StatusOK, h.renderBoard(*gs, errMsg))
}

var heartbeatInterval = 15 * time.Second

// writeEvent emits one SSE event; every payload line gets its own data field.
func writeEvent(w io.Writer, event string, payload []byte) {
    _, _ = fmt.Fprintf(w, "event: %s\n", event)
    for _, line := range strings.Split(strings.TrimRight(string(payload), "\n"), "\n") {
        _, _ = fmt.Fprintf(w, "data: %s\n", line)
    }
    _, _ = io.WriteString(w, "\n")
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    defer unsub()
    // heartbeat ticker
    ticker := time.NewTicker(heartbeatInterval)
    defer ticker.Stop()
    // Initial flush of headers
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case b, ok := <-ch:
            if !ok { return }
            writeEvent(w, "board", b)
            flusher.Flush()
        }
    }
}

func (h *handlers) statsPage(w http.ResponseWriter, r *http.Request) {
    player := chi.URLParam(r, "player")
    view := statsView{Stats: stats.Empty(player), History: []stats.Record{}}
    st, err := h.stats.Stats(r.Context(), player)
    if err == nil {
        view.Stats = st
        view.History, err = h.stats.History(r.Context(), player, 0)
    }
    if err != nil {
        h.log.Warn("stats unavailable", "player", player, "err", err)
        view = statsView{Stats: stats.Empty(player), History: []stats.Record{}, Error: "Statistics are unavailable right now"}
    }
    writeHTML(w, http.StatusOK, renderTemplate(h.tpl.stats, "", view))
}

func (h *handlers) leaderboardPage(w http.ResponseWriter, r *http.Request) {
    view := leaderboardView{}
    players, err := h.stats.Leaderboard(r.Context(), 0)
    if err != nil {
        h.log.Warn("leaderboard unavailable", "err", err)
        view.Error = "Leaderboard is unavailable right now"
    } else {
        view.Players = players
    }
    writeHTML(w, http.StatusOK, renderTemplate(h.tpl.leaderboard, "", view))
}

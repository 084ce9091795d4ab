package web

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    "github.com/jaminalder/tictactoe-arena/internal/ai"
    "github.com/jaminalder/tictactoe-arena/internal/domain"
    "github.com/jaminalder/tictactoe-arena/internal/stats"
)

// StatsService is the statistics backend behind the JSON API and the
// stats pages.
type StatsService interface {
    Submit(ctx context.Context, sub stats.Submission) (stats.Record, error)
    History(ctx context.Context, player string, limit int) ([]stats.Record, error)
    Stats(ctx context.Context, player string) (stats.PlayerStats, error)
    Leaderboard(ctx context.Context, limit int) ([]stats.PlayerStats, error)
    Clear(ctx context.Context, player string) (int, error)
}

type apiError struct {
    Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json; charset=utf-8")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, format string, args ...any) {
    writeJSON(w, status, apiError{Detail: fmt.Sprintf(format, args...)})
}

// queryLimit reads the "limit" query parameter; zero lets the service pick.
func queryLimit(r *http.Request) (int, error) {
    v := r.URL.Query().Get("limit")
    if v == "" {
        return 0, nil
    }
    n, err := strconv.Atoi(v)
    if err != nil || n < 1 {
        return 0, fmt.Errorf("limit must be a positive integer")
    }
    return n, nil
}

func (h *handlers) apiRoot(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]string{"message": "Tic Tac Toe API is running!"})
}

func (h *handlers) apiSaveGame(w http.ResponseWriter, r *http.Request) {
    var sub stats.Submission
    if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
        writeAPIError(w, http.StatusBadRequest, "invalid JSON: %v", err)
        return
    }
    rec, err := h.stats.Submit(r.Context(), sub)
    switch {
    case errors.Is(err, stats.ErrInvalidRecord):
        writeAPIError(w, http.StatusBadRequest, "%v", err)
        return
    case err != nil:
        h.log.Error("save game", "err", err)
        writeAPIError(w, http.StatusInternalServerError, "Error saving game: %v", err)
        return
    }
    writeJSON(w, http.StatusOK, rec)
}

func (h *handlers) apiHistory(w http.ResponseWriter, r *http.Request) {
    limit, err := queryLimit(r)
    if err != nil {
        writeAPIError(w, http.StatusBadRequest, "%v", err)
        return
    }
    games, err := h.stats.History(r.Context(), r.URL.Query().Get("player_name"), limit)
    if err != nil {
        h.log.Error("fetch games", "err", err)
        writeAPIError(w, http.StatusInternalServerError, "Error fetching games: %v", err)
        return
    }
    writeJSON(w, http.StatusOK, games)
}

func (h *handlers) apiStats(w http.ResponseWriter, r *http.Request) {
    st, err := h.stats.Stats(r.Context(), chi.URLParam(r, "player"))
    if err != nil {
        h.log.Error("fetch stats", "err", err)
        writeAPIError(w, http.StatusInternalServerError, "Error fetching stats: %v", err)
        return
    }
    writeJSON(w, http.StatusOK, st)
}

func (h *handlers) apiLeaderboard(w http.ResponseWriter, r *http.Request) {
    limit, err := queryLimit(r)
    if err != nil {
        writeAPIError(w, http.StatusBadRequest, "%v", err)
        return
    }
    players, err := h.stats.Leaderboard(r.Context(), limit)
    if err != nil {
        h.log.Error("fetch leaderboard", "err", err)
        writeAPIError(w, http.StatusInternalServerError, "Error fetching leaderboard: %v", err)
        return
    }
    writeJSON(w, http.StatusOK, players)
}

func (h *handlers) apiClear(w http.ResponseWriter, r *http.Request) {
    player := chi.URLParam(r, "player")
    n, err := h.stats.Clear(r.Context(), player)
    if err != nil {
        h.log.Error("clear history", "player", player, "err", err)
        writeAPIError(w, http.StatusInternalServerError, "Error clearing history: %v", err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Deleted %d games for %s", n, player)})
}

type moveReq struct {
    Board      string `json:"board"`
    Difficulty string `json:"difficulty"`
    Mark       string `json:"mark,omitempty"`
}

type moveResp struct {
    Move    int    `json:"move"`
    Outcome string `json:"outcome"`
}

// apiMove picks a move for a client-held board. The mark defaults to the
// side to move and must match it when given.
func (h *handlers) apiMove(w http.ResponseWriter, r *http.Request) {
    var req moveReq
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeAPIError(w, http.StatusBadRequest, "invalid JSON: %v", err)
        return
    }
    board, err := domain.ParseBoard(req.Board)
    if err != nil {
        writeAPIError(w, http.StatusBadRequest, "%v", err)
        return
    }
    d, err := domain.ParseDifficulty(req.Difficulty)
    if err != nil {
        writeAPIError(w, http.StatusBadRequest, "%v %q", err, req.Difficulty)
        return
    }
    mark, err := board.ToMove()
    if err != nil {
        writeAPIError(w, http.StatusBadRequest, "%v", err)
        return
    }
    if req.Mark != "" {
        m, err := domain.ParseMark(req.Mark)
        if err != nil {
            writeAPIError(w, http.StatusBadRequest, "%v", err)
            return
        }
        if m != mark {
            writeAPIError(w, http.StatusBadRequest, "it is %s's turn, not %s", mark, m)
            return
        }
    }
    idx, err := h.selector.SelectMove(board, d, mark)
    switch {
    case errors.Is(err, ai.ErrNoMoves), errors.Is(err, ai.ErrGameOver):
        writeAPIError(w, http.StatusConflict, "%v", err)
        return
    case err != nil:
        writeAPIError(w, http.StatusBadRequest, "%v", err)
        return
    }
    writeJSON(w, http.StatusOK, moveResp{Move: idx, Outcome: domain.Evaluate(board.With(idx, mark)).String()})
}

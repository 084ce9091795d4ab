package web

import (
    "io"
    "log/slog"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/go-chi/cors"

    "github.com/jaminalder/tictactoe-arena/internal/ai"
    "github.com/jaminalder/tictactoe-arena/internal/app"
    "github.com/jaminalder/tictactoe-arena/internal/domain"
)

// Options tune the HTTP surface. Zero values pick defaults.
type Options struct {
    Logger            *slog.Logger
    Selector          app.MoveSelector
    DefaultDifficulty domain.Difficulty
}

// requestLogger logs method, path, status, bytes, and duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            start := time.Now()
            ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
            next.ServeHTTP(ww, r)
            logger.Info("http",
                "method", r.Method,
                "path", r.URL.Path,
                "status", ww.Status(),
                "bytes", ww.BytesWritten(),
                "dur", time.Since(start).Round(time.Millisecond),
                "req", middleware.GetReqID(r.Context()),
            )
        })
    }
}

// NewServer wires routes and returns an http.Handler. Board changes of s
// are pushed to event-stream subscribers as rendered fragments.
func NewServer(s *app.Service, st StatsService, opts Options) http.Handler {
    if opts.Logger == nil {
        opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
    }
    if opts.Selector == nil {
        opts.Selector = ai.NewSelector(nil)
    }
    if opts.DefaultDifficulty == 0 {
        opts.DefaultDifficulty = domain.Medium
    }
    h := &handlers{
        svc:         s,
        stats:       st,
        selector:    opts.Selector,
        tpl:         loadTemplates(),
        log:         opts.Logger,
        defaultDiff: opts.DefaultDifficulty,
    }
    s.SetRenderer(func(gs app.GameState) []byte { return h.renderBoard(gs, "") })

    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(requestLogger(opts.Logger))
    r.Use(middleware.Recoverer)

    r.Get("/", h.index)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/join", h.join)
        r.Post("/play", h.play)
        r.Post("/rematch", h.rematch)
        r.Get("/events", h.events)
    })
    r.Get("/stats/{player}", h.statsPage)
    r.Get("/leaderboard", h.leaderboardPage)

    r.Route("/api", func(r chi.Router) {
        r.Use(cors.Handler(cors.Options{
            AllowedOrigins: []string{"*"},
            AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
            AllowedHeaders: []string{"*"},
        }))
        r.Get("/", h.apiRoot)
        r.Post("/games", h.apiSaveGame)
        r.Get("/games", h.apiHistory)
        r.Delete("/games/{player}", h.apiClear)
        r.Get("/stats/{player}", h.apiStats)
        r.Get("/leaderboard", h.apiLeaderboard)
        r.Post("/move", h.apiMove)
    })
    return r
}

package app

import (
    "context"
    "errors"
    "fmt"
    "io"
    "log/slog"
    "strings"
    "sync"
    "time"

    "github.com/google/uuid"

    "github.com/jaminalder/tictactoe-arena/internal/ai"
    "github.com/jaminalder/tictactoe-arena/internal/domain"
    "github.com/jaminalder/tictactoe-arena/internal/stats"
)

// Errors exposed by the service layer.
var (
    ErrNotFound    = errors.New("game not found")
    ErrNotYourTurn = errors.New("not your turn")
    ErrNotAPlayer  = errors.New("not a player")
    ErrAIThinking  = fmt.Errorf("%w: computer is thinking", ErrNotYourTurn)
    ErrNotFinished = errors.New("game still in progress")
    ErrAbandoned   = errors.New("computer could not move, game abandoned")
)

// Marks used in games against the computer.
const (
    HumanMark = domain.X
    AIMark    = domain.O
)

// Phase is where a game stands in its turn cycle.
type Phase uint8

const (
    AwaitingHumanMove Phase = iota
    AwaitingAIMove
    Terminal
)

func (p Phase) String() string {
    switch p {
    case AwaitingAIMove:
        return "awaiting-ai"
    case Terminal:
        return "terminal"
    default:
        return "awaiting-human"
    }
}

// GameOptions are fixed when a game is created and survive rematches.
type GameOptions struct {
    Mode       domain.Mode
    Difficulty domain.Difficulty
    PlayerName string
}

// GameState is the in-memory state tracked per game.
type GameState struct {
    ID      string
    Options GameOptions
    Game    domain.Game
    Phase   Phase
    Owner   string
    Created time.Time
    Updated time.Time
    Started time.Time
}

// Status is the one-line description of the game shown to players.
func (gs GameState) Status() string {
    vsAI := gs.Options.Mode == domain.ModeAI
    switch gs.Phase {
    case AwaitingAIMove:
        return "Computer is thinking..."
    case Terminal:
        switch gs.Game.Outcome {
        case domain.InProgress:
            return "Game abandoned"
        case domain.Draw:
            return "Draw"
        case domain.WinX:
            if vsAI {
                return "You win!"
            }
        case domain.WinO:
            if vsAI {
                return "Computer wins"
            }
        }
        return gs.Game.Winner().String() + " wins"
    default:
        if vsAI {
            return "Your move (X)"
        }
        return gs.Game.Turn.String() + " to move"
    }
}

// MoveSelector picks the computer's move.
type MoveSelector interface {
    SelectMove(b domain.Board, d domain.Difficulty, mark domain.Cell) (int, error)
}

// Recorder receives finished games.
type Recorder interface {
    Record(ctx context.Context, sub stats.Submission) error
}

// subscriberBuffer lets a reader fall a few events behind (a human move and
// the computer's reply arrive back to back) before it counts as slow.
const subscriberBuffer = 4

type subscriber struct {
    ch        chan []byte
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games and subscribers.
type Service struct {
    mu     sync.Mutex
    games  map[string]*GameState
    subs   map[string]map[*subscriber]struct{}
    render func(GameState) []byte

    selector      MoveSelector
    recorder      Recorder
    aiDelay       time.Duration
    recordTimeout time.Duration
    log           *slog.Logger
    now           func() time.Time
    pending       sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithRenderer sets the function that encodes broadcast payloads.
func WithRenderer(renderer func(GameState) []byte) Option {
    return func(s *Service) { s.SetRenderer(renderer) }
}

// WithSelector replaces the computer opponent.
func WithSelector(sel MoveSelector) Option {
    return func(s *Service) { s.selector = sel }
}

// WithRecorder sets where finished games are reported.
func WithRecorder(r Recorder) Option {
    return func(s *Service) { s.recorder = r }
}

// WithAIDelay holds the computer's reply back for d before it is applied.
// Zero applies it within the human's Play call.
func WithAIDelay(d time.Duration) Option {
    return func(s *Service) { s.aiDelay = d }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
    return func(s *Service) {
        if l != nil {
            s.log = l
        }
    }
}

// NewService creates a service. Without options the computer plays with a
// clock-seeded selector, games are not recorded and broadcasts are empty.
func NewService(opts ...Option) *Service {
    s := &Service{
        games:         make(map[string]*GameState),
        subs:          make(map[string]map[*subscriber]struct{}),
        render:        func(gs GameState) []byte { return nil },
        selector:      ai.NewSelector(nil),
        recordTimeout: 5 * time.Second,
        log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
        now:           time.Now,
    }
    for _, opt := range opts {
        opt(s)
    }
    return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if renderer == nil {
        s.render = func(gs GameState) []byte { return nil }
        return
    }
    s.render = renderer
}

// Wait blocks until delayed computer moves and game recordings are done.
func (s *Service) Wait() { s.pending.Wait() }

// CreateGame creates and registers a new game.
func (s *Service) CreateGame(opts GameOptions) (*GameState, error) {
    opts.PlayerName = strings.TrimSpace(opts.PlayerName)
    if opts.PlayerName == "" {
        opts.PlayerName = stats.DefaultPlayer
    }
    switch opts.Mode {
    case domain.ModePvP:
        opts.Difficulty = 0
    case domain.ModeAI:
        if opts.Difficulty == 0 {
            opts.Difficulty = domain.Medium
        }
        if opts.Difficulty.String() == "" {
            return nil, domain.ErrUnknownDifficulty
        }
    default:
        return nil, domain.ErrUnknownMode
    }

    s.mu.Lock()
    defer s.mu.Unlock()
    id := uuid.NewString()
    now := s.now()
    gs := &GameState{ID: id, Options: opts, Game: domain.New(), Created: now, Updated: now, Started: now}
    s.games[id] = gs
    cp := *gs
    return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return nil, false
    }
    cp := *gs
    return &cp, true
}

// Join makes the first caller the owner of the game. The owner plays X
// against the computer, or both marks in a hot-seat game. It returns the
// mark the caller moves next, Empty for spectators.
func (s *Service) Join(id, playerID string) (domain.Cell, *GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return domain.Empty, nil, ErrNotFound
    }
    side := domain.Empty
    if gs.Owner == "" || gs.Owner == playerID {
        gs.Owner = playerID
        side = HumanMark
        if gs.Options.Mode == domain.ModePvP {
            side = gs.Game.Turn
        }
        gs.Updated = s.now()
    }
    cp := *gs
    return side, &cp, nil
}

// Play applies the owner's move at cell idx and broadcasts it. Against the
// computer the reply follows, inline or after the configured delay.
func (s *Service) Play(id, playerID string, idx int) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if gs.Owner == "" || gs.Owner != playerID {
        s.mu.Unlock()
        return nil, ErrNotAPlayer
    }
    switch gs.Phase {
    case AwaitingAIMove:
        s.mu.Unlock()
        return nil, ErrAIThinking
    case Terminal:
        s.mu.Unlock()
        return nil, domain.ErrGameOver
    }
    if gs.Options.Mode == domain.ModeAI && gs.Game.Turn != HumanMark {
        s.mu.Unlock()
        return nil, ErrNotYourTurn
    }
    if err := gs.Game.Play(idx); err != nil {
        s.mu.Unlock()
        return nil, err
    }
    s.advanceLocked(gs)
    cp := s.publishLocked(gs)
    s.mu.Unlock()

    if cp.Phase != AwaitingAIMove {
        return &cp, nil
    }
    if s.aiDelay <= 0 {
        return s.aiMove(id)
    }
    s.pending.Add(1)
    time.AfterFunc(s.aiDelay, func() {
        defer s.pending.Done()
        _, _ = s.aiMove(id)
    })
    return &cp, nil
}

// aiMove plays the computer's turn. Nothing else leaves AwaitingAIMove, so
// the board cannot change while the selector runs unlocked.
func (s *Service) aiMove(id string) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if gs.Phase != AwaitingAIMove {
        cp := *gs
        s.mu.Unlock()
        return &cp, nil
    }
    board, difficulty := gs.Game.Board, gs.Options.Difficulty
    s.mu.Unlock()

    start := time.Now()
    idx, err := s.selector.SelectMove(board, difficulty, AIMark)
    if err != nil {
        return s.abandon(gs, fmt.Errorf("select move: %w", err))
    }
    s.log.Debug("ai move", "game", id, "cell", idx, "difficulty", difficulty.String(), "took", time.Since(start))

    s.mu.Lock()
    if err := gs.Game.Play(idx); err != nil {
        s.mu.Unlock()
        return s.abandon(gs, fmt.Errorf("apply ai move %d: %w", idx, err))
    }
    s.advanceLocked(gs)
    cp := s.publishLocked(gs)
    s.mu.Unlock()
    return &cp, nil
}

// abandon ends a game whose computer move failed so the owner can start a
// rematch. The game is not recorded.
func (s *Service) abandon(gs *GameState, cause error) (*GameState, error) {
    s.mu.Lock()
    gs.Phase = Terminal
    gs.Updated = s.now()
    cp := s.publishLocked(gs)
    s.mu.Unlock()
    s.log.Error("ai move failed, game abandoned", "game", gs.ID, "err", cause)
    return &cp, fmt.Errorf("%w: %v", ErrAbandoned, cause)
}

// Rematch clears the board of a finished game for its owner.
func (s *Service) Rematch(id, playerID string) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if gs.Owner == "" || gs.Owner != playerID {
        s.mu.Unlock()
        return nil, ErrNotAPlayer
    }
    if gs.Phase != Terminal {
        s.mu.Unlock()
        return nil, ErrNotFinished
    }
    now := s.now()
    gs.Game = domain.New()
    gs.Phase = AwaitingHumanMove
    gs.Started = now
    gs.Updated = now
    cp := s.publishLocked(gs)
    s.mu.Unlock()
    return &cp, nil
}

// advanceLocked moves the phase on after a mark was placed.
func (s *Service) advanceLocked(gs *GameState) {
    gs.Updated = s.now()
    switch {
    case gs.Game.Over():
        gs.Phase = Terminal
        s.recordLocked(gs)
    case gs.Options.Mode == domain.ModeAI && gs.Game.Turn == AIMark:
        gs.Phase = AwaitingAIMove
    default:
        gs.Phase = AwaitingHumanMove
    }
}

// recordLocked reports a finished game in the background. Failures are
// logged and otherwise ignored.
func (s *Service) recordLocked(gs *GameState) {
    if s.recorder == nil {
        return
    }
    id := gs.ID
    sub := stats.Submission{
        PlayerName: gs.Options.PlayerName,
        Mode:       gs.Options.Mode.String(),
        Difficulty: gs.Options.Difficulty.String(),
        Winner:     gs.Game.Outcome.String(),
        Moves:      append([]int(nil), gs.Game.History...),
        Duration:   int(gs.Updated.Sub(gs.Started) / time.Second),
    }
    s.pending.Add(1)
    go func() {
        defer s.pending.Done()
        ctx, cancel := context.WithTimeout(context.Background(), s.recordTimeout)
        defer cancel()
        if err := s.recorder.Record(ctx, sub); err != nil {
            s.log.Warn("record game failed", "game", id, "err", err)
            return
        }
        s.log.Info("game recorded", "game", id, "player", sub.PlayerName, "winner", sub.Winner)
    }()
}

// publishLocked snapshots gs and fans the rendered board out while s.mu is
// held, so no subscriber can be closed by unsubscribe mid-send. Sends never
// block; a subscriber with a full buffer is closed and dropped.
func (s *Service) publishLocked(gs *GameState) GameState {
    cp := *gs
    set := s.subs[gs.ID]
    if len(set) == 0 {
        return cp
    }
    payload := s.render(cp)
    for sub := range set {
        select {
        case sub.ch <- payload:
        default:
            delete(set, sub)
            sub.close()
        }
    }
    return cp
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        return nil, func() {}, ErrNotFound
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan []byte, subscriberBuffer)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub, nil
}

package ai

import (
    "errors"
    "fmt"
    "math/rand"
    "sync"
    "time"

    "github.com/jaminalder/tictactoe-arena/internal/domain"
)

// Errors returned when the selector is asked to move in an invalid position.
var (
    ErrNoMoves     = errors.New("no empty cells left")
    ErrGameOver    = errors.New("position is already decided")
    ErrInvalidMark = errors.New("acting mark must be X or O")
)

// Strategy picks a cell for mark. Callers guarantee the board is still in
// progress and has at least one empty cell.
type Strategy interface {
    Choose(b domain.Board, mark domain.Cell) int
}

// Intn is the randomness the Easy and Medium tiers draw from.
type Intn interface {
    Intn(n int) int
}

// lockedRand serializes access to a *rand.Rand shared by concurrent games.
type lockedRand struct {
    mu  sync.Mutex
    rng *rand.Rand
}

func (r *lockedRand) Intn(n int) int {
    r.mu.Lock()
    defer r.mu.Unlock()
    return r.rng.Intn(n)
}

// NewStrategy returns the strategy for a difficulty tier.
func NewStrategy(d domain.Difficulty, rng Intn) (Strategy, error) {
    switch d {
    case domain.Easy:
        return Random{rng: rng}, nil
    case domain.Medium:
        return Heuristic{rng: rng}, nil
    case domain.Hard:
        return Minimax{}, nil
    default:
        return nil, fmt.Errorf("%w: %d", domain.ErrUnknownDifficulty, d)
    }
}

// Selector chooses the computer opponent's moves. It is safe for concurrent
// use.
type Selector struct {
    rng Intn
}

// NewSelector builds a Selector drawing from rng, or from a time-seeded
// source when rng is nil.
func NewSelector(rng *rand.Rand) *Selector {
    if rng == nil {
        rng = rand.New(rand.NewSource(time.Now().UnixNano()))
    }
    return &Selector{rng: &lockedRand{rng: rng}}
}

// SelectMove returns the cell the acting mark plays on b at difficulty d.
func (s *Selector) SelectMove(b domain.Board, d domain.Difficulty, mark domain.Cell) (int, error) {
    if mark != domain.X && mark != domain.O {
        return -1, ErrInvalidMark
    }
    if domain.Evaluate(b).Terminal() {
        if len(b.Empties()) == 0 {
            return -1, ErrNoMoves
        }
        return -1, ErrGameOver
    }
    st, err := NewStrategy(d, s.rng)
    if err != nil {
        return -1, err
    }
    return st.Choose(b, mark), nil
}

// SelectMove uses a package-level Selector seeded from the clock.
func SelectMove(b domain.Board, d domain.Difficulty, mark domain.Cell) (int, error) {
    return defaultSelector.SelectMove(b, d, mark)
}

var defaultSelector = NewSelector(nil)

package ai

import (
    "math"

    "github.com/jaminalder/tictactoe-arena/internal/domain"
)

var corners = [4]int{0, 2, 6, 8}

const center = 4

// Random plays any empty cell with equal probability.
type Random struct {
    rng Intn
}

func (r Random) Choose(b domain.Board, _ domain.Cell) int {
    empties := b.Empties()
    return empties[r.rng.Intn(len(empties))]
}

// Heuristic wins when it can, blocks when it must, and otherwise prefers
// the center, then corners.
type Heuristic struct {
    rng Intn
}

func (h Heuristic) Choose(b domain.Board, mark domain.Cell) int {
    empties := b.Empties()
    if idx, ok := completingMove(b, empties, mark); ok {
        return idx
    }
    if idx, ok := completingMove(b, empties, mark.Opponent()); ok {
        return idx
    }
    if b[center] == domain.Empty {
        return center
    }
    free := make([]int, 0, len(corners))
    for _, c := range corners {
        if b[c] == domain.Empty {
            free = append(free, c)
        }
    }
    if len(free) > 0 {
        return free[h.rng.Intn(len(free))]
    }
    return empties[h.rng.Intn(len(empties))]
}

// completingMove finds the first empty cell that wins the game for mark.
func completingMove(b domain.Board, empties []int, mark domain.Cell) (int, bool) {
    want := domain.WinFor(mark)
    for _, idx := range empties {
        if domain.Evaluate(b.With(idx, mark)) == want {
            return idx, true
        }
    }
    return -1, false
}

// Minimax searches the whole remaining game tree. The acting mark
// maximizes, its opponent minimizes. Faster wins and slower losses score
// better.
type Minimax struct{}

func (Minimax) Choose(b domain.Board, mark domain.Cell) int {
    best, bestScore := -1, math.MinInt
    for _, idx := range b.Empties() {
        score := minimax(b.With(idx, mark), 0, mark.Opponent(), mark)
        // Strictly greater keeps the lowest index among equal scores.
        if score > bestScore {
            best, bestScore = idx, score
        }
    }
    return best
}

func minimax(b domain.Board, depth int, toMove, self domain.Cell) int {
    switch domain.Evaluate(b) {
    case domain.WinFor(self):
        return 10 - depth
    case domain.WinFor(self.Opponent()):
        return depth - 10
    case domain.Draw:
        return 0
    }

    maximizing := toMove == self
    best := math.MaxInt
    if maximizing {
        best = math.MinInt
    }
    for i, c := range b {
        if c != domain.Empty {
            continue
        }
        v := minimax(b.With(i, toMove), depth+1, toMove.Opponent(), self)
        if maximizing && v > best || !maximizing && v < best {
            best = v
        }
    }
    return best
}

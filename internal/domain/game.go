package domain

import (
    "errors"
    "strings"
)

// Cell represents a board cell state.
type Cell uint8

const (
    Empty Cell = iota
    X
    O
)

// Opponent returns the other mark. Empty has no opponent.
func (c Cell) Opponent() Cell {
    switch c {
    case X:
        return O
    case O:
        return X
    default:
        return Empty
    }
}

func (c Cell) String() string {
    switch c {
    case X:
        return "X"
    case O:
        return "O"
    default:
        return ""
    }
}

// ParseMark parses "X" or "O" (any case).
func ParseMark(s string) (Cell, error) {
    switch strings.ToUpper(strings.TrimSpace(s)) {
    case "X":
        return X, nil
    case "O":
        return O, nil
    }
    return Empty, ErrUnknownMark
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Lines holds the winning index triples: rows, then columns, then diagonals.
var Lines = [8][3]int{
    // rows
    {0, 1, 2}, {3, 4, 5}, {6, 7, 8},
    // cols
    {0, 3, 6}, {1, 4, 7}, {2, 5, 8},
    // diags
    {0, 4, 8}, {2, 4, 6},
}

// ParseBoard reads nine characters, X and O for marks and '-', '.', '_' or
// ' ' for empty cells.
func ParseBoard(s string) (Board, error) {
    var b Board
    if len(s) != len(b) {
        return b, ErrBadBoard
    }
    for i := 0; i < len(s); i++ {
        switch s[i] {
        case 'X', 'x':
            b[i] = X
        case 'O', 'o':
            b[i] = O
        case '-', '.', '_', ' ':
            b[i] = Empty
        default:
            return Board{}, ErrBadBoard
        }
    }
    return b, nil
}

// String renders the board in the ParseBoard format with '-' for empty cells.
func (b Board) String() string {
    var sb strings.Builder
    for _, c := range b {
        if c == Empty {
            sb.WriteByte('-')
            continue
        }
        sb.WriteString(c.String())
    }
    return sb.String()
}

// Empties lists the empty cell indices in increasing order.
func (b Board) Empties() []int {
    out := make([]int, 0, len(b))
    for i, c := range b {
        if c == Empty {
            out = append(out, i)
        }
    }
    return out
}

// With returns a copy of b with idx set to mark. b is left untouched.
func (b Board) With(idx int, mark Cell) Board {
    b[idx] = mark
    return b
}

// Count returns how many cells hold mark.
func (b Board) Count(mark Cell) int {
    n := 0
    for _, c := range b {
        if c == mark {
            n++
        }
    }
    return n
}

// ToMove returns the mark whose turn it is. X moves first, so X holds as
// many marks as O or exactly one more; any other count is ErrBadCounts.
func (b Board) ToMove() (Cell, error) {
    switch x, o := b.Count(X), b.Count(O); x - o {
    case 0:
        return X, nil
    case 1:
        return O, nil
    }
    return Empty, ErrBadCounts
}

// WinningLine returns the first complete line in table order.
func (b Board) WinningLine() ([3]int, bool) {
    for _, ln := range Lines {
        if b[ln[0]] != Empty && b[ln[0]] == b[ln[1]] && b[ln[1]] == b[ln[2]] {
            return ln, true
        }
    }
    return [3]int{}, false
}

// Game holds the current state of a Tic-Tac-Toe match.
type Game struct {
    Board   Board
    Turn    Cell
    Outcome Outcome
    History []int
}

// Errors returned by domain operations.
var (
    ErrOutOfBounds       = errors.New("out of bounds")
    ErrOccupied          = errors.New("cell occupied")
    ErrGameOver          = errors.New("game over")
    ErrBadBoard          = errors.New("board must be 9 cells of X, O or -")
    ErrUnknownMark       = errors.New("mark must be X or O")
    ErrBadCounts         = errors.New("X must hold as many marks as O or one more")
    ErrUnknownMode       = errors.New("unknown game mode")
    ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// New returns a new game with X to move.
func New() Game {
    return Game{Turn: X}
}

// Over reports whether the game reached a terminal outcome.
func (g *Game) Over() bool { return g.Outcome.Terminal() }

// Moves is the number of marks placed so far.
func (g *Game) Moves() int { return len(g.History) }

// Winner is the winning mark, Empty for draws and running games.
func (g *Game) Winner() Cell { return g.Outcome.Winner() }

// PlayAt plays the current turn at row r, column c (0..2).
func (g *Game) PlayAt(r, c int) error {
    if r < 0 || r > 2 || c < 0 || c > 2 {
        return ErrOutOfBounds
    }
    return g.Play(r*3 + c)
}

// Play places the current turn's mark at idx and flips the turn unless the
// move ended the game.
func (g *Game) Play(idx int) error {
    if g.Over() {
        return ErrGameOver
    }
    if idx < 0 || idx >= len(g.Board) {
        return ErrOutOfBounds
    }
    if g.Board[idx] != Empty {
        return ErrOccupied
    }

    // Copies of a Game never share history with the one being played.
    g.Board = g.Board.With(idx, g.Turn)
    g.History = append(g.History[:len(g.History):len(g.History)], idx)

    g.Outcome = Evaluate(g.Board)
    if g.Outcome.Terminal() {
        return nil
    }
    g.Turn = g.Turn.Opponent()
    return nil
}

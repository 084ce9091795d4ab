package domain

// Outcome classifies a board. It is always derived from the board, never
// stored on its own.
type Outcome uint8

const (
    InProgress Outcome = iota
    WinX
    WinO
    Draw
)

// Evaluate checks the 8 lines in table order and returns the win for the
// first complete one, Draw for a full board, InProgress otherwise.
func Evaluate(b Board) Outcome {
    if ln, ok := b.WinningLine(); ok {
        return WinFor(b[ln[0]])
    }
    for _, c := range b {
        if c == Empty {
            return InProgress
        }
    }
    return Draw
}

// WinFor maps a mark to its winning outcome.
func WinFor(mark Cell) Outcome {
    switch mark {
    case X:
        return WinX
    case O:
        return WinO
    default:
        return InProgress
    }
}

// Terminal is true for wins and draws.
func (o Outcome) Terminal() bool { return o != InProgress }

// Winner returns the winning mark or Empty.
func (o Outcome) Winner() Cell {
    switch o {
    case WinX:
        return X
    case WinO:
        return O
    default:
        return Empty
    }
}

// String uses the result vocabulary of stored game records: "X", "O" or
// "draw". Running games render as "".
func (o Outcome) String() string {
    switch o {
    case WinX:
        return "X"
    case WinO:
        return "O"
    case Draw:
        return "draw"
    default:
        return ""
    }
}

package termui

import (
    "fmt"
    "io"
    "strconv"
    "strings"

    "github.com/muesli/termenv"

    "github.com/jaminalder/tictactoe-arena/internal/domain"
    "github.com/jaminalder/tictactoe-arena/internal/stats"
)

// Mark colours, ANSI 256 palette.
const (
    colorX = "203"
    colorO = "75"
)

// Renderer draws boards and statistics for a terminal.
type Renderer struct {
    out *termenv.Output
}

// NewRenderer writes to w. The colour profile is detected from w unless
// an option fixes it.
func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
    return &Renderer{out: termenv.NewOutput(w, opts...)}
}

// Printf writes formatted text to the terminal.
func (r *Renderer) Printf(format string, args ...any) {
    _, _ = fmt.Fprintf(r.out, format, args...)
}

func (r *Renderer) mark(c domain.Cell, win bool) string {
    s := r.out.String(c.String())
    switch c {
    case domain.X:
        s = s.Foreground(r.out.Color(colorX))
    case domain.O:
        s = s.Foreground(r.out.Color(colorO))
    }
    if win {
        s = s.Bold().Underline()
    }
    return s.String()
}

// Board draws b as three rows. Empty cells show their 1-based number and
// the cells of a winning line are bracketed.
func (r *Renderer) Board(b domain.Board) string {
    var win [9]bool
    if line, ok := b.WinningLine(); ok {
        for _, i := range line {
            win[i] = true
        }
    }
    var sb strings.Builder
    for row := 0; row < 3; row++ {
        if row > 0 {
            sb.WriteString("---+---+---\n")
        }
        for col := 0; col < 3; col++ {
            i := row*3 + col
            if col > 0 {
                sb.WriteByte('|')
            }
            switch {
            case b[i] == domain.Empty:
                sb.WriteString(" " + r.out.String(strconv.Itoa(i+1)).Faint().String() + " ")
            case win[i]:
                sb.WriteString("[" + r.mark(b[i], true) + "]")
            default:
                sb.WriteString(" " + r.mark(b[i], false) + " ")
            }
        }
        sb.WriteByte('\n')
    }
    return sb.String()
}

// Stats summarises a player's record in two lines.
func (r *Renderer) Stats(st stats.PlayerStats) string {
    name := r.out.String(st.PlayerName).Bold().String()
    if st.TotalGames == 0 {
        return fmt.Sprintf("%s has no finished games yet.\n", name)
    }
    return fmt.Sprintf("%s: %d games, %d wins, %d losses, %d draws (%.1f%% won)\n"+
        "favorite mode %s, average game %.1fs, total %ds\n",
        name, st.TotalGames, st.Wins, st.Losses, st.Draws, st.WinRate,
        st.FavoriteMode, st.AverageGameDuration, st.TotalPlayTime)
}

package termui

import (
    "bufio"
    "context"
    "errors"
    "fmt"
    "io"
    "strconv"
    "strings"

    "github.com/jaminalder/tictactoe-arena/internal/app"
    "github.com/jaminalder/tictactoe-arena/internal/domain"
)

// LocalPlayer is the seat id of whoever sits at the terminal.
const LocalPlayer = "terminal"

var errQuit = errors.New("quit")

// ParseCell reads "1".."9" or a 1-based "row col" pair into a board index.
func ParseCell(s string) (int, error) {
    fields := strings.Fields(s)
    switch len(fields) {
    case 1:
        n, err := strconv.Atoi(fields[0])
        if err != nil {
            return -1, fmt.Errorf("not a cell: %q", fields[0])
        }
        if n < 1 || n > 9 {
            return -1, domain.ErrOutOfBounds
        }
        return n - 1, nil
    case 2:
        r, err1 := strconv.Atoi(fields[0])
        c, err2 := strconv.Atoi(fields[1])
        if err1 != nil || err2 != nil {
            return -1, fmt.Errorf("not a row and column: %q", s)
        }
        if r < 1 || r > 3 || c < 1 || c > 3 {
            return -1, domain.ErrOutOfBounds
        }
        return (r-1)*3 + c - 1, nil
    }
    return -1, fmt.Errorf("enter a cell 1-9 or a row and column")
}

// Run plays games on svc from the terminal until the input ends, the
// player quits or declines a rematch.
func Run(ctx context.Context, svc *app.Service, opts app.GameOptions, in io.Reader, r *Renderer) error {
    gs, err := svc.CreateGame(opts)
    if err != nil {
        return err
    }
    if _, gs, err = svc.Join(gs.ID, LocalPlayer); err != nil {
        return err
    }
    lines := bufio.NewScanner(in)
    for {
        if gs.Phase == app.AwaitingAIMove {
            r.Printf("%s\n", gs.Status())
            if gs, err = awaitComputer(ctx, svc, gs.ID); err != nil {
                return err
            }
        }
        r.Printf("\n%s%s\n", r.Board(gs.Game.Board), gs.Status())

        if gs.Phase == app.Terminal {
            r.Printf("Play again? [y/N] ")
            answer, err := readLine(ctx, lines)
            if err != nil || !strings.HasPrefix(strings.ToLower(answer), "y") {
                return ignoreQuit(err)
            }
            if gs, err = svc.Rematch(gs.ID, LocalPlayer); err != nil {
                return err
            }
            continue
        }

        r.Printf("%s> ", gs.Game.Turn)
        line, err := readLine(ctx, lines)
        if err != nil {
            return ignoreQuit(err)
        }
        if q := strings.ToLower(line); q == "q" || q == "quit" {
            return nil
        }
        idx, err := ParseCell(line)
        if err == nil {
            var next *app.GameState
            next, err = svc.Play(gs.ID, LocalPlayer, idx)
            if next != nil {
                gs = next
            }
            if err == nil {
                continue
            }
        }
        r.Printf("%s\n", moveError(err))
    }
}

func readLine(ctx context.Context, s *bufio.Scanner) (string, error) {
    if err := ctx.Err(); err != nil {
        return "", err
    }
    if !s.Scan() {
        if err := s.Err(); err != nil {
            return "", err
        }
        return "", errQuit
    }
    return strings.TrimSpace(s.Text()), nil
}

func ignoreQuit(err error) error {
    if errors.Is(err, errQuit) {
        return nil
    }
    return err
}

func moveError(err error) string {
    switch {
    case errors.Is(err, domain.ErrOccupied):
        return "That cell is taken."
    case errors.Is(err, domain.ErrOutOfBounds):
        return "Pick a cell from 1 to 9."
    case errors.Is(err, app.ErrAIThinking):
        return "The computer is still thinking."
    default:
        return err.Error()
    }
}

// awaitComputer blocks until the delayed computer move of game id landed.
func awaitComputer(ctx context.Context, svc *app.Service, id string) (*app.GameState, error) {
    ctx, cancel := context.WithCancel(ctx)
    defer cancel()
    updates, unsub, err := svc.Subscribe(ctx, id)
    if err != nil {
        return nil, err
    }
    defer unsub()
    for {
        gs, ok := svc.Get(id)
        if !ok {
            return nil, app.ErrNotFound
        }
        if gs.Phase != app.AwaitingAIMove {
            return gs, nil
        }
        select {
        case <-ctx.Done():
            return nil, ctx.Err()
        case _, ok := <-updates:
            if !ok {
                return nil, errors.New("update stream closed")
            }
        }
    }
}

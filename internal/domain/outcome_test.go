package domain

import "testing"

func TestEvaluateEveryLine(t *testing.T) {
    for _, mark := range []Cell{X, O} {
        for _, ln := range Lines {
            var b Board
            for _, i := range ln {
                b[i] = mark
            }
            if got := Evaluate(b); got != WinFor(mark) {
                t.Fatalf("line %v of %v: got %v", ln, mark, got)
            }
        }
    }
}

func TestEvaluateWinWithEmptiesLeft(t *testing.T) {
    // O completes the middle column while cells remain empty.
    b := Board{
        X, O, X,
        Empty, O, Empty,
        X, O, Empty,
    }
    if got := Evaluate(b); got != WinO {
        t.Fatalf("expected WinO, got %v", got)
    }
}

func TestEvaluateWinOnFullBoard(t *testing.T) {
    b := Board{
        X, O, X,
        O, X, O,
        O, X, X,
    }
    if got := Evaluate(b); got != WinX {
        t.Fatalf("expected WinX, got %v", got)
    }
}

func TestEvaluateDraw(t *testing.T) {
    b := Board{
        X, O, X,
        X, O, O,
        O, X, X,
    }
    if got := Evaluate(b); got != Draw {
        t.Fatalf("expected Draw, got %v", got)
    }
}

func TestEvaluateInProgress(t *testing.T) {
    boards := []Board{
        {},
        {X, O, X, X, O, O, O, X, Empty},
        {Empty, Empty, Empty, Empty, X, Empty, Empty, Empty, Empty},
    }
    for _, b := range boards {
        if got := Evaluate(b); got != InProgress {
            t.Fatalf("board %v: expected InProgress, got %v", b, got)
        }
    }
}

func TestEvaluateFirstLineInTableOrder(t *testing.T) {
    // Not reachable in real play: row 0 (X) is found before column 0 (O).
    b := Board{
        X, X, X,
        O, Empty, Empty,
        O, Empty, Empty,
    }
    if got := Evaluate(b); got != WinX {
        t.Fatalf("expected WinX, got %v", got)
    }
    ln, ok := b.WinningLine()
    if !ok || ln != [3]int{0, 1, 2} {
        t.Fatalf("expected row 0, got %v ok=%v", ln, ok)
    }
}

func TestEvaluateIsPure(t *testing.T) {
    b := Board{X, X, Empty, O, O, Empty, Empty, Empty, Empty}
    before := b
    first := Evaluate(b)
    second := Evaluate(b)
    if first != second || b != before {
        t.Fatalf("evaluate not idempotent: %v vs %v", first, second)
    }
}

func TestOutcomeVocabulary(t *testing.T) {
    cases := map[Outcome]string{InProgress: "", WinX: "X", WinO: "O", Draw: "draw"}
    for o, want := range cases {
        if o.String() != want {
            t.Fatalf("%d: got %q want %q", o, o.String(), want)
        }
    }
    if Draw.Winner() != Empty || WinO.Winner() != O || !Draw.Terminal() || InProgress.Terminal() {
        t.Fatalf("unexpected winner/terminal mapping")
    }
}

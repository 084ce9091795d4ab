package stats

import (
    "bytes"
    "context"
    "errors"
    "io"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func sub(player, mode, winner string, duration int) Submission {
    s := Submission{PlayerName: player, Mode: mode, Winner: winner, Moves: []int{0, 4, 1, 3, 2}, Duration: duration}
    if mode == "ai" {
        s.Difficulty = "easy"
    }
    return s
}

func TestNewRecordValidation(t *testing.T) {
    now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))

    r, err := NewRecord(Submission{Mode: "AI", Difficulty: "Hard", Winner: "draw", Duration: 12}, now)
    require.NoError(t, err)
    assert.NotEmpty(t, r.ID)
    assert.Equal(t, DefaultPlayer, r.PlayerName)
    assert.Equal(t, "ai", r.Mode)
    assert.Equal(t, "hard", r.Difficulty)
    assert.Equal(t, []int{}, r.Moves)
    assert.Equal(t, time.UTC, r.Timestamp.Location())

    bad := []Submission{
        {Mode: "online", Winner: "X"},
        {Mode: "ai", Difficulty: "nightmare", Winner: "X"},
        {Mode: "pvp", Winner: "tie"},
        {Mode: "pvp", Winner: "X", Moves: []int{9}},
        {Mode: "pvp", Winner: "X", Duration: -1},
    }
    for _, b := range bad {
        _, err := NewRecord(b, now)
        assert.ErrorIs(t, err, ErrInvalidRecord, "%+v", b)
    }
}

func TestAggregate(t *testing.T) {
    rs := []Record{
        {PlayerName: "Alice", Mode: "ai", Winner: WinnerX, Duration: 30},
        {PlayerName: "Alice", Mode: "pvp", Winner: WinnerO, Duration: 45},
        {PlayerName: "Alice", Mode: "ai", Winner: WinnerDraw, Duration: 20},
    }
    st := Aggregate("Alice", rs)
    assert.Equal(t, 3, st.TotalGames)
    assert.Equal(t, 1, st.Wins)
    assert.Equal(t, 1, st.Losses)
    assert.Equal(t, 1, st.Draws)
    assert.Equal(t, 33.3, st.WinRate)
    assert.Equal(t, "ai", st.FavoriteMode)
    assert.Equal(t, 31.7, st.AverageGameDuration)
    assert.Equal(t, 95, st.TotalPlayTime)
}

func TestAggregateUnknownPlayer(t *testing.T) {
    st := Aggregate("Nobody", nil)
    assert.Equal(t, Empty("Nobody"), st)
    assert.Equal(t, "ai", st.FavoriteMode)
    assert.Zero(t, st.WinRate)
}

func TestFavoriteModeTieKeepsFirstSeen(t *testing.T) {
    rs := []Record{
        {Mode: "pvp", Winner: WinnerX},
        {Mode: "ai", Winner: WinnerX},
    }
    assert.Equal(t, "pvp", Aggregate("p", rs).FavoriteMode)
}

func TestLeaderboardOrderingAndThreshold(t *testing.T) {
    var rs []Record
    add := func(player string, winners ...string) {
        for _, w := range winners {
            rs = append(rs, Record{PlayerName: player, Mode: "ai", Winner: w, Duration: 10})
        }
    }
    add("Alice", WinnerX, WinnerX, WinnerO)           // 66.7% over 3
    add("Bob", WinnerX, WinnerX, WinnerO, WinnerX)    // 75% over 4
    add("Charlie", WinnerX, WinnerX)                  // too few games
    add("Diana", WinnerX, WinnerO, WinnerX, WinnerO, WinnerX, WinnerX) // 66.7% over 6
    add("Eve", WinnerX, WinnerX, WinnerO)             // ties Alice exactly

    board := Leaderboard(rs, 0)
    var names []string
    for _, p := range board {
        names = append(names, p.PlayerName)
    }
    assert.Equal(t, []string{"Bob", "Diana", "Alice", "Eve"}, names)

    top := Leaderboard(rs, 2)
    require.Len(t, top, 2)
    assert.Equal(t, "Bob", top[0].PlayerName)
}

func testStores(t *testing.T) map[string]Store {
    return map[string]Store{
        "memory": NewMemory(),
        "fs":     NewFS(t.TempDir()),
    }
}

func TestServiceAgainstStores(t *testing.T) {
    for name, store := range testStores(t) {
        t.Run(name, func(t *testing.T) {
            ctx := context.Background()
            svc := NewService(store)
            clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
            svc.now = func() time.Time {
                clock = clock.Add(time.Minute)
                return clock
            }

            first, err := svc.Submit(ctx, sub("Alice", "ai", WinnerX, 30))
            require.NoError(t, err)
            _, err = svc.Submit(ctx, sub("Alice", "pvp", WinnerO, 40))
            require.NoError(t, err)
            last, err := svc.Submit(ctx, sub("Alice", "ai", WinnerDraw, 50))
            require.NoError(t, err)
            require.NoError(t, svc.Record(ctx, sub("Bob", "ai", WinnerX, 10)))

            _, err = svc.Submit(ctx, Submission{Mode: "bogus", Winner: "X"})
            require.ErrorIs(t, err, ErrInvalidRecord)

            hist, err := svc.History(ctx, "Alice", 0)
            require.NoError(t, err)
            require.Len(t, hist, 3)
            assert.Equal(t, last.ID, hist[0].ID)
            assert.Equal(t, first.ID, hist[2].ID)

            hist, err = svc.History(ctx, "Alice", 1)
            require.NoError(t, err)
            assert.Len(t, hist, 1)

            hist, err = svc.History(ctx, "Nobody", 5)
            require.NoError(t, err)
            assert.NotNil(t, hist)
            assert.Empty(t, hist)

            st, err := svc.Stats(ctx, "Alice")
            require.NoError(t, err)
            assert.Equal(t, 3, st.TotalGames)
            assert.Equal(t, 120, st.TotalPlayTime)
            assert.Equal(t, 40.0, st.AverageGameDuration)

            board, err := svc.Leaderboard(ctx, 0)
            require.NoError(t, err)
            require.Len(t, board, 1)
            assert.Equal(t, "Alice", board[0].PlayerName)

            n, err := svc.Clear(ctx, "Alice")
            require.NoError(t, err)
            assert.Equal(t, 3, n)

            st, err = svc.Stats(ctx, "Alice")
            require.NoError(t, err)
            assert.Zero(t, st.TotalGames)

            rest, err := store.List(ctx, "")
            require.NoError(t, err)
            require.Len(t, rest, 1)
            assert.Equal(t, "Bob", rest[0].PlayerName)

            _, err = svc.Clear(ctx, "")
            assert.ErrorIs(t, err, ErrNoPlayer)
        })
    }
}

func TestFSHandlesOddPlayerNames(t *testing.T) {
    ctx := context.Background()
    store := NewFS(t.TempDir())
    svc := NewService(store)
    _, err := svc.Submit(ctx, sub("../etc/passwd", "pvp", WinnerX, 1))
    require.NoError(t, err)
    rs, err := store.List(ctx, "../etc/passwd")
    require.NoError(t, err)
    require.Len(t, rs, 1)
    assert.Equal(t, "../etc/passwd", rs[0].PlayerName)
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    err := NewMemory().Save(ctx, Record{ID: "x"})
    assert.ErrorIs(t, err, context.Canceled)
}

// failingFile accepts writes but fails to flush on Close.
type failingFile struct{ bytes.Buffer }

func (*failingFile) Close() error { return errors.New("disk full") }

func TestFSReportsCloseError(t *testing.T) {
    store := NewFS(t.TempDir())
    store.create = func(string) (io.WriteCloser, error) { return &failingFile{}, nil }
    rec, err := NewRecord(sub("Alice", "ai", WinnerX, 3), time.Now())
    require.NoError(t, err)
    err = store.Save(context.Background(), rec)
    require.Error(t, err)
    assert.Contains(t, err.Error(), "disk full")
}

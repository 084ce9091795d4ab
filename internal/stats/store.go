package stats

import (
    "context"
    "sort"
    "sync"
)

// Store persists finished game records.
type Store interface {
    Save(ctx context.Context, r Record) error
    // List returns the records of player, or of every player when player is
    // empty, in no particular order.
    List(ctx context.Context, player string) ([]Record, error)
    // Delete removes every record of player and reports how many went.
    Delete(ctx context.Context, player string) (int, error)
}

// Memory is an in-process Store.
type Memory struct {
    mu      sync.Mutex
    records []Record
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Save(ctx context.Context, r Record) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    m.mu.Lock()
    defer m.mu.Unlock()
    m.records = append(m.records, r)
    return nil
}

func (m *Memory) List(ctx context.Context, player string) ([]Record, error) {
    if err := ctx.Err(); err != nil {
        return nil, err
    }
    m.mu.Lock()
    defer m.mu.Unlock()
    var out []Record
    for _, r := range m.records {
        if player == "" || r.PlayerName == player {
            out = append(out, r)
        }
    }
    return out, nil
}

func (m *Memory) Delete(ctx context.Context, player string) (int, error) {
    if err := ctx.Err(); err != nil {
        return 0, err
    }
    m.mu.Lock()
    defer m.mu.Unlock()
    kept := m.records[:0]
    n := 0
    for _, r := range m.records {
        if r.PlayerName == player {
            n++
            continue
        }
        kept = append(kept, r)
    }
    m.records = kept
    return n, nil
}

// newestFirst orders records by timestamp, most recent first.
func newestFirst(rs []Record) {
    sort.SliceStable(rs, func(i, j int) bool { return rs[i].Timestamp.After(rs[j].Timestamp) })
}

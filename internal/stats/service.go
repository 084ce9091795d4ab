package stats

import (
    "context"
    "errors"
    "time"
)

// Default page sizes of the history and leaderboard queries.
const (
    DefaultHistoryLimit     = 20
    DefaultLeaderboardLimit = 10
)

// ErrNoPlayer is returned by player-scoped calls given an empty name.
var ErrNoPlayer = errors.New("player name required")

// Service answers the statistics queries on top of a Store.
type Service struct {
    store Store
    now   func() time.Time
}

func NewService(store Store) *Service {
    return &Service{store: store, now: time.Now}
}

// Submit validates and stores a client-reported game.
func (s *Service) Submit(ctx context.Context, sub Submission) (Record, error) {
    r, err := NewRecord(sub, s.now())
    if err != nil {
        return Record{}, err
    }
    if err := s.store.Save(ctx, r); err != nil {
        return Record{}, err
    }
    return r, nil
}

// Record stores a game finished on this server.
func (s *Service) Record(ctx context.Context, sub Submission) error {
    _, err := s.Submit(ctx, sub)
    return err
}

// History returns the newest games of player first.
func (s *Service) History(ctx context.Context, player string, limit int) ([]Record, error) {
    if player == "" {
        player = DefaultPlayer
    }
    if limit <= 0 {
        limit = DefaultHistoryLimit
    }
    rs, err := s.store.List(ctx, player)
    if err != nil {
        return nil, err
    }
    newestFirst(rs)
    if len(rs) > limit {
        rs = rs[:limit]
    }
    if rs == nil {
        rs = []Record{}
    }
    return rs, nil
}

// Stats aggregates every game of player. Unknown players get zero stats.
func (s *Service) Stats(ctx context.Context, player string) (PlayerStats, error) {
    if player == "" {
        return PlayerStats{}, ErrNoPlayer
    }
    rs, err := s.store.List(ctx, player)
    if err != nil {
        return PlayerStats{}, err
    }
    return Aggregate(player, rs), nil
}

// Leaderboard ranks players across the whole store.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]PlayerStats, error) {
    if limit <= 0 {
        limit = DefaultLeaderboardLimit
    }
    rs, err := s.store.List(ctx, "")
    if err != nil {
        return nil, err
    }
    return Leaderboard(rs, limit), nil
}

// Clear deletes the history of player.
func (s *Service) Clear(ctx context.Context, player string) (int, error) {
    if player == "" {
        return 0, ErrNoPlayer
    }
    return s.store.Delete(ctx, player)
}

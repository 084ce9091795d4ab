package stats

import (
    "math"
    "sort"
)

// LeaderboardMinGames is how many games a player needs to be ranked.
const LeaderboardMinGames = 3

// PlayerStats aggregates every stored game of one player. The player is
// always X, so a win for X counts as a win and a win for O as a loss.
type PlayerStats struct {
    PlayerName          string  `json:"player_name"`
    TotalGames          int     `json:"total_games"`
    Wins                int     `json:"wins"`
    Losses              int     `json:"losses"`
    Draws               int     `json:"draws"`
    WinRate             float64 `json:"win_rate"`
    FavoriteMode        string  `json:"favorite_mode"`
    AverageGameDuration float64 `json:"average_game_duration"`
    TotalPlayTime       int     `json:"total_play_time"`

    winRate float64
}

// Empty returns the zero statistics shown for unknown players.
func Empty(player string) PlayerStats {
    return PlayerStats{PlayerName: player, FavoriteMode: "ai"}
}

// Aggregate computes statistics for player over records, which must all
// belong to that player.
func Aggregate(player string, records []Record) PlayerStats {
    st := Empty(player)
    if len(records) == 0 {
        return st
    }
    modeCount := map[string]int{}
    var modeOrder []string
    for _, r := range records {
        st.TotalGames++
        switch r.Winner {
        case WinnerX:
            st.Wins++
        case WinnerO:
            st.Losses++
        case WinnerDraw:
            st.Draws++
        }
        st.TotalPlayTime += r.Duration
        if _, ok := modeCount[r.Mode]; !ok {
            modeOrder = append(modeOrder, r.Mode)
        }
        modeCount[r.Mode]++
    }
    best := 0
    for _, m := range modeOrder {
        if modeCount[m] > best {
            st.FavoriteMode, best = m, modeCount[m]
        }
    }
    st.winRate = float64(st.Wins) / float64(st.TotalGames) * 100
    st.WinRate = round1(st.winRate)
    st.AverageGameDuration = round1(float64(st.TotalPlayTime) / float64(st.TotalGames))
    return st
}

// Leaderboard groups records by player, keeps players with at least
// LeaderboardMinGames games and ranks them by win rate, then by games
// played. limit <= 0 means no limit.
func Leaderboard(records []Record, limit int) []PlayerStats {
    byPlayer := map[string][]Record{}
    for _, r := range records {
        byPlayer[r.PlayerName] = append(byPlayer[r.PlayerName], r)
    }
    out := make([]PlayerStats, 0, len(byPlayer))
    for name, rs := range byPlayer {
        if len(rs) < LeaderboardMinGames {
            continue
        }
        out = append(out, Aggregate(name, rs))
    }
    sort.Slice(out, func(i, j int) bool {
        a, b := out[i], out[j]
        if a.winRate != b.winRate {
            return a.winRate > b.winRate
        }
        if a.TotalGames != b.TotalGames {
            return a.TotalGames > b.TotalGames
        }
        return a.PlayerName < b.PlayerName
    })
    if limit > 0 && len(out) > limit {
        out = out[:limit]
    }
    return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

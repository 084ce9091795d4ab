package stats

import (
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/google/uuid"

    "github.com/jaminalder/tictactoe-arena/internal/domain"
)

// DefaultPlayer is used when a record arrives without a player name.
const DefaultPlayer = "Player"

// Winner values stored on records.
const (
    WinnerX    = "X"
    WinnerO    = "O"
    WinnerDraw = "draw"
)

// ErrInvalidRecord wraps every validation failure of a submitted game.
var ErrInvalidRecord = errors.New("invalid game record")

// Record is one finished game as stored by the statistics service.
type Record struct {
    ID         string    `json:"id"`
    PlayerName string    `json:"player_name"`
    Mode       string    `json:"game_mode"`
    Difficulty string    `json:"difficulty,omitempty"`
    Winner     string    `json:"winner"`
    Moves      []int     `json:"moves"`
    Duration   int       `json:"duration"`
    Timestamp  time.Time `json:"timestamp"`
}

// Submission is the client-provided part of a Record.
type Submission struct {
    PlayerName string `json:"player_name"`
    Mode       string `json:"game_mode"`
    Difficulty string `json:"difficulty,omitempty"`
    Winner     string `json:"winner"`
    Moves      []int  `json:"moves"`
    Duration   int    `json:"duration"`
}

// NewRecord validates sub and stamps it with an ID and the current time.
func NewRecord(sub Submission, now time.Time) (Record, error) {
    name := strings.TrimSpace(sub.PlayerName)
    if name == "" {
        name = DefaultPlayer
    }
    mode, err := domain.ParseMode(sub.Mode)
    if err != nil {
        return Record{}, fmt.Errorf("%w: %v %q", ErrInvalidRecord, err, sub.Mode)
    }
    var difficulty string
    if strings.TrimSpace(sub.Difficulty) != "" {
        d, err := domain.ParseDifficulty(sub.Difficulty)
        if err != nil {
            return Record{}, fmt.Errorf("%w: %v %q", ErrInvalidRecord, err, sub.Difficulty)
        }
        difficulty = d.String()
    }
    switch sub.Winner {
    case WinnerX, WinnerO, WinnerDraw:
    default:
        return Record{}, fmt.Errorf("%w: winner %q", ErrInvalidRecord, sub.Winner)
    }
    for _, m := range sub.Moves {
        if m < 0 || m > 8 {
            return Record{}, fmt.Errorf("%w: move %d out of range", ErrInvalidRecord, m)
        }
    }
    if sub.Duration < 0 {
        return Record{}, fmt.Errorf("%w: negative duration", ErrInvalidRecord)
    }
    return Record{
        ID:         uuid.NewString(),
        PlayerName: name,
        Mode:       mode.String(),
        Difficulty: difficulty,
        Winner:     sub.Winner,
        Moves:      append([]int{}, sub.Moves...),
        Duration:   sub.Duration,
        Timestamp:  now.UTC(),
    }, nil
}

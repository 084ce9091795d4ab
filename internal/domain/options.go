package domain

import "strings"

// Mode selects who plays the second mark.
type Mode uint8

const (
    ModeAI Mode = iota
    ModePvP
)

func (m Mode) String() string {
    if m == ModePvP {
        return "pvp"
    }
    return "ai"
}

// ParseMode accepts "ai" and "pvp".
func ParseMode(s string) (Mode, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "ai":
        return ModeAI, nil
    case "pvp":
        return ModePvP, nil
    }
    return ModeAI, ErrUnknownMode
}

// Difficulty is the computer opponent's strength. The zero value means no
// difficulty applies (human-vs-human games).
type Difficulty uint8

const (
    Easy Difficulty = iota + 1
    Medium
    Hard
)

func (d Difficulty) String() string {
    switch d {
    case Easy:
        return "easy"
    case Medium:
        return "medium"
    case Hard:
        return "hard"
    default:
        return ""
    }
}

// ParseDifficulty accepts easy, medium and hard.
func ParseDifficulty(s string) (Difficulty, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "easy":
        return Easy, nil
    case "medium":
        return Medium, nil
    case "hard":
        return Hard, nil
    }
    return 0, ErrUnknownDifficulty
}

package config

import (
    "encoding/json"
    "errors"
    "flag"
    "fmt"
    "io"
    "log/slog"
    "os"
    "strings"
    "time"

    "github.com/jaminalder/tictactoe-arena/internal/domain"
)

// Environment variables read by ApplyEnv.
const (
    EnvAddr       = "TICTACTOE_ADDR"
    EnvDataDir    = "TICTACTOE_DATA_DIR"
    EnvLogLevel   = "TICTACTOE_LOG_LEVEL"
    EnvAIDelay    = "TICTACTOE_AI_DELAY"
    EnvDifficulty = "TICTACTOE_DIFFICULTY"
)

var ErrInvalid = errors.New("invalid configuration")

// Duration is a time.Duration that reads from JSON as "400ms" or as a
// number of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
    var s string
    if err := json.Unmarshal(b, &s); err == nil {
        v, err := time.ParseDuration(s)
        if err != nil {
            return err
        }
        *d = Duration(v)
        return nil
    }
    var n int64
    if err := json.Unmarshal(b, &n); err != nil {
        return fmt.Errorf("duration must be a string or integer: %s", b)
    }
    *d = Duration(n)
    return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
    return json.Marshal(time.Duration(d).String())
}

// Config holds everything the binaries need to start.
type Config struct {
    Addr       string   `json:"addr"`
    DataDir    string   `json:"data_dir"`
    LogLevel   string   `json:"log_level"`
    AIDelay    Duration `json:"ai_delay"`
    Difficulty string   `json:"difficulty"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
    return Config{
        Addr:       ":8080",
        DataDir:    "./data",
        LogLevel:   "info",
        AIDelay:    Duration(400 * time.Millisecond),
        Difficulty: domain.Medium.String(),
    }
}

// LoadFile overlays the fields present in the JSON file at path onto c.
func (c *Config) LoadFile(path string) error {
    data, err := os.ReadFile(path)
    if err != nil {
        return fmt.Errorf("failed to read config: %w", err)
    }
    if err := json.Unmarshal(data, c); err != nil {
        return fmt.Errorf("failed to unmarshal config: %w", err)
    }
    return nil
}

// ApplyEnv overlays non-empty environment values onto c.
func (c *Config) ApplyEnv(getenv func(string) string) error {
    if v := getenv(EnvAddr); v != "" {
        c.Addr = v
    }
    if v := getenv(EnvDataDir); v != "" {
        c.DataDir = v
    }
    if v := getenv(EnvLogLevel); v != "" {
        c.LogLevel = v
    }
    if v := getenv(EnvDifficulty); v != "" {
        c.Difficulty = v
    }
    if v := getenv(EnvAIDelay); v != "" {
        d, err := time.ParseDuration(v)
        if err != nil {
            return fmt.Errorf("%w: %s: %v", ErrInvalid, EnvAIDelay, err)
        }
        c.AIDelay = Duration(d)
    }
    return nil
}

// Validate rejects unknown levels and difficulties and negative delays.
func (c Config) Validate() error {
    if _, err := ParseLevel(c.LogLevel); err != nil {
        return err
    }
    if _, err := domain.ParseDifficulty(c.Difficulty); err != nil {
        return fmt.Errorf("%w: difficulty %q", ErrInvalid, c.Difficulty)
    }
    if c.AIDelay < 0 {
        return fmt.Errorf("%w: negative ai delay", ErrInvalid)
    }
    if strings.TrimSpace(c.Addr) == "" {
        return fmt.Errorf("%w: empty listen address", ErrInvalid)
    }
    return nil
}

// Level returns the parsed log level; call Validate first.
func (c Config) Level() slog.Level {
    l, _ := ParseLevel(c.LogLevel)
    return l
}

// DefaultDifficulty returns the parsed difficulty; call Validate first.
func (c Config) DefaultDifficulty() domain.Difficulty {
    d, err := domain.ParseDifficulty(c.Difficulty)
    if err != nil {
        return domain.Medium
    }
    return d
}

func (c Config) Delay() time.Duration { return time.Duration(c.AIDelay) }

// NewLogger builds the text logger used by both binaries.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
    return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "debug":
        return slog.LevelDebug, nil
    case "", "info":
        return slog.LevelInfo, nil
    case "warn", "warning":
        return slog.LevelWarn, nil
    case "error":
        return slog.LevelError, nil
    }
    return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalid, s)
}

// Load registers the configuration flags on fs, parses args and builds a
// Config from defaults, then the -config file, then the environment, then
// explicitly set flags. Callers may register their own flags on fs first.
func Load(fs *flag.FlagSet, args []string, getenv func(string) string) (Config, error) {
    def := Default()
    path := fs.String("config", "", "path to a JSON config file")
    addr := fs.String("addr", def.Addr, "listen address")
    dataDir := fs.String("data-dir", def.DataDir, "directory for finished game records")
    level := fs.String("log-level", def.LogLevel, "debug|info|warn|error")
    delay := fs.Duration("ai-delay", time.Duration(def.AIDelay), "pause before the computer answers")
    diff := fs.String("difficulty", def.Difficulty, "default difficulty: easy|medium|hard")
    if err := fs.Parse(args); err != nil {
        return Config{}, err
    }

    c := def
    if *path != "" {
        if err := c.LoadFile(*path); err != nil {
            return Config{}, err
        }
    }
    if err := c.ApplyEnv(getenv); err != nil {
        return Config{}, err
    }
    fs.Visit(func(f *flag.Flag) {
        switch f.Name {
        case "addr":
            c.Addr = *addr
        case "data-dir":
            c.DataDir = *dataDir
        case "log-level":
            c.LogLevel = *level
        case "ai-delay":
            c.AIDelay = Duration(*delay)
        case "difficulty":
            c.Difficulty = *diff
        }
    })
    if err := c.Validate(); err != nil {
        return Config{}, err
    }
    return c, nil
}

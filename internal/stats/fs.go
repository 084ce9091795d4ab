package stats

import (
    "context"
    "encoding/json"
    "errors"
    "io"
    "net/url"
    "os"
    "path/filepath"
    "strings"
)

// FS stores one JSON file per record under <dir>/<player>/<id>.json.
type FS struct {
    dir    string
    create func(name string) (io.WriteCloser, error)
}

func NewFS(dir string) *FS {
    return &FS{dir: dir, create: func(name string) (io.WriteCloser, error) { return os.Create(name) }}
}

// playerDir escapes dots too so "." and ".." stay inside dir.
func (s *FS) playerDir(player string) string {
    return filepath.Join(s.dir, strings.ReplaceAll(url.PathEscape(player), ".", "%2E"))
}

func (s *FS) Save(ctx context.Context, r Record) error {
    if r.ID == "" {
        return errors.New("invalid record: missing ID")
    }
    if err := ctx.Err(); err != nil {
        return err
    }
    target := filepath.Join(s.playerDir(r.PlayerName), r.ID+".json")
    if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
        return err
    }
    f, err := s.create(target)
    if err != nil {
        return err
    }
    enc := json.NewEncoder(f)
    enc.SetIndent("", "  ")
    if err := enc.Encode(r); err != nil {
        _ = f.Close()
        return err
    }
    return f.Close()
}

func (s *FS) List(ctx context.Context, player string) ([]Record, error) {
    if player != "" {
        return s.readDir(ctx, s.playerDir(player))
    }
    ents, err := os.ReadDir(s.dir)
    if err != nil {
        if os.IsNotExist(err) {
            return nil, nil
        }
        return nil, err
    }
    var out []Record
    for _, e := range ents {
        if !e.IsDir() {
            continue
        }
        rs, err := s.readDir(ctx, filepath.Join(s.dir, e.Name()))
        if err != nil {
            return nil, err
        }
        out = append(out, rs...)
    }
    return out, nil
}

func (s *FS) readDir(ctx context.Context, dir string) ([]Record, error) {
    ents, err := os.ReadDir(dir)
    if err != nil {
        if os.IsNotExist(err) {
            return nil, nil
        }
        return nil, err
    }
    var out []Record
    for _, e := range ents {
        if err := ctx.Err(); err != nil {
            return nil, err
        }
        if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
            continue
        }
        data, err := os.ReadFile(filepath.Join(dir, e.Name()))
        if err != nil {
            continue
        }
        var r Record
        if err := json.Unmarshal(data, &r); err != nil || r.ID == "" {
            continue
        }
        out = append(out, r)
    }
    return out, nil
}

func (s *FS) Delete(ctx context.Context, player string) (int, error) {
    if player == "" {
        return 0, ErrNoPlayer
    }
    rs, err := s.List(ctx, player)
    if err != nil {
        return 0, err
    }
    if err := os.RemoveAll(s.playerDir(player)); err != nil {
        return 0, err
    }
    return len(rs), nil
}

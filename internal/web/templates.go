package web

import (
    "bytes"
    "html/template"
    "net/http"

    "github.com/google/uuid"

    "github.com/jaminalder/tictactoe-arena/internal/app"
    "github.com/jaminalder/tictactoe-arena/internal/domain"
    "github.com/jaminalder/tictactoe-arena/internal/stats"
)

type templates struct {
    base        *template.Template
    game        *template.Template
    board       *template.Template
    index       *template.Template
    stats       *template.Template
    leaderboard *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter": func(n int) []int { a := make([]int, n); for i := range a { a[i] = i }; return a },
        "cellSymbol": func(c domain.Cell) string { return c.String() },
        "add": func(a, b int) int { return a + b },
        "mul": func(a, b int) int { return a * b },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Tic Tac Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.row{display:flex}.row form{margin:0}
.cell{width:4rem;height:4rem;font-size:2rem}
.cell.win{background:#ffe08a}
.alert{color:#b00}
</style>
</head><body>{{template "content" .}}</body></html>`))
    // Define the board template within the same set so game can include it
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<p><a href="/">New game</a> · <a href="/stats/{{.PlayerName}}">Stats</a> · <a href="/leaderboard">Leaderboard</a></p>
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board" hx-sse="swap:board">{{template "board" .Board}}</div>
</div>`))
    stats := template.Must(template.Must(base.Clone()).New("content").Parse(statsTemplate))
    leaderboard := template.Must(template.Must(base.Clone()).New("content").Parse(leaderboardTemplate))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index, stats: stats, leaderboard: leaderboard}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const indexTemplate = `<h1>Tic Tac Toe</h1>
<form action="/game" method="post">
  <label>Name <input name="name" value="Player"></label>
  <label>Mode
    <select name="mode">
      <option value="ai" selected>vs computer</option>
      <option value="pvp">two players</option>
    </select>
  </label>
  <label>Difficulty
    <select name="difficulty">
      {{range .Difficulties}}<option value="{{.}}"{{if eq . $.Default}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <button>Create</button>
</form>
<p><a href="/leaderboard">Leaderboard</a></p>`

const boardTemplate = `
<div id="board">
  <p class="status">{{.Status}}</p>
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{/* 3x3 grid */}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}{{$i := add (mul $r 3) $c}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="cell" value="{{$i}}">
        <button type="submit" class="cell{{if index $.Win $i}} win{{end}}"{{if or $.Locked (index $.Board $i)}} disabled{{end}}>{{cellSymbol (index $.Board $i)}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  {{if .Over}}
  <form hx-post="/game/{{.ID}}/rematch" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit">Rematch</button>
  </form>
  {{end}}
</div>
`

const statsTemplate = `<h1>{{.Stats.PlayerName}}</h1>
{{if .Error}}<div class="alert">{{.Error}}</div>{{end}}
<table>
  <tr><th>Games</th><td>{{.Stats.TotalGames}}</td></tr>
  <tr><th>Wins</th><td>{{.Stats.Wins}}</td></tr>
  <tr><th>Losses</th><td>{{.Stats.Losses}}</td></tr>
  <tr><th>Draws</th><td>{{.Stats.Draws}}</td></tr>
  <tr><th>Win rate</th><td>{{.Stats.WinRate}}%</td></tr>
  <tr><th>Favorite mode</th><td>{{.Stats.FavoriteMode}}</td></tr>
  <tr><th>Average game</th><td>{{.Stats.AverageGameDuration}}s</td></tr>
  <tr><th>Total play time</th><td>{{.Stats.TotalPlayTime}}s</td></tr>
</table>
<h2>Recent games</h2>
<ul>{{range .History}}
  <li>{{.Timestamp.Format "2006-01-02 15:04"}} {{.Mode}} {{.Difficulty}}: {{.Winner}} ({{.Duration}}s)</li>
{{else}}<li>No games yet</li>{{end}}</ul>
<p><a href="/">Play</a></p>`

const leaderboardTemplate = `<h1>Leaderboard</h1>
{{if .Error}}<div class="alert">{{.Error}}</div>{{end}}
<ol>{{range .Players}}
  <li><a href="/stats/{{.PlayerName}}">{{.PlayerName}}</a> {{.WinRate}}% of {{.TotalGames}} games</li>
{{else}}<li>No ranked players yet</li>{{end}}</ol>
<p><a href="/">Play</a></p>`

// boardView is what the board fragment renders.
type boardView struct {
    ID     string
    Board  domain.Board
    Win    [9]bool
    Status string
    Error  string
    Over   bool
    Locked bool
}

func newBoardView(gs app.GameState, errMsg string) boardView {
    v := boardView{
        ID:     gs.ID,
        Board:  gs.Game.Board,
        Error:  errMsg,
        Over:   gs.Phase == app.Terminal,
        Locked: gs.Phase != app.AwaitingHumanMove,
        Status: gs.Status(),
    }
    if ln, ok := gs.Game.Board.WinningLine(); ok {
        for _, i := range ln {
            v.Win[i] = true
        }
    }
    return v
}

type statsView struct {
    Stats   stats.PlayerStats
    History []stats.Record
    Error   string
}

type leaderboardView struct {
    Players []stats.PlayerStats
    Error   string
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
    if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
        return c.Value
    }
    // Generate UUIDv4 for player ID
    v := uuid.NewString()
    http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/"})
    return v
}

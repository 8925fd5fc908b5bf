package web

import (
	"context"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const refreshIcon = `<svg fill="currentColor" width="32" height="32" viewBox="0 0 16 16">
      <path fill-rule="evenodd" d="M8 3a5 5 0 1 0 4.546 2.914.5.5 0 0 1 .908-.417A6 6 0 1 1 8 2v1z"/>
      <path d="M8 4.466V.534a.25.25 0 0 1 .41-.192l2.36 1.966c.12.1.12.284 0 .384L8.41 4.658A.25.25 0 0 1 8 4.466z"/>
    </svg>`

var esc = html.EscapeString

// writer collects the first write error so components can emit markup
// without checking every call.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) str(parts ...string) {
	for _, part := range parts {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.w, part)
	}
}

func (w *writer) component(ctx context.Context, c templ.Component) {
	if w.err != nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

func Spinner() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &writer{w: w}
		out.str(`<div class="loading"><strong>Loading...</strong> <div class="spinner-border" aria-hidden="true"></div></div>`)
		return out.err
	})
}

func ErrorBanner(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &writer{w: w}
		out.str(`<div class="alert alert-danger" role="alert">`, esc(message), `</div>`)
		return out.err
	})
}

func EmptyState(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &writer{w: w}
		out.str(`<div class="alert alert-secondary" role="alert">`, esc(message), `</div>`)
		return out.err
	})
}

// GameCard shows the loading or error indicator above the card; the card
// itself stays visible with the last known game. Without one, the indicator
// replaces it.
func GameCard(data GameCardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &writer{w: w}
		out.str(`<div id="`, esc(GameCardID(data.ID)), `" class="game-card">`)
		switch {
		case data.Loading:
			out.component(ctx, Spinner())
		case data.Error:
			out.component(ctx, ErrorBanner("Failed to fetch game."))
		}
		if data.Missing {
			out.str(`</div>`)
			return out.err
		}
		out.str(`<div class="card"><div class="card-body">`)
		out.str(`<h5 class="card-title">`, esc(data.Title), `</h5>`)
		out.str(`<p class="card-text">`, esc(strings.Join(data.Participants, ", ")),
			` ( `, itoa(data.MaxParticipants), ` )</p>`)
		out.str(`<p class="card-text"><span class="badge text-bg-light">`, esc(data.StateLabel), `</span> `,
			`<small class="text-muted">`, itoa(data.Board.SizeX), `×`, itoa(data.Board.SizeY), `, `,
			itoa(data.Board.MaxShips), ` ships</small></p>`)
		out.str(`<p class="card-text"><small class="text-muted" title="`, esc(formatTime(data.CreatedAt)), `">`,
			esc(data.CreatedAgo), `</small></p>`)
		out.str(`<a href="#" class="btn btn-primary">Join</a> `)
		out.str(`<button type="button" class="btn btn-link" data-action="refresh_game" data-id="`, esc(data.ID), `">Refresh</button>`)
		out.str(`</div></div></div>`)
		return out.err
	})
}

func GameList(data GameListData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &writer{w: w}
		out.str(`<div id="`, GameListID, `">`)
		out.str(`<div class="d-flex flex-row"><ul class="nav nav-pills my-3">`)
		for _, item := range data.Nav {
			class := "nav-link"
			if item.Active {
				class += " active"
			}
			out.str(`<li class="nav-item"><a class="`, class, `" href="`, esc(withQuery(data.BasePath, "state", item.State)),
				`" data-action="switch" data-state="`, esc(item.State), `">`, esc(item.Text), `</a></li>`)
		}
		out.str(`</ul>`)
		out.str(`<a class="btn btn-outline-secondary ms-auto my-3" role="button" href="`,
			esc(withQuery(data.BasePath, "state", data.Filter)), `" data-action="refresh">`, refreshIcon, `</a>`)
		out.str(`</div>`)
		switch {
		case data.Loading:
			out.component(ctx, Spinner())
		case data.Error:
			out.component(ctx, ErrorBanner("Failed to fetch games."))
		case len(data.Cards) == 0:
			out.component(ctx, EmptyState("No games available at the moment."))
		default:
			for _, card := range data.Cards {
				out.str(`<div class="card my-2">`)
				out.component(ctx, GameCard(card))
				out.str(`</div>`)
			}
		}
		out.str(`</div>`)
		return out.err
	})
}

func Scoreboard(data ScoreboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &writer{w: w}
		out.str(`<div id="`, ScoreboardID, `">`)
		switch {
		case data.Loading:
			out.component(ctx, Spinner())
		case data.Error:
			out.component(ctx, ErrorBanner("Failed to fetch scoreboard."))
		case len(data.Rows) == 0:
			out.component(ctx, EmptyState("No players ranked yet."))
		default:
			out.str(`<table class="table mb-4"><thead><tr>`,
				`<th scope="col">Name</th><th scope="col">Wins</th><th scope="col">Losses</th>`,
				`</tr></thead><tbody>`)
			for _, row := range data.Rows {
				out.str(`<tr><th scope="row">`, esc(row.Name), `</th><td>`, itoa(row.Wins),
					`</td><td>`, itoa(row.Losses), `</td></tr>`)
			}
			out.str(`</tbody></table>`)
		}
		out.str(`</div>`)
		return out.err
	})
}

func VersionBadge(data VersionData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &writer{w: w}
		out.str(`<div id="`, VersionID, `">`)
		switch {
		case data.Loading:
			out.component(ctx, Spinner())
		case data.Error:
			out.component(ctx, ErrorBanner("Failed to fetch version."))
		default:
			out.str(`<div class="version">`, esc(data.Version), `</div>`)
		}
		out.str(`</div>`)
		return out.err
	})
}

// LoginForm never echoes the password back into the page.
func LoginForm(data LoginData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &writer{w: w}
		out.str(`<form id="`, LoginFormID, `" method="post" action="`, esc(data.Action), `">`)
		out.str(`<div class="form-floating m-1">`,
			`<input type="text" class="form-control" id="playername" name="playername" placeholder="Playername" value="`,
			esc(data.Playername), `" required>`,
			`<label for="playername">User</label></div>`)
		out.str(`<div class="form-floating m-1">`,
			`<input type="password" class="form-control" id="password" name="password" placeholder="Password" required>`,
			`<label for="password">Password</label></div>`)
		if data.Error {
			out.str(`<div class="alert alert-danger p-2 m-1" role="alert">Login failed.</div>`)
		}
		out.str(`<div class="checkbox mb-3"><label><input type="checkbox" name="remember" value="remember-me"> Remember me</label></div>`)
		out.str(`<div class="d-flex justify-content-between">`,
			`<button class="btn btn-lg btn-primary w-50 m-1" type="submit">`)
		if data.Loading {
			out.str(`<span class="spinner-border spinner-border-sm" role="status" aria-hidden="true"></span>`)
		}
		out.str(`Login</button>`,
			`<button class="btn btn-lg btn-primary w-50 m-1" type="button">Sign up</button></div>`)
		out.str(`</form>`)
		return out.err
	})
}

package web

import (
	"bytes"
	"context"
	"testing"
	"time"

	"battleship-lobby/internal/api"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		delta time.Duration
		want  string
	}{
		{30 * time.Second, "a few seconds ago"},
		{5 * time.Minute, "5 minutes ago"},
		{3 * time.Hour, "3 hours ago"},
		{48 * time.Hour, "2 days ago"},
		{59*time.Minute + 59*time.Second, "59 minutes ago"},
		{90 * time.Second, "1 minutes ago"},
		{0, "a few seconds ago"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TimeAgo(now, now.Add(-tc.delta)), "delta %s", tc.delta)
	}
}

func TestDescriptionLabel(t *testing.T) {
	assert.Equal(t, "New Game", DescriptionLabel(""))
	assert.Equal(t, "testgame please ignore", DescriptionLabel("testgame please ignore"))
}

func TestWithQuery(t *testing.T) {
	assert.Equal(t, "/lobby.html?state=running", withQuery("/lobby.html", "state", "running"))
	assert.Equal(t, "/lobby.html?state=open", withQuery("/lobby.html?state=finished", "state", "open"))
}

func TestGameListStates(t *testing.T) {
	nav := []NavItem{{Text: "Open", State: "open", Active: true}}

	html := render(t, GameList(GameListData{BasePath: "/lobby.html", Filter: "open", Nav: nav, Loading: true}))
	assert.Contains(t, html, "spinner-border")

	html = render(t, GameList(GameListData{BasePath: "/lobby.html", Filter: "open", Nav: nav, Error: true}))
	assert.Contains(t, html, "Failed to fetch games.")

	html = render(t, GameList(GameListData{BasePath: "/lobby.html", Filter: "open", Nav: nav}))
	assert.Contains(t, html, "No games available at the moment.")
	assert.NotContains(t, html, "card-title")
	assert.Contains(t, html, `class="nav-link active"`)
}

func TestGameCardEscapesAndShowsFields(t *testing.T) {
	html := render(t, GameCard(GameCardData{
		ID:              "g1",
		Title:           "<b>fleet</b>",
		Participants:    []string{"armon", "rudolf"},
		MaxParticipants: 2,
		StateLabel:      api.StateOpen.String(),
		Board:           api.BoardParameters{SizeX: 12, SizeY: 12, MaxShips: 5},
		CreatedAgo:      "5 minutes ago",
	}))
	assert.Contains(t, html, `id="game-g1"`)
	assert.Contains(t, html, "&lt;b&gt;fleet&lt;/b&gt;")
	assert.Contains(t, html, "armon, rudolf ( 2 )")
	assert.Contains(t, html, "5 minutes ago")
	assert.Contains(t, html, "12×12, 5 ships")
	assert.Contains(t, html, "Join")
}

func TestScoreboardRowsAndEmpty(t *testing.T) {
	html := render(t, Scoreboard(ScoreboardData{Rows: []api.ScoreEntry{{Name: "rudolf", Wins: 2, Losses: 1}}}))
	assert.Contains(t, html, `<th scope="row">rudolf</th><td>2</td><td>1</td>`)

	html = render(t, Scoreboard(ScoreboardData{}))
	assert.Contains(t, html, "No players ranked yet.")
	assert.NotContains(t, html, "<table")
}

func TestVersionBadge(t *testing.T) {
	assert.Contains(t, render(t, VersionBadge(VersionData{Version: "1.0"})), ">1.0<")
	assert.Contains(t, render(t, VersionBadge(VersionData{Error: true})), "Failed to fetch version.")
}

func TestLoginFormDoesNotEchoPassword(t *testing.T) {
	html := render(t, LoginForm(LoginData{Action: "/login.html", Playername: "armon", Error: true}))
	assert.Contains(t, html, `value="armon"`)
	assert.Contains(t, html, "Login failed.")
	assert.NotContains(t, html, `name="password" value=`)
}

func TestPageShell(t *testing.T) {
	html := render(t, Page(PageData{Title: "Lobby", LiveURL: "/ws/lobby?variant=lobby"}, EmptyState("x")))
	assert.Contains(t, html, "<title>Lobby</title>")
	assert.Contains(t, html, `data-live="/ws/lobby?variant=lobby"`)
	assert.Contains(t, html, "alert-secondary")
}

func TestGameCardMissingRendersOnlyIndicator(t *testing.T) {
	html := render(t, GameCard(GameCardData{ID: "g1", Missing: true, Error: true}))
	assert.Contains(t, html, `id="game-g1"`)
	assert.Contains(t, html, "Failed to fetch game.")
	assert.NotContains(t, html, "card-title")
	assert.NotContains(t, html, "ships")

	html = render(t, GameCard(GameCardData{ID: "g1", Missing: true, Loading: true}))
	assert.Contains(t, html, "spinner-border")
	assert.NotContains(t, html, "Join")
}

func TestAttributeValuesAreEscaped(t *testing.T) {
	html := render(t, LoginForm(LoginData{Action: "/login.html?next=a&b", Playername: `ar"mon`}))
	assert.Contains(t, html, `action="/login.html?next=a&amp;b"`)
	assert.Contains(t, html, `value="ar&#34;mon"`)
}

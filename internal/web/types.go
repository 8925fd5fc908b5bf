package web

import (
	"time"

	"battleship-lobby/internal/api"
)

// Element ids the live channel targets.
const (
	GameListID   = "game-list"
	ScoreboardID = "scoreboard"
	VersionID    = "version"
	LoginFormID  = "login-form"
)

func GameCardID(gameID string) string {
	return "game-" + gameID
}

type NavItem struct {
	Text   string
	State  string
	Active bool
}

type GameCardData struct {
	ID              string
	Title           string
	Participants    []string
	MaxParticipants int
	StateLabel      string
	Board           api.BoardParameters
	CreatedAt       time.Time
	CreatedAgo      string
	Loading         bool
	Error           bool
	// Missing is set until a game has been fetched; only the indicators render.
	Missing bool
}

type GameListData struct {
	BasePath string
	Filter   string
	Nav      []NavItem
	Loading  bool
	Error    bool
	Cards    []GameCardData
}

type ScoreboardData struct {
	Loading bool
	Error   bool
	Rows    []api.ScoreEntry
}

type VersionData struct {
	Loading bool
	Error   bool
	Version string
}

type LoginData struct {
	Action     string
	Playername string
	Loading    bool
	Error      bool
}

type PageData struct {
	Title string
	// LiveURL is the websocket path the page subscribes to. Empty disables
	// live updates.
	LiveURL string
}

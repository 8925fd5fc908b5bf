package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

type GameState int

const (
	StateOpen GameState = iota
	StateDeployingShips
	StateRunning
	StateFinished
	StateAborted
)

var stateNames = map[GameState]string{
	StateOpen:           "open",
	StateDeployingShips: "deploying ships",
	StateRunning:        "running",
	StateFinished:       "finished",
	StateAborted:        "aborted",
}

func (s GameState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// ListFilters are the lifecycle states the game list can be filtered by, in
// tab order.
var ListFilters = []string{"open", "running", "finished"}

const DefaultListFilter = "open"

// ParseListFilter normalizes a tab name and rejects anything outside
// ListFilters.
func ParseListFilter(raw string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for _, filter := range ListFilters {
		if filter == name {
			return filter, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidState, raw)
}

type BoardParameters struct {
	SizeX    int `json:"size_x"`
	SizeY    int `json:"size_y"`
	MaxShips int `json:"max_ships"`
}

type Game struct {
	ID              string          `json:"id"`
	Participants    []string        `json:"participants"`
	MaxParticipants int             `json:"max_participants"`
	Description     string          `json:"description"`
	State           GameState       `json:"state"`
	CreationDate    time.Time       `json:"creation_date"`
	BoardParameters BoardParameters `json:"board_parameters"`
}

// UnmarshalJSON reads max_participants, which the game list sends, or
// max_players, which the single-game endpoint sends.
func (g *Game) UnmarshalJSON(data []byte) error {
	type plain Game
	var raw struct {
		plain
		MaxPlayers *int `json:"max_players"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = Game(raw.plain)
	if g.MaxParticipants == 0 && raw.MaxPlayers != nil {
		g.MaxParticipants = *raw.MaxPlayers
	}
	return nil
}

// GameList is the /games payload: game id to game.
type GameList map[string]Game

// UnmarshalJSON treats null and an empty array as an empty list; the backend
// sends either when nothing matches.
func (l *GameList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*l = GameList{}
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var games []Game
		if err := json.Unmarshal(trimmed, &games); err != nil {
			return err
		}
		list := make(GameList, len(games))
		for _, game := range games {
			list[game.ID] = game
		}
		*l = list
		return nil
	}
	var games map[string]Game
	if err := json.Unmarshal(trimmed, &games); err != nil {
		return err
	}
	*l = games
	return nil
}

// Sorted returns the games newest first. The backend sends an object, so
// there is no server order to preserve.
func (l GameList) Sorted() []Game {
	games := make([]Game, 0, len(l))
	for _, game := range l {
		games = append(games, game)
	}
	sort.Slice(games, func(i, j int) bool {
		if !games[i].CreationDate.Equal(games[j].CreationDate) {
			return games[i].CreationDate.After(games[j].CreationDate)
		}
		return games[i].ID < games[j].ID
	})
	return games
}

type ScoreEntry struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

type Scoreboard []ScoreEntry

type VersionInfo struct {
	Version string `json:"version"`
}

type Credentials struct {
	Playername string `json:"playername" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type errorBody struct {
	Message string `json:"message"`
}

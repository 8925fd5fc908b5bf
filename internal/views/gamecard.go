package views

import (
	"context"
	"errors"

	"battleship-lobby/internal/api"
	"battleship-lobby/internal/fetch"
	"battleship-lobby/internal/web"

	"github.com/a-h/templ"
	"go.uber.org/zap"
)

var ErrNoGame = errors.New("game card has no game id")

// GameCard displays one game and can re-fetch it by id.
type GameCard struct {
	api   GamesAPI
	opts  options
	id    string
	state *fetch.Machine[api.Game]
}

// NewGameCard shows a game the caller already fetched.
func NewGameCard(client GamesAPI, game api.Game, opts ...Option) *GameCard {
	c := newGameCard(client, game.ID, opts)
	if game.ID != "" {
		c.state.Set(game)
	}
	return c
}

// NewGameCardByID knows only the id; the card has no content until Refresh
// succeeds.
func NewGameCardByID(client GamesAPI, id string, opts ...Option) *GameCard {
	return newGameCard(client, id, opts)
}

func newGameCard(client GamesAPI, id string, opts []Option) *GameCard {
	o := buildOptions(opts)
	return &GameCard{
		api:  client,
		opts: o,
		id:   id,
		state: fetch.New[api.Game]("game_card",
			fetch.StartIdle(),
			fetch.WithLogger(o.logger.With(zap.String("game_id", id))),
			fetch.WithDiscardStale(o.discardStale),
		),
	}
}

func (c *GameCard) ID() string {
	return c.id
}

// Apply replaces the card's game with a newer copy from the parent.
func (c *GameCard) Apply(game api.Game) {
	c.state.Set(game)
}

func (c *GameCard) Refresh(ctx context.Context) error {
	id := c.ID()
	if id == "" {
		c.state.Reject(ErrNoGame)
		return ErrNoGame
	}
	return c.state.Run(ctx, func(ctx context.Context) (api.Game, error) {
		return c.api.GetGame(ctx, id)
	})
}

func (c *GameCard) Snapshot() fetch.Snapshot[api.Game] {
	return c.state.Snapshot()
}

func (c *GameCard) Subscribe(fn func(fetch.Snapshot[api.Game])) func() {
	return c.state.Subscribe(fn)
}

func (c *GameCard) Data() web.GameCardData {
	snap := c.state.Snapshot()
	game := snap.Data
	return web.GameCardData{
		ID:              c.id,
		Missing:         !snap.HasData,
		Title:           web.DescriptionLabel(game.Description),
		Participants:    game.Participants,
		MaxParticipants: game.MaxParticipants,
		StateLabel:      game.State.String(),
		Board:           game.BoardParameters,
		CreatedAt:       game.CreationDate,
		CreatedAgo:      web.TimeAgo(c.opts.now(), game.CreationDate),
		Loading:         snap.Loading,
		Error:           snap.Err,
	}
}

func (c *GameCard) Render() templ.Component {
	return web.GameCard(c.Data())
}

package views

import (
	"context"
	"strings"
	"sync"

	"battleship-lobby/internal/api"
	"battleship-lobby/internal/fetch"
	"battleship-lobby/internal/web"

	"github.com/a-h/templ"
	"go.uber.org/zap"
)

// GameListView lists the games in one lifecycle state and keeps a GameCard
// per listed game.
type GameListView struct {
	api      GamesAPI
	opts     options
	cardOpts []Option
	state    *fetch.Machine[api.GameList]

	mu     sync.Mutex
	filter string
	cards  map[string]*GameCard
}

func NewGameListView(client GamesAPI, opts ...Option) *GameListView {
	o := buildOptions(opts)
	v := &GameListView{
		api:      client,
		opts:     o,
		cardOpts: opts,
		state: fetch.New[api.GameList]("game_list",
			fetch.WithLogger(o.logger),
			fetch.WithDiscardStale(o.discardStale),
		),
		filter: api.DefaultListFilter,
		cards:  make(map[string]*GameCard),
	}
	v.state.Subscribe(v.syncCards)
	return v
}

func (v *GameListView) Filter() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// SetFilter selects the tab used by the next fetch without fetching.
func (v *GameListView) SetFilter(state string) error {
	filter, err := api.ParseListFilter(state)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.filter = filter
	v.mu.Unlock()
	return nil
}

func (v *GameListView) Mount(ctx context.Context) error {
	return v.Refresh(ctx)
}

// SwitchTab changes the filter and re-fetches. An unknown state leaves the
// current filter and list untouched.
func (v *GameListView) SwitchTab(ctx context.Context, state string) error {
	if err := v.SetFilter(state); err != nil {
		v.opts.logger.Info("rejected tab switch", zap.String("state", state), zap.Error(err))
		return err
	}
	return v.Refresh(ctx)
}

func (v *GameListView) Refresh(ctx context.Context) error {
	filter := v.Filter()
	return v.state.Run(ctx, func(ctx context.Context) (api.GameList, error) {
		return v.api.ListGames(ctx, filter)
	})
}

func (v *GameListView) Snapshot() fetch.Snapshot[api.GameList] {
	return v.state.Snapshot()
}

func (v *GameListView) Subscribe(fn func(fetch.Snapshot[api.GameList])) func() {
	return v.state.Subscribe(fn)
}

// Card returns the card for a game in the current list.
func (v *GameListView) Card(id string) (*GameCard, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	card, ok := v.cards[id]
	return card, ok
}

func (v *GameListView) syncCards(snap fetch.Snapshot[api.GameList]) {
	if snap.Status != fetch.StatusReady {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	cards := make(map[string]*GameCard, len(snap.Data))
	for id, game := range snap.Data {
		if card, ok := v.cards[id]; ok {
			card.Apply(game)
			cards[id] = card
			continue
		}
		cards[id] = NewGameCard(v.api, game, v.cardOpts...)
	}
	v.cards = cards
}

func (v *GameListView) Data() web.GameListData {
	snap := v.state.Snapshot()
	filter := v.Filter()
	data := web.GameListData{
		BasePath: v.opts.basePath,
		Filter:   filter,
		Loading:  snap.Loading,
		Error:    snap.Err,
	}
	for _, state := range api.ListFilters {
		data.Nav = append(data.Nav, web.NavItem{
			Text:   strings.ToUpper(state[:1]) + state[1:],
			State:  state,
			Active: state == filter,
		})
	}
	for _, game := range snap.Data.Sorted() {
		if card, ok := v.Card(game.ID); ok {
			data.Cards = append(data.Cards, card.Data())
			continue
		}
		data.Cards = append(data.Cards, NewGameCard(v.api, game, v.cardOpts...).Data())
	}
	return data
}

func (v *GameListView) Render() templ.Component {
	return web.GameList(v.Data())
}

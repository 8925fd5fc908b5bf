package views

import (
	"context"

	"battleship-lobby/internal/api"
	"battleship-lobby/internal/fetch"
	"battleship-lobby/internal/web"

	"github.com/a-h/templ"
	"go.uber.org/zap"
)

// ScoreboardView shows players in the order the backend ranks them.
type ScoreboardView struct {
	api     ScoreboardAPI
	ranking int
	state   *fetch.Machine[api.Scoreboard]
}

// NewScoreboardView limits the board to the top ranking players; zero or less
// shows everyone.
func NewScoreboardView(client ScoreboardAPI, ranking int, opts ...Option) *ScoreboardView {
	o := buildOptions(opts)
	return &ScoreboardView{
		api:     client,
		ranking: ranking,
		state: fetch.New[api.Scoreboard]("scoreboard",
			fetch.WithLogger(o.logger.With(zap.Int("ranking", ranking))),
			fetch.WithDiscardStale(o.discardStale),
		),
	}
}

func (v *ScoreboardView) Ranking() int {
	return v.ranking
}

func (v *ScoreboardView) Mount(ctx context.Context) error {
	return v.Refresh(ctx)
}

func (v *ScoreboardView) Refresh(ctx context.Context) error {
	return v.state.Run(ctx, func(ctx context.Context) (api.Scoreboard, error) {
		return v.api.Scoreboard(ctx, v.ranking)
	})
}

func (v *ScoreboardView) Snapshot() fetch.Snapshot[api.Scoreboard] {
	return v.state.Snapshot()
}

func (v *ScoreboardView) Subscribe(fn func(fetch.Snapshot[api.Scoreboard])) func() {
	return v.state.Subscribe(fn)
}

func (v *ScoreboardView) Data() web.ScoreboardData {
	snap := v.state.Snapshot()
	return web.ScoreboardData{
		Loading: snap.Loading,
		Error:   snap.Err,
		Rows:    snap.Data,
	}
}

func (v *ScoreboardView) Render() templ.Component {
	return web.Scoreboard(v.Data())
}

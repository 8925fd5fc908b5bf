package views

import (
	"context"

	"battleship-lobby/internal/api"
	"battleship-lobby/internal/fetch"
	"battleship-lobby/internal/web"

	"github.com/a-h/templ"
)

// VersionBadge fetches the backend version once, on mount.
type VersionBadge struct {
	api   VersionAPI
	state *fetch.Machine[api.VersionInfo]
}

func NewVersionBadge(client VersionAPI, opts ...Option) *VersionBadge {
	o := buildOptions(opts)
	return &VersionBadge{
		api:   client,
		state: fetch.New[api.VersionInfo]("version", fetch.WithLogger(o.logger)),
	}
}

func (v *VersionBadge) Mount(ctx context.Context) error {
	return v.state.Run(ctx, v.api.Version)
}

func (v *VersionBadge) Snapshot() fetch.Snapshot[api.VersionInfo] {
	return v.state.Snapshot()
}

func (v *VersionBadge) Subscribe(fn func(fetch.Snapshot[api.VersionInfo])) func() {
	return v.state.Subscribe(fn)
}

func (v *VersionBadge) Render() templ.Component {
	snap := v.state.Snapshot()
	return web.VersionBadge(web.VersionData{
		Loading: snap.Loading,
		Error:   snap.Err,
		Version: snap.Data.Version,
	})
}

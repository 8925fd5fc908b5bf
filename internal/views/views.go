// Package views holds the lobby's UI components. Each component owns a
// fetch.Machine, talks to the backend through a narrow interface and renders
// its current snapshot as a templ component.
package views

import (
	"context"
	"net/http"
	"time"

	"battleship-lobby/internal/api"

	"go.uber.org/zap"
)

type GamesAPI interface {
	ListGames(ctx context.Context, state string) (api.GameList, error)
	GetGame(ctx context.Context, id string) (api.Game, error)
}

type ScoreboardAPI interface {
	Scoreboard(ctx context.Context, ranking int) (api.Scoreboard, error)
}

type VersionAPI interface {
	Version(ctx context.Context) (api.VersionInfo, error)
}

type LoginAPI interface {
	Login(ctx context.Context, creds api.Credentials) ([]*http.Cookie, error)
}

type Option func(*options)

type options struct {
	logger        *zap.Logger
	discardStale  bool
	now           func() time.Time
	basePath      string
	dashboardPath string
}

func defaultOptions() options {
	return options{
		logger:        zap.NewNop(),
		now:           time.Now,
		basePath:      "/lobby.html",
		dashboardPath: "/dashboard.html",
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDiscardStale keeps only the newest request's response when fetches
// overlap.
func WithDiscardStale(enabled bool) Option {
	return func(o *options) {
		o.discardStale = enabled
	}
}

// WithClock sets the time source for relative timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithBasePath sets the page the game list's tab links point at.
func WithBasePath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.basePath = path
		}
	}
}

// WithDashboardPath sets where a successful login navigates to.
func WithDashboardPath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.dashboardPath = path
		}
	}
}

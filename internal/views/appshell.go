package views

import (
	"context"
	"fmt"

	"battleship-lobby/internal/web"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"
)

type Variant string

const (
	VariantDashboard Variant = "dashboard"
	VariantLobby     Variant = "lobby"
)

func ParseVariant(raw string) (Variant, error) {
	switch Variant(raw) {
	case VariantDashboard, VariantLobby:
		return Variant(raw), nil
	case "":
		return VariantDashboard, nil
	default:
		return "", fmt.Errorf("unknown shell variant %q", raw)
	}
}

type Backend interface {
	GamesAPI
	ScoreboardAPI
	VersionAPI
}

type ShellConfig struct {
	Variant Variant
	// Ranking limits the dashboard scoreboard; zero shows everyone.
	Ranking int
	// Filter is the lobby's initial tab. Empty means open.
	Filter string
}

// AppShell composes the components of one page. Children never share state;
// each one fetches and fails on its own.
type AppShell struct {
	variant    Variant
	Games      *GameListView
	Scoreboard *ScoreboardView
	Version    *VersionBadge
}

func NewAppShell(backend Backend, cfg ShellConfig, opts ...Option) (*AppShell, error) {
	shell := &AppShell{
		variant: cfg.Variant,
		Version: NewVersionBadge(backend, opts...),
	}
	switch cfg.Variant {
	case VariantDashboard:
		shell.Scoreboard = NewScoreboardView(backend, cfg.Ranking, opts...)
	case VariantLobby:
		shell.Games = NewGameListView(backend, opts...)
		if cfg.Filter != "" {
			if err := shell.Games.SetFilter(cfg.Filter); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unknown shell variant %q", cfg.Variant)
	}
	return shell, nil
}

func (s *AppShell) Variant() Variant {
	return s.variant
}

func (s *AppShell) Title() string {
	if s.variant == VariantLobby {
		return "Battleship - Lobby"
	}
	return "Battleship - Dashboard"
}

// Mount fetches every child concurrently and waits for all of them. Child
// failures stay in the child's own state.
func (s *AppShell) Mount(ctx context.Context) {
	var g errgroup.Group
	for _, mount := range s.mounts() {
		mount := mount
		g.Go(func() error {
			_ = mount(ctx)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *AppShell) mounts() []func(context.Context) error {
	mounts := []func(context.Context) error{s.Version.Mount}
	if s.Scoreboard != nil {
		mounts = append(mounts, s.Scoreboard.Mount)
	}
	if s.Games != nil {
		mounts = append(mounts, s.Games.Mount)
	}
	return mounts
}

// Components returns the rendered children in page order.
func (s *AppShell) Components() []templ.Component {
	var components []templ.Component
	if s.Scoreboard != nil {
		components = append(components, web.Section("Scoreboard", s.Scoreboard.Render()))
	}
	if s.Games != nil {
		components = append(components, web.Section("Games", s.Games.Render()))
	}
	return append(components, s.Version.Render())
}

package server

import (
	"net/http"

	"battleship-lobby/internal/views"
	"battleship-lobby/internal/web"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (s *Server) handleDashboardView(w http.ResponseWriter, r *http.Request) {
	var query rankingQuery
	if !bindQuery(w, r, &query) {
		return
	}
	s.renderShell(w, r, views.ShellConfig{
		Variant: views.VariantDashboard,
		Ranking: query.value(s.cfg.ScoreboardRanking),
	})
}

func (s *Server) handleLobbyView(w http.ResponseWriter, r *http.Request) {
	var query listQuery
	if !bindQuery(w, r, &query) {
		return
	}
	s.renderShell(w, r, views.ShellConfig{Variant: views.VariantLobby, Filter: query.filter()})
}

func (s *Server) renderShell(w http.ResponseWriter, r *http.Request, cfg views.ShellConfig) {
	shell, err := views.NewAppShell(s.backendFor(r), cfg, s.viewOptions(r)...)
	if err != nil {
		s.logger.Error("build app shell", zap.String("variant", string(cfg.Variant)), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	shell.Mount(r.Context())
	page := web.PageData{
		Title:   shell.Title(),
		LiveURL: liveURL(cfg.Variant, cfg.Filter, cfg.Ranking),
	}
	templ.Handler(web.Page(page, shell.Components()...)).ServeHTTP(w, r)
}

func (s *Server) handleGamesFragment(w http.ResponseWriter, r *http.Request) {
	var query listQuery
	if !bindQuery(w, r, &query) {
		return
	}
	view := views.NewGameListView(s.backendFor(r), s.viewOptions(r)...)
	if err := view.SetFilter(query.filter()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_ = view.Mount(r.Context())
	templ.Handler(view.Render()).ServeHTTP(w, r)
}

func (s *Server) handleGameFragment(w http.ResponseWriter, r *http.Request) {
	gameID, ok := parseGameID(chi.URLParam(r, "gameID"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	card := views.NewGameCardByID(s.backendFor(r), gameID, s.viewOptions(r)...)
	_ = card.Refresh(r.Context())
	templ.Handler(card.Render()).ServeHTTP(w, r)
}

func (s *Server) handleScoreboardFragment(w http.ResponseWriter, r *http.Request) {
	var query rankingQuery
	if !bindQuery(w, r, &query) {
		return
	}
	view := views.NewScoreboardView(s.backendFor(r), query.value(s.cfg.ScoreboardRanking), s.viewOptions(r)...)
	_ = view.Mount(r.Context())
	templ.Handler(view.Render()).ServeHTTP(w, r)
}

func (s *Server) handleVersionFragment(w http.ResponseWriter, r *http.Request) {
	badge := views.NewVersionBadge(s.backendFor(r), s.viewOptions(r)...)
	_ = badge.Mount(r.Context())
	templ.Handler(badge.Render()).ServeHTTP(w, r)
}

package server

import (
	"net/http"

	"battleship-lobby/internal/api"
	"battleship-lobby/internal/config"
	"battleship-lobby/internal/views"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	loginPath     = "/login.html"
	dashboardPath = "/dashboard.html"
	lobbyPath     = "/lobby.html"
	livePath      = "/ws/lobby"
)

type Server struct {
	cfg     config.Config
	backend *api.Client
	logger  *zap.Logger
	live    *liveHub
}

func New(cfg config.Config, backend *api.Client, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:     cfg,
		backend: backend,
		logger:  logger,
		live:    newLiveHub(),
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, loginPath, http.StatusPermanentRedirect)
	})
	r.Get("/healthz", s.handleHealth)
	r.Get(loginPath, s.handleLoginView)
	r.Post(loginPath, s.handleLoginSubmit)
	r.Get(dashboardPath, s.handleDashboardView)
	r.Get(lobbyPath, s.handleLobbyView)
	r.Route("/fragments", func(r chi.Router) {
		r.Get("/games", s.handleGamesFragment)
		r.Get("/games/{gameID}", s.handleGameFragment)
		r.Get("/scoreboard", s.handleScoreboardFragment)
		r.Get("/version", s.handleVersionFragment)
	})
	r.Get(livePath, s.handleLiveWebsocket)
	return r
}

// Close drops every live connection.
func (s *Server) Close() {
	s.live.CloseAll()
}

// backendFor forwards the browser's cookies so the backend sees its own
// session cookie.
func (s *Server) backendFor(r *http.Request) *api.Client {
	return s.backend.WithCookies(r.Cookies())
}

func (s *Server) viewOptions(r *http.Request) []views.Option {
	logger := s.logger
	if id := middleware.GetReqID(r.Context()); id != "" {
		logger = logger.With(zap.String("request_id", id))
	}
	return []views.Option{
		views.WithLogger(logger),
		views.WithDiscardStale(s.cfg.DiscardStale),
		views.WithDashboardPath(s.cfg.DashboardPath),
		views.WithBasePath(lobbyPath),
	}
}

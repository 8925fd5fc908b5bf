package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"battleship-lobby/internal/api"
	"battleship-lobby/internal/fetch"
	"battleship-lobby/internal/views"
	"battleship-lobby/internal/web"

	"github.com/a-h/templ"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const liveWriteTimeout = 10 * time.Second

type liveHub struct {
	mu       sync.Mutex
	sessions map[*liveSession]struct{}
}

func newLiveHub() *liveHub {
	return &liveHub{
		sessions: make(map[*liveSession]struct{}),
	}
}

func (h *liveHub) Add(session *liveSession) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[session] = struct{}{}
}

func (h *liveHub) Remove(session *liveSession) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, session)
	_ = session.conn.Close()
}

func (h *liveHub) CloseAll() {
	h.mu.Lock()
	sessions := make([]*liveSession, 0, len(h.sessions))
	for session := range h.sessions {
		sessions = append(sessions, session)
	}
	h.mu.Unlock()
	for _, session := range sessions {
		session.close()
	}
}

// liveCommand is what the page sends when a [data-action] element is clicked.
type liveCommand struct {
	Action string `json:"action"`
	State  string `json:"state"`
	ID     string `json:"id"`
}

// liveSession owns one AppShell for one websocket. Every snapshot any of its
// components produces is rendered and pushed to the browser.
type liveSession struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	shell   *views.AppShell
	logger  *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc

	mu     sync.Mutex
	unsubs []func()
}

func (s *Server) handleLiveWebsocket(w http.ResponseWriter, r *http.Request) {
	var live liveQuery
	if !bindQuery(w, r, &live) {
		return
	}
	variant, err := views.ParseVariant(live.Variant)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg := views.ShellConfig{Variant: variant}
	switch variant {
	case views.VariantLobby:
		var query listQuery
		if !bindQuery(w, r, &query) {
			return
		}
		cfg.Filter = query.filter()
	case views.VariantDashboard:
		var query rankingQuery
		if !bindQuery(w, r, &query) {
			return
		}
		cfg.Ranking = query.value(s.cfg.ScoreboardRanking)
	}
	shell, err := views.NewAppShell(s.backendFor(r), cfg, s.viewOptions(r)...)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: sameOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	session := &liveSession{
		conn:   conn,
		shell:  shell,
		logger: s.logger.With(zap.String("variant", string(variant)), zap.String("remote", r.RemoteAddr)),
		ctx:    ctx,
		cancel: cancel,
	}
	session.logger.Info("live session connected")
	s.live.Add(session)
	go s.runLive(session)
}

// sameOrigin admits clients that send no Origin (non-browser) and pages
// served from this host. The socket carries the backend session cookie.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Host, r.Host)
}

func (s *Server) runLive(session *liveSession) {
	defer s.live.Remove(session)
	defer session.close()

	session.shell.Mount(session.ctx)
	session.subscribe()
	session.pushAll()

	for {
		_, payload, err := session.conn.ReadMessage()
		if err != nil {
			session.logger.Info("live session disconnected", zap.Error(err))
			return
		}
		var cmd liveCommand
		if err := json.Unmarshal(payload, &cmd); err != nil {
			session.logger.Debug("ignoring malformed command", zap.Error(err))
			continue
		}
		session.dispatch(cmd)
	}
}

// dispatch runs each command on its own goroutine; overlapping commands are
// not serialized.
func (l *liveSession) dispatch(cmd liveCommand) {
	games := l.shell.Games
	switch cmd.Action {
	case "switch":
		if games == nil {
			return
		}
		go func() { _ = games.SwitchTab(l.ctx, cmd.State) }()
	case "refresh":
		if games == nil {
			return
		}
		go func() { _ = games.Refresh(l.ctx) }()
	case "refresh_game":
		if games == nil {
			return
		}
		card, ok := games.Card(cmd.ID)
		if !ok {
			l.logger.Debug("refresh for unknown game", zap.String("game_id", cmd.ID))
			return
		}
		go func() {
			cancel := card.Subscribe(func(fetch.Snapshot[api.Game]) {
				l.push("#"+web.GameCardID(card.ID()), card.Render())
			})
			defer cancel()
			_ = card.Refresh(l.ctx)
		}()
	default:
		l.logger.Debug("ignoring unknown command", zap.String("action", cmd.Action))
	}
}

func (l *liveSession) subscribe() {
	shell := l.shell
	l.track(shell.Version.Subscribe(func(fetch.Snapshot[api.VersionInfo]) {
		l.push("#"+web.VersionID, shell.Version.Render())
	}))
	if shell.Scoreboard != nil {
		l.track(shell.Scoreboard.Subscribe(func(fetch.Snapshot[api.Scoreboard]) {
			l.push("#"+web.ScoreboardID, shell.Scoreboard.Render())
		}))
	}
	if shell.Games != nil {
		l.track(shell.Games.Subscribe(func(fetch.Snapshot[api.GameList]) {
			l.push("#"+web.GameListID, shell.Games.Render())
		}))
	}
}

func (l *liveSession) pushAll() {
	shell := l.shell
	l.push("#"+web.VersionID, shell.Version.Render())
	if shell.Scoreboard != nil {
		l.push("#"+web.ScoreboardID, shell.Scoreboard.Render())
	}
	if shell.Games != nil {
		l.push("#"+web.GameListID, shell.Games.Render())
	}
}

func (l *liveSession) track(unsub func()) {
	l.mu.Lock()
	l.unsubs = append(l.unsubs, unsub)
	l.mu.Unlock()
}

func (l *liveSession) push(target string, component templ.Component) {
	if l.ctx.Err() != nil {
		return
	}
	html, err := renderHTML(component)
	if err != nil {
		l.logger.Warn("render fragment", zap.String("target", target), zap.Error(err))
		return
	}
	data, err := json.Marshal(htmlMessage(target, "outer", html))
	if err != nil {
		return
	}
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	_ = l.conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	if err := l.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		l.logger.Info("live write failed", zap.String("target", target), zap.Error(err))
		l.cancel()
	}
}

func (l *liveSession) close() {
	l.cancel()
	l.mu.Lock()
	unsubs := l.unsubs
	l.unsubs = nil
	l.mu.Unlock()
	for _, unsub := range unsubs {
		unsub()
	}
	_ = l.conn.Close()
}

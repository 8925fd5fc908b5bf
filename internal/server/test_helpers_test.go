package server

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"battleship-lobby/internal/api"
	"battleship-lobby/internal/config"

	"go.uber.org/zap"
)

const (
	openGameID     = "0b7f3c1e-7a51-4d0c-9a57-2f0f3f6f0a01"
	runningGameID  = "5d2c8a44-1c2b-4b7e-8f0a-6c3f9e2b1d02"
	testSessionJWT = "jwt-for-ada"
)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

// fakeBackend serves the subset of the battleship REST API the lobby reads.
type fakeBackend struct {
	mu       sync.Mutex
	games    map[string]api.GameList
	failing  map[string]bool
	rankings []string
	cookies  []string
	logins   atomic.Int32
}

func newFakeBackend() *fakeBackend {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &fakeBackend{
		games: map[string]api.GameList{
			"open": {
				openGameID: {
					ID:              openGameID,
					Participants:    []string{"ada"},
					MaxParticipants: 2,
					Description:     "Harbor skirmish",
					State:           api.StateOpen,
					CreationDate:    created,
					BoardParameters: api.BoardParameters{SizeX: 10, SizeY: 10, MaxShips: 5},
				},
			},
			"running": {
				runningGameID: {
					ID:              runningGameID,
					Participants:    []string{"grace", "linus"},
					MaxParticipants: 2,
					Description:     "Midway rematch",
					State:           api.StateRunning,
					CreationDate:    created.Add(time.Hour),
					BoardParameters: api.BoardParameters{SizeX: 8, SizeY: 8, MaxShips: 3},
				},
			},
			"finished": {},
		},
		failing: map[string]bool{},
	}
}

func (f *fakeBackend) fail(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[path] = true
}

func (f *fakeBackend) seenRankings() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.rankings...)
}

func (f *fakeBackend) seenCookies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.cookies...)
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /games", func(w http.ResponseWriter, r *http.Request) {
		if f.failed("/games") {
			writeBackendError(w, http.StatusInternalServerError, "database unavailable")
			return
		}
		f.mu.Lock()
		list := f.games[r.URL.Query().Get("state")]
		f.mu.Unlock()
		if len(list) == 0 {
			// the backend sends an empty array, not an empty object, when nothing matches
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("[]"))
			return
		}
		writeBackendJSON(w, list)
	})
	mux.HandleFunc("GET /games/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if f.failed("/games/{id}") {
			writeBackendError(w, http.StatusInternalServerError, "database unavailable")
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, list := range f.games {
			if game, ok := list[id]; ok {
				writeBackendJSON(w, game)
				return
			}
		}
		writeBackendError(w, http.StatusNotFound, "game not found")
	})
	mux.HandleFunc("GET /players", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.rankings = append(f.rankings, r.URL.Query().Get("ranking"))
		if cookie, err := r.Cookie("battleship_jwt"); err == nil {
			f.cookies = append(f.cookies, cookie.Value)
		}
		f.mu.Unlock()
		if f.failed("/players") {
			writeBackendError(w, http.StatusInternalServerError, "scoreboard offline")
			return
		}
		writeBackendJSON(w, api.Scoreboard{
			{Name: "ada", Wins: 7, Losses: 2},
			{Name: "grace", Wins: 5, Losses: 5},
		})
	})
	mux.HandleFunc("GET /version", func(w http.ResponseWriter, r *http.Request) {
		if f.failed("/version") {
			writeBackendError(w, http.StatusBadGateway, "no version")
			return
		}
		writeBackendJSON(w, api.VersionInfo{Version: "1.4.2"})
	})
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		f.logins.Add(1)
		var creds api.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Password != "hunter2" {
			writeBackendError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     "battleship_jwt",
			Value:    testSessionJWT,
			Domain:   "backend.internal",
			Path:     "/",
			HttpOnly: true,
		})
		writeBackendJSON(w, map[string]string{"message": "ok"})
	})
	return mux
}

func (f *fakeBackend) failed(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failing[path]
}

func writeBackendJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeBackendError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// newLobbyServer starts the fake backend and a lobby server in front of it.
func newLobbyServer(t *testing.T, mutate ...func(*config.Config)) (*httptest.Server, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	backendTS := newTestServer(t, backend.handler())
	t.Cleanup(backendTS.Close)

	cfg := config.Default()
	cfg.APIBaseURL = backendTS.URL
	for _, fn := range mutate {
		fn(&cfg)
	}
	client, err := api.New(cfg.APIBaseURL, api.WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("api client: %v", err)
	}
	srv := New(cfg, client, zap.NewNop())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return ts, backend
}

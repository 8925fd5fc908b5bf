package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialLive(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	})
	return conn
}

func liveWSURL(baseURL, query string) string {
	return "ws" + strings.TrimPrefix(baseURL, "http") + livePath + "?" + query
}

func TestLiveRejectsUnknownVariant(t *testing.T) {
	ts, _ := newLobbyServer(t)

	resp := doRequest(t, ts, http.MethodGet, livePath+"?variant=arcade")
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestLiveRejectsCrossOrigin(t *testing.T) {
	ts, _ := newLobbyServer(t)

	header := http.Header{"Origin": {"http://elsewhere.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(liveWSURL(ts.URL, "variant=lobby"), header)
	if err == nil {
		_ = conn.Close()
		t.Fatalf("expected cross-origin handshake to fail")
	}
	if resp == nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	expectStatus(t, resp, http.StatusForbidden)
}

func TestLiveAcceptsSameOrigin(t *testing.T) {
	ts, _ := newLobbyServer(t)

	header := http.Header{"Origin": {ts.URL}}
	conn, resp, err := websocket.DefaultDialer.Dial(liveWSURL(ts.URL, "variant=dashboard"), header)
	if err != nil {
		if resp != nil {
			t.Fatalf("expected same-origin handshake, got status %d", resp.StatusCode)
		}
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	defer conn.Close()
	if msg := readHTMLMessage(t, conn, 5*time.Second); msg.Target != "#version" {
		t.Fatalf("expected version fragment, got %#v", msg)
	}
}

func TestLivePushesInitialFragments(t *testing.T) {
	ts, _ := newLobbyServer(t)
	conn := dialLive(t, liveWSURL(ts.URL, "variant=dashboard"))

	first := readHTMLMessage(t, conn, 5*time.Second)
	second := readHTMLMessage(t, conn, 5*time.Second)
	if first.Target != "#version" || !strings.Contains(first.HTML, "1.4.2") {
		t.Fatalf("expected version fragment first, got %#v", first)
	}
	if second.Target != "#scoreboard" || !strings.Contains(second.HTML, "ada") {
		t.Fatalf("expected scoreboard fragment second, got %#v", second)
	}
	if first.Mode != "outer" || second.Mode != "outer" {
		t.Fatalf("expected outer swaps, got %q and %q", first.Mode, second.Mode)
	}
}

func TestLiveSwitchTabPushesGameList(t *testing.T) {
	ts, _ := newLobbyServer(t)
	conn := dialLive(t, liveWSURL(ts.URL, "variant=lobby"))

	waitForHTML(t, conn, 5*time.Second, "#game-list", "Harbor skirmish")

	sendCommand(t, conn, liveCommand{Action: "switch", State: "running"})
	msg := waitForHTML(t, conn, 5*time.Second, "#game-list", "Midway rematch")
	if strings.Contains(msg.HTML, "Harbor skirmish") {
		t.Fatalf("running tab should not list open games")
	}
}

func TestLiveRefreshGamePushesCard(t *testing.T) {
	ts, _ := newLobbyServer(t)
	conn := dialLive(t, liveWSURL(ts.URL, "variant=lobby&state=open"))

	waitForHTML(t, conn, 5*time.Second, "#game-list", "Harbor skirmish")

	sendCommand(t, conn, liveCommand{Action: "refresh_game", ID: openGameID})
	waitForHTML(t, conn, 5*time.Second, "#game-"+openGameID, "Harbor skirmish")
}

func sendCommand(t *testing.T, conn *websocket.Conn, cmd liveCommand) {
	t.Helper()
	data, err := json.Marshal(cmd)
	if err != nil {
		t.Fatalf("marshal command: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write command: %v", err)
	}
}

func readHTMLMessage(t *testing.T, conn *websocket.Conn, timeout time.Duration) wsHTMLMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read websocket message: %v", err)
	}
	var msg wsHTMLMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("decode websocket message: %v", err)
	}
	if msg.Type != "html" {
		t.Fatalf("expected html message, got %q", msg.Type)
	}
	return msg
}

// waitForHTML skips spinner frames and other targets until a fragment for
// target containing text arrives.
func waitForHTML(t *testing.T, conn *websocket.Conn, timeout time.Duration, target, text string) wsHTMLMessage {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		msg := readHTMLMessage(t, conn, time.Until(deadline))
		if msg.Target == target && strings.Contains(msg.HTML, text) {
			return msg
		}
	}
	t.Fatalf("timed out waiting for %s containing %q", target, text)
	return wsHTMLMessage{}
}

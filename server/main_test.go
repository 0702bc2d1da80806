package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/geo/r2"
	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, settings Settings) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := NewServer(settings)
	require.NoError(t, err)
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)
	return srv, hs
}

func wsURL(hs *httptest.Server) string {
	return "ws" + strings.TrimPrefix(hs.URL, "http") + WebSocketPath
}

func dial(t *testing.T, hs *httptest.Server) *ws.Conn {
	t.Helper()
	c, _, err := ws.DefaultDialer.Dial(wsURL(hs), nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

// readType reads messages until one of the given type arrives
func readType(t *testing.T, c *ws.Conn, typ string, v any) {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, raw, err := c.ReadMessage()
		require.NoError(t, err)
		var head struct {
			Type string `json:"t"`
		}
		require.NoError(t, json.Unmarshal(raw, &head))
		if head.Type == typ {
			require.NoError(t, json.Unmarshal(raw, v))
			return
		}
	}
}

func send(t *testing.T, c *ws.Conn, msg ClientMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, c.WriteMessage(ws.TextMessage, data))
}

func TestServer_WelcomeAndState(t *testing.T) {
	srv, hs := testServer(t, testSettings(t))
	c := dial(t, hs)

	var welcome WelcomeMsg
	readType(t, c, MsgWelcome, &welcome)
	assert.NotEmpty(t, welcome.ID)
	assert.Equal(t, [4]float64{-400, -300, 400, 300}, welcome.Bounds)
	assert.Equal(t, 30, welcome.TickRate)

	require.Eventually(t, func() bool { return srv.conns.Count() == 1 }, time.Second, 10*time.Millisecond)
	srv.loop.tick(context.Background())

	var state StateMsg
	readType(t, c, MsgState, &state)
	assert.Equal(t, 1, state.Tick)
	assert.Len(t, state.Snakes, 2)
	assert.Len(t, state.Leaderboard, 2)
	for _, s := range state.Snakes {
		assert.Equal(t, 0, s.Owned)
		assert.Len(t, s.Segments, 9)
	}
}

func TestServer_JoinAndGoal(t *testing.T) {
	srv, hs := testServer(t, testSettings(t))
	c := dial(t, hs)

	var welcome WelcomeMsg
	readType(t, c, MsgWelcome, &welcome)

	send(t, c, ClientMessage{Type: MsgJoin, Name: "  Noodle  "})
	require.Eventually(t, func() bool {
		srv.world.mu.RLock()
		defer srv.world.mu.RUnlock()
		_, ok := srv.world.OwnedBy(welcome.ID)
		return ok
	}, time.Second, 10*time.Millisecond)

	send(t, c, ClientMessage{Type: MsgGoal, X: 120, Y: -40})
	require.Eventually(t, func() bool {
		srv.world.mu.RLock()
		defer srv.world.mu.RUnlock()
		a, _ := srv.world.OwnedBy(welcome.ID)
		return a.Snake.Destination() == r2.Point{X: 120, Y: -40}
	}, time.Second, 10*time.Millisecond)

	srv.loop.tick(context.Background())

	var state StateMsg
	readType(t, c, MsgState, &state)
	// the viewer snake took a bot's place
	require.Len(t, state.Snakes, 2)
	var mine *SnakeDTO
	for i := range state.Snakes {
		if state.Snakes[i].ID == welcome.ID {
			mine = &state.Snakes[i]
		}
	}
	require.NotNil(t, mine)
	assert.Equal(t, "Noodle", mine.Name)
	assert.Equal(t, 1, mine.Owned)
	assert.Equal(t, [2]float64{120, -40}, mine.Destination)
}

func TestServer_DisconnectRemovesSnake(t *testing.T) {
	srv, hs := testServer(t, testSettings(t))
	c := dial(t, hs)

	var welcome WelcomeMsg
	readType(t, c, MsgWelcome, &welcome)
	send(t, c, ClientMessage{Type: MsgJoin, Name: "Brief"})
	require.Eventually(t, func() bool {
		srv.world.mu.RLock()
		defer srv.world.mu.RUnlock()
		_, ok := srv.world.OwnedBy(welcome.ID)
		return ok
	}, time.Second, 10*time.Millisecond)

	c.Close()
	require.Eventually(t, func() bool {
		srv.world.mu.RLock()
		defer srv.world.mu.RUnlock()
		_, ok := srv.world.OwnedBy(welcome.ID)
		return !ok && srv.conns.Count() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestServer_RejectsWhenFull(t *testing.T) {
	settings := testSettings(t)
	settings.MaxViewers = 0
	_, hs := testServer(t, settings)
	c := dial(t, hs)

	var msg ErrorMsg
	readType(t, c, MsgError, &msg)
	assert.Contains(t, msg.Message, "Server full")
}

func TestServer_RejectsDuringCooldown(t *testing.T) {
	settings := testSettings(t)
	settings.IPCooldownSec = 60
	_, hs := testServer(t, settings)

	first := dial(t, hs)
	var welcome WelcomeMsg
	readType(t, first, MsgWelcome, &welcome)

	second := dial(t, hs)
	var msg ErrorMsg
	readType(t, second, MsgError, &msg)
	assert.Contains(t, msg.Message, "Too many connections")
}

func TestIPRateLimiter_Prune(t *testing.T) {
	rl := newIPRateLimiter(time.Minute)
	assert.True(t, rl.allow("1.2.3.4"))
	assert.False(t, rl.allow("1.2.3.4"))

	rl.prune(time.Now().Add(2 * time.Minute))
	assert.True(t, rl.allow("1.2.3.4"))
}

func TestServer_Snapshot(t *testing.T) {
	_, hs := testServer(t, testSettings(t))

	for _, path := range []string{SnapshotPath, SnapshotPath + "?debug=1"} {
		resp, err := http.Get(hs.URL + path)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
		assert.Contains(t, string(body), "<svg")
		assert.Equal(t, 2, strings.Count(string(body), "<path"))
	}
}

func TestGameLoop_RunStopsOnCancel(t *testing.T) {
	settings := testSettings(t)
	settings.TickRate = 200
	srv, _ := testServer(t, settings)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		srv.world.mu.RLock()
		defer srv.world.mu.RUnlock()
		return srv.world.Tick >= 3
	}, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("game loop did not stop")
	}
}

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lfriedrich2/4gewinnt/internal/domain"
	"github.com/lfriedrich2/4gewinnt/internal/service/game"
	"github.com/lfriedrich2/4gewinnt/pkg/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProfile = "profile-under-test"

func newTestServer(t *testing.T) (*httptest.Server, *game.SessionManager, *ConnectionManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sm := game.NewSessionManager()
	cm := NewConnectionManager()
	sm.SetNotifier(cm)
	h := NewHandler(cm, sm, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(httputil.ProfileIDKey, testProfile)
		c.Next()
	})
	r.GET("/ws/games/:id", h.HandleWebSocket)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, sm, cm
}

func dial(t *testing.T, srv *httptest.Server, gameID string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/games/" + gameID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocket_PlayThroughSocket(t *testing.T) {
	srv, sm, _ := newTestServer(t)
	session := sm.CreateSession(testProfile, "Anna", "Ben")
	conn := dial(t, srv, session.GameID)

	initial := read(t, conn)
	assert.Equal(t, MsgState, initial.Type)
	require.NotNil(t, initial.State)
	assert.Equal(t, domain.StatusActive, initial.State.Status)

	col := 3
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgDrop, Column: &col}))
	moved := read(t, conn)
	assert.Equal(t, MsgMoveMade, moved.Type)
	assert.Equal(t, game.CueDrop, moved.Cue)
	require.NotNil(t, moved.Move)
	assert.Equal(t, 5, moved.Move.Row)

	bad := 9
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgDrop, Column: &bad}))
	rejected := read(t, conn)
	assert.Equal(t, MsgError, rejected.Type)
	assert.Equal(t, "invalid_column", rejected.Reason)
	assert.Equal(t, game.CueError, rejected.Cue)
	require.NotNil(t, rejected.State)
	assert.Equal(t, 1, rejected.State.MoveCount)

	// Enter drops into the middle column
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgKey, Key: "Enter"}))
	moved = read(t, conn)
	require.NotNil(t, moved.Move)
	assert.Equal(t, 4, moved.Move.Row)
	assert.Equal(t, 3, moved.Move.Column)
	assert.Equal(t, domain.Player2, moved.Move.Player)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgNewGame}))
	reset := read(t, conn)
	assert.Equal(t, MsgState, reset.Type)
	assert.Zero(t, reset.State.MoveCount)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgSync}))
	synced := read(t, conn)
	assert.Equal(t, MsgState, synced.Type)
	assert.Equal(t, session.GameID, synced.GameID)
}

func TestWebSocket_GameOverReachesEverySocket(t *testing.T) {
	srv, sm, cm := newTestServer(t)
	session := sm.CreateSession(testProfile, "Anna", "Ben")
	a := dial(t, srv, session.GameID)
	b := dial(t, srv, session.GameID)
	read(t, a)
	read(t, b)
	require.Eventually(t, func() bool { return cm.ConnectionCount(session.GameID) == 2 }, time.Second, 5*time.Millisecond)

	for _, col := range []int{0, 0, 1, 1, 2, 2} {
		_, err := session.DropPiece(col)
		require.NoError(t, err)
	}
	for i := 0; i < 6; i++ {
		read(t, a)
		read(t, b)
	}

	require.NoError(t, a.WriteJSON(ClientMessage{Type: MsgKey, Key: "4"}))
	for _, conn := range []*websocket.Conn{a, b} {
		msg := read(t, conn)
		assert.Equal(t, MsgGameOver, msg.Type)
		assert.Equal(t, game.CueWin, msg.Cue)
		assert.Equal(t, "Anna", msg.State.WinnerName)
	}
}

func TestWebSocket_UnknownGame(t *testing.T) {
	srv, sm, _ := newTestServer(t)
	foreign := sm.CreateSession("someone-else", "A", "B")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/games/" + foreign.GameID
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebSocket_RemovedSessionClosesSockets(t *testing.T) {
	srv, sm, cm := newTestServer(t)
	session := sm.CreateSession(testProfile, "A", "B")
	conn := dial(t, srv, session.GameID)
	read(t, conn)
	require.Eventually(t, func() bool { return cm.ConnectionCount(session.GameID) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, sm.RemoveSession(session.GameID))

	closed := read(t, conn)
	assert.Equal(t, MsgClosed, closed.Type)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

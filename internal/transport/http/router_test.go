package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lfriedrich2/4gewinnt/internal/config"
	"github.com/lfriedrich2/4gewinnt/internal/domain"
	"github.com/lfriedrich2/4gewinnt/internal/repository/memory"
	"github.com/lfriedrich2/4gewinnt/internal/repository/redis"
	"github.com/lfriedrich2/4gewinnt/internal/service/game"
	"github.com/lfriedrich2/4gewinnt/internal/service/profile"
	"github.com/lfriedrich2/4gewinnt/pkg/auth"
	"github.com/lfriedrich2/4gewinnt/pkg/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router   *gin.Engine
	sessions *game.SessionManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>4 gewinnt</html>"), 0o644))

	cfg := &config.Config{
		FrontendURL:    "http://localhost:8080",
		AllowedOrigins: []string{"http://localhost:8080"},
		StaticDir:      static,
	}
	sessions := game.NewSessionManager()
	profiles := profile.NewService(redis.NewMemoryStore(), time.Hour)
	games := game.NewService(sessions, memory.NewGameRepo(), profiles)

	router := NewRouter(RouterDeps{
		Config:   cfg,
		Tokens:   auth.NewTokenIssuer("test-secret", time.Hour),
		Games:    games,
		Profiles: profiles,
	})
	return &testEnv{router: router, sessions: sessions}
}

// browser keeps the profile cookie between requests.
type browser struct {
	env    *testEnv
	cookie *http.Cookie
}

func (b *browser) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	w := httptest.NewRecorder()
	b.env.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == httputil.ProfileCookieName {
			b.cookie = c
		}
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type moveBody struct {
	Accepted    bool              `json:"accepted"`
	Row         int               `json:"row"`
	Column      int               `json:"column"`
	Phase       domain.GameStatus `json:"phase"`
	Winner      domain.PlayerID   `json:"winner"`
	WinningLine []domain.Position `json:"winningLine"`
	Reason      string            `json:"reason"`
	Cue         game.Cue          `json:"cue"`
	State       game.Snapshot     `json:"state"`
}

func createGame(t *testing.T, b *browser) game.Snapshot {
	t.Helper()
	w := b.do(t, http.MethodPost, "/api/games", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[game.Snapshot](t, w)
}

func move(t *testing.T, b *browser, gameID string, column int) (*httptest.ResponseRecorder, moveBody) {
	t.Helper()
	w := b.do(t, http.MethodPost, "/api/games/"+gameID+"/moves", gin.H{"column": column})
	return w, decode[moveBody](t, w)
}

func TestCreateAndPlayGame(t *testing.T) {
	env := newTestEnv(t)
	b := &browser{env: env}

	snap := createGame(t, b)
	require.NotNil(t, b.cookie, "a profile cookie is issued on the first request")
	assert.Equal(t, profile.DefaultPlayer1Name, snap.Player1Name)
	assert.Equal(t, profile.DefaultPlayer2Name, snap.Player2Name)
	assert.Equal(t, domain.StatusActive, snap.Status)
	assert.Len(t, snap.ValidColumns, domain.Columns)

	w, res := move(t, b, snap.GameID, 3)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, res.Accepted)
	assert.Equal(t, 5, res.Row)
	assert.Equal(t, domain.StatusActive, res.Phase)
	assert.Equal(t, game.CueDrop, res.Cue)
	assert.Equal(t, domain.Player2, res.State.CurrentPlayer)

	w = b.do(t, http.MethodPost, "/api/games/"+snap.GameID+"/moves", gin.H{"key": "4"})
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[moveBody](t, w)
	assert.Equal(t, 4, res.Row)
	assert.Equal(t, 3, res.Column)

	w = b.do(t, http.MethodPost, "/api/games/"+snap.GameID+"/moves", gin.H{"key": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = b.do(t, http.MethodGet, "/api/games/"+snap.GameID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[game.Snapshot](t, w).MoveCount)

	w = b.do(t, http.MethodGet, "/api/games", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]game.Snapshot](t, w), 1)
}

func TestRejectedMoves(t *testing.T) {
	env := newTestEnv(t)
	b := &browser{env: env}
	snap := createGame(t, b)

	w, res := move(t, b, snap.GameID, domain.Columns)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, res.Accepted)
	assert.Equal(t, "invalid_column", res.Reason)
	assert.Equal(t, game.CueError, res.Cue)
	assert.Zero(t, res.State.MoveCount)

	for i := 0; i < domain.Rows; i++ {
		w, _ = move(t, b, snap.GameID, 0)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, res = move(t, b, snap.GameID, 0)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "column_full", res.Reason)
	assert.Equal(t, domain.Rows, res.State.MoveCount)

	w = b.do(t, http.MethodPost, "/api/games/"+snap.GameID+"/moves", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWinUpdatesHistoryScoresAndStats(t *testing.T) {
	env := newTestEnv(t)
	b := &browser{env: env}
	snap := createGame(t, b)

	var w *httptest.ResponseRecorder
	var res moveBody
	for _, col := range []int{0, 0, 1, 1, 2, 2, 3} {
		w, res = move(t, b, snap.GameID, col)
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, domain.StatusWon, res.Phase)
	assert.Equal(t, domain.Player1, res.Winner)
	assert.Equal(t, game.CueWin, res.Cue)
	assert.Len(t, res.WinningLine, domain.ToWin)
	assert.Equal(t, profile.DefaultPlayer1Name, res.State.WinnerName)

	w, res = move(t, b, snap.GameID, 4)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "game_over", res.Reason)

	env.sessions.Wait()

	w = b.do(t, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[[]domain.GameRecord](t, w)
	require.Len(t, history, 1)
	assert.Equal(t, domain.Player1, history[0].Winner)
	assert.Equal(t, 7, history[0].TotalMoves)

	w = b.do(t, http.MethodGet, "/api/history/"+history[0].GameID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.ReasonConnectFour, decode[domain.GameRecord](t, w).Reason)

	w = b.do(t, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[profile.Stats](t, w)
	assert.Equal(t, 1, stats.GamesPlayed)
	assert.Equal(t, 1, stats.Wins.Player1)

	w = b.do(t, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[profile.Settings](t, w).Player1.Score)

	w = b.do(t, http.MethodDelete, "/api/scores", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode[profile.Settings](t, w).Player1.Score)

	w = b.do(t, http.MethodPost, "/api/games/"+snap.GameID+"/new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fresh := decode[game.Snapshot](t, w)
	assert.Equal(t, domain.StatusActive, fresh.Status)
	assert.Zero(t, fresh.MoveCount)
}

func TestGamesArePrivateToTheirProfile(t *testing.T) {
	env := newTestEnv(t)
	owner := &browser{env: env}
	stranger := &browser{env: env}
	snap := createGame(t, owner)

	w := stranger.do(t, http.MethodGet, "/api/games/"+snap.GameID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = stranger.do(t, http.MethodPost, "/api/games/"+snap.GameID+"/moves", gin.H{"column": 0})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = stranger.do(t, http.MethodDelete, "/api/games/"+snap.GameID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = owner.do(t, http.MethodDelete, "/api/games/"+snap.GameID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = owner.do(t, http.MethodGet, "/api/games/"+snap.GameID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateSettingsRenamesLiveGames(t *testing.T) {
	env := newTestEnv(t)
	b := &browser{env: env}
	snap := createGame(t, b)

	w := b.do(t, http.MethodPut, "/api/settings", gin.H{"player1Name": "  Anna ", "soundEffects": false})
	require.Equal(t, http.StatusOK, w.Code)
	settings := decode[profile.Settings](t, w)
	assert.Equal(t, "Anna", settings.Player1.Name)
	assert.Equal(t, profile.DefaultPlayer2Name, settings.Player2.Name)
	assert.False(t, settings.SoundEffects)
	assert.True(t, settings.Animations)

	w = b.do(t, http.MethodGet, "/api/games/"+snap.GameID, nil)
	assert.Equal(t, "Anna", decode[game.Snapshot](t, w).Player1Name)

	w = b.do(t, http.MethodPost, "/api/games", gin.H{"player2": "Ben"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[game.Snapshot](t, w)
	assert.Equal(t, "Anna", created.Player1Name)
	assert.Equal(t, "Ben", created.Player2Name)
}

func TestPublicRoutes(t *testing.T) {
	env := newTestEnv(t)
	b := &browser{env: env}

	w := b.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = b.do(t, http.MethodGet, "/api/sounds", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tones := decode[map[game.Cue]game.Tone](t, w)
	assert.Equal(t, 220.0, tones[game.CueDrop].Frequency)
	assert.Equal(t, "square", tones[game.CueWin].Waveform)

	w = b.do(t, http.MethodGet, "/some/client/route", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "4 gewinnt")

	w = b.do(t, http.MethodGet, "/missing.js", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = b.do(t, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Nil(t, b.cookie, "public routes do not issue profiles")
}

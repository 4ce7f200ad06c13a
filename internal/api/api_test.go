package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/arcane-clash/internal/artwork"
	"github.com/ericogr/arcane-clash/internal/catalog"
	"github.com/ericogr/arcane-clash/internal/game"
	"github.com/ericogr/arcane-clash/internal/hub"
	"github.com/ericogr/arcane-clash/internal/service"
	"github.com/ericogr/arcane-clash/internal/session"
	"github.com/ericogr/arcane-clash/internal/storage"
)

type fakeAssets map[string][]byte

func (f fakeAssets) Image(name string) ([]byte, error) {
	if b, ok := f[name]; ok {
		return b, nil
	}
	return nil, storage.ErrNotFound
}

type fakeLeaderboard struct {
	limit int
	err   error
}

func (f *fakeLeaderboard) GetTopPlayers(limit int) ([]storage.PlayerStats, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return []storage.PlayerStats{{PlayerName: "Ana", GamesPlayed: 3, Wins: 2}}, nil
}

type env struct {
	router *gin.Engine
	hub    *hub.Hub
	board  *fakeLeaderboard
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := hub.New()
	svc, err := service.New(service.Deps{
		Catalog: catalog.NewStatic([]game.Template{
			{Title: "Brute", CardType: game.CardTypeMonster, Melee: 50, HP: 10, Copies: 20},
			{Title: "Mend", CardType: game.CardTypeSpell, Effect: &game.SpellEffect{Type: game.EffectHeal, Value: 5}},
		}),
		Sessions: session.NewMemoryStore(),
		Art:      artwork.New(nil, nil, nil, time.Second),
		Publish:  h,
		Rand:     rand.New(rand.NewSource(11)),
		Schedule: func(_ time.Duration, f func()) { f() },
		Go:       func(f func()) { f() },
	}, service.Options{})
	require.NoError(t, err)
	signer, err := NewSeatSigner("test-secret", time.Hour)
	require.NoError(t, err)
	board := &fakeLeaderboard{}
	handler := NewGameHandler(HandlerDeps{
		Games:       svc,
		Catalog:     catalog.NewStatic([]game.Template{{Title: "Brute", CardType: game.CardTypeMonster, Melee: 50, HP: 10}}),
		Assets:      fakeAssets{"brute.png": []byte("PNG")},
		Leaderboard: board,
		Stream:      h,
		Seats:       signer,
	})
	return &env{router: NewRouter(handler), hub: h, board: board}
}

func (e *env) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-Seat-Token", token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) createGame(t *testing.T) CreateGameResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/games", CreateGamePayload{Player1Name: "Ana", Player2Name: "Bo"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp CreateGameResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (e *env) getGame(t *testing.T, id string) *game.State {
	t.Helper()
	w := e.do(t, http.MethodGet, "/api/games/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var st game.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	return &st
}

func firstMonster(st *game.State, idx int) string {
	for _, c := range st.Players[idx].Hand {
		if c.IsMonster() {
			return c.ID
		}
	}
	return ""
}

func TestCreateAndPlayRound(t *testing.T) {
	e := newEnv(t)
	created := e.createGame(t)
	require.NotNil(t, created.Game)
	gameID := created.Game.ID
	assert.Equal(t, created.Game.Players[0].ID, created.Seats[0].PlayerID)
	assert.NotEmpty(t, created.Seats[1].Token)

	st := e.getGame(t, gameID)
	assert.Equal(t, game.PhasePlayer1Select, st.Phase)
	for _, lc := range st.AllCards() {
		assert.True(t, lc.Card.ArtFallback)
		assert.True(t, strings.HasPrefix(lc.Card.ImageRef, "https://placehold.co/"))
	}

	path := "/api/games/" + gameID + "/intents"
	w := e.do(t, http.MethodPost, path, IntentPayload{Type: "select_card", CardID: firstMonster(st, 0)}, created.Seats[0].Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Seat 0 cannot act for seat 1.
	one := 1
	w = e.do(t, http.MethodPost, path, IntentPayload{Type: "select_card", PlayerIndex: &one, CardID: firstMonster(st, 1)}, created.Seats[0].Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodPost, path, IntentPayload{Type: "select_card", CardID: firstMonster(st, 1)}, created.Seats[1].Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	st = e.getGame(t, gameID)
	assert.Equal(t, 50, st.Players[0].HP)
	assert.Equal(t, 50, st.Players[1].HP)
	assert.Equal(t, 1, st.CurrentPlayerIndex)
}

func TestIntentErrors(t *testing.T) {
	e := newEnv(t)
	created := e.createGame(t)
	gameID := created.Game.ID
	path := "/api/games/" + gameID + "/intents"
	st := e.getGame(t, gameID)

	w := e.do(t, http.MethodPost, path, IntentPayload{Type: "select_card", CardID: firstMonster(st, 0)}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodPost, path, IntentPayload{Type: "select_card"}, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other := e.createGame(t)
	w = e.do(t, http.MethodPost, path, IntentPayload{Type: "select_card", CardID: firstMonster(st, 0)}, other.Seats[0].Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodPost, path, IntentPayload{Type: "resolve_combat"}, created.Seats[0].Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodPost, path, IntentPayload{Type: "select_card", CardID: firstMonster(st, 1)}, created.Seats[1].Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodPost, path, IntentPayload{Type: "dance"}, created.Seats[0].Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, path, IntentPayload{Type: "attack"}, created.Seats[0].Token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(t, http.MethodPost, path, map[string]string{}, created.Seats[0].Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateGameValidation(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodPost, "/api/games", CreateGamePayload{Player1Name: strings.Repeat("a", 40)}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/api/games", CreateGamePayload{Flow: "sideways"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/api/games", nil, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = e.do(t, http.MethodGet, "/api/games/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRestart(t *testing.T) {
	e := newEnv(t)
	created := e.createGame(t)
	w := e.do(t, http.MethodPost, "/api/games/"+created.Game.ID+"/restart", nil, created.Seats[1].Token)
	require.Equal(t, http.StatusOK, w.Code)
	var st game.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, 2, st.Generation)

	w = e.do(t, http.MethodPost, "/api/games/"+created.Game.ID+"/restart", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListCards(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodGet, "/api/cards?type=monster", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var templates []game.Template
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &templates))
	require.Len(t, templates, 1)
	assert.Equal(t, "Brute", templates[0].Title)

	w = e.do(t, http.MethodGet, "/api/cards?type=Spell", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = e.do(t, http.MethodGet, "/api/cards?type=trap", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/api/cards", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServeCardAsset(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodGet, "/api/assets/cards/brute.png", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "PNG", w.Body.String())

	w = e.do(t, http.MethodGet, "/api/assets/cards/ghost.png", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeaderboardAndVersion(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodGet, "/api/leaderboard?limit=3", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, e.board.limit)
	assert.Contains(t, w.Body.String(), `"player_name":"Ana"`)

	e.do(t, http.MethodGet, "/api/leaderboard?limit=5000", nil, "")
	assert.Equal(t, 10, e.board.limit)

	e.board.err = errors.New("db down")
	w = e.do(t, http.MethodGet, "/api/leaderboard", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = e.do(t, http.MethodGet, "/api/version", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version"`)

	w = e.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStreamPushesCommittedStates(t *testing.T) {
	e := newEnv(t)
	created := e.createGame(t)
	srv := httptest.NewServer(e.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/games/" + created.Game.ID + "/stream?token=" + created.Seats[0].Token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg hub.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, game.PhasePlayer1Select, msg.Data.Phase)

	require.Eventually(t, func() bool { return e.hub.Subscribers(created.Game.ID) == 1 }, time.Second, 10*time.Millisecond)
	st := e.getGame(t, created.Game.ID)
	w := e.do(t, http.MethodPost, "/api/games/"+created.Game.ID+"/intents", IntentPayload{Type: "select_card", CardID: firstMonster(st, 0)}, created.Seats[0].Token)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, game.PhasePlayer2Select, msg.Data.Phase)

	_, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/games/"+created.Game.ID+"/stream", nil)
	assert.Error(t, err)
}

package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/arcane-clash/internal/constants"
	"github.com/ericogr/arcane-clash/internal/engine"
	"github.com/ericogr/arcane-clash/internal/game"
	"github.com/ericogr/arcane-clash/internal/logging"
	"github.com/ericogr/arcane-clash/internal/service"
)

type CreateGamePayload struct {
	Player1Name string `json:"player1_name"`
	Player2Name string `json:"player2_name"`
	Flow        string `json:"flow"`
}

// SeatGrant hands one seat token to the client controlling that seat.
type SeatGrant struct {
	PlayerIndex int    `json:"player_index"`
	PlayerID    string `json:"player_id"`
	Token       string `json:"token"`
}

type CreateGameResponse struct {
	Game  *game.State  `json:"game"`
	Seats [2]SeatGrant `json:"seats"`
}

// IntentPayload is a player intent. player_index is optional; when present
// it must match the seat token.
type IntentPayload struct {
	Type        string   `json:"type" binding:"required"`
	PlayerIndex *int     `json:"player_index"`
	CardID      string   `json:"card_id"`
	CardIDs     []string `json:"card_ids"`
	Generation  int      `json:"generation"`
}

func gameIDParam(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param(constants.ParamGameID))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidGameID})
		return "", false
	}
	return id, true
}

// CreateGame deals a new game and returns one seat token per player.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req CreateGamePayload
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
	}
	st, err := h.games.CreateGame(c.Request.Context(), service.CreateGameRequest{
		Player1Name: req.Player1Name,
		Player2Name: req.Player2Name,
		Flow:        game.Flow(strings.ToLower(strings.TrimSpace(req.Flow))),
	})
	if err != nil {
		respondError(c, err, constants.ErrFailedCreateGame, nil)
		return
	}
	resp := CreateGameResponse{Game: st}
	for i := range resp.Seats {
		token, err := h.seats.Issue(st.ID, i)
		if err != nil {
			logging.Error(constants.ErrFailedCreateGame, err, logging.Fields{constants.LogFieldGameID: st.ID})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateGame})
			return
		}
		resp.Seats[i] = SeatGrant{PlayerIndex: i, PlayerID: st.Players[i].ID, Token: token}
	}
	c.JSON(http.StatusCreated, resp)
}

// GetGame returns the latest snapshot.
func (h *GameHandler) GetGame(c *gin.Context) {
	id, ok := gameIDParam(c)
	if !ok {
		return
	}
	st, err := h.games.GetGame(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, constants.ErrGameNotFound, logging.Fields{constants.LogFieldGameID: id})
		return
	}
	c.Header(constants.CacheControlHeader, constants.CacheControlNoCache)
	c.JSON(http.StatusOK, st)
}

// SubmitIntent applies a player intent for the seat of the token.
func (h *GameHandler) SubmitIntent(c *gin.Context) {
	id, ok := gameIDParam(c)
	if !ok {
		return
	}
	seat, ok := seatFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	var req IntentPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.PlayerIndex != nil && *req.PlayerIndex != seat {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrSeatMismatch})
		return
	}
	in := engine.Intent{
		Type:        engine.IntentType(req.Type),
		PlayerIndex: seat,
		CardID:      req.CardID,
		CardIDs:     req.CardIDs,
		Generation:  req.Generation,
	}
	st, err := h.games.Submit(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err, constants.ErrFailedApplyIntent, logging.Fields{
			constants.LogFieldGameID:    id,
			constants.LogFieldIntent:    req.Type,
			constants.LogFieldPlayerIdx: seat,
		})
		return
	}
	c.JSON(http.StatusOK, st)
}

// RestartGame deals a fresh game for the same seats.
func (h *GameHandler) RestartGame(c *gin.Context) {
	id, ok := gameIDParam(c)
	if !ok {
		return
	}
	st, err := h.games.Restart(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, constants.ErrFailedRestartGame, logging.Fields{constants.LogFieldGameID: id})
		return
	}
	c.JSON(http.StatusOK, st)
}

// StreamGame upgrades to a websocket that receives every committed
// snapshot.
func (h *GameHandler) StreamGame(c *gin.Context) {
	id, ok := gameIDParam(c)
	if !ok {
		return
	}
	if h.stream == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{constants.JSONKeyError: constants.ErrStreamUnavailable})
		return
	}
	st, err := h.games.GetGame(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, constants.ErrGameNotFound, logging.Fields{constants.LogFieldGameID: id})
		return
	}
	if err := h.stream.Serve(c.Writer, c.Request, st); err != nil {
		// The upgrader already wrote the error response.
		logging.Warn("stream upgrade failed", err, logging.Fields{constants.LogFieldGameID: id})
	}
}

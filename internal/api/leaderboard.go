package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/arcane-clash/internal/constants"
	"github.com/ericogr/arcane-clash/internal/logging"
	"github.com/ericogr/arcane-clash/internal/storage"
)

// ListLeaderboard returns the top players by wins (desc), limited to top 10
// by default.
func (h *GameHandler) ListLeaderboard(c *gin.Context) {
	if h.leaderboard == nil {
		c.JSON(http.StatusOK, []storage.PlayerStats{})
		return
	}
	limit := constants.DefaultLeaderboardLimit
	if s := c.Query(constants.QueryLimit); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	players, err := h.leaderboard.GetTopPlayers(limit)
	if err != nil {
		logging.Error(constants.ErrFailedFetchLeaderboard, err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	if players == nil {
		players = []storage.PlayerStats{}
	}
	c.JSON(http.StatusOK, players)
}

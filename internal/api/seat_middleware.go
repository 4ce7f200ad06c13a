package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/arcane-clash/internal/constants"
)

const ctxSeatIndex = "seatIndex"

func seatToken(c *gin.Context) string {
	if t := strings.TrimSpace(c.GetHeader(constants.HeaderSeatToken)); t != "" {
		return t
	}
	if t := strings.TrimSpace(c.GetHeader(constants.HeaderAuthorization)); strings.HasPrefix(t, constants.BearerPrefix) {
		return strings.TrimPrefix(t, constants.BearerPrefix)
	}
	// Browsers cannot set headers on websocket upgrades.
	return c.Query(constants.QuerySeatToken)
}

// SeatRequired validates the seat token against the :gameID path parameter
// and injects the seat index into the context.
func SeatRequired(signer *SeatSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := seatToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		claims, err := signer.Verify(token)
		if err != nil || claims.Game != c.Param(constants.ParamGameID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSeatToken})
			return
		}
		c.Set(ctxSeatIndex, claims.Seat)
		c.Next()
	}
}

func seatFromContext(c *gin.Context) (int, bool) {
	v, ok := c.Get(ctxSeatIndex)
	if !ok {
		return 0, false
	}
	seat, ok := v.(int)
	return seat, ok
}

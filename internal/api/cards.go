package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/arcane-clash/internal/catalog"
	"github.com/ericogr/arcane-clash/internal/constants"
	"github.com/ericogr/arcane-clash/internal/game"
	"github.com/ericogr/arcane-clash/internal/logging"
)

// ListCards returns catalog templates, optionally filtered by ?type=.
func (h *GameHandler) ListCards(c *gin.Context) {
	var (
		templates []game.Template
		err       error
	)
	if raw := c.Query(constants.QueryCardType); raw != "" {
		t, ok := game.ParseCardType(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidCardType})
			return
		}
		templates, err = h.catalog.FetchByType(c.Request.Context(), t)
	} else {
		templates, err = catalog.FetchAll(c.Request.Context(), h.catalog)
	}
	if err != nil {
		logging.Error(constants.ErrFailedFetchCards, err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCards})
		return
	}
	if templates == nil {
		templates = []game.Template{}
	}
	c.JSON(http.StatusOK, templates)
}

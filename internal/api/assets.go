package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/arcane-clash/internal/constants"
)

// ServeCardAsset serves generated card images from the asset cache. URL
// format: /api/assets/cards/<card key>.png
func (h *GameHandler) ServeCardAsset(c *gin.Context) {
	file := strings.TrimPrefix(c.Param(constants.ParamFile), "/")
	if file == "" || h.assets == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrAssetNotFound})
		return
	}
	img, err := h.assets.Image(file)
	if err != nil || len(img) == 0 {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrAssetNotFound})
		return
	}
	c.Header(constants.CacheControlHeader, constants.CacheControlAssets)
	c.Data(http.StatusOK, constants.ContentTypePNG, img)
}

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ericogr/arcane-clash/internal/constants"
)

// NewRouter registers every route on a fresh gin engine.
func NewRouter(h *GameHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.GET(constants.RouteHealth, Health)

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteCards, h.ListCards)
		apiRoutes.GET(constants.RouteAssetsCards+"/*"+constants.ParamFile, h.ServeCardAsset)
		apiRoutes.GET(constants.RouteLeaderboard, h.ListLeaderboard)
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.POST(constants.RouteGames, h.CreateGame)
		apiRoutes.GET(constants.RouteGameByID, h.GetGame)

		// Seat endpoints
		seated := apiRoutes.Group("")
		seated.Use(SeatRequired(h.seats))
		seated.POST(constants.RouteGameIntents, h.SubmitIntent)
		seated.POST(constants.RouteGameRestart, h.RestartGame)
		seated.GET(constants.RouteGameStream, h.StreamGame)
	}
	return router
}

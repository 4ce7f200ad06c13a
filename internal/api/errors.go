package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/arcane-clash/internal/constants"
	"github.com/ericogr/arcane-clash/internal/engine"
	"github.com/ericogr/arcane-clash/internal/game"
	"github.com/ericogr/arcane-clash/internal/logging"
	"github.com/ericogr/arcane-clash/internal/service"
)

// statusFor maps domain errors to an HTTP status and a stable message.
func statusFor(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return http.StatusNotFound, constants.ErrGameNotFound
	case errors.Is(err, service.ErrSystemIntent):
		return http.StatusForbidden, constants.ErrSystemIntent
	case errors.Is(err, service.ErrPlayerNameTooLong):
		return http.StatusBadRequest, constants.ErrPlayerNameExceeds
	case errors.Is(err, service.ErrInvalidGameOptions),
		errors.Is(err, engine.ErrUnknownIntent),
		errors.Is(err, engine.ErrInvalidPlayer),
		errors.Is(err, engine.ErrCardNotFound):
		return http.StatusBadRequest, constants.ErrInvalidRequest
	case errors.Is(err, service.ErrCannotStartGame), errors.Is(err, game.ErrCatalog):
		return http.StatusUnprocessableEntity, constants.ErrCannotStartGame
	case errors.Is(err, engine.ErrNotYourTurn):
		return http.StatusForbidden, constants.ErrNotYourTurn
	case errors.Is(err, engine.ErrGameOver):
		return http.StatusConflict, constants.ErrGameOver
	case errors.Is(err, engine.ErrIntentNotAllowed),
		errors.Is(err, engine.ErrIneligibleCard),
		errors.Is(err, engine.ErrSpellLimit),
		errors.Is(err, engine.ErrStaleGeneration),
		errors.Is(err, game.ErrCombatPrecondition):
		return http.StatusConflict, constants.ErrIntentRejected
	}
	return http.StatusInternalServerError, fallback
}

// respondError writes the mapped error. Client errors carry the underlying
// reason in details.
func respondError(c *gin.Context, err error, fallback string, fields logging.Fields) {
	status, msg := statusFor(err, fallback)
	if status >= http.StatusInternalServerError {
		logging.Error(fallback, err, fields)
		c.JSON(status, gin.H{constants.JSONKeyError: msg})
		return
	}
	c.JSON(status, gin.H{constants.JSONKeyError: msg, constants.JSONKeyDetails: err.Error()})
}

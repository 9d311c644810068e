package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/constants"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/logging"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/service"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/storage"
)

// serviceError translates service sentinels into HTTP statuses. Anything
// unmapped reached the persistence layer and failed there, so it surfaces as
// a retryable 503; the real error goes to the log, not the client.
func serviceError(c *gin.Context, err error) {
	switch err {
	case service.ErrRoomNotFound, service.ErrChallengeNotFound, storage.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: err.Error()})
	case service.ErrNotParticipant:
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: err.Error()})
	case service.ErrInvalidAction, service.ErrSelfChallenge:
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
	case service.ErrNotYourTurn, service.ErrRoomNotActive, service.ErrRoomTerminal,
		service.ErrChallengeResolved, storage.ErrVersionConflict:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: err.Error()})
	default:
		logging.Error("unhandled service error", err, logging.Fields{"path": c.FullPath()})
		c.JSON(http.StatusServiceUnavailable, gin.H{constants.JSONKeyError: constants.ErrMsgUnavailable})
	}
}

// intQuery parses a required non-negative integer query parameter.
func intQuery(c *gin.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n < 0 {
		return 0, service.ErrInvalidAction
	}
	return n, nil
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/constants"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/service"
)

// AnnouncePresence registers or refreshes the caller in the matchmaking pool.
func (h *BattleHandler) AnnouncePresence(c *gin.Context) {
	var req service.PresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMsgInvalidBody})
		return
	}
	p, err := service.AnnouncePresence(h.repo, h.repo, h.tiers, playerID(c), req, h.presenceTTL)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// WithdrawPresence removes the caller from the matchmaking pool.
func (h *BattleHandler) WithdrawPresence(c *gin.Context) {
	if err := service.WithdrawPresence(h.repo, playerID(c)); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FindOpponent runs the pairing search for the caller. 404 means the pool has
// nobody suitable right now; clients typically fall back to a bot match.
func (h *BattleHandler) FindOpponent(c *gin.Context) {
	level, err := intQuery(c, "level")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMsgInvalidBody})
		return
	}
	opponent, err := service.FindOpponent(h.repo, h.tiers, playerID(c), level)
	if err != nil {
		serviceError(c, err)
		return
	}
	if opponent == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyMessage: "no opponent available"})
		return
	}
	c.JSON(http.StatusOK, opponent)
}

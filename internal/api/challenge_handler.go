package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/constants"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/service"
)

type createChallengeRequest struct {
	ChallengedID string           `json:"challenged_id"`
	Sheet        game.AvatarSheet `json:"sheet"`
}

// CreateChallenge opens a pending challenge from the caller to another user.
func (h *BattleHandler) CreateChallenge(c *gin.Context) {
	var req createChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMsgInvalidBody})
		return
	}
	ch, err := service.CreateChallenge(h.repo, playerID(c), req.ChallengedID, req.Sheet, h.challengeTTL)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

// GetChallenge returns a challenge visible to its two parties only.
func (h *BattleHandler) GetChallenge(c *gin.Context) {
	ch, err := h.repo.GetChallengeByID(c.Param("challengeID"))
	if err != nil {
		serviceError(c, service.ErrChallengeNotFound)
		return
	}
	id := playerID(c)
	if ch.ChallengerID != id && ch.ChallengedID != id {
		serviceError(c, service.ErrNotParticipant)
		return
	}
	c.JSON(http.StatusOK, ch)
}

type acceptChallengeRequest struct {
	Sheet game.AvatarSheet `json:"sheet"`
}

// AcceptChallenge resolves a pending challenge and returns the created room.
func (h *BattleHandler) AcceptChallenge(c *gin.Context) {
	var req acceptChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMsgInvalidBody})
		return
	}
	room, err := service.AcceptChallenge(h.repo, c.Param("challengeID"), playerID(c), req.Sheet)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewFor(room, 2, 0))
}

// DeclineChallenge rejects a pending challenge.
func (h *BattleHandler) DeclineChallenge(c *gin.Context) {
	if err := service.DeclineChallenge(h.repo, c.Param("challengeID"), playerID(c)); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: string(game.ChallengeRejected)})
}

// CancelChallenge withdraws a pending challenge the caller created.
func (h *BattleHandler) CancelChallenge(c *gin.Context) {
	if err := service.CancelChallenge(h.repo, c.Param("challengeID"), playerID(c)); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: string(game.ChallengeCancelled)})
}

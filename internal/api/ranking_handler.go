package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/constants"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ranking"
)

// GetMyRanking returns the caller's live season record with its tier. The
// read rolls the caller over to the current season if their record is stale.
func (h *BattleHandler) GetMyRanking(c *gin.Context) {
	entry, err := ranking.EnsureCurrentSeason(h.repo, h.tiers, playerID(c), time.Now())
	if err != nil {
		serviceError(c, err)
		return
	}
	tier := h.tiers.TierOf(entry.Fame)
	c.JSON(http.StatusOK, gin.H{
		"entry":           entry,
		"tier":            tier.Name,
		"tier_multiplier": tier.Multiplier,
	})
}

type applyRankingRequest struct {
	WinnerID string `json:"winner_id"`
	LoserID  string `json:"loser_id"`
}

// ApplyRankingResult is the manual fame-application path for tooling and
// support. Normal battles apply fame through finalize; this endpoint exists
// for corrections and backfills.
func (h *BattleHandler) ApplyRankingResult(c *gin.Context) {
	var req applyRankingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.WinnerID == "" || req.LoserID == "" || req.WinnerID == req.LoserID {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMsgInvalidBody})
		return
	}
	out, err := ranking.ApplyResult(h.repo, h.tiers, req.WinnerID, req.LoserID, time.Now())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"winner_gain": out.WinnerGain, "loser_loss": out.LoserLoss})
}

// GetSeasonArchives returns the caller's closed-season history, newest first.
func (h *BattleHandler) GetSeasonArchives(c *gin.Context) {
	archives, err := h.repo.ListSeasonArchives(playerID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, archives)
}

// ListLeaderboard returns the current season's top entries by fame.
func (h *BattleHandler) ListLeaderboard(c *gin.Context) {
	limit := 10
	if s := c.Query("limit"); s != "" {
		n, err := intQuery(c, "limit")
		if err != nil {
			serviceError(c, err)
			return
		}
		limit = n
	}
	season := ranking.SeasonID(time.Now())
	entries, err := h.repo.TopRankings(season, limit)
	if err != nil {
		serviceError(c, err)
		return
	}
	type row struct {
		Rank   int    `json:"rank"`
		UserID string `json:"user_id"`
		Fame   int    `json:"fame"`
		Wins   int    `json:"wins"`
		Losses int    `json:"losses"`
		Tier   string `json:"tier"`
	}
	out := make([]row, 0, len(entries))
	for i, e := range entries {
		out = append(out, row{
			Rank:   i + 1,
			UserID: e.UserID,
			Fame:   e.Fame,
			Wins:   e.Wins,
			Losses: e.Losses,
			Tier:   h.tiers.TierOf(e.Fame).Name,
		})
	}
	c.JSON(http.StatusOK, gin.H{"season": season, "entries": out})
}
